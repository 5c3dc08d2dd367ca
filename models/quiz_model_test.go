package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func validDetails() QuizDetails {
	return QuizDetails{
		Number:  1,
		Title:   "First quiz",
		Date:    time.Date(2020, 3, 1, 10, 0, 0, 0, time.UTC),
		Year:    2020,
		Type:    QuizTypeExam,
		Series:  1,
		Version: "A",
	}
}

func questionList(sequences ...int) []QuizQuestionDetails {
	questions := make([]QuizQuestionDetails, len(sequences))
	for i, seq := range sequences {
		questions[i] = QuizQuestionDetails{QuestionID: uuid.New(), Sequence: seq}
	}
	return questions
}

func questionPool(n int) []Question {
	pool := make([]Question, n)
	for i := range pool {
		pool[i] = Question{ID: uuid.New(), Title: "Q", Content: "?", Status: QuestionStatusActive}
	}
	return pool
}

func TestNewQuiz(t *testing.T) {
	t.Run("valid question sequence", func(t *testing.T) {
		details := validDetails()
		details.Questions = questionList(1, 2, 3)

		quiz, err := NewQuiz(details)
		require.NoError(t, err)
		require.Len(t, quiz.QuizQuestions, 3)
		for i, quizQuestion := range quiz.QuizQuestions {
			require.Equal(t, i+1, quizQuestion.Sequence)
			require.Equal(t, details.Questions[i].QuestionID, quizQuestion.QuestionID)
		}
	})

	t.Run("empty question list is valid", func(t *testing.T) {
		quiz, err := NewQuiz(validDetails())
		require.NoError(t, err)
		require.Empty(t, quiz.QuizQuestions)
	})

	t.Run("out of order sequence fails", func(t *testing.T) {
		details := validDetails()
		details.Questions = questionList(1, 3, 2)

		_, err := NewQuiz(details)
		var notConsistent *NotConsistentError
		require.ErrorAs(t, err, &notConsistent)
		require.Equal(t, "sequence of questions not correct", notConsistent.Field)
	})

	t.Run("sequence with gap fails", func(t *testing.T) {
		details := validDetails()
		details.Questions = questionList(1, 2, 4)

		_, err := NewQuiz(details)
		var notConsistent *NotConsistentError
		require.ErrorAs(t, err, &notConsistent)
		require.Equal(t, "sequence of questions not correct", notConsistent.Field)
	})

	t.Run("sequence not starting at 1 fails", func(t *testing.T) {
		details := validDetails()
		details.Questions = questionList(2, 3)

		_, err := NewQuiz(details)
		require.Error(t, err)
	})

	t.Run("blank title fails", func(t *testing.T) {
		details := validDetails()
		details.Title = "   "

		_, err := NewQuiz(details)
		var notConsistent *NotConsistentError
		require.ErrorAs(t, err, &notConsistent)
		require.Equal(t, "Title", notConsistent.Field)
	})

	t.Run("teacher quiz requires available date", func(t *testing.T) {
		details := validDetails()
		details.Type = QuizTypeTeacher
		details.AvailableDate = nil

		_, err := NewQuiz(details)
		var notConsistent *NotConsistentError
		require.ErrorAs(t, err, &notConsistent)
		require.Equal(t, "Available date", notConsistent.Field)

		available := details.Date.Add(24 * time.Hour)
		details.AvailableDate = &available
		quiz, err := NewQuiz(details)
		require.NoError(t, err)
		require.Equal(t, available, *quiz.AvailableDate)
	})

	t.Run("student quiz discards supplied available date", func(t *testing.T) {
		details := validDetails()
		details.Type = QuizTypeStudent
		supplied := details.Date.Add(48 * time.Hour)
		details.AvailableDate = &supplied

		quiz, err := NewQuiz(details)
		require.NoError(t, err)
		require.Equal(t, details.Date, *quiz.AvailableDate)
	})

	t.Run("exam quiz accepts nil available date", func(t *testing.T) {
		details := validDetails()
		details.AvailableDate = nil

		quiz, err := NewQuiz(details)
		require.NoError(t, err)
		require.Nil(t, quiz.AvailableDate)
	})
}

func TestQuiz_SetTitle(t *testing.T) {
	quiz, err := NewQuiz(validDetails())
	require.NoError(t, err)

	for _, bad := range []string{"", " ", "\t\n"} {
		require.Error(t, quiz.SetTitle(bad))
		require.Equal(t, "First quiz", quiz.Title, "failed set must keep the previous title")
	}

	require.NoError(t, quiz.SetTitle("Renamed"))
	require.Equal(t, "Renamed", quiz.Title)
}

func TestQuiz_SetAvailableDate(t *testing.T) {
	quiz, err := NewQuiz(validDetails())
	require.NoError(t, err)

	// non-TEACHER types accept nil
	require.NoError(t, quiz.SetAvailableDate(nil))

	quiz.Type = QuizTypeTeacher
	require.Error(t, quiz.SetAvailableDate(nil))

	date := time.Now()
	require.NoError(t, quiz.SetAvailableDate(&date))
	require.Equal(t, date, *quiz.AvailableDate)
}

func TestQuiz_Generate(t *testing.T) {
	t.Run("selects distinct questions with 0-based positions", func(t *testing.T) {
		pool := questionPool(10)

		quiz := &Quiz{Title: "Generated", Type: QuizTypeTest}
		before := time.Now()
		require.NoError(t, quiz.Generate(5, pool))

		require.Len(t, quiz.QuizQuestions, 5)

		seenQuestions := map[uuid.UUID]bool{}
		seenPositions := map[int]bool{}
		for _, quizQuestion := range quiz.QuizQuestions {
			require.False(t, seenQuestions[quizQuestion.QuestionID], "question repeated")
			seenQuestions[quizQuestion.QuestionID] = true
			seenPositions[quizQuestion.Sequence] = true
		}
		for position := 0; position < 5; position++ {
			require.True(t, seenPositions[position], "missing position %d", position)
		}

		require.Equal(t, QuizTypeStudent, quiz.Type)
		require.False(t, quiz.Date.Before(before))
		require.NotNil(t, quiz.AvailableDate)
		require.Equal(t, quiz.Date, *quiz.AvailableDate)
	})

	t.Run("whole pool", func(t *testing.T) {
		pool := questionPool(5)
		quiz := &Quiz{Title: "Generated"}
		require.NoError(t, quiz.Generate(5, pool))
		require.Len(t, quiz.QuizQuestions, 5)
	})

	t.Run("zero size", func(t *testing.T) {
		quiz := &Quiz{Title: "Generated"}
		require.NoError(t, quiz.Generate(0, questionPool(3)))
		require.Empty(t, quiz.QuizQuestions)
		require.Equal(t, QuizTypeStudent, quiz.Type)
	})

	t.Run("pool smaller than size fails fast", func(t *testing.T) {
		quiz := &Quiz{Title: "Generated"}
		err := quiz.Generate(6, questionPool(5))
		var notEnough *NotEnoughQuestionsError
		require.ErrorAs(t, err, &notEnough)
		require.Equal(t, 5, notEnough.Available)
		require.Equal(t, 6, notEnough.Requested)
	})

	t.Run("selection is uniform across the pool", func(t *testing.T) {
		pool := questionPool(10)
		counts := make(map[uuid.UUID]int, len(pool))

		const runs = 1000
		for run := 0; run < runs; run++ {
			quiz := &Quiz{Title: "Generated"}
			require.NoError(t, quiz.Generate(5, pool))
			for _, quizQuestion := range quiz.QuizQuestions {
				counts[quizQuestion.QuestionID]++
			}
		}

		// each question is expected in half the runs; a heavy systematic bias
		// toward any index would push a count far outside this band
		for _, question := range pool {
			count := counts[question.ID]
			require.Greater(t, count, 350, "question drawn suspiciously rarely")
			require.Less(t, count, 650, "question drawn suspiciously often")
		}
	})
}

func TestQuiz_CheckCanRemove(t *testing.T) {
	newQuizWithQuestions := func(t *testing.T, n int) *Quiz {
		details := validDetails()
		sequences := make([]int, n)
		for i := range sequences {
			sequences[i] = i + 1
		}
		details.Questions = questionList(sequences...)
		quiz, err := NewQuiz(details)
		require.NoError(t, err)
		return quiz
	}

	t.Run("no answers, removable associations", func(t *testing.T) {
		quiz := newQuizWithQuestions(t, 3)
		require.NoError(t, quiz.CheckCanRemove())
	})

	t.Run("answers block removal with exact count", func(t *testing.T) {
		quiz := newQuizWithQuestions(t, 2)
		quiz.AddQuizAnswer(&QuizAnswer{UserID: uuid.New()})
		quiz.AddQuizAnswer(&QuizAnswer{UserID: uuid.New()})

		err := quiz.CheckCanRemove()
		var hasAnswers *HasAnswersError
		require.ErrorAs(t, err, &hasAnswers)
		require.Equal(t, 2, hasAnswers.Count)
	})

	t.Run("answered association blocks removal", func(t *testing.T) {
		quiz := newQuizWithQuestions(t, 2)
		quiz.QuizQuestions[1].QuestionAnswers = []*QuestionAnswer{{}}

		err := quiz.CheckCanRemove()
		var answered *QuestionAnsweredError
		require.ErrorAs(t, err, &answered)
		require.Equal(t, 1, answered.Count)
	})
}

func TestQuiz_Remove(t *testing.T) {
	details := validDetails()
	details.Questions = questionList(1, 2, 3, 4)
	quiz, err := NewQuiz(details)
	require.NoError(t, err)

	quiz.ID = uuid.New()
	for _, quizQuestion := range quiz.QuizQuestions {
		quizQuestion.QuizID = quiz.ID
		quizQuestion.Quiz = quiz
	}

	detached := quiz.QuizQuestions
	quiz.Remove()

	require.Empty(t, quiz.QuizQuestions)
	require.Len(t, detached, 4)
	for _, quizQuestion := range detached {
		require.Nil(t, quizQuestion.Quiz)
		require.Equal(t, uuid.Nil, quizQuestion.QuizID)
	}
}
