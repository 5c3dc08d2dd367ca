package models

import "fmt"

// NotConsistentError reports a quiz field that failed a consistency check.
type NotConsistentError struct {
	Field string
}

func (e *NotConsistentError) Error() string {
	return fmt.Sprintf("quiz not consistent: %s", e.Field)
}

// HasAnswersError blocks removal of a quiz that already has recorded answers.
type HasAnswersError struct {
	Count int
}

func (e *HasAnswersError) Error() string {
	return fmt.Sprintf("quiz has answers: %d", e.Count)
}

// QuestionAnsweredError blocks removal of a quiz question that has been
// individually answered.
type QuestionAnsweredError struct {
	Count int
}

func (e *QuestionAnsweredError) Error() string {
	return fmt.Sprintf("quiz question has answers: %d", e.Count)
}

// NotEnoughQuestionsError is returned by Generate when the active question
// pool is smaller than the requested quiz size.
type NotEnoughQuestionsError struct {
	Available int
	Requested int
}

func (e *NotEnoughQuestionsError) Error() string {
	return fmt.Sprintf("not enough active questions to generate quiz: requested %d, available %d", e.Requested, e.Available)
}
