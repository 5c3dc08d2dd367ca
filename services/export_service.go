package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	config "github.com/socialsoftware/quiz_tutor/configs"
	"github.com/socialsoftware/quiz_tutor/models"
)

// ExportQuizPDF renders a printable version of the quiz (questions, options,
// no correct-answer marks) and uploads it, returning the document URL.
func ExportQuizPDF(quiz *models.Quiz) (string, error) {
	htmlData, err := renderQuizHTML(quiz)
	if err != nil {
		return "", fmt.Errorf("render quiz HTML: %w", err)
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		return "", fmt.Errorf("generate PDF: %w", err)
	}

	url, err := uploadToCloudinary(pdfBytes, quiz.ID.String())
	if err != nil {
		return "", fmt.Errorf("upload PDF: %w", err)
	}

	return url, nil
}

func renderQuizHTML(quiz *models.Quiz) (string, error) {
	tmpl, err := template.ParseFiles("templates/quiz_export.html")
	if err != nil {
		return "", err
	}

	type optionView struct {
		Label   string
		Content string
	}
	type questionView struct {
		Number  int
		Title   string
		Content string
		Options []optionView
	}

	questions := make([]questionView, len(quiz.QuizQuestions))
	labels := "abcdefghijklmnopqrstuvwxyz"
	for i, quizQuestion := range quiz.QuizQuestions {
		view := questionView{
			Number:  i + 1,
			Title:   quizQuestion.Question.Title,
			Content: quizQuestion.Question.Content,
		}
		for j, option := range quizQuestion.Question.Options {
			label := "?"
			if j < len(labels) {
				label = string(labels[j])
			}
			view.Options = append(view.Options, optionView{Label: label, Content: option.Content})
		}
		questions[i] = view
	}

	data := struct {
		Title      string
		CourseName string
		Term       string
		Date       string
		Questions  []questionView
	}{
		Title:      quiz.Title,
		CourseName: quiz.CourseExecution.Course.Name,
		Term:       quiz.CourseExecution.AcademicTerm,
		Date:       quiz.Date.Format("January 2, 2006"),
		Questions:  questions,
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadToCloudinary(fileBytes []byte, quizID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("quizzes/%s_%s", quizID, uuid.New().String()),
		Folder:       "quiz_tutor_exports",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
