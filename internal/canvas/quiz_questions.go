package canvas

import (
	"context"
	"net/url"
	"strconv"
)

// QuestionTypes are the accepted question_type values.
var QuestionTypes = []string{
	"calculated_question", "essay_question", "file_upload_question",
	"fill_in_multiple_blanks_question", "matching_question", "multiple_answers_question",
	"multiple_choice_question", "multiple_dropdowns_question", "numerical_question",
	"short_answer_question", "text_only_question", "true_false_question",
}

// AnswerInput is one answer of a question being created or updated.
type AnswerInput struct {
	Text     string `json:"answer_text"`
	Weight   *int   `json:"answer_weight,omitempty"`
	Comments string `json:"answer_comments,omitempty"`
}

// QuestionInput carries the question[...] parameters.
type QuestionInput struct {
	QuestionName      string        `json:"question_name,omitempty"`
	QuestionText      string        `json:"question_text,omitempty"`
	QuestionType      string        `json:"question_type,omitempty"`
	QuizGroupID       *int64        `json:"quiz_group_id,omitempty"`
	Position          *int          `json:"position,omitempty"`
	PointsPossible    *float64      `json:"points_possible,omitempty"`
	CorrectComments   string        `json:"correct_comments,omitempty"`
	IncorrectComments string        `json:"incorrect_comments,omitempty"`
	NeutralComments   string        `json:"neutral_comments,omitempty"`
	TextAfterAnswers  string        `json:"text_after_answers,omitempty"`
	Answers           []AnswerInput `json:"answers,omitempty"`
}

// Answer is the projection of a question answer.
type Answer struct {
	ID     int64    `json:"id"`
	Text   string   `json:"text"`
	Weight *float64 `json:"weight"`
}

// QuizQuestion is the projection of a quiz question.
type QuizQuestion struct {
	ID             int64    `json:"id"`
	QuizID         int64    `json:"quiz_id"`
	Position       *int     `json:"position"`
	QuestionName   string   `json:"question_name"`
	QuestionType   string   `json:"question_type"`
	QuestionText   string   `json:"question_text"`
	PointsPossible *float64 `json:"points_possible"`
	Answers        []Answer `json:"answers"`
}

// ListQuizQuestions returns a quiz's questions. When submissionID and
// attempt are non-zero the questions are those shown in that attempt.
func (c *Client) ListQuizQuestions(ctx context.Context, courseID, quizID, submissionID int64, attempt int) ([]QuizQuestion, error) {
	q := url.Values{}
	if submissionID != 0 {
		q.Set("quiz_submission_id", strconv.FormatInt(submissionID, 10))
	}
	if attempt != 0 {
		q.Set("quiz_submission_attempt", strconv.Itoa(attempt))
	}
	return getAll[QuizQuestion](ctx, c, quizPath(courseID, quizID, "questions"), q)
}

// GetQuizQuestion returns a single question.
func (c *Client) GetQuizQuestion(ctx context.Context, courseID, quizID, questionID int64) (*QuizQuestion, error) {
	var q QuizQuestion
	if _, err := c.api.Get(ctx, quizPath(courseID, quizID, "questions", questionID), nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// CreateQuizQuestion adds a question to a quiz.
func (c *Client) CreateQuizQuestion(ctx context.Context, courseID, quizID int64, in QuestionInput) (*QuizQuestion, error) {
	var q QuizQuestion
	if _, err := c.api.Post(ctx, quizPath(courseID, quizID, "questions"), map[string]any{"question": in}, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// UpdateQuizQuestion changes the provided fields of a question.
func (c *Client) UpdateQuizQuestion(ctx context.Context, courseID, quizID, questionID int64, in QuestionInput) (*QuizQuestion, error) {
	var q QuizQuestion
	if _, err := c.api.Put(ctx, quizPath(courseID, quizID, "questions", questionID), map[string]any{"question": in}, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// DeleteQuizQuestion removes a question from a quiz.
func (c *Client) DeleteQuizQuestion(ctx context.Context, courseID, quizID, questionID int64) (*Deleted, error) {
	if _, err := c.api.Delete(ctx, quizPath(courseID, quizID, "questions", questionID), nil); err != nil {
		return nil, err
	}
	return &Deleted{ID: questionID, Deleted: true}, nil
}
