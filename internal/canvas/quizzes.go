package canvas

import (
	"context"
	"strings"
)

const (
	// QuizCreated is the confirmation returned by CreateQuiz.
	QuizCreated = "Successfully created quiz."
	// QuizItemsReordered is the confirmation returned by ReorderQuizItems.
	QuizItemsReordered = "Successfully reordered quiz items."
)

// QuizTypes are the accepted quiz_type values.
var QuizTypes = []string{"practice_quiz", "assignment", "graded_survey", "survey"}

// QuizInput carries the quiz[...] parameters.
type QuizInput struct {
	Title                         string `json:"title,omitempty"`
	Description                   string `json:"description,omitempty"`
	QuizType                      string `json:"quiz_type,omitempty"`
	AssignmentGroupID             *int64 `json:"assignment_group_id,omitempty"`
	TimeLimit                     *int   `json:"time_limit,omitempty"`
	ShuffleAnswers                *bool  `json:"shuffle_answers,omitempty"`
	HideResults                   string `json:"hide_results,omitempty"`
	ShowCorrectAnswers            *bool  `json:"show_correct_answers,omitempty"`
	ShowCorrectAnswersLastAttempt *bool  `json:"show_correct_answers_last_attempt,omitempty"`
	ShowCorrectAnswersAt          string `json:"show_correct_answers_at,omitempty"`
	HideCorrectAnswersAt          string `json:"hide_correct_answers_at,omitempty"`
	AllowedAttempts               *int   `json:"allowed_attempts,omitempty"`
	ScoringPolicy                 string `json:"scoring_policy,omitempty"`
	OneQuestionAtATime            *bool  `json:"one_question_at_a_time,omitempty"`
	CantGoBack                    *bool  `json:"cant_go_back,omitempty"`
	AccessCode                    string `json:"access_code,omitempty"`
	IPFilter                      string `json:"ip_filter,omitempty"`
	DueAt                         string `json:"due_at,omitempty"`
	LockAt                        string `json:"lock_at,omitempty"`
	UnlockAt                      string `json:"unlock_at,omitempty"`
	Published                     *bool  `json:"published,omitempty"`
	OneTimeResults                *bool  `json:"one_time_results,omitempty"`
	OnlyVisibleToOverrides        *bool  `json:"only_visible_to_overrides,omitempty"`
}

// Quiz is the projection of a quiz. Description is only filled by GetQuiz.
type Quiz struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	QuizType       string   `json:"quiz_type"`
	PointsPossible *float64 `json:"points_possible"`
	DueAt          *string  `json:"due_at"`
	Published      bool     `json:"published"`
	HTMLURL        string   `json:"html_url"`
	Description    *string  `json:"description,omitempty"`
}

// OrderItem positions a question or question group within a quiz.
type OrderItem struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

func quizPath(courseID, quizID int64, parts ...any) string {
	return coursePath(courseID, append([]any{"quizzes", quizID}, parts...)...)
}

// ListQuizzes returns the quizzes in a course without descriptions.
func (c *Client) ListQuizzes(ctx context.Context, courseID int64) ([]Quiz, error) {
	quizzes, err := getAll[Quiz](ctx, c, coursePath(courseID, "quizzes"), nil)
	if err != nil {
		return nil, err
	}
	for i := range quizzes {
		quizzes[i].Description = nil
	}
	return quizzes, nil
}

// GetQuiz returns one quiz including its description.
func (c *Client) GetQuiz(ctx context.Context, courseID, quizID int64) (*Quiz, error) {
	var q Quiz
	if _, err := c.api.Get(ctx, quizPath(courseID, quizID), nil, &q); err != nil {
		return nil, err
	}
	if q.Description == nil {
		empty := ""
		q.Description = &empty
	}
	return &q, nil
}

// CreateQuiz creates a quiz and returns the fixed confirmation message.
func (c *Client) CreateQuiz(ctx context.Context, courseID int64, in QuizInput) (string, error) {
	if _, err := c.api.Post(ctx, coursePath(courseID, "quizzes"), map[string]any{"quiz": in}, nil); err != nil {
		return "", err
	}
	return QuizCreated, nil
}

// EditQuiz updates a quiz and returns its refreshed state.
func (c *Client) EditQuiz(ctx context.Context, courseID, quizID int64, in QuizInput) (*Quiz, error) {
	if _, err := c.api.Put(ctx, quizPath(courseID, quizID), map[string]any{"quiz": in}, nil); err != nil {
		return nil, err
	}
	return c.GetQuiz(ctx, courseID, quizID)
}

// DeleteQuiz deletes a quiz.
func (c *Client) DeleteQuiz(ctx context.Context, courseID, quizID int64) (*Deleted, error) {
	if _, err := c.api.Delete(ctx, quizPath(courseID, quizID), nil); err != nil {
		return nil, err
	}
	return &Deleted{ID: quizID, Deleted: true}, nil
}

// ReorderQuizItems sets the order of questions and groups in a quiz.
func (c *Client) ReorderQuizItems(ctx context.Context, courseID, quizID int64, order []OrderItem) (string, error) {
	if _, err := c.api.Post(ctx, quizPath(courseID, quizID, "reorder"), map[string]any{"order": order}, nil); err != nil {
		return "", err
	}
	return QuizItemsReordered, nil
}

// ValidateQuizAccessCode reports whether code unlocks the quiz.
func (c *Client) ValidateQuizAccessCode(ctx context.Context, courseID, quizID int64, code string) (bool, error) {
	var out struct {
		Valid bool `json:"valid"`
	}
	resp, err := c.api.Post(ctx, quizPath(courseID, quizID, "validate_access_code"), map[string]any{"access_code": code}, nil)
	if err != nil {
		return false, err
	}
	// Canvas answers with either a bare boolean or {"valid": bool}.
	switch strings.TrimSpace(string(resp.Body)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if err := jsonUnmarshal(resp.Body, &out); err != nil {
		return false, err
	}
	return out.Valid, nil
}
