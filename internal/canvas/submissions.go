package canvas

import (
	"context"
	"net/url"
)

// Submission is the projection of an assignment submission.
type Submission struct {
	SubmissionID   int64    `json:"submission_id"`
	UserID         int64    `json:"user_id"`
	UserName       *string  `json:"user_name"`
	SubmissionType *string  `json:"submission_type"`
	WorkflowState  string   `json:"workflow_state"`
	Grade          *string  `json:"grade"`
	Score          *float64 `json:"score"`
	Body           *string  `json:"body"`
	SubmittedAt    *string  `json:"submitted_at"`
	GradedAt       *string  `json:"graded_at"`
	Late           bool     `json:"late"`
	Missing        bool     `json:"missing"`
	PreviewURL     *string  `json:"preview_url"`
}

type rawSubmission struct {
	ID             int64    `json:"id"`
	UserID         int64    `json:"user_id"`
	SubmissionType *string  `json:"submission_type"`
	WorkflowState  string   `json:"workflow_state"`
	Grade          *string  `json:"grade"`
	Score          *float64 `json:"score"`
	Body           *string  `json:"body"`
	SubmittedAt    *string  `json:"submitted_at"`
	GradedAt       *string  `json:"graded_at"`
	Late           bool     `json:"late"`
	Missing        bool     `json:"missing"`
	PreviewURL     *string  `json:"preview_url"`
	User           *struct {
		Name string `json:"name"`
	} `json:"user"`
}

// ListSubmissions returns every submission for an assignment with the
// submitting student's name.
func (c *Client) ListSubmissions(ctx context.Context, courseID, assignmentID int64) ([]Submission, error) {
	raw, err := getAll[rawSubmission](ctx, c, coursePath(courseID, "assignments", assignmentID, "submissions"),
		url.Values{"include[]": {"user"}})
	if err != nil {
		return nil, err
	}
	out := make([]Submission, 0, len(raw))
	for _, s := range raw {
		sub := Submission{
			SubmissionID:   s.ID,
			UserID:         s.UserID,
			SubmissionType: s.SubmissionType,
			WorkflowState:  s.WorkflowState,
			Grade:          s.Grade,
			Score:          s.Score,
			Body:           s.Body,
			SubmittedAt:    s.SubmittedAt,
			GradedAt:       s.GradedAt,
			Late:           s.Late,
			Missing:        s.Missing,
			PreviewURL:     s.PreviewURL,
		}
		if s.User != nil {
			name := s.User.Name
			sub.UserName = &name
		}
		out = append(out, sub)
	}
	return out, nil
}
