package canvas

import "context"

// AssignmentCreated is the confirmation returned by CreateAssignment.
const AssignmentCreated = "Successfully created assignment."

// Submission types accepted by assignments.
var SubmissionTypes = []string{
	"online_quiz", "none", "on_paper", "discussion_topic", "external_tool",
	"online_upload", "online_text_entry", "online_url", "media_recording",
	"student_annotation",
}

// Grading types accepted by assignments.
var GradingTypes = []string{"pass_fail", "percent", "letter_grade", "gpa_scale", "points", "not_graded"}

// AssignmentInput carries the assignment[...] parameters. Unset fields are
// omitted so edits only touch what the caller provided.
type AssignmentInput struct {
	Name                   string   `json:"name,omitempty"`
	Description            string   `json:"description,omitempty"`
	Position               *int     `json:"position,omitempty"`
	SubmissionTypes        []string `json:"submission_types,omitempty"`
	AllowedExtensions      []string `json:"allowed_extensions,omitempty"`
	PointsPossible         *float64 `json:"points_possible,omitempty"`
	GradingType            string   `json:"grading_type,omitempty"`
	DueAt                  string   `json:"due_at,omitempty"`
	LockAt                 string   `json:"lock_at,omitempty"`
	UnlockAt               string   `json:"unlock_at,omitempty"`
	AssignmentGroupID      *int64   `json:"assignment_group_id,omitempty"`
	PeerReviews            *bool    `json:"peer_reviews,omitempty"`
	AutomaticPeerReviews   *bool    `json:"automatic_peer_reviews,omitempty"`
	NotifyOfUpdate         *bool    `json:"notify_of_update,omitempty"`
	GroupCategoryID        *int64   `json:"group_category_id,omitempty"`
	OnlyVisibleToOverrides *bool    `json:"only_visible_to_overrides,omitempty"`
	Published              *bool    `json:"published,omitempty"`
	OmitFromFinalGrade     *bool    `json:"omit_from_final_grade,omitempty"`
	HideInGradebook        *bool    `json:"hide_in_gradebook,omitempty"`
	AllowedAttempts        *int     `json:"allowed_attempts,omitempty"`
	AnonymousGrading       *bool    `json:"anonymous_grading,omitempty"`
}

// Assignment is the projection of an assignment.
type Assignment struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Description      *string  `json:"description"`
	DueAt            *string  `json:"due_at"`
	PointsPossible   *float64 `json:"points_possible"`
	SubmissionTypes  []string `json:"submission_types"`
	IsQuizAssignment bool     `json:"is_quiz_assignment"`
	Published        bool     `json:"published"`
	HTMLURL          string   `json:"html_url"`
}

// CreateAssignment creates an assignment and returns the fixed
// confirmation message.
func (c *Client) CreateAssignment(ctx context.Context, courseID int64, in AssignmentInput) (string, error) {
	body := map[string]any{"assignment": in}
	if _, err := c.api.Post(ctx, coursePath(courseID, "assignments"), body, nil); err != nil {
		return "", err
	}
	return AssignmentCreated, nil
}

// ListAssignments returns every assignment in a course, published or not.
func (c *Client) ListAssignments(ctx context.Context, courseID int64) ([]Assignment, error) {
	return getAll[Assignment](ctx, c, coursePath(courseID, "assignments"), nil)
}

// GetAssignment returns a single assignment.
func (c *Client) GetAssignment(ctx context.Context, courseID, assignmentID int64) (*Assignment, error) {
	var a Assignment
	if _, err := c.api.Get(ctx, coursePath(courseID, "assignments", assignmentID), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// EditAssignment applies the provided fields and returns the updated assignment.
func (c *Client) EditAssignment(ctx context.Context, courseID, assignmentID int64, in AssignmentInput) (*Assignment, error) {
	var a Assignment
	body := map[string]any{"assignment": in}
	if _, err := c.api.Put(ctx, coursePath(courseID, "assignments", assignmentID), body, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteAssignment deletes an assignment.
func (c *Client) DeleteAssignment(ctx context.Context, courseID, assignmentID int64) (*Deleted, error) {
	if _, err := c.api.Delete(ctx, coursePath(courseID, "assignments", assignmentID), nil); err != nil {
		return nil, err
	}
	return &Deleted{ID: assignmentID, Deleted: true}, nil
}
