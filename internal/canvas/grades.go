package canvas

import (
	"context"
	"net/url"
	"strconv"
)

// StudentGrade is a student's current standing in a course.
type StudentGrade struct {
	UserID int64       `json:"user_id"`
	User   GradeUser   `json:"user"`
	Grades GradeTotals `json:"grades"`
}

// GradeUser identifies the student on a StudentGrade.
type GradeUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GradeTotals is the grade snapshot on an enrollment.
type GradeTotals struct {
	CurrentGrade *string  `json:"current_grade"`
	CurrentScore *float64 `json:"current_score"`
}

type rawEnrollment struct {
	UserID int64 `json:"user_id"`
	User   struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"user"`
	Grades *GradeTotals `json:"grades"`
}

// StudentGrades returns the current grade of every active student.
func (c *Client) StudentGrades(ctx context.Context, courseID int64) ([]StudentGrade, error) {
	q := url.Values{
		"type[]":    {"StudentEnrollment"},
		"state[]":   {"active"},
		"include[]": {"grades"},
	}
	raw, err := getAll[rawEnrollment](ctx, c, coursePath(courseID, "enrollments"), q)
	if err != nil {
		return nil, err
	}
	out := make([]StudentGrade, 0, len(raw))
	for _, e := range raw {
		g := StudentGrade{
			UserID: e.UserID,
			User:   GradeUser{ID: e.User.ID, Name: e.User.Name},
		}
		if e.Grades != nil {
			g.Grades = *e.Grades
		}
		out = append(out, g)
	}
	return out, nil
}

// GradeChange is one entry of the gradebook history feed.
type GradeChange struct {
	ID             int64    `json:"id"`
	AssignmentID   int64    `json:"assignment_id"`
	AssignmentName string   `json:"assignment_name,omitempty"`
	UserID         int64    `json:"user_id"`
	UserName       string   `json:"user_name,omitempty"`
	Grader         string   `json:"grader,omitempty"`
	GraderID       *int64   `json:"grader_id,omitempty"`
	Grade          *string  `json:"grade"`
	Score          *float64 `json:"score"`
	GradedAt       *string  `json:"graded_at"`
	PreviousGrade  *string  `json:"previous_grade,omitempty"`
	NewGrade       *string  `json:"new_grade,omitempty"`
	CurrentGrade   *string  `json:"current_grade,omitempty"`
	WorkflowState  string   `json:"workflow_state,omitempty"`
}

// GradeHistoryFilter narrows the gradebook history feed.
type GradeHistoryFilter struct {
	AssignmentID int64
	UserID       int64
	Ascending    bool
}

// GradeHistoryFeed returns recorded grade changes, newest first unless
// Ascending is set.
func (c *Client) GradeHistoryFeed(ctx context.Context, courseID int64, f GradeHistoryFilter) ([]GradeChange, error) {
	q := url.Values{}
	if f.AssignmentID != 0 {
		q.Set("assignment_id", strconv.FormatInt(f.AssignmentID, 10))
	}
	if f.UserID != 0 {
		q.Set("user_id", strconv.FormatInt(f.UserID, 10))
	}
	if f.Ascending {
		q.Set("ascending", "true")
	}
	return getAll[GradeChange](ctx, c, coursePath(courseID, "gradebook_history", "feed"), q)
}

// GradingDay summarises the graders active on one day.
type GradingDay struct {
	Date    string `json:"date"`
	Graders []struct {
		ID          int64   `json:"id"`
		Name        string  `json:"name"`
		Assignments []int64 `json:"assignments"`
	} `json:"graders"`
}

// GradeHistoryDays lists the days on which grading happened.
func (c *Client) GradeHistoryDays(ctx context.Context, courseID int64) ([]GradingDay, error) {
	return getAll[GradingDay](ctx, c, coursePath(courseID, "gradebook_history", "days"), nil)
}

// DepartmentGrades returns the grade distribution for an account. With a
// term ID the distribution is for that term; otherwise completed selects
// between completed and current courses. Keys are grade bins.
func (c *Client) DepartmentGrades(ctx context.Context, accountID, termID int64, completed bool) (map[string]int, error) {
	var path string
	switch {
	case termID != 0:
		path = joinPath("accounts", accountID, "analytics", "terms", termID, "grades")
	case completed:
		path = joinPath("accounts", accountID, "analytics", "completed", "grades")
	default:
		path = joinPath("accounts", accountID, "analytics", "current", "grades")
	}
	out := map[string]int{}
	if _, err := c.api.Get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
