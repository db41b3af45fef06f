package canvas

import "context"

// Course is the list projection of a course.
type Course struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	AccountID     *int64 `json:"account_id"`
	RootAccountID *int64 `json:"root_account_id"`
}

// CourseDetail is the single-course projection.
type CourseDetail struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	StartAt *string `json:"start_at"`
	EndAt   *string `json:"end_at"`
}

// ListCourses returns every course visible to the token holder.
func (c *Client) ListCourses(ctx context.Context) ([]Course, error) {
	return getAll[Course](ctx, c, "/courses", nil)
}

// GetCourse returns one course.
func (c *Client) GetCourse(ctx context.Context, courseID int64) (*CourseDetail, error) {
	var course CourseDetail
	if _, err := c.api.Get(ctx, coursePath(courseID), nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// User is the projection of a Canvas user profile.
type User struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	SortableName string  `json:"sortable_name"`
	ShortName    *string `json:"short_name"`
	LoginID      *string `json:"login_id,omitempty"`
}

// GetUser returns a user's name details.
func (c *Client) GetUser(ctx context.Context, userID int64) (*User, error) {
	var u User
	if _, err := c.api.Get(ctx, joinPath("users", userID), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
