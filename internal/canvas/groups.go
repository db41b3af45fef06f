package canvas

import (
	"context"
	"fmt"
)

// JoinLevels are the accepted group join_level values.
var JoinLevels = []string{"parent_context_auto_join", "parent_context_request", "invitation_only"}

// Group is the projection of a Canvas group.
type Group struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	JoinLevel    string  `json:"join_level"`
	MembersCount int     `json:"members_count"`
	IsPublic     bool    `json:"is_public"`
	ContextType  string  `json:"context_type"`
	CourseID     *int64  `json:"course_id,omitempty"`
	AccountID    *int64  `json:"account_id,omitempty"`
}

// GroupInput describes a group to create.
type GroupInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	JoinLevel   string `json:"join_level,omitempty"`
	IsPublic    *bool  `json:"is_public,omitempty"`
}

// Membership is the projection of a group membership.
type Membership struct {
	ID            int64  `json:"id"`
	GroupID       int64  `json:"group_id"`
	UserID        int64  `json:"user_id"`
	WorkflowState string `json:"workflow_state"`
}

// ActivityItem is the projection of one activity stream entry.
type ActivityItem struct {
	ID        int64   `json:"id"`
	Title     *string `json:"title"`
	Message   *string `json:"message"`
	Type      string  `json:"type"`
	CreatedAt string  `json:"created_at"`
	HTMLURL   string  `json:"html_url"`
}

func contextGroupsPath(contextType string, contextID int64) (string, error) {
	switch contextType {
	case "course":
		return joinPath("courses", contextID, "groups"), nil
	case "account":
		return joinPath("accounts", contextID, "groups"), nil
	default:
		return "", fmt.Errorf("context type must be course or account, got %q", contextType)
	}
}

// ListGroups returns the groups of a course or account.
func (c *Client) ListGroups(ctx context.Context, contextType string, contextID int64) ([]Group, error) {
	path, err := contextGroupsPath(contextType, contextID)
	if err != nil {
		return nil, err
	}
	return getAll[Group](ctx, c, path, nil)
}

// GetGroup returns one group.
func (c *Client) GetGroup(ctx context.Context, groupID int64) (*Group, error) {
	var g Group
	if _, err := c.api.Get(ctx, joinPath("groups", groupID), nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// CreateGroup creates a group in a course or account, or a community
// group when contextType is empty.
func (c *Client) CreateGroup(ctx context.Context, contextType string, contextID int64, in GroupInput) (*Group, error) {
	path := "/groups"
	if contextType != "" {
		p, err := contextGroupsPath(contextType, contextID)
		if err != nil {
			return nil, err
		}
		path = p
	}
	var g Group
	if _, err := c.api.Post(ctx, path, in, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGroupUsers returns the members of a group.
func (c *Client) ListGroupUsers(ctx context.Context, groupID int64) ([]User, error) {
	return getAll[User](ctx, c, joinPath("groups", groupID, "users"), nil)
}

// AddUserToGroup creates a membership.
func (c *Client) AddUserToGroup(ctx context.Context, groupID, userID int64) (*Membership, error) {
	var m Membership
	if _, err := c.api.Post(ctx, joinPath("groups", groupID, "memberships"), map[string]any{"user_id": userID}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// RemoveUserFromGroup deletes a membership.
func (c *Client) RemoveUserFromGroup(ctx context.Context, groupID, userID int64) (*Deleted, error) {
	if _, err := c.api.Delete(ctx, joinPath("groups", groupID, "users", userID), nil); err != nil {
		return nil, err
	}
	return &Deleted{ID: userID, Deleted: true}, nil
}

// GroupActivityStream returns recent activity in a group.
func (c *Client) GroupActivityStream(ctx context.Context, groupID int64) ([]ActivityItem, error) {
	return getAll[ActivityItem](ctx, c, joinPath("groups", groupID, "activity_stream"), nil)
}
