package canvas

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// QuizSubmission is the brief projection of a quiz attempt. ValidationToken
// is only present on a freshly started attempt and must be passed back
// unchanged to CompleteQuizSubmission.
type QuizSubmission struct {
	ID              int64    `json:"id"`
	UserID          *int64   `json:"user_id"`
	Attempt         *int     `json:"attempt"`
	Score           *float64 `json:"score"`
	KeptScore       *float64 `json:"kept_score"`
	StartedAt       *string  `json:"started_at"`
	FinishedAt      *string  `json:"finished_at"`
	WorkflowState   string   `json:"workflow_state"`
	ValidationToken string   `json:"validation_token,omitempty"`
}

// QuestionGrade adjusts the score or comment of one question in an attempt.
type QuestionGrade struct {
	QuestionID string   `json:"-"`
	Score      *float64 `json:"score,omitempty"`
	Comment    string   `json:"comment,omitempty"`
}

// SubmissionTime is the timing of an in-progress attempt.
type SubmissionTime struct {
	EndAt    *string `json:"end_at"`
	TimeLeft *int    `json:"time_left"`
}

type quizSubmissionEnvelope struct {
	QuizSubmissions []QuizSubmission `json:"quiz_submissions"`
}

func (e quizSubmissionEnvelope) first(what string) (*QuizSubmission, error) {
	if len(e.QuizSubmissions) == 0 {
		return nil, fmt.Errorf("canvas returned no quiz submission for %s", what)
	}
	s := e.QuizSubmissions[0]
	return &s, nil
}

func withInclude(include []string) url.Values {
	if len(include) == 0 {
		return nil
	}
	return url.Values{"include[]": include}
}

// ListQuizSubmissions returns every submission for a quiz.
func (c *Client) ListQuizSubmissions(ctx context.Context, courseID, quizID int64, include []string) ([]QuizSubmission, error) {
	q := withInclude(include)
	if q == nil {
		q = url.Values{}
	}
	q.Set("per_page", strconv.Itoa(c.perPage))

	var all []QuizSubmission
	next := quizPath(courseID, quizID, "submissions")
	for page := 0; next != ""; page++ {
		if c.maxPages > 0 && page >= c.maxPages {
			break
		}
		var env quizSubmissionEnvelope
		var query url.Values
		if page == 0 {
			query = q
		}
		resp, err := c.api.Get(ctx, next, query, &env)
		if err != nil {
			return nil, err
		}
		all = append(all, env.QuizSubmissions...)
		next = nextLink(resp)
	}
	if all == nil {
		all = []QuizSubmission{}
	}
	return all, nil
}

// GetMyQuizSubmission returns the token holder's own submission.
func (c *Client) GetMyQuizSubmission(ctx context.Context, courseID, quizID int64, include []string) (*QuizSubmission, error) {
	var env quizSubmissionEnvelope
	if _, err := c.api.Get(ctx, quizPath(courseID, quizID, "submission"), withInclude(include), &env); err != nil {
		return nil, err
	}
	return env.first("current user")
}

// GetQuizSubmission returns one submission.
func (c *Client) GetQuizSubmission(ctx context.Context, courseID, quizID, submissionID int64, include []string) (*QuizSubmission, error) {
	var env quizSubmissionEnvelope
	if _, err := c.api.Get(ctx, quizPath(courseID, quizID, "submissions", submissionID), withInclude(include), &env); err != nil {
		return nil, err
	}
	return env.first(fmt.Sprintf("submission %d", submissionID))
}

// StartQuizSubmission opens a new attempt, or a preview when preview is set.
func (c *Client) StartQuizSubmission(ctx context.Context, courseID, quizID int64, accessCode string, preview bool) (*QuizSubmission, error) {
	var body any
	if accessCode != "" || preview {
		params := map[string]any{}
		if accessCode != "" {
			params["access_code"] = accessCode
		}
		if preview {
			params["preview"] = true
		}
		body = params
	}
	var env quizSubmissionEnvelope
	if _, err := c.api.Post(ctx, quizPath(courseID, quizID, "submissions"), body, &env); err != nil {
		return nil, err
	}
	return env.first("new attempt")
}

// UpdateQuizSubmission grades questions or applies fudge points to one attempt.
func (c *Client) UpdateQuizSubmission(ctx context.Context, courseID, quizID, submissionID int64, attempt int, fudgePoints *float64, questions []QuestionGrade) (*QuizSubmission, error) {
	entry := map[string]any{"attempt": attempt}
	if fudgePoints != nil {
		entry["fudge_points"] = *fudgePoints
	}
	if len(questions) > 0 {
		qmap := make(map[string]QuestionGrade, len(questions))
		for _, q := range questions {
			qmap[q.QuestionID] = q
		}
		entry["questions"] = qmap
	}

	var env quizSubmissionEnvelope
	path := quizPath(courseID, quizID, "submissions", submissionID)
	if _, err := c.api.Put(ctx, path, map[string]any{"quiz_submissions": []any{entry}}, &env); err != nil {
		return nil, err
	}
	if len(env.QuizSubmissions) > 0 {
		return env.first("update")
	}
	return c.GetQuizSubmission(ctx, courseID, quizID, submissionID, nil)
}

// CompleteQuizSubmission finishes an attempt. The attempt number and
// validation token must match the values returned when it was started;
// Canvas rejects anything else and that rejection is returned unchanged.
func (c *Client) CompleteQuizSubmission(ctx context.Context, courseID, quizID, submissionID int64, attempt int, validationToken, accessCode string) (*QuizSubmission, error) {
	entry := map[string]any{
		"attempt":          attempt,
		"validation_token": validationToken,
	}
	if accessCode != "" {
		entry["access_code"] = accessCode
	}

	var env quizSubmissionEnvelope
	path := quizPath(courseID, quizID, "submissions", submissionID, "complete")
	if _, err := c.api.Post(ctx, path, map[string]any{"quiz_submissions": []any{entry}}, &env); err != nil {
		return nil, err
	}
	if len(env.QuizSubmissions) > 0 {
		return env.first("complete")
	}
	return c.GetQuizSubmission(ctx, courseID, quizID, submissionID, nil)
}

// QuizSubmissionTime reports when an in-progress attempt closes.
func (c *Client) QuizSubmissionTime(ctx context.Context, courseID, quizID, submissionID int64) (*SubmissionTime, error) {
	var t SubmissionTime
	if _, err := c.api.Get(ctx, quizPath(courseID, quizID, "submissions", submissionID, "time"), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
