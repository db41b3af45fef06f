package tools

import (
	"context"

	"github.com/ta-agent/taagent/internal/canvas"
)

type courseArgs struct {
	CourseID int64 `json:"course_id" validate:"required" jsonschema_description:"Canvas course ID"`
}

type assignmentRef struct {
	CourseID     int64 `json:"course_id" validate:"required" jsonschema_description:"Canvas course ID"`
	AssignmentID int64 `json:"assignment_id" validate:"required" jsonschema_description:"Canvas assignment ID"`
}

type assignmentFields struct {
	Description        string   `json:"description,omitempty" jsonschema_description:"HTML description shown to students"`
	SubmissionTypes    []string `json:"submission_types,omitempty" validate:"omitempty,dive,oneof=online_quiz none on_paper discussion_topic external_tool online_upload online_text_entry online_url media_recording student_annotation" jsonschema:"enum=online_quiz,enum=none,enum=on_paper,enum=discussion_topic,enum=external_tool,enum=online_upload,enum=online_text_entry,enum=online_url,enum=media_recording,enum=student_annotation"`
	AllowedExtensions  []string `json:"allowed_extensions,omitempty" jsonschema_description:"File extensions accepted for online_upload, without dots"`
	PointsPossible     *float64 `json:"points_possible,omitempty" validate:"omitempty,min=0"`
	GradingType        string   `json:"grading_type,omitempty" validate:"omitempty,oneof=pass_fail percent letter_grade gpa_scale points not_graded" jsonschema:"enum=pass_fail,enum=percent,enum=letter_grade,enum=gpa_scale,enum=points,enum=not_graded"`
	DueAt              string   `json:"due_at,omitempty" jsonschema_description:"Due date, ISO 8601"`
	LockAt             string   `json:"lock_at,omitempty" jsonschema_description:"Lock date, ISO 8601"`
	UnlockAt           string   `json:"unlock_at,omitempty" jsonschema_description:"Unlock date, ISO 8601"`
	AssignmentGroupID  *int64   `json:"assignment_group_id,omitempty"`
	Position           *int     `json:"position,omitempty"`
	PeerReviews        *bool    `json:"peer_reviews,omitempty"`
	Published          *bool    `json:"published,omitempty"`
	OmitFromFinalGrade *bool    `json:"omit_from_final_grade,omitempty"`
	AllowedAttempts    *int     `json:"allowed_attempts,omitempty" validate:"omitempty,min=-1"`
}

func (f assignmentFields) input(name string) canvas.AssignmentInput {
	return canvas.AssignmentInput{
		Name:               name,
		Description:        f.Description,
		Position:           f.Position,
		SubmissionTypes:    f.SubmissionTypes,
		AllowedExtensions:  f.AllowedExtensions,
		PointsPossible:     f.PointsPossible,
		GradingType:        f.GradingType,
		DueAt:              f.DueAt,
		LockAt:             f.LockAt,
		UnlockAt:           f.UnlockAt,
		AssignmentGroupID:  f.AssignmentGroupID,
		PeerReviews:        f.PeerReviews,
		Published:          f.Published,
		OmitFromFinalGrade: f.OmitFromFinalGrade,
		AllowedAttempts:    f.AllowedAttempts,
	}
}

type createAssignmentArgs struct {
	CourseID int64  `json:"course_id" validate:"required" jsonschema_description:"Canvas course ID"`
	Name     string `json:"name" validate:"required" jsonschema_description:"Assignment name"`
	assignmentFields
}

type editAssignmentArgs struct {
	CourseID     int64  `json:"course_id" validate:"required"`
	AssignmentID int64  `json:"assignment_id" validate:"required"`
	Name         string `json:"name,omitempty"`
	assignmentFields
}

type quizRef struct {
	CourseID int64 `json:"course_id" validate:"required" jsonschema_description:"Canvas course ID"`
	QuizID   int64 `json:"quiz_id" validate:"required" jsonschema_description:"Canvas quiz ID"`
}

type quizFields struct {
	Description        string `json:"description,omitempty"`
	QuizType           string `json:"quiz_type,omitempty" validate:"omitempty,oneof=practice_quiz assignment graded_survey survey" jsonschema:"enum=practice_quiz,enum=assignment,enum=graded_survey,enum=survey"`
	AssignmentGroupID  *int64 `json:"assignment_group_id,omitempty"`
	TimeLimit          *int   `json:"time_limit,omitempty" validate:"omitempty,min=0" jsonschema_description:"Minutes allowed, omit for no limit"`
	ShuffleAnswers     *bool  `json:"shuffle_answers,omitempty"`
	HideResults        string `json:"hide_results,omitempty" validate:"omitempty,oneof=always until_after_last_attempt" jsonschema:"enum=always,enum=until_after_last_attempt"`
	ShowCorrectAnswers *bool  `json:"show_correct_answers,omitempty"`
	AllowedAttempts    *int   `json:"allowed_attempts,omitempty" validate:"omitempty,min=-1"`
	ScoringPolicy      string `json:"scoring_policy,omitempty" validate:"omitempty,oneof=keep_highest keep_latest" jsonschema:"enum=keep_highest,enum=keep_latest"`
	OneQuestionAtATime *bool  `json:"one_question_at_a_time,omitempty"`
	CantGoBack         *bool  `json:"cant_go_back,omitempty"`
	AccessCode         string `json:"access_code,omitempty"`
	DueAt              string `json:"due_at,omitempty"`
	LockAt             string `json:"lock_at,omitempty"`
	UnlockAt           string `json:"unlock_at,omitempty"`
	Published          *bool  `json:"published,omitempty"`
}

func (f quizFields) input(title string) canvas.QuizInput {
	return canvas.QuizInput{
		Title:              title,
		Description:        f.Description,
		QuizType:           f.QuizType,
		AssignmentGroupID:  f.AssignmentGroupID,
		TimeLimit:          f.TimeLimit,
		ShuffleAnswers:     f.ShuffleAnswers,
		HideResults:        f.HideResults,
		ShowCorrectAnswers: f.ShowCorrectAnswers,
		AllowedAttempts:    f.AllowedAttempts,
		ScoringPolicy:      f.ScoringPolicy,
		OneQuestionAtATime: f.OneQuestionAtATime,
		CantGoBack:         f.CantGoBack,
		AccessCode:         f.AccessCode,
		DueAt:              f.DueAt,
		LockAt:             f.LockAt,
		UnlockAt:           f.UnlockAt,
		Published:          f.Published,
	}
}

type createQuizArgs struct {
	CourseID int64  `json:"course_id" validate:"required"`
	Title    string `json:"title" validate:"required"`
	quizFields
}

type editQuizArgs struct {
	CourseID int64  `json:"course_id" validate:"required"`
	QuizID   int64  `json:"quiz_id" validate:"required"`
	Title    string `json:"title,omitempty"`
	quizFields
}

type orderItem struct {
	ID   int64  `json:"id" validate:"required"`
	Type string `json:"type" validate:"required,oneof=question group" jsonschema:"enum=question,enum=group"`
}

type reorderArgs struct {
	CourseID int64       `json:"course_id" validate:"required"`
	QuizID   int64       `json:"quiz_id" validate:"required"`
	Order    []orderItem `json:"order" validate:"required,min=1,dive"`
}

type accessCodeArgs struct {
	CourseID   int64  `json:"course_id" validate:"required"`
	QuizID     int64  `json:"quiz_id" validate:"required"`
	AccessCode string `json:"access_code" validate:"required"`
}

type answerArg struct {
	Text     string `json:"text" validate:"required"`
	Weight   *int   `json:"weight,omitempty" validate:"omitempty,min=0,max=100" jsonschema_description:"100 marks a correct answer, 0 an incorrect one"`
	Comments string `json:"comments,omitempty"`
}

type questionFields struct {
	QuizGroupID       *int64      `json:"quiz_group_id,omitempty"`
	Position          *int        `json:"position,omitempty"`
	PointsPossible    *float64    `json:"points_possible,omitempty" validate:"omitempty,min=0"`
	CorrectComments   string      `json:"correct_comments,omitempty"`
	IncorrectComments string      `json:"incorrect_comments,omitempty"`
	NeutralComments   string      `json:"neutral_comments,omitempty"`
	TextAfterAnswers  string      `json:"text_after_answers,omitempty"`
	Answers           []answerArg `json:"answers,omitempty" validate:"omitempty,dive"`
}

func (f questionFields) input(name, text, qtype string) canvas.QuestionInput {
	in := canvas.QuestionInput{
		QuestionName:      name,
		QuestionText:      text,
		QuestionType:      qtype,
		QuizGroupID:       f.QuizGroupID,
		Position:          f.Position,
		PointsPossible:    f.PointsPossible,
		CorrectComments:   f.CorrectComments,
		IncorrectComments: f.IncorrectComments,
		NeutralComments:   f.NeutralComments,
		TextAfterAnswers:  f.TextAfterAnswers,
	}
	for _, a := range f.Answers {
		in.Answers = append(in.Answers, canvas.AnswerInput{Text: a.Text, Weight: a.Weight, Comments: a.Comments})
	}
	return in
}

type createQuestionArgs struct {
	CourseID     int64  `json:"course_id" validate:"required"`
	QuizID       int64  `json:"quiz_id" validate:"required"`
	QuestionName string `json:"question_name" validate:"required"`
	QuestionText string `json:"question_text" validate:"required"`
	QuestionType string `json:"question_type" validate:"required,oneof=calculated_question essay_question file_upload_question fill_in_multiple_blanks_question matching_question multiple_answers_question multiple_choice_question multiple_dropdowns_question numerical_question short_answer_question text_only_question true_false_question" jsonschema:"enum=calculated_question,enum=essay_question,enum=file_upload_question,enum=fill_in_multiple_blanks_question,enum=matching_question,enum=multiple_answers_question,enum=multiple_choice_question,enum=multiple_dropdowns_question,enum=numerical_question,enum=short_answer_question,enum=text_only_question,enum=true_false_question"`
	questionFields
}

type updateQuestionArgs struct {
	CourseID     int64  `json:"course_id" validate:"required"`
	QuizID       int64  `json:"quiz_id" validate:"required"`
	QuestionID   int64  `json:"question_id" validate:"required"`
	QuestionName string `json:"question_name,omitempty"`
	QuestionText string `json:"question_text,omitempty"`
	QuestionType string `json:"question_type,omitempty" validate:"omitempty,oneof=calculated_question essay_question file_upload_question fill_in_multiple_blanks_question matching_question multiple_answers_question multiple_choice_question multiple_dropdowns_question numerical_question short_answer_question text_only_question true_false_question" jsonschema:"enum=calculated_question,enum=essay_question,enum=file_upload_question,enum=fill_in_multiple_blanks_question,enum=matching_question,enum=multiple_answers_question,enum=multiple_choice_question,enum=multiple_dropdowns_question,enum=numerical_question,enum=short_answer_question,enum=text_only_question,enum=true_false_question"`
	questionFields
}

type questionRef struct {
	CourseID   int64 `json:"course_id" validate:"required"`
	QuizID     int64 `json:"quiz_id" validate:"required"`
	QuestionID int64 `json:"question_id" validate:"required"`
}

type listQuestionsArgs struct {
	CourseID         int64 `json:"course_id" validate:"required"`
	QuizID           int64 `json:"quiz_id" validate:"required"`
	QuizSubmissionID int64 `json:"quiz_submission_id,omitempty" jsonschema_description:"Limit to the questions shown in this submission"`
	Attempt          int   `json:"quiz_submission_attempt,omitempty" validate:"required_with=QuizSubmissionID" jsonschema_description:"Attempt number, required with quiz_submission_id"`
}

type quizSubmissionsArgs struct {
	CourseID int64    `json:"course_id" validate:"required"`
	QuizID   int64    `json:"quiz_id" validate:"required"`
	Include  []string `json:"include,omitempty" validate:"omitempty,dive,oneof=submission quiz user" jsonschema:"enum=submission,enum=quiz,enum=user"`
}

type quizSubmissionRef struct {
	CourseID     int64    `json:"course_id" validate:"required"`
	QuizID       int64    `json:"quiz_id" validate:"required"`
	SubmissionID int64    `json:"submission_id" validate:"required"`
	Include      []string `json:"include,omitempty" validate:"omitempty,dive,oneof=submission quiz user" jsonschema:"enum=submission,enum=quiz,enum=user"`
}

type startSubmissionArgs struct {
	CourseID   int64  `json:"course_id" validate:"required"`
	QuizID     int64  `json:"quiz_id" validate:"required"`
	AccessCode string `json:"access_code,omitempty"`
	Preview    bool   `json:"preview,omitempty" jsonschema_description:"Open the quiz in preview mode"`
}

type questionGradeArg struct {
	QuestionID string   `json:"question_id" validate:"required"`
	Score      *float64 `json:"score,omitempty"`
	Comment    string   `json:"comment,omitempty"`
}

type updateSubmissionArgs struct {
	CourseID     int64              `json:"course_id" validate:"required"`
	QuizID       int64              `json:"quiz_id" validate:"required"`
	SubmissionID int64              `json:"submission_id" validate:"required"`
	Attempt      int                `json:"attempt" validate:"required,min=1"`
	FudgePoints  *float64           `json:"fudge_points,omitempty" jsonschema_description:"Points added to or removed from the attempt total"`
	Questions    []questionGradeArg `json:"questions,omitempty" validate:"omitempty,dive"`
}

type completeSubmissionArgs struct {
	CourseID        int64  `json:"course_id" validate:"required"`
	QuizID          int64  `json:"quiz_id" validate:"required"`
	SubmissionID    int64  `json:"submission_id" validate:"required"`
	Attempt         int    `json:"attempt" validate:"required,min=1" jsonschema_description:"Attempt number; must be the latest"`
	ValidationToken string `json:"validation_token" validate:"required" jsonschema_description:"Token returned when the attempt was started, passed back unchanged"`
	AccessCode      string `json:"access_code,omitempty"`
}

type gradeHistoryArgs struct {
	CourseID     int64 `json:"course_id" validate:"required"`
	AssignmentID int64 `json:"assignment_id,omitempty" jsonschema_description:"Only changes to this assignment"`
	UserID       int64 `json:"user_id,omitempty" jsonschema_description:"Only changes to this student"`
	Ascending    bool  `json:"ascending,omitempty" jsonschema_description:"Oldest first"`
}

type groupContextArgs struct {
	ContextType string `json:"context_type" validate:"required,oneof=course account" jsonschema:"enum=course,enum=account"`
	ContextID   int64  `json:"context_id" validate:"required"`
}

type groupArgs struct {
	GroupID int64 `json:"group_id" validate:"required"`
}

type createGroupArgs struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	JoinLevel   string `json:"join_level,omitempty" validate:"omitempty,oneof=parent_context_auto_join parent_context_request invitation_only" jsonschema:"enum=parent_context_auto_join,enum=parent_context_request,enum=invitation_only"`
	IsPublic    *bool  `json:"is_public,omitempty"`
	ContextType string `json:"context_type,omitempty" validate:"omitempty,oneof=course account" jsonschema:"enum=course,enum=account"`
	ContextID   int64  `json:"context_id,omitempty" validate:"required_with=ContextType"`
}

type groupUserArgs struct {
	GroupID int64 `json:"group_id" validate:"required"`
	UserID  int64 `json:"user_id" validate:"required"`
}

type userArgs struct {
	UserID int64 `json:"user_id" validate:"required"`
}

type departmentGradesArgs struct {
	AccountID int64 `json:"account_id" validate:"required"`
	TermID    int64 `json:"term_id,omitempty" jsonschema_description:"Distribution for this term"`
	Completed bool  `json:"completed,omitempty" jsonschema_description:"Without term_id: completed courses instead of current ones"`
}

type noArgs struct{}

// RegisterCanvas adds the LMS tools.
func RegisterCanvas(r *Registry, c *canvas.Client) {
	// Courses and users.
	Register(r, "get_all_courses", "List every Canvas course the assistant can see, with id, name and account ids.",
		func(ctx context.Context, _ noArgs) (any, error) { return c.ListCourses(ctx) })
	Register(r, "get_course", "Get a course's name and start/end dates.",
		func(ctx context.Context, a courseArgs) (any, error) { return c.GetCourse(ctx, a.CourseID) })
	Register(r, "get_user", "Look up a Canvas user's name by user ID.",
		func(ctx context.Context, a userArgs) (any, error) { return c.GetUser(ctx, a.UserID) })

	// Assignments and submissions.
	Register(r, "create_assignment", "Create an assignment in a course. Only name is required.",
		func(ctx context.Context, a createAssignmentArgs) (any, error) {
			return c.CreateAssignment(ctx, a.CourseID, a.assignmentFields.input(a.Name))
		})
	Register(r, "get_assignments", "List all assignments in a course, including unpublished ones.",
		func(ctx context.Context, a courseArgs) (any, error) { return c.ListAssignments(ctx, a.CourseID) })
	Register(r, "get_assignment", "Get one assignment.",
		func(ctx context.Context, a assignmentRef) (any, error) {
			return c.GetAssignment(ctx, a.CourseID, a.AssignmentID)
		})
	Register(r, "edit_assignment", "Change fields of an existing assignment. Only provided fields are updated.",
		func(ctx context.Context, a editAssignmentArgs) (any, error) {
			return c.EditAssignment(ctx, a.CourseID, a.AssignmentID, a.assignmentFields.input(a.Name))
		})
	Register(r, "delete_assignment", "Delete an assignment.",
		func(ctx context.Context, a assignmentRef) (any, error) {
			return c.DeleteAssignment(ctx, a.CourseID, a.AssignmentID)
		})
	Register(r, "get_submissions", "List student submissions for an assignment with grades, scores and late/missing flags.",
		func(ctx context.Context, a assignmentRef) (any, error) {
			return c.ListSubmissions(ctx, a.CourseID, a.AssignmentID)
		})

	// Grades.
	Register(r, "get_student_grades", "Current grade and score of every active student in a course.",
		func(ctx context.Context, a courseArgs) (any, error) { return c.StudentGrades(ctx, a.CourseID) })
	Register(r, "get_grade_history", "Recorded grade changes in a course, optionally for one assignment or student.",
		func(ctx context.Context, a gradeHistoryArgs) (any, error) {
			return c.GradeHistoryFeed(ctx, a.CourseID, canvas.GradeHistoryFilter{
				AssignmentID: a.AssignmentID, UserID: a.UserID, Ascending: a.Ascending,
			})
		})
	Register(r, "get_grading_days", "Days on which grading happened in a course, with the graders and assignments involved.",
		func(ctx context.Context, a courseArgs) (any, error) { return c.GradeHistoryDays(ctx, a.CourseID) })
	Register(r, "get_department_grades", "Grade distribution for an account (department), by term or for current/completed courses.",
		func(ctx context.Context, a departmentGradesArgs) (any, error) {
			return c.DepartmentGrades(ctx, a.AccountID, a.TermID, a.Completed)
		})

	// Quizzes.
	Register(r, "list_quizzes", "List the quizzes in a course.",
		func(ctx context.Context, a courseArgs) (any, error) { return c.ListQuizzes(ctx, a.CourseID) })
	Register(r, "get_quiz", "Get one quiz including its description.",
		func(ctx context.Context, a quizRef) (any, error) { return c.GetQuiz(ctx, a.CourseID, a.QuizID) })
	Register(r, "create_quiz", "Create a quiz in a course. Only title is required.",
		func(ctx context.Context, a createQuizArgs) (any, error) {
			return c.CreateQuiz(ctx, a.CourseID, a.quizFields.input(a.Title))
		})
	Register(r, "edit_quiz", "Change fields of a quiz and return the updated quiz.",
		func(ctx context.Context, a editQuizArgs) (any, error) {
			return c.EditQuiz(ctx, a.CourseID, a.QuizID, a.quizFields.input(a.Title))
		})
	Register(r, "delete_quiz", "Delete a quiz.",
		func(ctx context.Context, a quizRef) (any, error) { return c.DeleteQuiz(ctx, a.CourseID, a.QuizID) })
	Register(r, "reorder_quiz_items", "Set the order of questions and question groups in a quiz.",
		func(ctx context.Context, a reorderArgs) (any, error) {
			order := make([]canvas.OrderItem, 0, len(a.Order))
			for _, o := range a.Order {
				order = append(order, canvas.OrderItem{ID: o.ID, Type: o.Type})
			}
			return c.ReorderQuizItems(ctx, a.CourseID, a.QuizID, order)
		})
	Register(r, "validate_quiz_access_code", "Check whether an access code unlocks a quiz.",
		func(ctx context.Context, a accessCodeArgs) (any, error) {
			return c.ValidateQuizAccessCode(ctx, a.CourseID, a.QuizID, a.AccessCode)
		})

	// Quiz questions.
	Register(r, "list_quiz_questions", "List a quiz's questions, or those shown in one submission attempt.",
		func(ctx context.Context, a listQuestionsArgs) (any, error) {
			return c.ListQuizQuestions(ctx, a.CourseID, a.QuizID, a.QuizSubmissionID, a.Attempt)
		})
	Register(r, "get_quiz_question", "Get one quiz question with its answers.",
		func(ctx context.Context, a questionRef) (any, error) {
			return c.GetQuizQuestion(ctx, a.CourseID, a.QuizID, a.QuestionID)
		})
	Register(r, "create_quiz_question", "Add a question to a quiz.",
		func(ctx context.Context, a createQuestionArgs) (any, error) {
			return c.CreateQuizQuestion(ctx, a.CourseID, a.QuizID, a.questionFields.input(a.QuestionName, a.QuestionText, a.QuestionType))
		})
	Register(r, "update_quiz_question", "Change fields of a quiz question.",
		func(ctx context.Context, a updateQuestionArgs) (any, error) {
			return c.UpdateQuizQuestion(ctx, a.CourseID, a.QuizID, a.QuestionID, a.questionFields.input(a.QuestionName, a.QuestionText, a.QuestionType))
		})
	Register(r, "delete_quiz_question", "Remove a question from a quiz.",
		func(ctx context.Context, a questionRef) (any, error) {
			return c.DeleteQuizQuestion(ctx, a.CourseID, a.QuizID, a.QuestionID)
		})

	// Quiz submissions.
	Register(r, "list_quiz_submissions", "List all submissions for a quiz.",
		func(ctx context.Context, a quizSubmissionsArgs) (any, error) {
			return c.ListQuizSubmissions(ctx, a.CourseID, a.QuizID, a.Include)
		})
	Register(r, "get_my_quiz_submission", "Get the assistant account's own submission for a quiz.",
		func(ctx context.Context, a quizSubmissionsArgs) (any, error) {
			return c.GetMyQuizSubmission(ctx, a.CourseID, a.QuizID, a.Include)
		})
	Register(r, "get_quiz_submission", "Get one quiz submission.",
		func(ctx context.Context, a quizSubmissionRef) (any, error) {
			return c.GetQuizSubmission(ctx, a.CourseID, a.QuizID, a.SubmissionID, a.Include)
		})
	Register(r, "start_quiz_submission", "Start a new quiz attempt or a preview. Returns the attempt number and the validation_token needed to complete it.",
		func(ctx context.Context, a startSubmissionArgs) (any, error) {
			return c.StartQuizSubmission(ctx, a.CourseID, a.QuizID, a.AccessCode, a.Preview)
		})
	Register(r, "update_quiz_submission", "Grade questions or apply fudge points to one quiz attempt.",
		func(ctx context.Context, a updateSubmissionArgs) (any, error) {
			grades := make([]canvas.QuestionGrade, 0, len(a.Questions))
			for _, q := range a.Questions {
				grades = append(grades, canvas.QuestionGrade{QuestionID: q.QuestionID, Score: q.Score, Comment: q.Comment})
			}
			return c.UpdateQuizSubmission(ctx, a.CourseID, a.QuizID, a.SubmissionID, a.Attempt, a.FudgePoints, grades)
		})
	Register(r, "complete_quiz_submission", "Finish a quiz attempt using the attempt number and validation_token from start_quiz_submission.",
		func(ctx context.Context, a completeSubmissionArgs) (any, error) {
			return c.CompleteQuizSubmission(ctx, a.CourseID, a.QuizID, a.SubmissionID, a.Attempt, a.ValidationToken, a.AccessCode)
		})
	Register(r, "quiz_submission_time", "Time left on an in-progress quiz attempt.",
		func(ctx context.Context, a quizSubmissionRef) (any, error) {
			return c.QuizSubmissionTime(ctx, a.CourseID, a.QuizID, a.SubmissionID)
		})

	// Groups.
	Register(r, "list_groups", "List the groups in a course or account.",
		func(ctx context.Context, a groupContextArgs) (any, error) {
			return c.ListGroups(ctx, a.ContextType, a.ContextID)
		})
	Register(r, "get_group", "Get one group.",
		func(ctx context.Context, a groupArgs) (any, error) { return c.GetGroup(ctx, a.GroupID) })
	Register(r, "create_group", "Create a group, inside a course or account when context_type is given.",
		func(ctx context.Context, a createGroupArgs) (any, error) {
			return c.CreateGroup(ctx, a.ContextType, a.ContextID, canvas.GroupInput{
				Name: a.Name, Description: a.Description, JoinLevel: a.JoinLevel, IsPublic: a.IsPublic,
			})
		})
	Register(r, "list_group_users", "List the members of a group.",
		func(ctx context.Context, a groupArgs) (any, error) { return c.ListGroupUsers(ctx, a.GroupID) })
	Register(r, "add_user_to_group", "Add a user to a group.",
		func(ctx context.Context, a groupUserArgs) (any, error) {
			return c.AddUserToGroup(ctx, a.GroupID, a.UserID)
		})
	Register(r, "remove_user_from_group", "Remove a user from a group.",
		func(ctx context.Context, a groupUserArgs) (any, error) {
			return c.RemoveUserFromGroup(ctx, a.GroupID, a.UserID)
		})
	Register(r, "get_group_activity_stream", "Recent activity in a group.",
		func(ctx context.Context, a groupArgs) (any, error) { return c.GroupActivityStream(ctx, a.GroupID) })
}
