package issues_dto

import (
	"fmt"
	"strings"
	"time"

	issues_enums "bughive/internal/features/issues/enums"

	"github.com/google/uuid"
)

const (
	maxTitleLength       = 255
	maxDescriptionLength = 10000
	maxFreeTextLength    = 5000
	maxTagCount          = 20
	maxTagLength         = 50
)

// FieldError reports a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid field of a request so clients
// can show all problems at once instead of fixing them one by one.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	messages := make([]string, 0, len(e))
	for _, fieldError := range e {
		messages = append(messages, fieldError.Error())
	}

	return strings.Join(messages, "; ")
}

func (e ValidationErrors) OrNil() error {
	if len(e) == 0 {
		return nil
	}

	return e
}

type CreateIssueRequest struct {
	Title       string                     `json:"title"`
	Description string                     `json:"description"`
	Priority    issues_enums.IssuePriority `json:"priority"`
	Severity    issues_enums.IssueSeverity `json:"severity"`
	Type        issues_enums.IssueType     `json:"type"`
	AssigneeID  *uuid.UUID                 `json:"assigneeId"`
	Tags        []string                   `json:"tags"`

	StepsToReproduce string `json:"stepsToReproduce"`
	ExpectedBehavior string `json:"expectedBehavior"`
	ActualBehavior   string `json:"actualBehavior"`
	Environment      string `json:"environment"`
}

func (r *CreateIssueRequest) Validate() error {
	var errs ValidationErrors

	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, FieldError{"title", "is required"})
	} else if len(r.Title) > maxTitleLength {
		errs = append(errs, FieldError{"title", fmt.Sprintf("must be at most %d characters", maxTitleLength)})
	}

	if len(r.Description) > maxDescriptionLength {
		errs = append(errs, FieldError{"description", fmt.Sprintf("must be at most %d characters", maxDescriptionLength)})
	}

	if r.Priority != "" && !r.Priority.IsValid() {
		errs = append(errs, FieldError{"priority", fmt.Sprintf("unknown priority %q", r.Priority)})
	}

	if r.Severity != "" && !r.Severity.IsValid() {
		errs = append(errs, FieldError{"severity", fmt.Sprintf("unknown severity %q", r.Severity)})
	}

	if r.Type != "" && !r.Type.IsValid() {
		errs = append(errs, FieldError{"type", fmt.Sprintf("unknown type %q", r.Type)})
	}

	errs = append(errs, validateTags(r.Tags)...)
	errs = append(errs, validateFreeText("stepsToReproduce", r.StepsToReproduce)...)
	errs = append(errs, validateFreeText("expectedBehavior", r.ExpectedBehavior)...)
	errs = append(errs, validateFreeText("actualBehavior", r.ActualBehavior)...)
	errs = append(errs, validateFreeText("environment", r.Environment)...)

	return errs.OrNil()
}

type UpdateIssueRequest struct {
	Title       *string                     `json:"title"`
	Description *string                     `json:"description"`
	Priority    *issues_enums.IssuePriority `json:"priority"`
	Severity    *issues_enums.IssueSeverity `json:"severity"`
	Type        *issues_enums.IssueType     `json:"type"`
	Tags        *[]string                   `json:"tags"`

	StepsToReproduce *string `json:"stepsToReproduce"`
	ExpectedBehavior *string `json:"expectedBehavior"`
	ActualBehavior   *string `json:"actualBehavior"`
	Environment      *string `json:"environment"`
}

func (r *UpdateIssueRequest) Validate() error {
	var errs ValidationErrors

	if r.Title != nil {
		if strings.TrimSpace(*r.Title) == "" {
			errs = append(errs, FieldError{"title", "must not be empty"})
		} else if len(*r.Title) > maxTitleLength {
			errs = append(errs, FieldError{"title", fmt.Sprintf("must be at most %d characters", maxTitleLength)})
		}
	}

	if r.Description != nil && len(*r.Description) > maxDescriptionLength {
		errs = append(errs, FieldError{"description", fmt.Sprintf("must be at most %d characters", maxDescriptionLength)})
	}

	if r.Priority != nil && !r.Priority.IsValid() {
		errs = append(errs, FieldError{"priority", fmt.Sprintf("unknown priority %q", *r.Priority)})
	}

	if r.Severity != nil && !r.Severity.IsValid() {
		errs = append(errs, FieldError{"severity", fmt.Sprintf("unknown severity %q", *r.Severity)})
	}

	if r.Type != nil && !r.Type.IsValid() {
		errs = append(errs, FieldError{"type", fmt.Sprintf("unknown type %q", *r.Type)})
	}

	if r.Tags != nil {
		errs = append(errs, validateTags(*r.Tags)...)
	}

	if r.StepsToReproduce != nil {
		errs = append(errs, validateFreeText("stepsToReproduce", *r.StepsToReproduce)...)
	}

	if r.ExpectedBehavior != nil {
		errs = append(errs, validateFreeText("expectedBehavior", *r.ExpectedBehavior)...)
	}

	if r.ActualBehavior != nil {
		errs = append(errs, validateFreeText("actualBehavior", *r.ActualBehavior)...)
	}

	if r.Environment != nil {
		errs = append(errs, validateFreeText("environment", *r.Environment)...)
	}

	return errs.OrNil()
}

type AssignIssueRequest struct {
	// AssigneeID nil clears the assignment.
	AssigneeID *uuid.UUID `json:"assigneeId"`
}

type TransitionIssueRequest struct {
	Status issues_enums.IssueStatus `json:"status"`
}

func (r *TransitionIssueRequest) Validate() error {
	var errs ValidationErrors

	if r.Status == "" {
		errs = append(errs, FieldError{"status", "is required"})
	} else if !r.Status.IsValid() {
		errs = append(errs, FieldError{"status", fmt.Sprintf("unknown status %q", r.Status)})
	}

	return errs.OrNil()
}

type CreateCommentRequest struct {
	Content string `json:"content"`
	// IsInternal hides the comment from members without EDIT_ISSUE.
	IsInternal bool `json:"isInternal"`
}

func (r *CreateCommentRequest) Validate() error {
	var errs ValidationErrors

	if strings.TrimSpace(r.Content) == "" {
		errs = append(errs, FieldError{"content", "is required"})
	} else if len(r.Content) > maxFreeTextLength {
		errs = append(errs, FieldError{"content", fmt.Sprintf("must be at most %d characters", maxFreeTextLength)})
	}

	return errs.OrNil()
}

type CommentResponse struct {
	ID         uuid.UUID `json:"id"`
	IssueID    uuid.UUID `json:"issueId"`
	AuthorID   uuid.UUID `json:"authorId"`
	Content    string    `json:"content"`
	IsInternal bool      `json:"isInternal"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CommentsResponse struct {
	Comments []*CommentResponse `json:"comments"`
}

type ListIssuesRequest struct {
	Status     *issues_enums.IssueStatus   `form:"status"`
	Priority   *issues_enums.IssuePriority `form:"priority"`
	Severity   *issues_enums.IssueSeverity `form:"severity"`
	Type       *issues_enums.IssueType     `form:"type"`
	AssigneeID *uuid.UUID                  `form:"assigneeId"`
	ReporterID *uuid.UUID                  `form:"reporterId"`
	Query      string                      `form:"query"`

	CreatedFrom string `form:"createdFrom"`
	CreatedTo   string `form:"createdTo"`

	Limit  int `form:"limit"`
	Offset int `form:"offset"`

	// Parsed from CreatedFrom and CreatedTo by the service.
	CreatedFromTime *time.Time `form:"-"`
	CreatedToTime   *time.Time `form:"-"`
}

func (r *ListIssuesRequest) Validate() error {
	var errs ValidationErrors

	if r.Status != nil && !r.Status.IsValid() {
		errs = append(errs, FieldError{"status", fmt.Sprintf("unknown status %q", *r.Status)})
	}

	if r.Priority != nil && !r.Priority.IsValid() {
		errs = append(errs, FieldError{"priority", fmt.Sprintf("unknown priority %q", *r.Priority)})
	}

	if r.Severity != nil && !r.Severity.IsValid() {
		errs = append(errs, FieldError{"severity", fmt.Sprintf("unknown severity %q", *r.Severity)})
	}

	if r.Type != nil && !r.Type.IsValid() {
		errs = append(errs, FieldError{"type", fmt.Sprintf("unknown type %q", *r.Type)})
	}

	if r.Limit < 0 {
		errs = append(errs, FieldError{"limit", "must not be negative"})
	}

	if r.Offset < 0 {
		errs = append(errs, FieldError{"offset", "must not be negative"})
	}

	return errs.OrNil()
}

type IssueResponse struct {
	ID          uuid.UUID                  `json:"id"`
	ProjectID   uuid.UUID                  `json:"projectId"`
	Title       string                     `json:"title"`
	Description string                     `json:"description"`
	Status      issues_enums.IssueStatus   `json:"status"`
	Priority    issues_enums.IssuePriority `json:"priority"`
	Severity    issues_enums.IssueSeverity `json:"severity"`
	Type        issues_enums.IssueType     `json:"type"`
	ReporterID  uuid.UUID                  `json:"reporterId"`
	AssigneeID  *uuid.UUID                 `json:"assigneeId"`
	Tags        []string                   `json:"tags"`

	StepsToReproduce string `json:"stepsToReproduce"`
	ExpectedBehavior string `json:"expectedBehavior"`
	ActualBehavior   string `json:"actualBehavior"`
	Environment      string `json:"environment"`

	ResolvedAt *time.Time `json:"resolvedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type IssuesResponse struct {
	Issues []*IssueResponse `json:"issues"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type TransitionsResponse struct {
	Current issues_enums.IssueStatus   `json:"current"`
	Allowed []issues_enums.IssueStatus `json:"allowed"`
}

func validateTags(tags []string) ValidationErrors {
	var errs ValidationErrors

	if len(tags) > maxTagCount {
		errs = append(errs, FieldError{"tags", fmt.Sprintf("must contain at most %d tags", maxTagCount)})
	}

	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			errs = append(errs, FieldError{"tags", "must not contain empty tags"})
			break
		}

		if len(tag) > maxTagLength {
			errs = append(errs, FieldError{"tags", fmt.Sprintf("each tag must be at most %d characters", maxTagLength)})
			break
		}
	}

	return errs
}

func validateFreeText(field, value string) ValidationErrors {
	if len(value) > maxFreeTextLength {
		return ValidationErrors{{field, fmt.Sprintf("must be at most %d characters", maxFreeTextLength)}}
	}

	return nil
}
