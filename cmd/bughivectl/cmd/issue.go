package cmd

import (
	"fmt"
	"net/url"
	"strings"

	issues_dto "bughive/internal/features/issues/dto"
	issues_enums "bughive/internal/features/issues/enums"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	issueProjectID  string
	issueID         string
	issueComment    string
	issueInternal   bool
	issueTitle      string
	issueDesc       string
	issuePriority   string
	issueSeverity   string
	issueType       string
	issueTags       []string
	issueStatus     string
	issueAssignee   string
	issueQuery      string
	issueListLimit  int
	issueListOffset int
)

// issueCmd represents the issue command group
var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue management commands",
	Long: `Commands for filing and triaging BugHive issues.

Examples:
  # List open issues in a project
  bughivectl issue list --project <project-id> --status OPEN

  # File an issue
  bughivectl issue create --project <project-id> --title "Login page 500s"

  # Show an issue
  bughivectl issue show --id <issue-id>

  # Assign an issue
  bughivectl issue assign --id <issue-id> --assignee <user-id>

  # Move an issue through its lifecycle
  bughivectl issue transition --id <issue-id> --status IN_PROGRESS`,
}

// issueListCmd lists issues in a project
var issueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List project issues",
	Long: `List issues in a project, newest first. Filters combine with AND.

Example:
  bughivectl issue list --project <project-id> --status OPEN --query timeout`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if issueProjectID == "" {
			return fmt.Errorf("--project is required")
		}
		projectID, err := uuid.Parse(issueProjectID)
		if err != nil {
			return fmt.Errorf("invalid --project: %w", err)
		}

		client, err := newApiClient()
		if err != nil {
			return err
		}

		query := url.Values{}
		if issueStatus != "" {
			query.Set("status", strings.ToUpper(issueStatus))
		}
		if issueQuery != "" {
			query.Set("query", issueQuery)
		}
		if issueAssignee != "" {
			query.Set("assigneeId", issueAssignee)
		}
		if issueListLimit > 0 {
			query.Set("limit", fmt.Sprintf("%d", issueListLimit))
		}
		if issueListOffset > 0 {
			query.Set("offset", fmt.Sprintf("%d", issueListOffset))
		}

		path := "/projects/" + projectID.String() + "/issues"
		if encoded := query.Encode(); encoded != "" {
			path += "?" + encoded
		}

		var response issues_dto.IssuesResponse
		if err := client.get(path, &response); err != nil {
			return err
		}

		if GetOutput() == "json" {
			printJSON(response)
			return nil
		}

		if len(response.Issues) == 0 {
			fmt.Println("No issues found.")
			return nil
		}

		fmt.Printf("\n%-36s  %-11s  %-8s  %-34s  %s\n", "ID", "STATUS", "PRIORITY", "TITLE", "CREATED")
		fmt.Println(strings.Repeat("-", 106))

		for _, issue := range response.Issues {
			fmt.Printf("%-36s  %-11s  %-8s  %-34s  %s\n",
				issue.ID,
				issue.Status,
				issue.Priority,
				truncate(issue.Title, 34),
				issue.CreatedAt.Format("2006-01-02 15:04"),
			)
		}
		fmt.Printf("\nShowing %d of %d issue(s)\n", len(response.Issues), response.Total)

		return nil
	},
}

// issueCreateCmd files a new issue
var issueCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "File a new issue",
	Long: `File a new issue in a project.

Priorities: LOW, MEDIUM, HIGH, CRITICAL, BLOCKER.
Severities: TRIVIAL, MINOR, MAJOR, CRITICAL, BLOCKER.
Types: BUG, FEATURE, TASK, IMPROVEMENT.

Example:
  bughivectl issue create --project <project-id> --title "Login page 500s" \
    --priority HIGH --type BUG --tag auth --tag regression`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if issueProjectID == "" {
			return fmt.Errorf("--project is required")
		}
		projectID, err := uuid.Parse(issueProjectID)
		if err != nil {
			return fmt.Errorf("invalid --project: %w", err)
		}

		if issueTitle == "" {
			return fmt.Errorf("--title is required")
		}

		client, err := newApiClient()
		if err != nil {
			return err
		}

		request := issues_dto.CreateIssueRequest{
			Title:       strings.TrimSpace(issueTitle),
			Description: issueDesc,
			Priority:    issues_enums.IssuePriority(strings.ToUpper(issuePriority)),
			Severity:    issues_enums.IssueSeverity(strings.ToUpper(issueSeverity)),
			Type:        issues_enums.IssueType(strings.ToUpper(issueType)),
			Tags:        issueTags,
		}

		if issueAssignee != "" {
			assigneeID, err := uuid.Parse(issueAssignee)
			if err != nil {
				return fmt.Errorf("invalid --assignee: %w", err)
			}
			request.AssigneeID = &assigneeID
		}

		var issue issues_dto.IssueResponse
		if err := client.post("/projects/"+projectID.String()+"/issues", request, &issue); err != nil {
			return err
		}

		if GetOutput() == "json" {
			printJSON(issue)
			return nil
		}

		fmt.Printf("\nIssue created successfully:\n")
		fmt.Printf("  ID:       %s\n", issue.ID)
		fmt.Printf("  Title:    %s\n", issue.Title)
		fmt.Printf("  Status:   %s\n", issue.Status)
		fmt.Printf("  Priority: %s\n", issue.Priority)

		return nil
	},
}

// issueShowCmd shows issue details
var issueShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show issue details",
	Long: `Show detailed information about an issue, including the transitions
allowed from its current status.

Example:
  bughivectl issue show --id <issue-id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireIssueID()
		if err != nil {
			return err
		}

		client, err := newApiClient()
		if err != nil {
			return err
		}

		var issue issues_dto.IssueResponse
		if err := client.get("/issues/"+id.String(), &issue); err != nil {
			return err
		}

		var transitions issues_dto.TransitionsResponse
		if err := client.get("/issues/"+id.String()+"/transitions", &transitions); err != nil {
			return err
		}

		if GetOutput() == "json" {
			printJSON(map[string]any{"issue": issue, "transitions": transitions})
			return nil
		}

		fmt.Println("\nIssue Details:")
		fmt.Printf("  ID:          %s\n", issue.ID)
		fmt.Printf("  Project:     %s\n", issue.ProjectID)
		fmt.Printf("  Title:       %s\n", issue.Title)
		fmt.Printf("  Status:      %s\n", issue.Status)
		fmt.Printf("  Priority:    %s\n", issue.Priority)
		fmt.Printf("  Severity:    %s\n", issue.Severity)
		fmt.Printf("  Type:        %s\n", issue.Type)
		if issue.AssigneeID != nil {
			fmt.Printf("  Assignee:    %s\n", *issue.AssigneeID)
		} else {
			fmt.Printf("  Assignee:    (none)\n")
		}
		if len(issue.Tags) > 0 {
			fmt.Printf("  Tags:        %s\n", strings.Join(issue.Tags, ", "))
		}
		fmt.Printf("  Created:     %s\n", issue.CreatedAt.Format("2006-01-02 15:04:05"))

		allowed := make([]string, len(transitions.Allowed))
		for i, status := range transitions.Allowed {
			allowed[i] = string(status)
		}
		fmt.Printf("  Next states: %s\n", strings.Join(allowed, ", "))

		if issue.Description != "" {
			fmt.Printf("\n%s\n", issue.Description)
		}

		return nil
	},
}

// issueAssignCmd sets or clears the assignee
var issueAssignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign or unassign an issue",
	Long: `Set the assignee of an issue, or clear it by omitting --assignee.

Examples:
  bughivectl issue assign --id <issue-id> --assignee <user-id>
  bughivectl issue assign --id <issue-id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireIssueID()
		if err != nil {
			return err
		}

		client, err := newApiClient()
		if err != nil {
			return err
		}

		var request issues_dto.AssignIssueRequest
		if issueAssignee != "" {
			assigneeID, err := uuid.Parse(issueAssignee)
			if err != nil {
				return fmt.Errorf("invalid --assignee: %w", err)
			}
			request.AssigneeID = &assigneeID
		}

		var issue issues_dto.IssueResponse
		if err := client.put("/issues/"+id.String()+"/assignee", request, &issue); err != nil {
			return err
		}

		if GetOutput() == "json" {
			printJSON(issue)
			return nil
		}

		if issue.AssigneeID != nil {
			fmt.Printf("\nIssue %s assigned to %s\n", issue.ID, *issue.AssigneeID)
		} else {
			fmt.Printf("\nIssue %s unassigned\n", issue.ID)
		}

		return nil
	},
}

// issueTransitionCmd moves an issue to a new status
var issueTransitionCmd = &cobra.Command{
	Use:   "transition",
	Short: "Move an issue to a new status",
	Long: `Move an issue to a new lifecycle status.

Statuses: OPEN, IN_PROGRESS, IN_REVIEW, RESOLVED, CLOSED, REOPENED.
Only transitions allowed from the current status succeed; use
"issue show" to see them.

Example:
  bughivectl issue transition --id <issue-id> --status IN_PROGRESS`,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireIssueID()
		if err != nil {
			return err
		}

		if issueStatus == "" {
			return fmt.Errorf("--status is required")
		}

		client, err := newApiClient()
		if err != nil {
			return err
		}

		request := issues_dto.TransitionIssueRequest{
			Status: issues_enums.IssueStatus(strings.ToUpper(issueStatus)),
		}

		var issue issues_dto.IssueResponse
		if err := client.post("/issues/"+id.String()+"/transitions", request, &issue); err != nil {
			return err
		}

		if GetOutput() == "json" {
			printJSON(issue)
			return nil
		}

		fmt.Printf("\nIssue %s is now %s\n", issue.ID, issue.Status)

		return nil
	},
}

// issueCommentCmd adds a comment to an issue
var issueCommentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Comment on an issue",
	Long: `Add a comment to an issue. Internal comments are visible only to
project members who can edit issues.

Example:
  bughivectl issue comment --id <issue-id> --message "Reproduced on staging"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireIssueID()
		if err != nil {
			return err
		}

		if issueComment == "" {
			return fmt.Errorf("--message is required")
		}

		client, err := newApiClient()
		if err != nil {
			return err
		}

		request := issues_dto.CreateCommentRequest{
			Content:    issueComment,
			IsInternal: issueInternal,
		}

		var comment issues_dto.CommentResponse
		if err := client.post("/issues/"+id.String()+"/comments", request, &comment); err != nil {
			return err
		}

		if GetOutput() == "json" {
			printJSON(comment)
			return nil
		}

		fmt.Printf("\nComment %s added to issue %s\n", comment.ID, id)

		return nil
	},
}

// issueCommentsCmd lists the comments of an issue
var issueCommentsCmd = &cobra.Command{
	Use:   "comments",
	Short: "List issue comments",
	Long: `List the comments of an issue, oldest first.

Example:
  bughivectl issue comments --id <issue-id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireIssueID()
		if err != nil {
			return err
		}

		client, err := newApiClient()
		if err != nil {
			return err
		}

		var response issues_dto.CommentsResponse
		if err := client.get("/issues/"+id.String()+"/comments", &response); err != nil {
			return err
		}

		if GetOutput() == "json" {
			printJSON(response)
			return nil
		}

		if len(response.Comments) == 0 {
			fmt.Println("No comments found.")
			return nil
		}

		for _, comment := range response.Comments {
			marker := ""
			if comment.IsInternal {
				marker = " [internal]"
			}

			fmt.Printf("\n%s  %s%s\n%s\n",
				comment.CreatedAt.Format("2006-01-02 15:04"),
				comment.AuthorID,
				marker,
				comment.Content,
			)
		}

		return nil
	},
}

func requireIssueID() (uuid.UUID, error) {
	if issueID == "" {
		return uuid.Nil, fmt.Errorf("--id is required")
	}

	id, err := uuid.Parse(issueID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --id: %w", err)
	}

	return id, nil
}

func init() {
	issueCmd.AddCommand(issueListCmd)
	issueCmd.AddCommand(issueCreateCmd)
	issueCmd.AddCommand(issueShowCmd)
	issueCmd.AddCommand(issueAssignCmd)
	issueCmd.AddCommand(issueTransitionCmd)
	issueCmd.AddCommand(issueCommentCmd)
	issueCmd.AddCommand(issueCommentsCmd)

	issueListCmd.Flags().StringVar(&issueProjectID, "project", "", "project ID")
	issueListCmd.Flags().StringVar(&issueStatus, "status", "", "filter by status")
	issueListCmd.Flags().StringVar(&issueAssignee, "assignee", "", "filter by assignee user ID")
	issueListCmd.Flags().StringVar(&issueQuery, "query", "", "substring filter on title and description")
	issueListCmd.Flags().IntVar(&issueListLimit, "limit", 0, "page size")
	issueListCmd.Flags().IntVar(&issueListOffset, "offset", 0, "page offset")

	issueCreateCmd.Flags().StringVar(&issueProjectID, "project", "", "project ID")
	issueCreateCmd.Flags().StringVar(&issueTitle, "title", "", "issue title")
	issueCreateCmd.Flags().StringVar(&issueDesc, "description", "", "issue description")
	issueCreateCmd.Flags().StringVar(&issuePriority, "priority", "MEDIUM", "issue priority")
	issueCreateCmd.Flags().StringVar(&issueSeverity, "severity", "MINOR", "issue severity")
	issueCreateCmd.Flags().StringVar(&issueType, "type", "BUG", "issue type")
	issueCreateCmd.Flags().StringArrayVar(&issueTags, "tag", nil, "issue tag (repeatable)")
	issueCreateCmd.Flags().StringVar(&issueAssignee, "assignee", "", "assignee user ID")

	issueShowCmd.Flags().StringVar(&issueID, "id", "", "issue ID")

	issueAssignCmd.Flags().StringVar(&issueID, "id", "", "issue ID")
	issueAssignCmd.Flags().StringVar(&issueAssignee, "assignee", "", "assignee user ID (omit to clear)")

	issueTransitionCmd.Flags().StringVar(&issueID, "id", "", "issue ID")
	issueTransitionCmd.Flags().StringVar(&issueStatus, "status", "", "target status")

	issueCommentCmd.Flags().StringVar(&issueID, "id", "", "issue ID")
	issueCommentCmd.Flags().StringVar(&issueComment, "message", "", "comment text")
	issueCommentCmd.Flags().BoolVar(&issueInternal, "internal", false, "hide the comment from viewers")

	issueCommentsCmd.Flags().StringVar(&issueID, "id", "", "issue ID")

	rootCmd.AddCommand(issueCmd)
}
