package cmd

import (
	"fmt"
	"strings"

	projects_dto "bughive/internal/features/projects/dto"
	projects_enums "bughive/internal/features/projects/enums"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	projectName       string
	projectKey        string
	projectDesc       string
	projectID         string
	projectRateLimit  int
	projectMemberID   string
	projectMemberRole string
)

// projectCmd represents the project command group
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project management commands",
	Long: `Commands for managing BugHive projects.

Projects scope issues, members, API keys and webhooks. What you can do
in each project depends on your membership role there.

Examples:
  # List projects
  bughivectl project list

  # Create a project
  bughivectl project create --name "Payments" --key PAY

  # Show a project
  bughivectl project show --id <project-id>

  # List project members
  bughivectl project members --id <project-id>

  # Add a member
  bughivectl project add-member --id <project-id> --user <user-id> --role DEVELOPER`,
}

// projectListCmd lists all visible projects
var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Long: `List the projects visible to the authenticated user.

Example:
  bughivectl project list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newApiClient()
		if err != nil {
			return err
		}

		var response projects_dto.ProjectsResponse
		if err := client.get("/projects", &response); err != nil {
			return err
		}

		if GetOutput() == "json" {
			printJSON(response)
			return nil
		}

		if len(response.Projects) == 0 {
			fmt.Println("No projects found.")
			return nil
		}

		fmt.Printf("\n%-36s  %-8s  %-24s  %-8s  %s\n", "ID", "KEY", "NAME", "STATUS", "CREATED")
		fmt.Println(strings.Repeat("-", 92))

		for _, project := range response.Projects {
			fmt.Printf("%-36s  %-8s  %-24s  %-8s  %s\n",
				project.ID,
				project.Key,
				truncate(project.Name, 24),
				project.Status,
				project.CreatedAt.Format("2006-01-02 15:04"),
			)
		}
		fmt.Printf("\nTotal: %d project(s)\n", len(response.Projects))

		return nil
	},
}

// projectCreateCmd creates a new project
var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new project",
	Long: `Create a new project.

The key is a short uppercase identifier, unique across all projects.

Example:
  bughivectl project create --name "Payments" --key PAY --description "Payments backend"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if projectName == "" {
			return fmt.Errorf("--name is required")
		}
		if projectKey == "" {
			return fmt.Errorf("--key is required")
		}

		client, err := newApiClient()
		if err != nil {
			return err
		}

		request := projects_dto.CreateProjectRequest{
			Name:                 strings.TrimSpace(projectName),
			Key:                  strings.ToUpper(strings.TrimSpace(projectKey)),
			Description:          strings.TrimSpace(projectDesc),
			IssuesPerSecondLimit: projectRateLimit,
		}

		var project projects_dto.ProjectResponse
		if err := client.post("/projects", request, &project); err != nil {
			return err
		}

		if GetOutput() == "json" {
			printJSON(project)
			return nil
		}

		fmt.Printf("\nProject created successfully:\n")
		fmt.Printf("  ID:          %s\n", project.ID)
		fmt.Printf("  Key:         %s\n", project.Key)
		fmt.Printf("  Name:        %s\n", project.Name)
		fmt.Printf("  Description: %s\n", project.Description)

		return nil
	},
}

// projectShowCmd shows project details
var projectShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show project details",
	Long: `Show detailed information about a project.

Example:
  bughivectl project show --id 550e8400-e29b-41d4-a716-446655440000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireProjectID()
		if err != nil {
			return err
		}

		client, err := newApiClient()
		if err != nil {
			return err
		}

		var project projects_dto.ProjectResponse
		if err := client.get("/projects/"+id.String(), &project); err != nil {
			return err
		}

		if GetOutput() == "json" {
			printJSON(project)
			return nil
		}

		fmt.Println("\nProject Details:")
		fmt.Printf("  ID:          %s\n", project.ID)
		fmt.Printf("  Key:         %s\n", project.Key)
		fmt.Printf("  Name:        %s\n", project.Name)
		fmt.Printf("  Description: %s\n", project.Description)
		fmt.Printf("  Status:      %s\n", project.Status)
		fmt.Printf("  Rate limit:  %d issues/s\n", project.IssuesPerSecondLimit)
		fmt.Printf("  Created:     %s\n", project.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("  Updated:     %s\n", project.UpdatedAt.Format("2006-01-02 15:04:05"))

		return nil
	},
}

// projectMembersCmd lists project members
var projectMembersCmd = &cobra.Command{
	Use:   "members",
	Short: "List project members",
	Long: `List the members of a project with their roles and effective capabilities.

Example:
  bughivectl project members --id <project-id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireProjectID()
		if err != nil {
			return err
		}

		client, err := newApiClient()
		if err != nil {
			return err
		}

		var response projects_dto.MembersResponse
		if err := client.get("/projects/"+id.String()+"/members", &response); err != nil {
			return err
		}

		if GetOutput() == "json" {
			printJSON(response)
			return nil
		}

		if len(response.Members) == 0 {
			fmt.Println("No members found.")
			return nil
		}

		fmt.Printf("\n%-36s  %-10s  %-40s  %s\n", "USER", "ROLE", "CAPABILITIES", "JOINED")
		fmt.Println(strings.Repeat("-", 108))

		for _, member := range response.Members {
			capabilities := make([]string, len(member.Capabilities))
			for i, capability := range member.Capabilities {
				capabilities[i] = string(capability)
			}

			fmt.Printf("%-36s  %-10s  %-40s  %s\n",
				member.UserID,
				member.Role,
				truncate(strings.Join(capabilities, ","), 40),
				member.JoinedAt.Format("2006-01-02"),
			)
		}
		fmt.Printf("\nTotal: %d member(s)\n", len(response.Members))

		return nil
	},
}

// projectAddMemberCmd adds a member to a project
var projectAddMemberCmd = &cobra.Command{
	Use:   "add-member",
	Short: "Add a member to a project",
	Long: `Add a user to a project with the given role.

Roles: OWNER, ADMIN, DEVELOPER, QA, VIEWER.

Example:
  bughivectl project add-member --id <project-id> --user <user-id> --role DEVELOPER`,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireProjectID()
		if err != nil {
			return err
		}

		if projectMemberID == "" {
			return fmt.Errorf("--user is required")
		}
		userID, err := uuid.Parse(projectMemberID)
		if err != nil {
			return fmt.Errorf("invalid --user: %w", err)
		}

		role := projects_enums.ProjectRole(strings.ToUpper(projectMemberRole))
		if !role.IsValid() {
			return fmt.Errorf("invalid --role: %s", projectMemberRole)
		}

		client, err := newApiClient()
		if err != nil {
			return err
		}

		request := projects_dto.AddMemberRequest{
			UserID: userID,
			Role:   role,
		}

		var member projects_dto.MemberResponse
		if err := client.post("/projects/"+id.String()+"/members", request, &member); err != nil {
			return err
		}

		if GetOutput() == "json" {
			printJSON(member)
			return nil
		}

		fmt.Printf("\nMember added: %s as %s\n", member.UserID, member.Role)

		return nil
	},
}

func requireProjectID() (uuid.UUID, error) {
	if projectID == "" {
		return uuid.Nil, fmt.Errorf("--id is required")
	}

	id, err := uuid.Parse(projectID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --id: %w", err)
	}

	return id, nil
}

func init() {
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectMembersCmd)
	projectCmd.AddCommand(projectAddMemberCmd)

	projectCreateCmd.Flags().StringVar(&projectName, "name", "", "project name")
	projectCreateCmd.Flags().StringVar(&projectKey, "key", "", "short uppercase project key")
	projectCreateCmd.Flags().StringVar(&projectDesc, "description", "", "project description")
	projectCreateCmd.Flags().IntVar(&projectRateLimit, "rate-limit", 0, "issue intake limit per second (0 disables)")

	projectShowCmd.Flags().StringVar(&projectID, "id", "", "project ID")
	projectMembersCmd.Flags().StringVar(&projectID, "id", "", "project ID")

	projectAddMemberCmd.Flags().StringVar(&projectID, "id", "", "project ID")
	projectAddMemberCmd.Flags().StringVar(&projectMemberID, "user", "", "user ID to add")
	projectAddMemberCmd.Flags().StringVar(&projectMemberRole, "role", "VIEWER", "membership role")

	rootCmd.AddCommand(projectCmd)
}
