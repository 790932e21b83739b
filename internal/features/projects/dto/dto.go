package projects_dto

import (
	"time"

	projects_enums "bughive/internal/features/projects/enums"

	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	Name                 string `json:"name" binding:"required,min=1,max=255"`
	Key                  string `json:"key" binding:"required,min=2,max=10,uppercase,alphanum"`
	Description          string `json:"description" binding:"max=2000"`
	IssuesPerSecondLimit int    `json:"issuesPerSecondLimit" binding:"omitempty,min=0"`
}

type UpdateProjectRequest struct {
	Name                 *string                       `json:"name" binding:"omitempty,min=1,max=255"`
	Description          *string                       `json:"description" binding:"omitempty,max=2000"`
	Status               *projects_enums.ProjectStatus `json:"status"`
	IssuesPerSecondLimit *int                          `json:"issuesPerSecondLimit" binding:"omitempty,min=0"`
}

type ProjectResponse struct {
	ID                   uuid.UUID                    `json:"id"`
	Name                 string                       `json:"name"`
	Key                  string                       `json:"key"`
	Description          string                       `json:"description"`
	Status               projects_enums.ProjectStatus `json:"status"`
	IssuesPerSecondLimit int                          `json:"issuesPerSecondLimit"`
	CreatedAt            time.Time                    `json:"createdAt"`
	UpdatedAt            time.Time                    `json:"updatedAt"`
}

type ProjectsResponse struct {
	Projects []*ProjectResponse `json:"projects"`
}

type AddMemberRequest struct {
	UserID    uuid.UUID                   `json:"userId" binding:"required"`
	Role      projects_enums.ProjectRole  `json:"role" binding:"required"`
	Overrides []projects_enums.Capability `json:"overrides"`
}

type UpdateMemberRequest struct {
	Role      *projects_enums.ProjectRole  `json:"role"`
	Overrides *[]projects_enums.Capability `json:"overrides"`
}

type MemberResponse struct {
	UserID       uuid.UUID                   `json:"userId"`
	ProjectID    uuid.UUID                   `json:"projectId"`
	Role         projects_enums.ProjectRole  `json:"role"`
	Overrides    []projects_enums.Capability `json:"overrides"`
	Capabilities []projects_enums.Capability `json:"capabilities"`
	JoinedAt     time.Time                   `json:"joinedAt"`
}

type MembersResponse struct {
	Members []*MemberResponse `json:"members"`
}
