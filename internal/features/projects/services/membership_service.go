package projects_services

import (
	"fmt"
	"log/slog"
	"time"

	"bughive/internal/features/events"
	projects_dto "bughive/internal/features/projects/dto"
	projects_enums "bughive/internal/features/projects/enums"
	projects_interfaces "bughive/internal/features/projects/interfaces"
	projects_models "bughive/internal/features/projects/models"
	"bughive/internal/features/projects/permissions"
	users_enums "bughive/internal/features/users/enums"
	users_models "bughive/internal/features/users/models"

	"github.com/google/uuid"
)

// MembershipService is the project membership registry. Every mutation
// keeps the last-owner invariant and publishes a domain event on success.
type MembershipService struct {
	membershipStore projects_interfaces.MembershipStore
	userDirectory   projects_interfaces.UserDirectory
	emitter         events.Emitter
	logger          *slog.Logger
}

func (s *MembershipService) AddMember(
	projectID uuid.UUID,
	request *projects_dto.AddMemberRequest,
	actor *users_models.User,
) (*projects_dto.MemberResponse, error) {
	if err := s.authorizeMemberManagement(projectID, actor); err != nil {
		return nil, err
	}

	if !request.Role.IsValid() {
		return nil, fmt.Errorf("invalid project role: %s", request.Role)
	}

	for _, capability := range request.Overrides {
		if !capability.IsValid() {
			return nil, fmt.Errorf("invalid capability override: %s", capability)
		}
	}

	targetUser, err := s.userDirectory.GetUserByID(request.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if targetUser == nil || !targetUser.IsActiveUser() {
		return nil, fmt.Errorf("user %s is not an active user", request.UserID)
	}

	existing, err := s.membershipStore.GetMembership(request.UserID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	if existing != nil {
		return nil, ErrAlreadyMember
	}

	membership := &projects_models.ProjectMembership{
		ID:        uuid.New(),
		UserID:    request.UserID,
		ProjectID: projectID,
		Role:      request.Role,
		Overrides: request.Overrides,
		JoinedAt:  time.Now().UTC(),
	}

	if err := s.membershipStore.CreateMembership(membership); err != nil {
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	s.logger.Info("project member added",
		"projectId", projectID,
		"userId", membership.UserID,
		"role", membership.Role,
	)

	s.emitter.Publish(events.NewEvent(events.KindMemberAdded, projectID, actor.ID, events.MemberAddedPayload{
		UserID:    membership.UserID,
		Role:      membership.Role,
		Overrides: membership.Overrides,
	}))

	return memberToResponse(membership), nil
}

func (s *MembershipService) UpdateMember(
	projectID uuid.UUID,
	userID uuid.UUID,
	request *projects_dto.UpdateMemberRequest,
	actor *users_models.User,
) (*projects_dto.MemberResponse, error) {
	if err := s.authorizeMemberManagement(projectID, actor); err != nil {
		return nil, err
	}

	membership, err := s.membershipStore.GetMembership(userID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}

	if membership == nil {
		return nil, ErrNotMember
	}

	if request.Role != nil {
		if !request.Role.IsValid() {
			return nil, fmt.Errorf("invalid project role: %s", *request.Role)
		}

		demotesOwner := membership.Role == projects_enums.ProjectRoleOwner &&
			*request.Role != projects_enums.ProjectRoleOwner
		if demotesOwner {
			if err := s.ensureAnotherOwnerExists(projectID); err != nil {
				return nil, err
			}
		}

		membership.Role = *request.Role
	}

	if request.Overrides != nil {
		for _, capability := range *request.Overrides {
			if !capability.IsValid() {
				return nil, fmt.Errorf("invalid capability override: %s", capability)
			}
		}

		membership.Overrides = *request.Overrides
	}

	if err := s.membershipStore.UpdateMembership(membership); err != nil {
		return nil, fmt.Errorf("failed to update membership: %w", err)
	}

	s.emitter.Publish(events.NewEvent(events.KindMemberUpdated, projectID, actor.ID, events.MemberUpdatedPayload{
		UserID:    membership.UserID,
		Role:      membership.Role,
		Overrides: membership.Overrides,
	}))

	return memberToResponse(membership), nil
}

func (s *MembershipService) RemoveMember(
	projectID uuid.UUID,
	userID uuid.UUID,
	actor *users_models.User,
) error {
	if err := s.authorizeMemberManagement(projectID, actor); err != nil {
		return err
	}

	membership, err := s.membershipStore.GetMembership(userID, projectID)
	if err != nil {
		return fmt.Errorf("failed to load membership: %w", err)
	}

	if membership == nil {
		return ErrNotMember
	}

	if membership.Role == projects_enums.ProjectRoleOwner {
		if err := s.ensureAnotherOwnerExists(projectID); err != nil {
			return err
		}
	}

	if err := s.membershipStore.DeleteMembership(userID, projectID); err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}

	s.logger.Info("project member removed", "projectId", projectID, "userId", userID)

	s.emitter.Publish(events.NewEvent(events.KindMemberRemoved, projectID, actor.ID, events.MemberRemovedPayload{
		UserID: userID,
	}))

	return nil
}

func (s *MembershipService) GetMembers(
	projectID uuid.UUID,
	actor *users_models.User,
) (*projects_dto.MembersResponse, error) {
	canView, err := s.CanUserAccessProject(projectID, actor)
	if err != nil {
		return nil, err
	}

	if !canView {
		return nil, permissions.ErrUnauthorized
	}

	memberships, err := s.membershipStore.GetProjectMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project members: %w", err)
	}

	members := make([]*projects_dto.MemberResponse, 0, len(memberships))
	for _, membership := range memberships {
		members = append(members, memberToResponse(membership))
	}

	return &projects_dto.MembersResponse{Members: members}, nil
}

// GetMembership exposes the raw registry lookup to other features,
// returning (nil, nil) when the user is not a member.
func (s *MembershipService) GetMembership(
	userID uuid.UUID,
	projectID uuid.UUID,
) (*projects_models.ProjectMembership, error) {
	return s.membershipStore.GetMembership(userID, projectID)
}

func (s *MembershipService) GetUserMemberships(userID uuid.UUID) ([]*projects_models.ProjectMembership, error) {
	return s.membershipStore.GetUserMemberships(userID)
}

// CreateOwnerMembership registers the project creator as the first owner.
// It bypasses authorization and is only called from project creation.
func (s *MembershipService) CreateOwnerMembership(projectID uuid.UUID, userID uuid.UUID) error {
	membership := &projects_models.ProjectMembership{
		ID:        uuid.New(),
		UserID:    userID,
		ProjectID: projectID,
		Role:      projects_enums.ProjectRoleOwner,
		JoinedAt:  time.Now().UTC(),
	}

	if err := s.membershipStore.CreateMembership(membership); err != nil {
		return fmt.Errorf("failed to create owner membership: %w", err)
	}

	return nil
}

// CanUserAccessProject reports whether the user may see the project at all.
// Global admins see every project, everyone else needs a membership.
func (s *MembershipService) CanUserAccessProject(projectID uuid.UUID, user *users_models.User) (bool, error) {
	if user.Role == users_enums.UserRoleAdmin {
		return true, nil
	}

	membership, err := s.membershipStore.GetMembership(user.ID, projectID)
	if err != nil {
		return false, fmt.Errorf("failed to load membership: %w", err)
	}

	return membership != nil, nil
}

// AuthorizeCapability checks a project capability for the user, letting
// global admins through without a membership.
func (s *MembershipService) AuthorizeCapability(
	projectID uuid.UUID,
	user *users_models.User,
	capability projects_enums.Capability,
) (*projects_models.ProjectMembership, error) {
	membership, err := s.membershipStore.GetMembership(user.ID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}

	if user.Role == users_enums.UserRoleAdmin {
		return membership, nil
	}

	if !permissions.Authorize(membership, capability) {
		return nil, permissions.ErrUnauthorized
	}

	return membership, nil
}

func (s *MembershipService) authorizeMemberManagement(projectID uuid.UUID, actor *users_models.User) error {
	_, err := s.AuthorizeCapability(projectID, actor, projects_enums.CapabilityManageMembers)
	return err
}

func (s *MembershipService) ensureAnotherOwnerExists(projectID uuid.UUID) error {
	ownerCount, err := s.membershipStore.CountMembersWithRole(projectID, projects_enums.ProjectRoleOwner)
	if err != nil {
		return fmt.Errorf("failed to count project owners: %w", err)
	}

	if ownerCount <= 1 {
		return ErrLastOwner
	}

	return nil
}

func memberToResponse(membership *projects_models.ProjectMembership) *projects_dto.MemberResponse {
	return &projects_dto.MemberResponse{
		UserID:       membership.UserID,
		ProjectID:    membership.ProjectID,
		Role:         membership.Role,
		Overrides:    membership.Overrides,
		Capabilities: permissions.EffectiveCapabilities(membership),
		JoinedAt:     membership.JoinedAt,
	}
}
