package projects_services

import (
	"log/slog"
	"testing"
	"time"

	"bughive/internal/features/events"
	projects_dto "bughive/internal/features/projects/dto"
	projects_enums "bughive/internal/features/projects/enums"
	projects_models "bughive/internal/features/projects/models"
	"bughive/internal/features/projects/permissions"
	users_enums "bughive/internal/features/users/enums"
	users_models "bughive/internal/features/users/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryMembershipStore struct {
	memberships map[string]*projects_models.ProjectMembership
}

func newMemoryMembershipStore() *memoryMembershipStore {
	return &memoryMembershipStore{memberships: make(map[string]*projects_models.ProjectMembership)}
}

func membershipKey(userID, projectID uuid.UUID) string {
	return userID.String() + "/" + projectID.String()
}

func (s *memoryMembershipStore) CreateMembership(membership *projects_models.ProjectMembership) error {
	copied := *membership
	s.memberships[membershipKey(membership.UserID, membership.ProjectID)] = &copied
	return nil
}

func (s *memoryMembershipStore) GetMembership(userID, projectID uuid.UUID) (*projects_models.ProjectMembership, error) {
	membership, ok := s.memberships[membershipKey(userID, projectID)]
	if !ok {
		return nil, nil
	}

	copied := *membership
	return &copied, nil
}

func (s *memoryMembershipStore) GetProjectMembers(projectID uuid.UUID) ([]*projects_models.ProjectMembership, error) {
	var members []*projects_models.ProjectMembership
	for _, membership := range s.memberships {
		if membership.ProjectID == projectID {
			copied := *membership
			members = append(members, &copied)
		}
	}

	return members, nil
}

func (s *memoryMembershipStore) GetUserMemberships(userID uuid.UUID) ([]*projects_models.ProjectMembership, error) {
	var members []*projects_models.ProjectMembership
	for _, membership := range s.memberships {
		if membership.UserID == userID {
			copied := *membership
			members = append(members, &copied)
		}
	}

	return members, nil
}

func (s *memoryMembershipStore) UpdateMembership(membership *projects_models.ProjectMembership) error {
	copied := *membership
	s.memberships[membershipKey(membership.UserID, membership.ProjectID)] = &copied
	return nil
}

func (s *memoryMembershipStore) DeleteMembership(userID, projectID uuid.UUID) error {
	delete(s.memberships, membershipKey(userID, projectID))
	return nil
}

func (s *memoryMembershipStore) CountMembersWithRole(projectID uuid.UUID, role projects_enums.ProjectRole) (int64, error) {
	var count int64
	for _, membership := range s.memberships {
		if membership.ProjectID == projectID && membership.Role == role {
			count++
		}
	}

	return count, nil
}

type staticUserDirectory struct {
	users map[uuid.UUID]*users_models.User
}

func (d *staticUserDirectory) GetUserByID(userID uuid.UUID) (*users_models.User, error) {
	return d.users[userID], nil
}

type capturingEmitter struct {
	events []*events.DomainEvent
}

func (e *capturingEmitter) Publish(event *events.DomainEvent) {
	e.events = append(e.events, event)
}

type membershipFixture struct {
	service   *MembershipService
	store     *memoryMembershipStore
	directory *staticUserDirectory
	emitter   *capturingEmitter
	projectID uuid.UUID
	owner     *users_models.User
	viewer    *users_models.User
}

func makeActiveUser(role users_enums.UserRole) *users_models.User {
	return &users_models.User{
		ID:     uuid.New(),
		Email:  uuid.New().String()[:8] + "@example.com",
		Role:   role,
		Status: users_enums.UserStatusActive,
	}
}

func newMembershipFixture(t *testing.T) *membershipFixture {
	t.Helper()

	store := newMemoryMembershipStore()
	directory := &staticUserDirectory{users: make(map[uuid.UUID]*users_models.User)}
	emitter := &capturingEmitter{}

	fixture := &membershipFixture{
		service: &MembershipService{
			store,
			directory,
			emitter,
			slog.Default(),
		},
		store:     store,
		directory: directory,
		emitter:   emitter,
		projectID: uuid.New(),
		owner:     makeActiveUser(users_enums.UserRoleMember),
		viewer:    makeActiveUser(users_enums.UserRoleMember),
	}

	fixture.directory.users[fixture.owner.ID] = fixture.owner
	fixture.directory.users[fixture.viewer.ID] = fixture.viewer

	fixture.mustAddDirect(t, fixture.owner.ID, projects_enums.ProjectRoleOwner)
	fixture.mustAddDirect(t, fixture.viewer.ID, projects_enums.ProjectRoleViewer)

	return fixture
}

func (f *membershipFixture) mustAddDirect(t *testing.T, userID uuid.UUID, role projects_enums.ProjectRole) {
	t.Helper()

	err := f.store.CreateMembership(&projects_models.ProjectMembership{
		ID:        uuid.New(),
		UserID:    userID,
		ProjectID: f.projectID,
		Role:      role,
		JoinedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)
}

func (f *membershipFixture) registerUser(user *users_models.User) {
	f.directory.users[user.ID] = user
}

func (f *membershipFixture) lastEvent(t *testing.T) *events.DomainEvent {
	t.Helper()
	require.NotEmpty(t, f.emitter.events)
	return f.emitter.events[len(f.emitter.events)-1]
}

func TestAddMember_ByOwner_CreatesMembershipAndPublishesEvent(t *testing.T) {
	fixture := newMembershipFixture(t)
	target := makeActiveUser(users_enums.UserRoleMember)
	fixture.registerUser(target)

	response, err := fixture.service.AddMember(fixture.projectID, &projects_dto.AddMemberRequest{
		UserID: target.ID,
		Role:   projects_enums.ProjectRoleDeveloper,
	}, fixture.owner)

	require.NoError(t, err)
	assert.Equal(t, target.ID, response.UserID)
	assert.Equal(t, projects_enums.ProjectRoleDeveloper, response.Role)
	assert.Contains(t, response.Capabilities, projects_enums.CapabilityCreateIssue)

	stored, err := fixture.store.GetMembership(target.ID, fixture.projectID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	event := fixture.lastEvent(t)
	assert.Equal(t, events.KindMemberAdded, event.Kind)
	assert.Equal(t, fixture.projectID, event.ProjectID)
	assert.Equal(t, fixture.owner.ID, event.ActorID)
}

func TestAddMember_Duplicate_ReturnsAlreadyMember(t *testing.T) {
	fixture := newMembershipFixture(t)
	target := makeActiveUser(users_enums.UserRoleMember)
	fixture.registerUser(target)

	request := &projects_dto.AddMemberRequest{
		UserID: target.ID,
		Role:   projects_enums.ProjectRoleDeveloper,
	}

	_, err := fixture.service.AddMember(fixture.projectID, request, fixture.owner)
	require.NoError(t, err)

	eventsBefore := len(fixture.emitter.events)

	_, err = fixture.service.AddMember(fixture.projectID, request, fixture.owner)
	assert.ErrorIs(t, err, ErrAlreadyMember)
	assert.Len(t, fixture.emitter.events, eventsBefore)
}

func TestAddMember_ByViewer_ReturnsUnauthorized(t *testing.T) {
	fixture := newMembershipFixture(t)
	target := makeActiveUser(users_enums.UserRoleMember)
	fixture.registerUser(target)

	_, err := fixture.service.AddMember(fixture.projectID, &projects_dto.AddMemberRequest{
		UserID: target.ID,
		Role:   projects_enums.ProjectRoleDeveloper,
	}, fixture.viewer)

	assert.ErrorIs(t, err, permissions.ErrUnauthorized)
}

func TestAddMember_ByGlobalAdminWithoutMembership_Succeeds(t *testing.T) {
	fixture := newMembershipFixture(t)
	globalAdmin := makeActiveUser(users_enums.UserRoleAdmin)
	target := makeActiveUser(users_enums.UserRoleMember)
	fixture.registerUser(globalAdmin)
	fixture.registerUser(target)

	response, err := fixture.service.AddMember(fixture.projectID, &projects_dto.AddMemberRequest{
		UserID: target.ID,
		Role:   projects_enums.ProjectRoleQA,
	}, globalAdmin)

	require.NoError(t, err)
	assert.Equal(t, projects_enums.ProjectRoleQA, response.Role)
}

func TestAddMember_InvalidRole_ReturnsError(t *testing.T) {
	fixture := newMembershipFixture(t)
	target := makeActiveUser(users_enums.UserRoleMember)
	fixture.registerUser(target)

	_, err := fixture.service.AddMember(fixture.projectID, &projects_dto.AddMemberRequest{
		UserID: target.ID,
		Role:   projects_enums.ProjectRole("SUPERUSER"),
	}, fixture.owner)

	assert.ErrorContains(t, err, "invalid project role")
}

func TestAddMember_InactiveTargetUser_ReturnsError(t *testing.T) {
	fixture := newMembershipFixture(t)
	target := makeActiveUser(users_enums.UserRoleMember)
	target.Status = users_enums.UserStatusSuspended
	fixture.registerUser(target)

	_, err := fixture.service.AddMember(fixture.projectID, &projects_dto.AddMemberRequest{
		UserID: target.ID,
		Role:   projects_enums.ProjectRoleDeveloper,
	}, fixture.owner)

	assert.ErrorContains(t, err, "not an active user")
}

func TestUpdateMember_NotAMember_ReturnsNotMember(t *testing.T) {
	fixture := newMembershipFixture(t)
	role := projects_enums.ProjectRoleDeveloper

	_, err := fixture.service.UpdateMember(fixture.projectID, uuid.New(), &projects_dto.UpdateMemberRequest{
		Role: &role,
	}, fixture.owner)

	assert.ErrorIs(t, err, ErrNotMember)
}

func TestUpdateMember_DemoteSoleOwner_ReturnsLastOwner(t *testing.T) {
	fixture := newMembershipFixture(t)
	role := projects_enums.ProjectRoleAdmin

	_, err := fixture.service.UpdateMember(fixture.projectID, fixture.owner.ID, &projects_dto.UpdateMemberRequest{
		Role: &role,
	}, fixture.owner)

	assert.ErrorIs(t, err, ErrLastOwner)

	stored, storeErr := fixture.store.GetMembership(fixture.owner.ID, fixture.projectID)
	require.NoError(t, storeErr)
	assert.Equal(t, projects_enums.ProjectRoleOwner, stored.Role)
}

func TestUpdateMember_DemoteOwnerWithSecondOwnerPresent_Succeeds(t *testing.T) {
	fixture := newMembershipFixture(t)
	secondOwner := makeActiveUser(users_enums.UserRoleMember)
	fixture.registerUser(secondOwner)
	fixture.mustAddDirect(t, secondOwner.ID, projects_enums.ProjectRoleOwner)

	role := projects_enums.ProjectRoleAdmin

	response, err := fixture.service.UpdateMember(fixture.projectID, fixture.owner.ID, &projects_dto.UpdateMemberRequest{
		Role: &role,
	}, secondOwner)

	require.NoError(t, err)
	assert.Equal(t, projects_enums.ProjectRoleAdmin, response.Role)

	event := fixture.lastEvent(t)
	assert.Equal(t, events.KindMemberUpdated, event.Kind)
}

func TestUpdateMember_SettingOverridesExtendsCapabilities(t *testing.T) {
	fixture := newMembershipFixture(t)
	overrides := []projects_enums.Capability{projects_enums.CapabilityManageMembers}

	response, err := fixture.service.UpdateMember(fixture.projectID, fixture.viewer.ID, &projects_dto.UpdateMemberRequest{
		Overrides: &overrides,
	}, fixture.owner)

	require.NoError(t, err)
	assert.Equal(t, projects_enums.ProjectRoleViewer, response.Role)
	assert.Contains(t, response.Capabilities, projects_enums.CapabilityManageMembers)
}

func TestRemoveMember_SoleOwner_ReturnsLastOwner(t *testing.T) {
	fixture := newMembershipFixture(t)

	err := fixture.service.RemoveMember(fixture.projectID, fixture.owner.ID, fixture.owner)

	assert.ErrorIs(t, err, ErrLastOwner)

	stored, storeErr := fixture.store.GetMembership(fixture.owner.ID, fixture.projectID)
	require.NoError(t, storeErr)
	assert.NotNil(t, stored)
}

func TestRemoveMember_OwnerWithSecondOwnerPresent_Succeeds(t *testing.T) {
	fixture := newMembershipFixture(t)
	secondOwner := makeActiveUser(users_enums.UserRoleMember)
	fixture.registerUser(secondOwner)
	fixture.mustAddDirect(t, secondOwner.ID, projects_enums.ProjectRoleOwner)

	err := fixture.service.RemoveMember(fixture.projectID, fixture.owner.ID, secondOwner)

	require.NoError(t, err)

	stored, storeErr := fixture.store.GetMembership(fixture.owner.ID, fixture.projectID)
	require.NoError(t, storeErr)
	assert.Nil(t, stored)

	event := fixture.lastEvent(t)
	assert.Equal(t, events.KindMemberRemoved, event.Kind)
}

func TestRemoveMember_NotAMember_ReturnsNotMember(t *testing.T) {
	fixture := newMembershipFixture(t)

	err := fixture.service.RemoveMember(fixture.projectID, uuid.New(), fixture.owner)

	assert.ErrorIs(t, err, ErrNotMember)
}

func TestGetMembers_ByNonMember_ReturnsUnauthorized(t *testing.T) {
	fixture := newMembershipFixture(t)
	outsider := makeActiveUser(users_enums.UserRoleMember)
	fixture.registerUser(outsider)

	_, err := fixture.service.GetMembers(fixture.projectID, outsider)

	assert.ErrorIs(t, err, permissions.ErrUnauthorized)
}

func TestGetMembers_ByMember_ReturnsAllMembers(t *testing.T) {
	fixture := newMembershipFixture(t)

	response, err := fixture.service.GetMembers(fixture.projectID, fixture.viewer)

	require.NoError(t, err)
	assert.Len(t, response.Members, 2)
}
