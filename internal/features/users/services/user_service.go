package users_services

import (
	"errors"
	"fmt"
	"time"

	users_dto "bughive/internal/features/users/dto"
	users_enums "bughive/internal/features/users/enums"
	users_interfaces "bughive/internal/features/users/interfaces"
	users_models "bughive/internal/features/users/models"
	users_repositories "bughive/internal/features/users/repositories"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type UserService struct {
	userRepository      *users_repositories.UserRepository
	secretKeyRepository *users_repositories.SecretKeyRepository
	// audit log is never nil, DI always sets it
	auditLogWriter users_interfaces.AuditLogWriter
}

func (s *UserService) SetAuditLogWriter(writer users_interfaces.AuditLogWriter) {
	s.auditLogWriter = writer
}

// GetUserFromToken validates an HS256 token issued by the external auth
// service and resolves the local user record it refers to.
func (s *UserService) GetUserFromToken(token string) (*users_models.User, error) {
	secretKey, err := s.secretKeyRepository.GetSecretKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret key: %w", err)
	}

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, errors.New("invalid token")
	}

	userIDStr, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.New("invalid token claims")
	}

	user, err := s.userRepository.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if !user.IsActiveUser() {
		return nil, errors.New("user account is deactivated")
	}

	return user, nil
}

func (s *UserService) GetUserByID(userID uuid.UUID) (*users_models.User, error) {
	return s.userRepository.GetUserByID(userID)
}

func (s *UserService) GetUserByEmail(email string) (*users_models.User, error) {
	return s.userRepository.GetUserByEmail(email)
}

// ProvisionUser creates a local identity record for a principal managed by
// the external auth service. Admin only.
func (s *UserService) ProvisionUser(
	request *users_dto.ProvisionUserRequestDTO,
	createdBy *users_models.User,
) (*users_models.User, error) {
	if !createdBy.CanManageUsers() {
		return nil, errors.New("insufficient permissions to manage users")
	}

	existingUser, err := s.userRepository.GetUserByEmail(request.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if existingUser != nil {
		return nil, errors.New("user with this email already exists")
	}

	user := &users_models.User{
		ID:        uuid.New(),
		Email:     request.Email,
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Role:      request.Role,
		Status:    users_enums.UserStatusActive,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.userRepository.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("User provisioned: %s", user.Email),
		&createdBy.ID,
		nil,
	)

	return user, nil
}

func (s *UserService) GetUsers(
	request *users_dto.GetUsersRequestDTO,
	requestedBy *users_models.User,
) (*users_dto.GetUsersResponseDTO, error) {
	if !requestedBy.CanManageUsers() {
		return nil, errors.New("insufficient permissions to manage users")
	}

	limit := request.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	offset := max(request.Offset, 0)

	users, total, err := s.userRepository.GetUsers(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	return &users_dto.GetUsersResponseDTO{
		Users:  users,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

func (s *UserService) ChangeUserStatus(
	userID uuid.UUID,
	status users_enums.UserStatus,
	changedBy *users_models.User,
) error {
	if !changedBy.CanManageUsers() {
		return errors.New("insufficient permissions to manage users")
	}

	if userID == changedBy.ID {
		return errors.New("cannot change your own status")
	}

	targetUser, err := s.userRepository.GetUserByID(userID)
	if err != nil {
		return errors.New("user not found")
	}

	if err := s.userRepository.UpdateUserStatus(userID, status); err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("User status changed: %s to %s", targetUser.Email, status),
		&changedBy.ID,
		nil,
	)

	return nil
}

func (s *UserService) CreateInitialAdmin() error {
	return s.userRepository.CreateInitialAdmin()
}
