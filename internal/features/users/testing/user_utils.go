package users_testing

import (
	"fmt"
	"strings"
	"time"

	users_enums "bughive/internal/features/users/enums"
	users_models "bughive/internal/features/users/models"
	users_repositories "bughive/internal/features/users/repositories"
	users_services "bughive/internal/features/users/services"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type TestUserAccess struct {
	UserID uuid.UUID
	Email  string
	Token  string
}

// CreateTestUser inserts a user row and signs an access token for it the
// way the external auth service would, using the shared secret.
func CreateTestUser(role users_enums.UserRole) *TestUserAccess {
	userID := uuid.New()
	email := fmt.Sprintf("%s-%s@test.com", strings.ToLower(string(role)), userID.String()[:8])

	user := &users_models.User{
		ID:        userID,
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		Status:    users_enums.UserStatusActive,
		CreatedAt: time.Now().UTC(),
	}

	userRepository := &users_repositories.UserRepository{}
	if err := userRepository.CreateUser(user); err != nil {
		panic(err)
	}

	return &TestUserAccess{
		UserID: userID,
		Email:  email,
		Token:  SignTokenForUser(user),
	}
}

// SignTokenForUser mimics the external auth collaborator: it signs an HS256
// token with the shared secret from the secret_keys table.
func SignTokenForUser(user *users_models.User) string {
	secretKey, err := users_services.GetSecretKeyRepository().GetSecretKey()
	if err != nil {
		panic(err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"exp":  time.Now().UTC().Add(time.Hour).Unix(),
		"iat":  time.Now().UTC().Unix(),
		"role": string(user.Role),
	})

	signed, err := token.SignedString([]byte(secretKey))
	if err != nil {
		panic(err)
	}

	return signed
}
