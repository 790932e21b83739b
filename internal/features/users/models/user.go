package users_models

import (
	"time"

	users_enums "bughive/internal/features/users/enums"

	"github.com/google/uuid"
)

// User is the local identity record. Credentials live with the external
// auth service; this backend only validates the tokens it issues.
type User struct {
	ID        uuid.UUID              `json:"id"        gorm:"column:id"`
	Email     string                 `json:"email"     gorm:"column:email"`
	FirstName string                 `json:"firstName" gorm:"column:first_name"`
	LastName  string                 `json:"lastName"  gorm:"column:last_name"`
	Role      users_enums.UserRole   `json:"role"      gorm:"column:role"`
	Status    users_enums.UserStatus `json:"status"    gorm:"column:status"`
	CreatedAt time.Time              `json:"createdAt" gorm:"column:created_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActiveUser() bool {
	return u.Status == users_enums.UserStatusActive
}

func (u *User) CanManageUsers() bool {
	return u.Role == users_enums.UserRoleAdmin
}

func (u *User) CanCreateProjects() bool {
	return u.Role == users_enums.UserRoleAdmin || u.Role == users_enums.UserRoleMember
}
