package users_dto

import (
	users_enums "bughive/internal/features/users/enums"
	users_models "bughive/internal/features/users/models"
)

type ProvisionUserRequestDTO struct {
	Email     string               `json:"email"     binding:"required,email"`
	FirstName string               `json:"firstName" binding:"required,min=1,max=255"`
	LastName  string               `json:"lastName"  binding:"required,min=1,max=255"`
	Role      users_enums.UserRole `json:"role"      binding:"required"`
}

type GetUsersRequestDTO struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

type GetUsersResponseDTO struct {
	Users  []*users_models.User `json:"users"`
	Total  int64                `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

type ChangeUserStatusRequestDTO struct {
	Status users_enums.UserStatus `json:"status" binding:"required"`
}
