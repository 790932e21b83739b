package users_services

import (
	users_repositories "bughive/internal/features/users/repositories"
)

var secretKeyRepository = &users_repositories.SecretKeyRepository{}
var userRepository = &users_repositories.UserRepository{}

var userService = &UserService{
	userRepository:      userRepository,
	secretKeyRepository: secretKeyRepository,
}

func GetUserService() *UserService {
	return userService
}

func GetSecretKeyRepository() *users_repositories.SecretKeyRepository {
	return secretKeyRepository
}
