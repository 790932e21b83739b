package users_controllers

import (
	users_services "bughive/internal/features/users/services"
)

var userController = &UserController{
	userService: users_services.GetUserService(),
}

var managementController = &ManagementController{
	userService: users_services.GetUserService(),
}

func GetUserController() *UserController {
	return userController
}

func GetManagementController() *ManagementController {
	return managementController
}
