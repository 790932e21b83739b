package projects_services

import "errors"

var (
	ErrAlreadyMember = errors.New("user is already a member of the project")
	ErrNotMember     = errors.New("user is not a member of the project")
	ErrLastOwner     = errors.New("project must keep at least one owner")
)
