package entities

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")

	ErrSessionNotFound = errors.New("session not found")

	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrMemberNotFound    = errors.New("workspace member not found")

	ErrMeetingNotFound     = errors.New("meeting not found")
	ErrMeetingExists       = errors.New("meeting already exists")
	ErrMeetingNotClaimable = errors.New("meeting already claimed or finished")
	ErrActionNotFound      = errors.New("action not found")
	ErrInvalidActionStatus = errors.New("invalid action status")

	ErrIntegrationNotFound = errors.New("integration not found")
)
