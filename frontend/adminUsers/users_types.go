package adminusers

import (
	"errors"

	"godam/frontend/shared/nav"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrInvalidRole      = errors.New("role must be admin or dispatcher")
	ErrUsernameExists   = errors.New("username already exists")
)

type UserView struct {
	ID       int64  `bun:"id"`
	Username string `bun:"username"`
	Role     string `bun:"role"`
}

type PageData struct {
	Users        []UserView
	Status       string
	ErrorMessage string
	Nav          nav.TopNavData
}
