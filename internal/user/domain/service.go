package domain

import (
	"context"
	"errors"

	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
)

type CreateUserRequest struct {
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

type UpdateUserRequest struct {
	ID       string    `json:"-"`
	Email    *string   `json:"email"`
	FullName *string   `json:"full_name"`
	Password *string   `json:"password"`
	Roles    *[]string `json:"roles"`
}

type ListUserRequest struct {
	pagination.Pagination
	Search string `form:"search"`
	Role   string `form:"role"`
	Active *bool  `form:"active"`
}

type ListUserResponse struct {
	pagination.PageInfo
	Users []User `json:"users"`
}

type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (User, error)
	Update(ctx context.Context, req UpdateUserRequest) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, req ListUserRequest) (ListUserResponse, error)
	SetActive(ctx context.Context, id string, active bool) (User, error)
	VerifyPassword(ctx context.Context, email, password string) (User, error)
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidPassword = errors.New("invalid_password")
	ErrInvalidRole     = errors.New("invalid_role")
	ErrNotFound        = errors.New("not_found")
	ErrDuplicate       = errors.New("duplicate_user")
	ErrBadCredentials  = errors.New("bad_credentials")
)
