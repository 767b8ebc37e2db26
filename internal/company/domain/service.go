package domain

import (
	"context"
	"errors"

	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
)

type CreateCompanyRequest struct {
	Name    string `json:"name"`
	RCCM    string `json:"rccm"`
	NINEA   string `json:"ninea"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
}

type UpdateCompanyRequest struct {
	ID      string  `json:"-"`
	Name    *string `json:"name"`
	NINEA   *string `json:"ninea"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Country *string `json:"country"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Website *string `json:"website"`
}

type ListCompanyRequest struct {
	pagination.Pagination
	Search  string `form:"search"`
	Country string `form:"country"`
	Active  *bool  `form:"active"`
}

type ListCompanyResponse struct {
	pagination.PageInfo
	Companies []Company `json:"companies"`
}

type Service interface {
	Create(ctx context.Context, req CreateCompanyRequest) (Company, error)
	Update(ctx context.Context, req UpdateCompanyRequest) (Company, error)
	GetByID(ctx context.Context, id string) (Company, error)
	List(ctx context.Context, req ListCompanyRequest) (ListCompanyResponse, error)
	SetActive(ctx context.Context, id string, active bool) (Company, error)
}

var (
	ErrInvalidID    = errors.New("invalid_id")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidRCCM  = errors.New("invalid_rccm")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrNotFound     = errors.New("not_found")
	ErrDuplicate    = errors.New("duplicate_company")
)
