package domain

import (
	"context"
	"errors"

	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
)

type CreateShipRequest struct {
	Name      string `json:"name"`
	IMONumber string `json:"imo_number"`
	Flag      string `json:"flag"`
	Type      string `json:"type"`
	CompanyID string `json:"company_id"`
}

type UpdateShipRequest struct {
	ID        string  `json:"-"`
	Name      *string `json:"name"`
	Flag      *string `json:"flag"`
	Type      *string `json:"type"`
	CompanyID *string `json:"company_id"`
}

type ListShipRequest struct {
	pagination.Pagination
	Search    string `form:"search"`
	CompanyID string `form:"company_id"`
	Active    *bool  `form:"active"`
}

type ListShipResponse struct {
	pagination.PageInfo
	Ships []Ship `json:"ships"`
}

type Service interface {
	Create(ctx context.Context, req CreateShipRequest) (Ship, error)
	Update(ctx context.Context, req UpdateShipRequest) (Ship, error)
	GetByID(ctx context.Context, id string) (Ship, error)
	List(ctx context.Context, req ListShipRequest) (ListShipResponse, error)
	SetActive(ctx context.Context, id string, active bool) (Ship, error)
}

var (
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidIMO     = errors.New("invalid_imo_number")
	ErrInvalidCompany = errors.New("invalid_company")
	ErrNotFound       = errors.New("not_found")
	ErrDuplicate      = errors.New("duplicate_ship")
)
