package domain

import (
	"context"
	"errors"

	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
)

type CreateOperationRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	UnitPriceXOF string `json:"unit_price_xof"`
	UnitPriceEUR string `json:"unit_price_eur"`
}

type UpdateOperationRequest struct {
	ID           string  `json:"-"`
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	UnitPriceXOF *string `json:"unit_price_xof"`
	UnitPriceEUR *string `json:"unit_price_eur"`
}

type ListOperationRequest struct {
	pagination.Pagination
	Search string `form:"search"`
	Active *bool  `form:"active"`
}

type ListOperationResponse struct {
	pagination.PageInfo
	Operations []Operation `json:"operations"`
}

type Service interface {
	Create(ctx context.Context, req CreateOperationRequest) (Operation, error)
	Update(ctx context.Context, req UpdateOperationRequest) (Operation, error)
	GetByID(ctx context.Context, id string) (Operation, error)
	List(ctx context.Context, req ListOperationRequest) (ListOperationResponse, error)
	SetActive(ctx context.Context, id string, active bool) (Operation, error)
}

var (
	ErrInvalidID    = errors.New("invalid_id")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidPrice = errors.New("invalid_price")
	ErrNotFound     = errors.New("not_found")
	ErrDuplicate    = errors.New("duplicate_operation")
)
