package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/internal/actorctx"
	"github.com/lionnelpat/svs-backend-sub002/internal/config"
	"github.com/lionnelpat/svs-backend-sub002/internal/docnumber"
	"github.com/lionnelpat/svs-backend-sub002/internal/operation/domain"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Settings *config.SettingsHolder
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	settings *config.SettingsHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("operation.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		settings: p.Settings,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateOperationRequest) (domain.Operation, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Operation{}, domain.ErrInvalidName
	}

	priceXOF, err := parsePrice(req.UnitPriceXOF)
	if err != nil {
		return domain.Operation{}, err
	}
	priceEUR, err := parseOptionalPrice(req.UnitPriceEUR)
	if err != nil {
		return domain.Operation{}, err
	}

	prefix := s.settings.Get().OperationPrefix
	code, err := docnumber.Generate(prefix,
		func(candidate string) (bool, error) { return s.repo.CodeExists(ctx, s.db, candidate) },
		func() (string, bool, error) { return s.repo.LastCode(ctx, s.db, prefix) },
	)
	if err != nil {
		return domain.Operation{}, err
	}

	now := time.Now().UTC()
	operation := domain.Operation{
		ID:           s.genID.Generate(),
		Code:         code,
		Name:         name,
		Description:  strings.TrimSpace(req.Description),
		UnitPriceXOF: priceXOF,
		UnitPriceEUR: priceEUR,
		Active:       true,
		CreatedBy:    actorctx.UserIDFromContext(ctx),
		UpdatedBy:    actorctx.UserIDFromContext(ctx),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &operation); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Operation{}, domain.ErrDuplicate
		}
		return domain.Operation{}, err
	}

	s.log.Info("operation.created",
		zap.String("operation_id", operation.ID.String()),
		zap.String("code", operation.Code),
	)
	return operation, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateOperationRequest) (domain.Operation, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Operation{}, err
	}

	operation, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Operation{}, err
	}
	if operation == nil {
		return domain.Operation{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Operation{}, domain.ErrInvalidName
		}
		operation.Name = name
	}
	if req.Description != nil {
		operation.Description = strings.TrimSpace(*req.Description)
	}
	if req.UnitPriceXOF != nil {
		price, err := parsePrice(*req.UnitPriceXOF)
		if err != nil {
			return domain.Operation{}, err
		}
		operation.UnitPriceXOF = price
	}
	if req.UnitPriceEUR != nil {
		price, err := parseOptionalPrice(*req.UnitPriceEUR)
		if err != nil {
			return domain.Operation{}, err
		}
		operation.UnitPriceEUR = price
	}

	operation.UpdatedBy = actorctx.UserIDFromContext(ctx)
	operation.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, s.db, operation); err != nil {
		return domain.Operation{}, err
	}
	return *operation, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Operation, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.Operation{}, err
	}

	operation, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Operation{}, err
	}
	if operation == nil {
		return domain.Operation{}, domain.ErrNotFound
	}
	return *operation, nil
}

func (s *Service) List(ctx context.Context, req domain.ListOperationRequest) (domain.ListOperationResponse, error) {
	filter := domain.ListOperationFilter{
		Search: strings.TrimSpace(req.Search),
		Active: req.Active,
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 25
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListOperationResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(operation *domain.Operation) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        operation.ID.String(),
			CreatedAt: operation.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	operations := make([]domain.Operation, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		operations = append(operations, *item)
	}

	resp := domain.ListOperationResponse{Operations: operations}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) SetActive(ctx context.Context, rawID string, active bool) (domain.Operation, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.Operation{}, err
	}

	operation, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Operation{}, err
	}
	if operation == nil {
		return domain.Operation{}, domain.ErrNotFound
	}

	operation.Active = active
	operation.UpdatedBy = actorctx.UserIDFromContext(ctx)
	operation.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, s.db, operation); err != nil {
		return domain.Operation{}, err
	}
	return *operation, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || price.IsNegative() {
		return decimal.Decimal{}, domain.ErrInvalidPrice
	}
	return price.Round(2), nil
}

func parseOptionalPrice(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	price, err := parsePrice(raw)
	if err != nil {
		return nil, err
	}
	return &price, nil
}
