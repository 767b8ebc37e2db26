package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/internal/actorctx"
	"github.com/lionnelpat/svs-backend-sub002/internal/config"
	"github.com/lionnelpat/svs-backend-sub002/internal/docnumber"
	"github.com/lionnelpat/svs-backend-sub002/internal/expensecategory/domain"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
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
		log:      p.Log.Named("expensecategory.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		settings: p.Settings,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateExpenseCategoryRequest) (domain.ExpenseCategory, error) {
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return domain.ExpenseCategory{}, domain.ErrInvalidLabel
	}

	prefix := s.settings.Get().CategoryPrefix
	code, err := docnumber.Generate(prefix,
		func(candidate string) (bool, error) { return s.repo.CodeExists(ctx, s.db, candidate) },
		func() (string, bool, error) { return s.repo.LastCode(ctx, s.db, prefix) },
	)
	if err != nil {
		return domain.ExpenseCategory{}, err
	}

	now := time.Now().UTC()
	category := domain.ExpenseCategory{
		ID:          s.genID.Generate(),
		Code:        code,
		Label:       label,
		Description: strings.TrimSpace(req.Description),
		Active:      true,
		CreatedBy:   actorctx.UserIDFromContext(ctx),
		UpdatedBy:   actorctx.UserIDFromContext(ctx),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &category); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ExpenseCategory{}, domain.ErrDuplicate
		}
		return domain.ExpenseCategory{}, err
	}

	return category, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateExpenseCategoryRequest) (domain.ExpenseCategory, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.ExpenseCategory{}, err
	}

	category, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.ExpenseCategory{}, err
	}
	if category == nil {
		return domain.ExpenseCategory{}, domain.ErrNotFound
	}

	if req.Label != nil {
		label := strings.TrimSpace(*req.Label)
		if label == "" {
			return domain.ExpenseCategory{}, domain.ErrInvalidLabel
		}
		category.Label = label
	}
	if req.Description != nil {
		category.Description = strings.TrimSpace(*req.Description)
	}

	category.UpdatedBy = actorctx.UserIDFromContext(ctx)
	category.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, s.db, category); err != nil {
		return domain.ExpenseCategory{}, err
	}
	return *category, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.ExpenseCategory, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.ExpenseCategory{}, err
	}

	category, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.ExpenseCategory{}, err
	}
	if category == nil {
		return domain.ExpenseCategory{}, domain.ErrNotFound
	}
	return *category, nil
}

func (s *Service) List(ctx context.Context, req domain.ListExpenseCategoryRequest) (domain.ListExpenseCategoryResponse, error) {
	filter := domain.ListExpenseCategoryFilter{
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
		return domain.ListExpenseCategoryResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(category *domain.ExpenseCategory) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        category.ID.String(),
			CreatedAt: category.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	categories := make([]domain.ExpenseCategory, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		categories = append(categories, *item)
	}

	resp := domain.ListExpenseCategoryResponse{Categories: categories}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) SetActive(ctx context.Context, rawID string, active bool) (domain.ExpenseCategory, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.ExpenseCategory{}, err
	}

	category, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.ExpenseCategory{}, err
	}
	if category == nil {
		return domain.ExpenseCategory{}, domain.ErrNotFound
	}

	category.Active = active
	category.UpdatedBy = actorctx.UserIDFromContext(ctx)
	category.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, s.db, category); err != nil {
		return domain.ExpenseCategory{}, err
	}
	return *category, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
