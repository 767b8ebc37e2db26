package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/internal/actorctx"
	"github.com/lionnelpat/svs-backend-sub002/internal/config"
	"github.com/lionnelpat/svs-backend-sub002/internal/docnumber"
	"github.com/lionnelpat/svs-backend-sub002/internal/paymentmethod/domain"
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
		log:      p.Log.Named("paymentmethod.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		settings: p.Settings,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePaymentMethodRequest) (domain.PaymentMethod, error) {
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return domain.PaymentMethod{}, domain.ErrInvalidLabel
	}

	prefix := s.settings.Get().PaymentPrefix
	code, err := docnumber.Generate(prefix,
		func(candidate string) (bool, error) { return s.repo.CodeExists(ctx, s.db, candidate) },
		func() (string, bool, error) { return s.repo.LastCode(ctx, s.db, prefix) },
	)
	if err != nil {
		return domain.PaymentMethod{}, err
	}

	now := time.Now().UTC()
	method := domain.PaymentMethod{
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

	if err := s.repo.Insert(ctx, s.db, &method); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.PaymentMethod{}, domain.ErrDuplicate
		}
		return domain.PaymentMethod{}, err
	}

	return method, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdatePaymentMethodRequest) (domain.PaymentMethod, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.PaymentMethod{}, err
	}

	method, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.PaymentMethod{}, err
	}
	if method == nil {
		return domain.PaymentMethod{}, domain.ErrNotFound
	}

	if req.Label != nil {
		label := strings.TrimSpace(*req.Label)
		if label == "" {
			return domain.PaymentMethod{}, domain.ErrInvalidLabel
		}
		method.Label = label
	}
	if req.Description != nil {
		method.Description = strings.TrimSpace(*req.Description)
	}

	method.UpdatedBy = actorctx.UserIDFromContext(ctx)
	method.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, s.db, method); err != nil {
		return domain.PaymentMethod{}, err
	}
	return *method, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.PaymentMethod, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.PaymentMethod{}, err
	}

	method, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.PaymentMethod{}, err
	}
	if method == nil {
		return domain.PaymentMethod{}, domain.ErrNotFound
	}
	return *method, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPaymentMethodRequest) (domain.ListPaymentMethodResponse, error) {
	filter := domain.ListPaymentMethodFilter{
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
		return domain.ListPaymentMethodResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(method *domain.PaymentMethod) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        method.ID.String(),
			CreatedAt: method.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	methods := make([]domain.PaymentMethod, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		methods = append(methods, *item)
	}

	resp := domain.ListPaymentMethodResponse{PaymentMethods: methods}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) SetActive(ctx context.Context, rawID string, active bool) (domain.PaymentMethod, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.PaymentMethod{}, err
	}

	method, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.PaymentMethod{}, err
	}
	if method == nil {
		return domain.PaymentMethod{}, domain.ErrNotFound
	}

	method.Active = active
	method.UpdatedBy = actorctx.UserIDFromContext(ctx)
	method.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, s.db, method); err != nil {
		return domain.PaymentMethod{}, err
	}
	return *method, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
