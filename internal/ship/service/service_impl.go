package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/internal/actorctx"
	companydomain "github.com/lionnelpat/svs-backend-sub002/internal/company/domain"
	"github.com/lionnelpat/svs-backend-sub002/internal/ship/domain"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	Companies companydomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	companies companydomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("ship.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		companies: p.Companies,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateShipRequest) (domain.Ship, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Ship{}, domain.ErrInvalidName
	}
	imo := strings.TrimSpace(req.IMONumber)
	if imo == "" {
		return domain.Ship{}, domain.ErrInvalidIMO
	}

	companyID, err := snowflake.ParseString(strings.TrimSpace(req.CompanyID))
	if err != nil || companyID == 0 {
		return domain.Ship{}, domain.ErrInvalidCompany
	}
	company, err := s.companies.FindByID(ctx, s.db, companyID)
	if err != nil {
		return domain.Ship{}, err
	}
	if company == nil {
		return domain.Ship{}, domain.ErrInvalidCompany
	}

	now := time.Now().UTC()
	ship := domain.Ship{
		ID:        s.genID.Generate(),
		Name:      name,
		IMONumber: imo,
		Flag:      strings.TrimSpace(req.Flag),
		Type:      strings.TrimSpace(req.Type),
		CompanyID: companyID,
		Active:    true,
		CreatedBy: actorctx.UserIDFromContext(ctx),
		UpdatedBy: actorctx.UserIDFromContext(ctx),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &ship); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Ship{}, domain.ErrDuplicate
		}
		return domain.Ship{}, err
	}

	s.log.Info("ship.created", zap.String("ship_id", ship.ID.String()))
	return ship, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateShipRequest) (domain.Ship, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Ship{}, err
	}

	ship, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Ship{}, err
	}
	if ship == nil {
		return domain.Ship{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Ship{}, domain.ErrInvalidName
		}
		ship.Name = name
	}
	if req.Flag != nil {
		ship.Flag = strings.TrimSpace(*req.Flag)
	}
	if req.Type != nil {
		ship.Type = strings.TrimSpace(*req.Type)
	}
	if req.CompanyID != nil {
		companyID, err := snowflake.ParseString(strings.TrimSpace(*req.CompanyID))
		if err != nil || companyID == 0 {
			return domain.Ship{}, domain.ErrInvalidCompany
		}
		company, err := s.companies.FindByID(ctx, s.db, companyID)
		if err != nil {
			return domain.Ship{}, err
		}
		if company == nil {
			return domain.Ship{}, domain.ErrInvalidCompany
		}
		ship.CompanyID = companyID
	}

	ship.UpdatedBy = actorctx.UserIDFromContext(ctx)
	ship.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, s.db, ship); err != nil {
		return domain.Ship{}, err
	}
	return *ship, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Ship, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.Ship{}, err
	}

	ship, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Ship{}, err
	}
	if ship == nil {
		return domain.Ship{}, domain.ErrNotFound
	}
	return *ship, nil
}

func (s *Service) List(ctx context.Context, req domain.ListShipRequest) (domain.ListShipResponse, error) {
	filter := domain.ListShipFilter{
		Search: strings.TrimSpace(req.Search),
		Active: req.Active,
	}
	if raw := strings.TrimSpace(req.CompanyID); raw != "" {
		companyID, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.ListShipResponse{}, domain.ErrInvalidCompany
		}
		filter.CompanyID = companyID
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
		return domain.ListShipResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(ship *domain.Ship) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        ship.ID.String(),
			CreatedAt: ship.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	ships := make([]domain.Ship, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		ships = append(ships, *item)
	}

	resp := domain.ListShipResponse{Ships: ships}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) SetActive(ctx context.Context, rawID string, active bool) (domain.Ship, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.Ship{}, err
	}

	ship, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Ship{}, err
	}
	if ship == nil {
		return domain.Ship{}, domain.ErrNotFound
	}

	ship.Active = active
	ship.UpdatedBy = actorctx.UserIDFromContext(ctx)
	ship.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, s.db, ship); err != nil {
		return domain.Ship{}, err
	}
	return *ship, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
