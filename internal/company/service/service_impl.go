package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/internal/actorctx"
	"github.com/lionnelpat/svs-backend-sub002/internal/company/domain"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("company.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCompanyRequest) (domain.Company, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Company{}, domain.ErrInvalidName
	}
	rccm := strings.TrimSpace(req.RCCM)
	if rccm == "" {
		return domain.Company{}, domain.ErrInvalidRCCM
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Company{}, domain.ErrInvalidEmail
	}

	now := time.Now().UTC()
	company := domain.Company{
		ID:        s.genID.Generate(),
		Name:      name,
		RCCM:      rccm,
		NINEA:     strings.TrimSpace(req.NINEA),
		Address:   strings.TrimSpace(req.Address),
		City:      strings.TrimSpace(req.City),
		Country:   strings.TrimSpace(req.Country),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     email,
		Website:   strings.TrimSpace(req.Website),
		Active:    true,
		CreatedBy: actorctx.UserIDFromContext(ctx),
		UpdatedBy: actorctx.UserIDFromContext(ctx),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &company); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Company{}, domain.ErrDuplicate
		}
		return domain.Company{}, err
	}

	s.log.Info("company.created", zap.String("company_id", company.ID.String()))
	return company, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCompanyRequest) (domain.Company, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Company{}, err
	}

	company, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Company{}, err
	}
	if company == nil {
		return domain.Company{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Company{}, domain.ErrInvalidName
		}
		company.Name = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" || !strings.Contains(email, "@") {
			return domain.Company{}, domain.ErrInvalidEmail
		}
		company.Email = email
	}
	if req.NINEA != nil {
		company.NINEA = strings.TrimSpace(*req.NINEA)
	}
	if req.Address != nil {
		company.Address = strings.TrimSpace(*req.Address)
	}
	if req.City != nil {
		company.City = strings.TrimSpace(*req.City)
	}
	if req.Country != nil {
		company.Country = strings.TrimSpace(*req.Country)
	}
	if req.Phone != nil {
		company.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Website != nil {
		company.Website = strings.TrimSpace(*req.Website)
	}

	company.UpdatedBy = actorctx.UserIDFromContext(ctx)
	company.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, s.db, company); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Company{}, domain.ErrDuplicate
		}
		return domain.Company{}, err
	}

	return *company, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Company, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.Company{}, err
	}

	company, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Company{}, err
	}
	if company == nil {
		return domain.Company{}, domain.ErrNotFound
	}
	return *company, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCompanyRequest) (domain.ListCompanyResponse, error) {
	filter := domain.ListCompanyFilter{
		Search:  strings.TrimSpace(req.Search),
		Country: strings.TrimSpace(req.Country),
		Active:  req.Active,
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
		return domain.ListCompanyResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(company *domain.Company) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        company.ID.String(),
			CreatedAt: company.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	companies := make([]domain.Company, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		companies = append(companies, *item)
	}

	resp := domain.ListCompanyResponse{Companies: companies}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) SetActive(ctx context.Context, rawID string, active bool) (domain.Company, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.Company{}, err
	}

	company, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Company{}, err
	}
	if company == nil {
		return domain.Company{}, domain.ErrNotFound
	}

	company.Active = active
	company.UpdatedBy = actorctx.UserIDFromContext(ctx)
	company.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, s.db, company); err != nil {
		return domain.Company{}, err
	}
	return *company, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
