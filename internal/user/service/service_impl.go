package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/internal/actorctx"
	"github.com/lionnelpat/svs-backend-sub002/internal/user/domain"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const minPasswordLength = 8

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
		log:   p.Log.Named("user.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateUserRequest) (domain.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return domain.User{}, err
	}
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return domain.User{}, domain.ErrInvalidName
	}
	roles, err := normalizeRoles(req.Roles)
	if err != nil {
		return domain.User{}, err
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           s.genID.Generate(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Roles:        datatypes.NewJSONSlice(roles),
		Active:       true,
		CreatedBy:    actorctx.UserIDFromContext(ctx),
		UpdatedBy:    actorctx.UserIDFromContext(ctx),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.User{}, domain.ErrDuplicate
		}
		return domain.User{}, err
	}

	s.log.Info("user.created",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)
	return user, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateUserRequest) (domain.User, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, domain.ErrNotFound
	}

	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return domain.User{}, err
		}
		user.Email = email
	}
	if req.FullName != nil {
		fullName := strings.TrimSpace(*req.FullName)
		if fullName == "" {
			return domain.User{}, domain.ErrInvalidName
		}
		user.FullName = fullName
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return domain.User{}, err
		}
		user.PasswordHash = hash
	}
	if req.Roles != nil {
		roles, err := normalizeRoles(*req.Roles)
		if err != nil {
			return domain.User{}, err
		}
		user.Roles = datatypes.NewJSONSlice(roles)
	}

	user.UpdatedBy = actorctx.UserIDFromContext(ctx)
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, s.db, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.User{}, domain.ErrDuplicate
		}
		return domain.User{}, err
	}
	return *user, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.User, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, domain.ErrNotFound
	}
	return *user, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.repo.FindByEmail(ctx, s.db, normalized)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, domain.ErrNotFound
	}
	return *user, nil
}

func (s *Service) List(ctx context.Context, req domain.ListUserRequest) (domain.ListUserResponse, error) {
	filter := domain.ListUserFilter{
		Search: strings.TrimSpace(req.Search),
		Active: req.Active,
	}
	if raw := strings.ToUpper(strings.TrimSpace(req.Role)); raw != "" {
		if !domain.ValidRole(raw) {
			return domain.ListUserResponse{}, domain.ErrInvalidRole
		}
		filter.Role = raw
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
		return domain.ListUserResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(user *domain.User) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        user.ID.String(),
			CreatedAt: user.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	users := make([]domain.User, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		users = append(users, *item)
	}

	resp := domain.ListUserResponse{Users: users}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) SetActive(ctx context.Context, rawID string, active bool) (domain.User, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, domain.ErrNotFound
	}

	user.Active = active
	user.UpdatedBy = actorctx.UserIDFromContext(ctx)
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, s.db, user); err != nil {
		return domain.User{}, err
	}
	return *user, nil
}

// VerifyPassword authenticates a login attempt. Unknown email, inactive
// account and wrong password all map to the same error.
func (s *Service) VerifyPassword(ctx context.Context, email, password string) (domain.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return domain.User{}, domain.ErrBadCredentials
	}

	user, err := s.repo.FindByEmail(ctx, s.db, normalized)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil || !user.Active {
		return domain.User{}, domain.ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, domain.ErrBadCredentials
	}
	return *user, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", domain.ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}

func normalizeRoles(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, domain.ErrInvalidRole
	}
	seen := make(map[string]struct{}, len(raw))
	roles := make([]string, 0, len(raw))
	for _, role := range raw {
		role = strings.ToUpper(strings.TrimSpace(role))
		if !domain.ValidRole(role) {
			return nil, domain.ErrInvalidRole
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		roles = append(roles, role)
	}
	return roles, nil
}

func hashPassword(raw string) (string, error) {
	if len(raw) < minPasswordLength {
		return "", domain.ErrInvalidPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
