package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/internal/user/domain"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Create(user).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Save(user).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).First(&user, "email = ?", strings.ToLower(email)).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListUserFilter, page pagination.Pagination) ([]*domain.User, error) {
	var users []*domain.User
	stmt := db.WithContext(ctx).Model(&domain.User{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("email LIKE ? OR full_name LIKE ?", like, like)
	}
	if filter.Role != "" {
		// Roles are stored as a JSON array of strings.
		stmt = stmt.Where(`roles LIKE ?`, `%"`+filter.Role+`"%`)
	}
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}
	stmt = pagination.Apply(stmt, page)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
