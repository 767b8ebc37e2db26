package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/lionnelpat/svs-backend-sub002/internal/user/domain"
	userrepo "github.com/lionnelpat/svs-backend-sub002/internal/user/repository"
	userservice "github.com/lionnelpat/svs-backend-sub002/internal/user/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:user_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(12)
	require.NoError(t, err)

	return userservice.New(userservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  userrepo.Provide(),
	})
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc := newService(t)

	user, err := svc.Create(context.Background(), domain.CreateUserRequest{
		Email:    "Awa.Diop@SVS.SN",
		FullName: "Awa Diop",
		Password: "motdepasse",
		Roles:    []string{"finance"},
	})
	require.NoError(t, err)

	assert.Equal(t, "awa.diop@svs.sn", user.Email)
	assert.NotEqual(t, "motdepasse", user.PasswordHash)
	assert.Equal(t, []string{domain.RoleFinance}, []string(user.Roles))
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	req := domain.CreateUserRequest{
		Email:    "awa.diop@svs.sn",
		FullName: "Awa Diop",
		Password: "motdepasse",
		Roles:    []string{domain.RoleViewer},
	}
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateUserValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateUserRequest{
		Email:    "pas-un-email",
		FullName: "X",
		Password: "motdepasse",
		Roles:    []string{domain.RoleViewer},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.Create(ctx, domain.CreateUserRequest{
		Email:    "ok@svs.sn",
		FullName: "Awa Diop",
		Password: "court",
		Roles:    []string{domain.RoleViewer},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	_, err = svc.Create(ctx, domain.CreateUserRequest{
		Email:    "ok@svs.sn",
		FullName: "Awa Diop",
		Password: "motdepasse",
		Roles:    []string{"CAPITAINE"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestVerifyPassword(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateUserRequest{
		Email:    "awa.diop@svs.sn",
		FullName: "Awa Diop",
		Password: "motdepasse",
		Roles:    []string{domain.RoleAdmin},
	})
	require.NoError(t, err)

	user, err := svc.VerifyPassword(ctx, "awa.diop@svs.sn", "motdepasse")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.VerifyPassword(ctx, "awa.diop@svs.sn", "mauvais")
	assert.ErrorIs(t, err, domain.ErrBadCredentials)

	_, err = svc.VerifyPassword(ctx, "inconnu@svs.sn", "motdepasse")
	assert.ErrorIs(t, err, domain.ErrBadCredentials)

	// Deactivated accounts cannot log in.
	_, err = svc.SetActive(ctx, created.ID.String(), false)
	require.NoError(t, err)
	_, err = svc.VerifyPassword(ctx, "awa.diop@svs.sn", "motdepasse")
	assert.ErrorIs(t, err, domain.ErrBadCredentials)
}

func TestListFiltersByRole(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateUserRequest{
		Email:    "admin@svs.sn",
		FullName: "Admin",
		Password: "motdepasse",
		Roles:    []string{domain.RoleAdmin},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateUserRequest{
		Email:    "viewer@svs.sn",
		FullName: "Viewer",
		Password: "motdepasse",
		Roles:    []string{domain.RoleViewer},
	})
	require.NoError(t, err)

	resp, err := svc.List(ctx, domain.ListUserRequest{Role: domain.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, resp.Users, 1)
	assert.Equal(t, "admin@svs.sn", resp.Users[0].Email)
}
