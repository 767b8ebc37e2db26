package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	companydomain "github.com/lionnelpat/svs-backend-sub002/internal/company/domain"
	companyrepo "github.com/lionnelpat/svs-backend-sub002/internal/company/repository"
	"github.com/lionnelpat/svs-backend-sub002/internal/ship/domain"
	shiprepo "github.com/lionnelpat/svs-backend-sub002/internal/ship/repository"
	shipservice "github.com/lionnelpat/svs-backend-sub002/internal/ship/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc     domain.Service
	company companydomain.Company
}

func setup(t *testing.T) fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:ship_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&companydomain.Company{}, &domain.Ship{}))

	node, err := snowflake.NewNode(4)
	require.NoError(t, err)

	company := companydomain.Company{
		ID:     node.Generate(),
		Name:   "CMA Sénégal",
		RCCM:   "SN-DKR-2020-B-1",
		Email:  "contact@cma.sn",
		Active: true,
	}
	require.NoError(t, db.Create(&company).Error)

	svc := shipservice.New(shipservice.Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Repo:      shiprepo.Provide(),
		Companies: companyrepo.Provide(),
	})
	return fixture{svc: svc, company: company}
}

func TestCreateShip(t *testing.T) {
	f := setup(t)

	ship, err := f.svc.Create(context.Background(), domain.CreateShipRequest{
		Name:      "Aline Sitoé Diatta",
		IMONumber: "IMO 9131797",
		Flag:      "SN",
		Type:      "Ferry",
		CompanyID: f.company.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Aline Sitoé Diatta", ship.Name)
	assert.Equal(t, f.company.ID, ship.CompanyID)
	assert.True(t, ship.Active)
}

func TestCreateShipUnknownCompany(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Create(context.Background(), domain.CreateShipRequest{
		Name:      "Fantôme",
		IMONumber: "IMO 0000000",
		CompanyID: "987654321",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCompany)
}

func TestCreateShipDuplicateIMO(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateShipRequest{
		Name:      "Aline Sitoé Diatta",
		IMONumber: "IMO 9131797",
		CompanyID: f.company.ID.String(),
	})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, domain.CreateShipRequest{
		Name:      "Doublon",
		IMONumber: "IMO 9131797",
		CompanyID: f.company.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUpdateShipCompanyMustExist(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	ship, err := f.svc.Create(ctx, domain.CreateShipRequest{
		Name:      "Aline Sitoé Diatta",
		IMONumber: "IMO 9131797",
		CompanyID: f.company.ID.String(),
	})
	require.NoError(t, err)

	unknown := "123456789"
	_, err = f.svc.Update(ctx, domain.UpdateShipRequest{ID: ship.ID.String(), CompanyID: &unknown})
	assert.ErrorIs(t, err, domain.ErrInvalidCompany)
}

func TestListShipsByCompany(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateShipRequest{
		Name:      "Aline Sitoé Diatta",
		IMONumber: "IMO 9131797",
		CompanyID: f.company.ID.String(),
	})
	require.NoError(t, err)

	resp, err := f.svc.List(ctx, domain.ListShipRequest{CompanyID: f.company.ID.String()})
	require.NoError(t, err)
	require.Len(t, resp.Ships, 1)

	resp, err = f.svc.List(ctx, domain.ListShipRequest{CompanyID: "987654321"})
	require.NoError(t, err)
	assert.Empty(t, resp.Ships)
}
