package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/lionnelpat/svs-backend-sub002/internal/company/domain"
	companyrepo "github.com/lionnelpat/svs-backend-sub002/internal/company/repository"
	companyservice "github.com/lionnelpat/svs-backend-sub002/internal/company/service"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:company_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&domain.Company{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newService(t *testing.T) domain.Service {
	t.Helper()

	node, err := snowflake.NewNode(3)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return companyservice.New(companyservice.Params{
		DB:    setupTestDB(t),
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  companyrepo.Provide(),
	})
}

func createCompany(t *testing.T, svc domain.Service, name, rccm string) domain.Company {
	t.Helper()

	company, err := svc.Create(context.Background(), domain.CreateCompanyRequest{
		Name:    name,
		RCCM:    rccm,
		Country: "Sénégal",
		Email:   "contact@" + rccm + ".sn",
	})
	require.NoError(t, err)
	return company
}

func TestCreateCompanyValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateCompanyRequest{RCCM: "SN-DKR-2020-B-1", Email: "a@b.sn"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateCompanyRequest{Name: "CMA", Email: "a@b.sn"})
	assert.ErrorIs(t, err, domain.ErrInvalidRCCM)

	_, err = svc.Create(ctx, domain.CreateCompanyRequest{Name: "CMA", RCCM: "SN-DKR-2020-B-1", Email: "pas-un-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestCreateCompanyDuplicateRCCM(t *testing.T) {
	svc := newService(t)

	createCompany(t, svc, "CMA Sénégal", "SN-DKR-2020-B-1")

	_, err := svc.Create(context.Background(), domain.CreateCompanyRequest{
		Name:  "Autre Compagnie",
		RCCM:  "SN-DKR-2020-B-1",
		Email: "autre@mer.sn",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUpdateCompanyPartial(t *testing.T) {
	svc := newService(t)
	company := createCompany(t, svc, "CMA Sénégal", "SN-DKR-2020-B-1")

	city := "Dakar"
	updated, err := svc.Update(context.Background(), domain.UpdateCompanyRequest{
		ID:   company.ID.String(),
		City: &city,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dakar", updated.City)
	assert.Equal(t, company.Name, updated.Name)
	assert.Equal(t, company.RCCM, updated.RCCM)
}

func TestListCompaniesFilters(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	a := createCompany(t, svc, "CMA Sénégal", "SN-DKR-2020-B-1")
	createCompany(t, svc, "Maersk Dakar", "SN-DKR-2021-B-2")

	resp, err := svc.List(ctx, domain.ListCompanyRequest{Search: "CMA"})
	require.NoError(t, err)
	require.Len(t, resp.Companies, 1)
	assert.Equal(t, a.ID, resp.Companies[0].ID)

	resp, err = svc.List(ctx, domain.ListCompanyRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Companies, 2)
}

func TestDeactivatedCompanyFilteredOut(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	company := createCompany(t, svc, "CMA Sénégal", "SN-DKR-2020-B-1")
	createCompany(t, svc, "Maersk Dakar", "SN-DKR-2021-B-2")

	_, err := svc.SetActive(ctx, company.ID.String(), false)
	require.NoError(t, err)

	active := true
	resp, err := svc.List(ctx, domain.ListCompanyRequest{Active: &active})
	require.NoError(t, err)
	require.Len(t, resp.Companies, 1)
	assert.Equal(t, "Maersk Dakar", resp.Companies[0].Name)

	// still retrievable directly, only hidden from active listings
	got, err := svc.GetByID(ctx, company.ID.String())
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestListCompaniesPagination(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		createCompany(t, svc, fmt.Sprintf("Compagnie %d", i), fmt.Sprintf("SN-DKR-2020-B-%d", i))
		time.Sleep(2 * time.Millisecond)
	}

	first, err := svc.List(ctx, domain.ListCompanyRequest{})
	require.NoError(t, err)
	require.Len(t, first.Companies, 3)

	paged, err := svc.List(ctx, domain.ListCompanyRequest{Pagination: pagination.Pagination{PageSize: 2}})
	require.NoError(t, err)
	require.Len(t, paged.Companies, 2)
	require.True(t, paged.HasMore)
	require.NotEmpty(t, paged.NextPageToken)

	rest, err := svc.List(ctx, domain.ListCompanyRequest{Pagination: pagination.Pagination{PageSize: 2, PageToken: paged.NextPageToken}})
	require.NoError(t, err)
	require.Len(t, rest.Companies, 1)
	assert.False(t, rest.HasMore)
}

func TestGetCompanyNotFound(t *testing.T) {
	svc := newService(t)

	_, err := svc.GetByID(context.Background(), "123456789")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetByID(context.Background(), "pas-un-id")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
