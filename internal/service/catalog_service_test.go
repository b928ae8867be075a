package service_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Baaaki/planogram-backoffice/internal/models"
	"github.com/Baaaki/planogram-backoffice/internal/repository"
	"github.com/Baaaki/planogram-backoffice/internal/service"
	"github.com/Baaaki/planogram-backoffice/internal/testutil"
	"github.com/stretchr/testify/suite"
)

// brokenTable fails every select against one table and passes the rest through.
type brokenTable struct {
	repository.Querier
	table string
}

func (b brokenTable) Select(ctx context.Context, dest any, query string, args ...any) error {
	if strings.Contains(query, "FROM "+b.table) {
		return errors.New("table " + b.table + " is unavailable")
	}
	return b.Querier.Select(ctx, dest, query, args...)
}

func (b brokenTable) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return b.Querier.Exec(ctx, query, args...)
}

type CatalogServiceTestSuite struct {
	serviceSuite
}

func (s *CatalogServiceTestSuite) TestCreateStorePopulatesAuditUsers() {
	admin := s.admin()

	view, err := s.storeService.Create(s.ctx, service.StoreInput{Name: "  Central  ", Address: testutil.Ptr("Main St 1")}, admin.ID)
	s.Require().NoError(err)

	s.Equal("Central", view.Name)
	s.Require().NotNil(view.CreatedBy)
	s.Equal(admin.ID, view.CreatedBy.ID)
	s.Equal(admin.Email, view.CreatedBy.Email)
	s.Require().NotNil(view.UpdatedBy)
	s.Equal(admin.ID, view.UpdatedBy.ID)
}

func (s *CatalogServiceTestSuite) TestCreateStoreWithoutActorLeavesAuditNull() {
	view, err := s.storeService.Create(s.ctx, service.StoreInput{Name: "Orphan"}, "")
	s.Require().NoError(err)
	s.Nil(view.CreatedByID)
	s.Nil(view.CreatedBy)
}

func (s *CatalogServiceTestSuite) TestCreateStoreRequiresName() {
	_, err := s.storeService.Create(s.ctx, service.StoreInput{Name: "   "}, "")
	s.ErrorIs(err, service.ErrValidation)
}

func (s *CatalogServiceTestSuite) TestMissingAuditUserIsNull() {
	ghost := "00000000-0000-0000-0000-000000000000"
	s.store("Ghosted", &ghost)

	views, err := s.storeService.List(s.ctx, service.ListQuery{})
	s.Require().NoError(err)
	s.Require().Len(views, 1)
	s.Require().NotNil(views[0].CreatedByID)
	s.Nil(views[0].CreatedBy)
}

func (s *CatalogServiceTestSuite) TestListStoresSearchAndSort() {
	s.store("Bravo Market", nil)
	s.store("Alpha Market", nil)
	s.store("Depot", nil)

	views, err := s.storeService.List(s.ctx, service.ListQuery{
		Search:    "market",
		SortBy:    "name",
		SortOrder: repository.SortAsc,
	})
	s.Require().NoError(err)
	s.Require().Len(views, 2)
	s.Equal("Alpha Market", views[0].Name)
	s.Equal("Bravo Market", views[1].Name)
}

func (s *CatalogServiceTestSuite) TestListRejectsUnknownSortField() {
	_, err := s.storeService.List(s.ctx, service.ListQuery{SortBy: "password"})
	s.ErrorIs(err, repository.ErrUnknownField)
}

func (s *CatalogServiceTestSuite) TestGetStoreNotFound() {
	_, err := s.storeService.Get(s.ctx, "missing")
	s.ErrorIs(err, service.ErrNotFound)
}

func (s *CatalogServiceTestSuite) TestUpdateStoreIsPartial() {
	admin := s.admin()
	store := s.store("Central", nil)

	view, err := s.storeService.Update(s.ctx, store.ID, service.StoreUpdate{ImageSrc: testutil.Ptr("/public/central.png")}, admin.ID)
	s.Require().NoError(err)
	s.Equal("Central", view.Name)
	s.Equal(store.Address, view.Address)
	s.Require().NotNil(view.ImageSrc)
	s.Equal("/public/central.png", *view.ImageSrc)
	s.Require().NotNil(view.UpdatedBy)
	s.Equal(admin.ID, view.UpdatedBy.ID)

	_, err = s.storeService.Update(s.ctx, "missing", service.StoreUpdate{Name: testutil.Ptr("x")}, admin.ID)
	s.ErrorIs(err, service.ErrNotFound)
}

func (s *CatalogServiceTestSuite) TestDeleteStoreCascadesToPlanograms() {
	store := s.store("Central", nil)
	planogram := s.planogram(store.ID, "Aisle 1")

	s.Require().NoError(s.storeService.Delete(s.ctx, store.ID))

	_, err := s.planogramService.Get(s.ctx, planogram.ID)
	s.ErrorIs(err, service.ErrNotFound)

	s.ErrorIs(s.storeService.Delete(s.ctx, store.ID), service.ErrNotFound)
}

func (s *CatalogServiceTestSuite) TestCreatePlanogramRequiresExistingStore() {
	_, err := s.planogramService.Create(s.ctx, service.PlanogramInput{Name: "Aisle 1", StoreID: "missing"}, "")
	s.ErrorIs(err, service.ErrNotFound)

	_, err = s.planogramService.Create(s.ctx, service.PlanogramInput{Name: "Aisle 1"}, "")
	s.ErrorIs(err, service.ErrValidation)
}

func (s *CatalogServiceTestSuite) TestPlanogramIsPopulatedWithStore() {
	admin := s.admin()
	store := s.store("Central", nil)

	view, err := s.planogramService.Create(s.ctx, service.PlanogramInput{
		Name:        "Aisle 1",
		Description: "Cereal shelf",
		StoreID:     store.ID,
	}, admin.ID)
	s.Require().NoError(err)

	s.Require().NotNil(view.Store)
	s.Equal(store.ID, view.Store.ID)
	s.Equal("Central", view.Store.Name)
	s.Require().NotNil(view.CreatedBy)
	s.Equal(admin.ID, view.CreatedBy.ID)
}

func (s *CatalogServiceTestSuite) TestListPlanogramsByStore() {
	central := s.store("Central", nil)
	north := s.store("North", nil)
	s.planogram(central.ID, "Aisle 1")
	s.planogram(central.ID, "Aisle 2")
	s.planogram(north.ID, "Aisle 1")

	views, err := s.planogramService.List(s.ctx, service.ListQuery{
		Filter:    repository.Fields{"storeId": central.ID},
		SortBy:    "name",
		SortOrder: repository.SortDesc,
	})
	s.Require().NoError(err)
	s.Require().Len(views, 2)
	s.Equal("Aisle 2", views[0].Name)
	for _, v := range views {
		s.Require().NotNil(v.Store)
		s.Equal("Central", v.Store.Name)
	}
}

func (s *CatalogServiceTestSuite) TestUpdatePlanogramMovesStore() {
	central := s.store("Central", nil)
	north := s.store("North", nil)
	planogram := s.planogram(central.ID, "Aisle 1")

	view, err := s.planogramService.Update(s.ctx, planogram.ID, service.PlanogramUpdate{StoreID: &north.ID}, "")
	s.Require().NoError(err)
	s.Equal(north.ID, view.StoreID)
	s.Equal("North", view.Store.Name)

	_, err = s.planogramService.Update(s.ctx, planogram.ID, service.PlanogramUpdate{StoreID: testutil.Ptr("missing")}, "")
	s.ErrorIs(err, service.ErrNotFound)
}

func (s *CatalogServiceTestSuite) TestDeletePlanogram() {
	store := s.store("Central", nil)
	planogram := s.planogram(store.ID, "Aisle 1")

	s.Require().NoError(s.planogramService.Delete(s.ctx, planogram.ID))
	s.ErrorIs(s.planogramService.Delete(s.ctx, planogram.ID), service.ErrNotFound)
}

func (s *CatalogServiceTestSuite) TestFailedRelationLookupNullsOnlyThatRelation() {
	admin := s.admin()
	store := s.store("Central", &admin.ID)
	s.planogram(store.ID, "Aisle 1")

	broken := brokenTable{Querier: s.testDB.Manager, table: "users"}
	relations := service.NewRelations(
		repository.NewUserRepository(broken),
		s.stores, s.planograms, s.uploads, s.storage, time.Hour,
	)

	rows, err := s.planograms.FindAll(s.ctx)
	s.Require().NoError(err)

	views := relations.Planograms(s.ctx, rows)
	s.Require().Len(views, 1)
	s.Nil(views[0].CreatedBy)
	s.Require().NotNil(views[0].Store)
	s.Equal("Central", views[0].Store.Name)
}

func (s *CatalogServiceTestSuite) TestPopulatedUserNeverCarriesPassword() {
	admin := s.admin()
	view, err := s.storeService.Create(s.ctx, service.StoreInput{Name: "Central"}, admin.ID)
	s.Require().NoError(err)

	raw, err := json.Marshal(view)
	s.Require().NoError(err)
	s.NotContains(string(raw), "password")
	s.NotContains(string(raw), "argon2id")

	var decoded map[string]any
	s.Require().NoError(json.Unmarshal(raw, &decoded))
	createdBy, ok := decoded["createdBy"].(map[string]any)
	s.Require().True(ok)
	s.Equal(admin.Email, createdBy["email"])
	s.Equal(string(models.RoleAdmin), createdBy["role"])
}

func TestCatalogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}
