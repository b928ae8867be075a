package repository_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/Baaaki/planogram-backoffice/internal/models"
	"github.com/Baaaki/planogram-backoffice/internal/repository"
	"github.com/Baaaki/planogram-backoffice/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type counter struct {
	ID    int64  `gorm:"column:id" json:"id"`
	Label string `gorm:"column:label" json:"label"`
}

type RecordStoreTestSuite struct {
	suite.Suite
	testDB *testutil.TestDatabase
	ctx    context.Context
	stores *repository.StoreRepository
	users  *repository.UserRepository
}

func (s *RecordStoreTestSuite) SetupSuite() {
	s.testDB = testutil.SetupTestDatabase(s.T())
	s.ctx = context.Background()
	s.stores = repository.NewStoreRepository(s.testDB.Manager)
	s.users = repository.NewUserRepository(s.testDB.Manager)

	_, err := s.testDB.Manager.Exec(s.ctx,
		`CREATE TABLE counters (id INTEGER PRIMARY KEY AUTOINCREMENT, label TEXT NOT NULL)`)
	s.Require().NoError(err)
}

func (s *RecordStoreTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *RecordStoreTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.Manager)
	_, _ = s.testDB.Manager.Exec(s.ctx, "DELETE FROM counters")
}

func (s *RecordStoreTestSuite) seedStores(names ...string) []*models.Store {
	out := make([]*models.Store, 0, len(names))
	for _, name := range names {
		store, err := testutil.CreateTestStore(s.ctx, s.testDB.Manager, name, nil)
		s.Require().NoError(err)
		s.Require().NotNil(store)
		out = append(out, store)
	}
	return out
}

func (s *RecordStoreTestSuite) TestFindByIDReturnsNilWhenAbsent() {
	store, err := s.stores.FindByID(s.ctx, "missing")
	s.NoError(err)
	s.Nil(store)
}

func (s *RecordStoreTestSuite) TestCreateWithIDReadsBackStoredRow() {
	store := s.seedStores("Alpha")[0]

	s.Equal("Alpha", store.Name)
	s.Require().NotNil(store.Address)
	s.Equal("Alpha Street 1", *store.Address)
	s.False(store.CreatedAt.IsZero())
}

func (s *RecordStoreTestSuite) TestCreateWithoutIDEchoesInsertID() {
	table := repository.NewTable[counter](s.testDB.Manager, "counters", repository.Columns{"id": "id", "label": "label"})

	first, err := table.Create(s.ctx, repository.Fields{"label": "one"})
	s.Require().NoError(err)
	second, err := table.Create(s.ctx, repository.Fields{"label": "two"})
	s.Require().NoError(err)

	s.Equal("one", first.Label)
	s.Greater(first.ID, int64(0))
	s.Equal(first.ID+1, second.ID)

	stored, err := table.FindByID(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Equal("two", stored.Label)
}

func (s *RecordStoreTestSuite) TestCreateWithoutIDOnStringKeyedTable() {
	store, err := s.stores.Create(s.ctx, repository.Fields{"name": "NoID"})
	s.Require().NoError(err)
	s.Require().NotNil(store)

	s.Equal("NoID", store.Name)
	s.NotEmpty(store.ID)
	_, convErr := strconv.ParseInt(store.ID, 10, 64)
	s.NoError(convErr)

	all, err := s.stores.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *RecordStoreTestSuite) TestFindAllByFilterDropsEmptyValues() {
	s.seedStores("Alpha", "Beta")

	all, err := s.stores.FindAllByFilter(s.ctx, repository.Fields{"name": "", "address": (*string)(nil)})
	s.Require().NoError(err)
	s.Len(all, 2)

	only, err := s.stores.FindAllByFilter(s.ctx, repository.Fields{"name": "Beta", "address": ""})
	s.Require().NoError(err)
	s.Require().Len(only, 1)
	s.Equal("Beta", only[0].Name)
}

func (s *RecordStoreTestSuite) TestFindAllReturnsEmptySliceOnEmptyTable() {
	all, err := s.stores.FindAll(s.ctx)
	s.NoError(err)
	s.NotNil(all)
	s.Empty(all)
}

func (s *RecordStoreTestSuite) TestFindByConditionReturnsFirstMatch() {
	s.seedStores("Alpha", "Beta")

	store, err := s.stores.FindByCondition(s.ctx, repository.Fields{"name": "Beta"})
	s.Require().NoError(err)
	s.Require().NotNil(store)
	s.Equal("Beta", store.Name)

	none, err := s.stores.FindByCondition(s.ctx, repository.Fields{"name": "Gamma"})
	s.NoError(err)
	s.Nil(none)
}

func (s *RecordStoreTestSuite) TestFindByIDs() {
	seeded := s.seedStores("Alpha", "Beta", "Gamma")

	rows, err := s.stores.FindByIDs(s.ctx, []string{seeded[0].ID, seeded[2].ID, "missing"})
	s.Require().NoError(err)
	s.Len(rows, 2)

	empty, err := s.stores.FindByIDs(s.ctx, nil)
	s.NoError(err)
	s.Empty(empty)
}

func (s *RecordStoreTestSuite) TestUpdateChangesOnlySuppliedFields() {
	store := s.seedStores("Alpha")[0]

	updated, err := s.stores.Update(s.ctx, store.ID, repository.Fields{"name": "Renamed"})
	s.Require().NoError(err)
	s.Require().NotNil(updated)
	s.Equal("Renamed", updated.Name)
	s.Equal(store.Address, updated.Address)
}

func (s *RecordStoreTestSuite) TestUpdateMissingRowReturnsNil() {
	updated, err := s.stores.Update(s.ctx, "missing", repository.Fields{"name": "x"})
	s.NoError(err)
	s.Nil(updated)
}

func (s *RecordStoreTestSuite) TestDeleteReturnsDriverResultUnchecked() {
	store := s.seedStores("Alpha")[0]

	result, err := s.stores.Delete(s.ctx, store.ID)
	s.Require().NoError(err)
	affected, err := result.RowsAffected()
	s.NoError(err)
	s.Equal(int64(1), affected)

	result, err = s.stores.Delete(s.ctx, store.ID)
	s.Require().NoError(err)
	affected, _ = result.RowsAffected()
	s.Equal(int64(0), affected)
}

func (s *RecordStoreTestSuite) TestSearchAndSort() {
	s.seedStores("Bravo Market", "Alpha Market", "Charlie Depot")

	rows, err := s.stores.FindAllWithSearchAndSort(s.ctx, repository.SearchOptions{
		Search:        "market",
		SearchColumns: []string{"name", "address"},
		SortBy:        "name",
		SortOrder:     "desc",
	})
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal("Bravo Market", rows[0].Name)
	s.Equal("Alpha Market", rows[1].Name)
}

func (s *RecordStoreTestSuite) TestSearchCombinesWithFilter() {
	s.seedStores("Alpha Market", "Beta Market")

	rows, err := s.stores.FindAllWithSearchAndSort(s.ctx, repository.SearchOptions{
		Search:        "Market",
		SearchColumns: []string{"name"},
		Filter:        repository.Fields{"name": "Beta Market"},
	})
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal("Beta Market", rows[0].Name)
}

func (s *RecordStoreTestSuite) TestUnknownSortOrderFallsBackToAscending() {
	s.seedStores("Bravo", "Alpha")

	rows, err := s.stores.FindAllWithSearchAndSort(s.ctx, repository.SearchOptions{SortBy: "name", SortOrder: "sideways"})
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal("Alpha", rows[0].Name)
}

func (s *RecordStoreTestSuite) TestUnknownFieldsAreRejected() {
	s.seedStores("Alpha")

	_, err := s.stores.FindAllWithSearchAndSort(s.ctx, repository.SearchOptions{SortBy: "name; DROP TABLE stores"})
	s.True(errors.Is(err, repository.ErrUnknownField))

	_, err = s.stores.FindAllByFilter(s.ctx, repository.Fields{"1=1 OR name": "x"})
	s.True(errors.Is(err, repository.ErrUnknownField))

	_, err = s.stores.Create(s.ctx, repository.Fields{"id": "x", "bogus": 1})
	s.True(errors.Is(err, repository.ErrUnknownField))

	all, err := s.stores.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *RecordStoreTestSuite) TestPhysicalColumnNamesAreAccepted() {
	s.seedStores("Alpha")

	rows, err := s.stores.FindAllWithSearchAndSort(s.ctx, repository.SearchOptions{SortBy: "created_at", SortOrder: repository.SortDesc})
	s.NoError(err)
	s.Len(rows, 1)
}

func (s *RecordStoreTestSuite) TestNamedUserLookups() {
	user, err := testutil.DefaultTestUser(s.ctx, s.testDB.Manager)
	s.Require().NoError(err)

	byEmail, err := s.users.FindByEmail(s.ctx, "test@example.com")
	s.Require().NoError(err)
	s.Require().NotNil(byEmail)
	s.Equal(user.ID, byEmail.ID)
	s.True(byEmail.HasPassword())

	_, err = s.users.Update(s.ctx, user.ID, repository.Fields{"googleId": "g-123"})
	s.Require().NoError(err)

	byGoogle, err := s.users.FindByGoogleID(s.ctx, "g-123")
	s.Require().NoError(err)
	s.Require().NotNil(byGoogle)
	s.Equal(user.ID, byGoogle.ID)

	none, err := s.users.FindByEmail(s.ctx, "nobody@example.com")
	s.NoError(err)
	s.Nil(none)
}

func (s *RecordStoreTestSuite) TestSubmissionUploadIDsRoundTrip() {
	ctx := s.ctx
	user, err := testutil.DefaultTestUser(ctx, s.testDB.Manager)
	s.Require().NoError(err)
	store := s.seedStores("Alpha")[0]
	planogram, err := testutil.CreateTestPlanogram(ctx, s.testDB.Manager, store.ID, "Aisle 1", nil)
	s.Require().NoError(err)

	submission, err := testutil.CreateTestSubmission(ctx, s.testDB.Manager, user.ID, store.ID, planogram.ID, []string{"a", "b"})
	s.Require().NoError(err)
	s.Equal([]string{"a", "b"}, submission.UploadIDList())

	upload, err := testutil.CreateTestUpload(ctx, s.testDB.Manager, user.ID, store.ID, planogram.ID, &submission.ID)
	s.Require().NoError(err)

	uploads, err := repository.NewUploadRepository(s.testDB.Manager).FindBySubmission(ctx, submission.ID)
	s.Require().NoError(err)
	s.Require().Len(uploads, 1)
	s.Equal(upload.ID, uploads[0].ID)
}

func TestRecordStoreTestSuite(t *testing.T) {
	suite.Run(t, new(RecordStoreTestSuite))
}

func TestColumnsResolve(t *testing.T) {
	cols := repository.Columns{"firstName": "first_name"}

	column, err := cols.Resolve("firstName")
	require.NoError(t, err)
	assert.Equal(t, "first_name", column)

	column, err = cols.Resolve("first_name")
	require.NoError(t, err)
	assert.Equal(t, "first_name", column)

	_, err = cols.Resolve("password")
	assert.ErrorIs(t, err, repository.ErrUnknownField)
}
