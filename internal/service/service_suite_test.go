package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/Baaaki/planogram-backoffice/internal/models"
	"github.com/Baaaki/planogram-backoffice/internal/repository"
	"github.com/Baaaki/planogram-backoffice/internal/service"
	"github.com/Baaaki/planogram-backoffice/internal/storage"
	"github.com/Baaaki/planogram-backoffice/internal/testutil"
	"github.com/stretchr/testify/suite"
)

const testSecret = "test-secret-key"

type sentMail struct {
	Kind  string
	To    string
	Token string
	Lang  string
}

// recordingMailer keeps every message instead of delivering it.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (m *recordingMailer) SendConfirmationEmail(_ context.Context, to, token, lang string) error {
	return m.record("confirmation", to, token, lang)
}

func (m *recordingMailer) SendPasswordResetEmail(_ context.Context, to, token, lang string) error {
	return m.record("reset", to, token, lang)
}

func (m *recordingMailer) record(kind, to, token, lang string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, sentMail{Kind: kind, To: to, Token: token, Lang: lang})
	return nil
}

func (m *recordingMailer) last(kind string) (sentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].Kind == kind {
			return m.sent[i], true
		}
	}
	return sentMail{}, false
}

func (m *recordingMailer) count(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, mail := range m.sent {
		if mail.Kind == kind {
			n++
		}
	}
	return n
}

// serviceSuite wires every service against one in-memory database.
type serviceSuite struct {
	suite.Suite
	testDB *testutil.TestDatabase
	ctx    context.Context

	storage *storage.Local
	mailer  *recordingMailer

	users       *repository.UserRepository
	stores      *repository.StoreRepository
	planograms  *repository.PlanogramRepository
	submissions *repository.SubmissionRepository
	uploads     *repository.UploadRepository

	relations         *service.Relations
	storeService      *service.StoreService
	planogramService  *service.PlanogramService
	submissionService *service.SubmissionService
	userService       *service.UserService
	authService       *service.AuthService
}

func (s *serviceSuite) SetupSuite() {
	s.testDB = testutil.SetupTestDatabase(s.T())
	s.ctx = context.Background()
}

func (s *serviceSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *serviceSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.Manager)

	local, err := storage.NewLocal(s.T().TempDir(), "/public")
	s.Require().NoError(err)
	s.storage = local
	s.mailer = &recordingMailer{}

	conn := s.testDB.Manager
	s.users = repository.NewUserRepository(conn)
	s.stores = repository.NewStoreRepository(conn)
	s.planograms = repository.NewPlanogramRepository(conn)
	s.submissions = repository.NewSubmissionRepository(conn)
	s.uploads = repository.NewUploadRepository(conn)

	s.relations = service.NewRelations(s.users, s.stores, s.planograms, s.uploads, s.storage, time.Hour)
	s.storeService = service.NewStoreService(s.stores, s.relations)
	s.planogramService = service.NewPlanogramService(s.planograms, s.stores, s.relations)
	s.submissionService = service.NewSubmissionService(s.submissions, s.uploads, s.storage, s.relations)
	s.userService = service.NewUserService(s.users, s.storage, s.mailer, testSecret, time.Hour)
	s.authService = service.NewAuthService(s.userService, s.mailer, testSecret, time.Hour, time.Hour, "development")
}

func (s *serviceSuite) admin() *models.User {
	user, err := testutil.DefaultAdminUser(s.ctx, s.testDB.Manager)
	s.Require().NoError(err)
	return user
}

func (s *serviceSuite) user() *models.User {
	user, err := testutil.DefaultTestUser(s.ctx, s.testDB.Manager)
	s.Require().NoError(err)
	return user
}

func (s *serviceSuite) store(name string, createdBy *string) *models.Store {
	store, err := testutil.CreateTestStore(s.ctx, s.testDB.Manager, name, createdBy)
	s.Require().NoError(err)
	return store
}

func (s *serviceSuite) planogram(storeID, name string) *models.Planogram {
	planogram, err := testutil.CreateTestPlanogram(s.ctx, s.testDB.Manager, storeID, name, nil)
	s.Require().NoError(err)
	return planogram
}

func jpeg(name string) *service.FileInput {
	return &service.FileInput{Name: name, ContentType: "image/jpeg", Data: []byte("\xff\xd8\xff\xe0 fake jpeg " + name)}
}
