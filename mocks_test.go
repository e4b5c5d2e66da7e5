package docflow_test

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"path/filepath"

	docflow "github.com/goliatone/go-docflow"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockAuthenticator implements docflow.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (string, docflow.Identity, error) {
	args := m.Called(ctx, email, password)
	var identity docflow.Identity
	if v := args.Get(1); v != nil {
		identity = v.(docflow.Identity)
	}
	return args.String(0), identity, args.Error(2)
}

func (m *MockAuthenticator) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthenticator) ClaimsFromToken(token string) (docflow.AuthClaims, error) {
	args := m.Called(token)
	var claims docflow.AuthClaims
	if v := args.Get(0); v != nil {
		claims = v.(docflow.AuthClaims)
	}
	return claims, args.Error(1)
}

// MockUserStore implements docflow.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*docflow.User, error) {
	args := m.Called(ctx, email)
	var user *docflow.User
	if v := args.Get(0); v != nil {
		user = v.(*docflow.User)
	}
	return user, args.Error(1)
}

func (m *MockUserStore) TrackSuccessfulLogin(ctx context.Context, user *docflow.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockLogger implements docflow.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

type nilLogger struct{}

func (nilLogger) Debug(string, ...any) {}
func (nilLogger) Info(string, ...any)  {}
func (nilLogger) Warn(string, ...any)  {}
func (nilLogger) Error(string, ...any) {}

// testIdentity is a plain Identity value for tests
type testIdentity struct {
	id          string
	email       string
	fullName    string
	role        docflow.Role
	societeID   string
	societeName string
}

func (t testIdentity) ID() string                   { return t.id }
func (t testIdentity) Email() string                { return t.email }
func (t testIdentity) FullName() string             { return t.fullName }
func (t testIdentity) Role() docflow.Role           { return t.role }
func (t testIdentity) SocieteID() string            { return t.societeID }
func (t testIdentity) SocieteRaisonSociale() string { return t.societeName }

// stubDocuments overrides just the methods the workflow touches, the
// embedded interface panics on anything unexpected.
type stubDocuments struct {
	docflow.Documents

	getByIDWithRelations     func(ctx context.Context, id uuid.UUID) (*docflow.Document, error)
	existsByNumeroPiece      func(ctx context.Context, societeID uuid.UUID, numeroPiece string) (bool, error)
	listBySociete            func(ctx context.Context, societeID uuid.UUID) ([]*docflow.Document, error)
	listBySocieteAndExercice func(ctx context.Context, societeID uuid.UUID, exercice int) ([]*docflow.Document, error)
	listByStatut             func(ctx context.Context, statut docflow.StatutDocument) ([]*docflow.Document, error)
	listByStatutAndExercice  func(ctx context.Context, statut docflow.StatutDocument, exercice int) ([]*docflow.Document, error)
	create                   func(ctx context.Context, record *docflow.Document, criteria ...repository.InsertCriteria) (*docflow.Document, error)
	update                   func(ctx context.Context, record *docflow.Document, criteria ...repository.UpdateCriteria) (*docflow.Document, error)
	getByIDTx                func(ctx context.Context, tx bun.IDB, id string) (*docflow.Document, error)
	updateTx                 func(ctx context.Context, tx bun.IDB, record *docflow.Document, criteria ...repository.UpdateCriteria) (*docflow.Document, error)
}

func (s *stubDocuments) GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*docflow.Document, error) {
	return s.getByIDWithRelations(ctx, id)
}

func (s *stubDocuments) ExistsByNumeroPiece(ctx context.Context, societeID uuid.UUID, numeroPiece string) (bool, error) {
	return s.existsByNumeroPiece(ctx, societeID, numeroPiece)
}

func (s *stubDocuments) ListBySociete(ctx context.Context, societeID uuid.UUID) ([]*docflow.Document, error) {
	return s.listBySociete(ctx, societeID)
}

func (s *stubDocuments) ListBySocieteAndExercice(ctx context.Context, societeID uuid.UUID, exercice int) ([]*docflow.Document, error) {
	return s.listBySocieteAndExercice(ctx, societeID, exercice)
}

func (s *stubDocuments) ListByStatut(ctx context.Context, statut docflow.StatutDocument) ([]*docflow.Document, error) {
	return s.listByStatut(ctx, statut)
}

func (s *stubDocuments) ListByStatutAndExercice(ctx context.Context, statut docflow.StatutDocument, exercice int) ([]*docflow.Document, error) {
	return s.listByStatutAndExercice(ctx, statut, exercice)
}

func (s *stubDocuments) Create(ctx context.Context, record *docflow.Document, criteria ...repository.InsertCriteria) (*docflow.Document, error) {
	return s.create(ctx, record, criteria...)
}

func (s *stubDocuments) Update(ctx context.Context, record *docflow.Document, criteria ...repository.UpdateCriteria) (*docflow.Document, error) {
	return s.update(ctx, record, criteria...)
}

func (s *stubDocuments) GetByIDTx(ctx context.Context, tx bun.IDB, id string, criteria ...repository.SelectCriteria) (*docflow.Document, error) {
	return s.getByIDTx(ctx, tx, id)
}

func (s *stubDocuments) UpdateTx(ctx context.Context, tx bun.IDB, record *docflow.Document, criteria ...repository.UpdateCriteria) (*docflow.Document, error) {
	return s.updateTx(ctx, tx, record, criteria...)
}

type stubSocietes struct {
	docflow.Societes

	getByID       func(ctx context.Context, id string) (*docflow.Societe, error)
	getByICETx    func(ctx context.Context, tx bun.IDB, ice string) (*docflow.Societe, error)
	getOrCreateTx func(ctx context.Context, tx bun.IDB, record *docflow.Societe) (*docflow.Societe, error)
}

func (s *stubSocietes) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*docflow.Societe, error) {
	return s.getByID(ctx, id)
}

func (s *stubSocietes) GetByICETx(ctx context.Context, tx bun.IDB, ice string) (*docflow.Societe, error) {
	return s.getByICETx(ctx, tx, ice)
}

func (s *stubSocietes) GetOrCreateTx(ctx context.Context, tx bun.IDB, record *docflow.Societe) (*docflow.Societe, error) {
	return s.getOrCreateTx(ctx, tx, record)
}

type stubUsers struct {
	docflow.Users

	getOrCreateTx func(ctx context.Context, tx bun.IDB, record *docflow.User) (*docflow.User, error)
}

func (s *stubUsers) GetOrCreateTx(ctx context.Context, tx bun.IDB, record *docflow.User) (*docflow.User, error) {
	return s.getOrCreateTx(ctx, tx, record)
}

type stubRepoManager struct {
	docflow.RepositoryManager

	docs  docflow.Documents
	socs  docflow.Societes
	users docflow.Users
}

func (s *stubRepoManager) Documents() docflow.Documents {
	return s.docs
}

func (s *stubRepoManager) Societes() docflow.Societes {
	return s.socs
}

func (s *stubRepoManager) Users() docflow.Users {
	return s.users
}

func (s *stubRepoManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

// memoryFileStore keeps uploaded files in a map so workflow tests never
// touch the disk.
type memoryFileStore struct {
	files   map[string][]byte
	removed []string
	saveErr error
}

func newMemoryFileStore() *memoryFileStore {
	return &memoryFileStore{files: map[string][]byte{}}
}

func (m *memoryFileStore) Save(ctx context.Context, ice, originalName string, content io.Reader) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}

	ext, err := docflow.SafeExtension(originalName)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", docflow.ErrEmptyFile
	}

	path := filepath.Join("documents", ice, uuid.New().String()+ext)
	m.files[path] = data
	return path, nil
}

func (m *memoryFileStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, docflow.ErrFileRead
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryFileStore) Remove(ctx context.Context, path string) error {
	m.removed = append(m.removed, path)
	delete(m.files, path)
	return nil
}

// MockContext mocks router.Context
type MockContext struct {
	mock.Mock
	NextCalled bool
}

func (m *MockContext) Next() error {
	m.NextCalled = true
	return nil
}

func (m *MockContext) Context() context.Context {
	args := m.Called()
	c, ok := args.Get(0).(context.Context)
	if !ok {
		panic("arg needs to be context.Context")
	}
	return c
}

func (m *MockContext) SetContext(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockContext) Path() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Method() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Body() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}

func (m *MockContext) Status(code int) router.Context {
	m.Called(code)
	return m
}

func (m *MockContext) SendString(s string) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockContext) Send(b []byte) error {
	args := m.Called(b)
	return args.Error(0)
}

func (m *MockContext) JSON(code int, val any) error {
	args := m.Called(code, val)
	return args.Error(0)
}

func (m *MockContext) NoContent(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) Render(name string, bind any, layout ...string) error {
	if len(layout) > 0 {
		args := m.Called(name, bind, layout[0])
		return args.Error(0)
	}
	args := m.Called(name, bind)
	return args.Error(0)
}

func (m *MockContext) Redirect(path string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(path, status)
		return args.Error(0)
	}
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockContext) RedirectToRoute(name string, data router.ViewContext, status ...int) error {
	if len(status) > 0 {
		args := m.Called(name, data, status[0])
		return args.Error(0)
	}
	args := m.Called(name, data)
	return args.Error(0)
}

func (m *MockContext) RedirectBack(fallback string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(fallback, status)
		return args.Error(0)
	}
	args := m.Called(fallback)
	return args.Error(0)
}

func (m *MockContext) SetHeader(key, val string) router.Context {
	m.Called(key, val)
	return m
}

func (m *MockContext) Header(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Get(key string, defaultValue any) any {
	args := m.Called(key, defaultValue)
	return args.Get(0)
}

func (m *MockContext) GetBool(key string, defaultValue bool) bool {
	args := m.Called(key, defaultValue)
	return args.Bool(0)
}

func (m *MockContext) GetInt(key string, def int) int {
	args := m.Called(key, def)
	return args.Int(0)
}

func (m *MockContext) Set(key string, val any) {
	m.Called(key, val)
}

func (m *MockContext) Bind(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindJSON(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindXML(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindQuery(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) CookieParser(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) Cookie(cookie *router.Cookie) {
	m.Called(cookie)
}

func (m *MockContext) Cookies(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Param(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) ParamsInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Query(key string, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) QueryInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Queries() map[string]string {
	args := m.Called()
	return args.Get(0).(map[string]string)
}

func (m *MockContext) GetString(key string, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		m.Called(key, value[0])
		return nil
	}
	args := m.Called(key)
	return args.Get(0)
}

func (m *MockContext) OriginalURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) OnNext(callback func() error) {
	m.Called(callback)
}

func (m *MockContext) Referer() string {
	args := m.Called()
	return args.String(0)
}
