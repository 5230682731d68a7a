package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"trellis/internal/config"
	"trellis/internal/middleware"
	"trellis/internal/models"
	"trellis/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-12345678901234567890123456789012"

// newTestServer builds a Server with stubbable services and no database.
// promMiddleware stays nil so repeated app construction in tests does not
// re-register Prometheus collectors.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	srv := &Server{
		config: &config.Config{
			JWTSecret: testJWTSecret,
			Env:       "test",
			AvatarDir: t.TempDir(),
		},
	}

	app := fiber.New()
	srv.SetupRoutes(app)
	return srv, app
}

func authToken(t *testing.T, userID uint) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": middleware.TokenIssuer,
		"aud": middleware.TokenAudience,
		"exp": now.Add(time.Hour).Unix(),
		"iat": now.Unix(),
		"jti": "test-jti",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func authedRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Authorization", "Bearer "+authToken(t, 7))
	return req
}

// userRepoStub is a stub for repository.UserRepository, used by the auth
// handlers which talk to the repository directly.
type userRepoStub struct {
	getByIDFn            func(context.Context, uint) (*models.User, error)
	getByEmailFn         func(context.Context, string) (*models.User, error)
	createFn             func(context.Context, *models.User, *models.Profile) error
	updatePasswordFn     func(context.Context, uint, string) error
	setPendingEmailFn    func(context.Context, uint, string, string) error
	confirmEmailChangeFn func(context.Context, string) (*models.User, error)
	deleteFn             func(context.Context, uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User, profile *models.Profile) error {
	return s.createFn(ctx, user, profile)
}
func (s *userRepoStub) UpdatePassword(ctx context.Context, userID uint, hashed string) error {
	return s.updatePasswordFn(ctx, userID, hashed)
}
func (s *userRepoStub) SetPendingEmail(ctx context.Context, userID uint, email, token string) error {
	return s.setPendingEmailFn(ctx, userID, email, token)
}
func (s *userRepoStub) ConfirmEmailChange(ctx context.Context, token string) (*models.User, error) {
	return s.confirmEmailChangeFn(ctx, token)
}
func (s *userRepoStub) Delete(ctx context.Context, userID uint) error {
	return s.deleteFn(ctx, userID)
}

// entryServiceStub is a stub for service.EntryService.
type entryServiceStub struct {
	listFn   func(context.Context, uint, service.ListFilter) ([]service.EntryView, error)
	getFn    func(context.Context, uint, uint) (*service.EntryView, error)
	createFn func(context.Context, uint, service.EntryInput) (*service.EntryView, error)
	updateFn func(context.Context, uint, uint, service.EntryInput) (*service.EntryView, error)
	toggleFn func(context.Context, uint, uint) (bool, error)
	deleteFn func(context.Context, uint, uint) error
}

func (s *entryServiceStub) List(ctx context.Context, ownerID uint, filter service.ListFilter) ([]service.EntryView, error) {
	return s.listFn(ctx, ownerID, filter)
}
func (s *entryServiceStub) Get(ctx context.Context, id, ownerID uint) (*service.EntryView, error) {
	return s.getFn(ctx, id, ownerID)
}
func (s *entryServiceStub) Create(ctx context.Context, ownerID uint, input service.EntryInput) (*service.EntryView, error) {
	return s.createFn(ctx, ownerID, input)
}
func (s *entryServiceStub) Update(ctx context.Context, id, ownerID uint, input service.EntryInput) (*service.EntryView, error) {
	return s.updateFn(ctx, id, ownerID, input)
}
func (s *entryServiceStub) ToggleCompletion(ctx context.Context, id, ownerID uint) (bool, error) {
	return s.toggleFn(ctx, id, ownerID)
}
func (s *entryServiceStub) Delete(ctx context.Context, id, ownerID uint) error {
	return s.deleteFn(ctx, id, ownerID)
}

// bedServiceStub is a stub for service.BedService.
type bedServiceStub struct {
	listFn        func(context.Context, uint) ([]*models.Bed, error)
	getOrCreateFn func(context.Context, string, uint) (uint, error)
	renameFn      func(context.Context, uint, uint, string) error
	deleteFn      func(context.Context, uint, uint) error
}

func (s *bedServiceStub) List(ctx context.Context, ownerID uint) ([]*models.Bed, error) {
	return s.listFn(ctx, ownerID)
}
func (s *bedServiceStub) GetOrCreate(ctx context.Context, rawName string, ownerID uint) (uint, error) {
	return s.getOrCreateFn(ctx, rawName, ownerID)
}
func (s *bedServiceStub) Rename(ctx context.Context, id, ownerID uint, rawName string) error {
	return s.renameFn(ctx, id, ownerID, rawName)
}
func (s *bedServiceStub) Delete(ctx context.Context, id, ownerID uint) error {
	return s.deleteFn(ctx, id, ownerID)
}

// accountServiceStub is a stub for service.AccountService.
type accountServiceStub struct {
	getProfileFn         func(context.Context, uint) (*models.Profile, error)
	updateProfileFn      func(context.Context, uint, service.ProfileInput) (*models.Profile, error)
	changePasswordFn     func(context.Context, uint, string, string) error
	requestEmailChangeFn func(context.Context, uint, string) (string, error)
	confirmEmailChangeFn func(context.Context, string) (*models.User, error)
	deleteAccountFn      func(context.Context, uint, string) error
}

func (s *accountServiceStub) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getProfileFn(ctx, userID)
}
func (s *accountServiceStub) UpdateProfile(ctx context.Context, userID uint, input service.ProfileInput) (*models.Profile, error) {
	return s.updateProfileFn(ctx, userID, input)
}
func (s *accountServiceStub) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	return s.changePasswordFn(ctx, userID, current, next)
}
func (s *accountServiceStub) RequestEmailChange(ctx context.Context, userID uint, newEmail string) (string, error) {
	return s.requestEmailChangeFn(ctx, userID, newEmail)
}
func (s *accountServiceStub) ConfirmEmailChange(ctx context.Context, token string) (*models.User, error) {
	return s.confirmEmailChangeFn(ctx, token)
}
func (s *accountServiceStub) DeleteAccount(ctx context.Context, userID uint, password string) error {
	return s.deleteAccountFn(ctx, userID, password)
}
