package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tradeshift/trading-shell/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, form domain.RegistrationForm) error
	loginFn    func(ctx context.Context, username, password string) (domain.Credential, error)
	logoutFn   func(ctx context.Context) error
	usernameFn func(ctx context.Context) (string, error)
	profileFn  func(ctx context.Context, username string) (*domain.Profile, error)
	updateFn   func(ctx context.Context, username string, update domain.ProfileUpdate) (*domain.Profile, error)
}

func (s *stubAuthService) Register(ctx context.Context, form domain.RegistrationForm) error {
	return s.registerFn(ctx, form)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (domain.Credential, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Logout(ctx context.Context) error {
	return s.logoutFn(ctx)
}

func (s *stubAuthService) CurrentUsername(ctx context.Context) (string, error) {
	return s.usernameFn(ctx)
}

func (s *stubAuthService) Profile(ctx context.Context, username string) (*domain.Profile, error) {
	return s.profileFn(ctx, username)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, username string, update domain.ProfileUpdate) (*domain.Profile, error) {
	return s.updateFn(ctx, username, update)
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func redirectOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp redirectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp.Redirect
}

func TestAuthHandler_RegisterAdmin_ForcesRoleAndAccount(t *testing.T) {
	var got domain.RegistrationForm
	stub := &stubAuthService{registerFn: func(_ context.Context, form domain.RegistrationForm) error {
		got = form
		return nil
	}}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, rec := newContext(http.MethodPost, "/auth/register/admin", `{"username":"root@gmail.com","role":"ROLE_USER","accounttype":"joint"}`)
	if err := h.RegisterAdmin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.Role != domain.RoleAdmin || got.Accounttype != domain.AccountAdmin || got.Username != "root@gmail.com" {
		t.Fatalf("unexpected form %+v", got)
	}
	if r := redirectOf(t, rec); r != "/login" {
		t.Fatalf("unexpected redirect %q", r)
	}
}

func TestAuthHandler_RegisterUser_KeepsAccountType(t *testing.T) {
	var got domain.RegistrationForm
	stub := &stubAuthService{registerFn: func(_ context.Context, form domain.RegistrationForm) error {
		got = form
		return nil
	}}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, _ := newContext(http.MethodPost, "/auth/register/user", `{"role":"ROLE_ADMIN","accounttype":"business"}`)
	if err := h.RegisterUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Role != domain.RoleUser || got.Accounttype != domain.AccountBusiness {
		t.Fatalf("unexpected form %+v", got)
	}
}

func TestAuthHandler_Register_PropagatesError(t *testing.T) {
	want := &domain.HTTPError{Status: http.StatusConflict, Message: "Username already exists"}
	stub := &stubAuthService{registerFn: func(context.Context, domain.RegistrationForm) error { return want }}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, _ := newContext(http.MethodPost, "/auth/register/user", `{}`)
	if err := h.RegisterUser(c); !errors.Is(err, want) {
		t.Fatalf("expected the service error, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, zerolog.Nop())

	c, _ := newContext(http.MethodPost, "/auth/register/user", `{not json`)
	err := h.RegisterUser(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	stub := &stubAuthService{loginFn: func(_ context.Context, username, password string) (domain.Credential, error) {
		if username != "asha@gmail.com" || password != "Passw0rd!" {
			t.Fatalf("unexpected credentials %q %q", username, password)
		}
		return "token", nil
	}}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, rec := newContext(http.MethodPost, "/login", `{"username":"asha@gmail.com","password":"Passw0rd!"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if r := redirectOf(t, rec); r != "/dashboard" {
		t.Fatalf("unexpected redirect %q", r)
	}
}

func TestAuthHandler_Login_RequiresFields(t *testing.T) {
	stub := &stubAuthService{loginFn: func(context.Context, string, string) (domain.Credential, error) {
		t.Fatalf("service must not be called")
		return "", nil
	}}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, _ := newContext(http.MethodPost, "/login", `{"username":"asha@gmail.com"}`)
	var ve *domain.ValidationError
	if err := h.Login(c); !errors.As(err, &ve) || ve.Fields["password"] == "" {
		t.Fatalf("expected a password validation error, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	called := false
	stub := &stubAuthService{logoutFn: func(context.Context) error {
		called = true
		return nil
	}}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, rec := newContext(http.MethodPost, "/logout", "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("expected Logout to be called")
	}
	if r := redirectOf(t, rec); r != "/login" {
		t.Fatalf("unexpected redirect %q", r)
	}
}

func TestAuthHandler_Page(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, zerolog.Nop())

	c, rec := newContext(http.MethodGet, "/auth", "")
	if err := h.Page(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp authPageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AdminForm.Role != domain.RoleAdmin || resp.UserForm.Accounttype != domain.AccountIndividual {
		t.Fatalf("unexpected forms %+v / %+v", resp.AdminForm, resp.UserForm)
	}
}

func TestSettingsHandler_Page(t *testing.T) {
	stub := &stubAuthService{
		usernameFn: func(context.Context) (string, error) { return "asha@gmail.com", nil },
		profileFn: func(_ context.Context, username string) (*domain.Profile, error) {
			return &domain.Profile{Username: username, FirstName: "Asha"}, nil
		},
	}
	h := NewSettingsHandler(stub, zerolog.Nop())

	c, rec := newContext(http.MethodGet, "/settings", "")
	if err := h.Page(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp settingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Profile.FirstName != "Asha" {
		t.Fatalf("unexpected profile %+v", resp.Profile)
	}
}

func TestSettingsHandler_Page_OpaqueToken(t *testing.T) {
	stub := &stubAuthService{
		usernameFn: func(context.Context) (string, error) { return "", errors.New("not a jwt") },
		profileFn: func(context.Context, string) (*domain.Profile, error) {
			t.Fatalf("profile must not be fetched")
			return nil, nil
		},
	}
	h := NewSettingsHandler(stub, zerolog.Nop())

	c, rec := newContext(http.MethodGet, "/settings", "")
	if err := h.Page(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSettingsHandler_UpdateProfile_NoUsername(t *testing.T) {
	stub := &stubAuthService{usernameFn: func(context.Context) (string, error) { return "", errors.New("not a jwt") }}
	h := NewSettingsHandler(stub, zerolog.Nop())

	c, _ := newContext(http.MethodPut, "/settings/profile", `{"firstName":"A"}`)
	var he *echo.HTTPError
	if err := h.UpdateProfile(c); !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
