package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/fitness-studio/api/internal/auth"
	"github.com/octobees/fitness-studio/api/internal/dto"
	"github.com/octobees/fitness-studio/api/internal/entity"
	"github.com/octobees/fitness-studio/api/internal/service"
)

func registerBody(username, email string) dto.RegisterUserRequest {
	return dto.RegisterUserRequest{
		Username:         username,
		Email:            email,
		Password:         "password",
		MatchingPassword: "password",
		FirstName:        "Mia",
		LastName:         "Wallace",
		DateOfBirth:      "1990-05-01",
	}
}

func TestUserHandler_Register(t *testing.T) {
	e := echo.New()
	handler := NewUserHandler(service.NewUserService(newUsersRepo(), nil, nil))

	mismatch := registerBody("tom", "tom@example.com")
	mismatch.MatchingPassword = "other-password"

	tests := map[string]struct {
		body   any
		status int
	}{
		"registered":        {body: registerBody("mia", "mia@example.com"), status: http.StatusCreated},
		"duplicate name":    {body: registerBody("mia", "other@example.com"), status: http.StatusBadRequest},
		"duplicate email":   {body: registerBody("amelia", "MIA@example.com"), status: http.StatusBadRequest},
		"password mismatch": {body: mismatch, status: http.StatusBadRequest},
		"invalid payload":   {body: "{", status: http.StatusBadRequest},
	}

	for _, name := range []string{"registered", "duplicate name", "duplicate email", "password mismatch", "invalid payload"} {
		tt := tests[name]
		t.Run(name, func(t *testing.T) {
			c, rec := newJSONContext(e, http.MethodPost, "/api/v1/users", tt.body, nil)
			_ = handler.Register(c)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.status == http.StatusCreated {
				data := decodeData(rec)
				user, _ := data["user"].(map[string]any)
				if data["is_registered"] != true || user["username"] != "mia" {
					t.Fatalf("unexpected payload: %v", data)
				}
				if _, leaked := user["password_hash"]; leaked {
					t.Fatalf("password hash must not be exposed")
				}
			}
		})
	}
}

func TestUserHandler_GetAndDelete(t *testing.T) {
	e := echo.New()
	owner := &entity.User{ID: uuid.New(), Username: "mia", Roles: []string{entity.RoleUser}}
	other := &entity.User{ID: uuid.New(), Username: "tom", Roles: []string{entity.RoleUser}}
	handler := NewUserHandler(service.NewUserService(newUsersRepo(owner, other), nil, nil))

	self := &auth.Principal{UserID: owner.ID, Username: owner.Username, Roles: owner.Roles}
	admin := &auth.Principal{UserID: uuid.New(), Username: "admin", Roles: []string{entity.RoleAdmin}}

	c, rec := newJSONContext(e, http.MethodGet, "/", nil, self, "id", other.ID.String())
	_ = handler.Get(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for another user's record, got %d", rec.Code)
	}

	c, rec = newJSONContext(e, http.MethodGet, "/", nil, self, "id", owner.ID.String())
	_ = handler.Get(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for own record, got %d", rec.Code)
	}

	c, rec = newJSONContext(e, http.MethodGet, "/", nil, nil, "id", owner.ID.String())
	_ = handler.Get(c)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without principal, got %d", rec.Code)
	}

	c, rec = newJSONContext(e, http.MethodDelete, "/", nil, admin, "id", other.ID.String())
	_ = handler.Delete(c)
	if rec.Code != http.StatusOK || decodeData(rec)["is_deleted"] != true {
		t.Fatalf("expected admin delete, got %d", rec.Code)
	}

	c, rec = newJSONContext(e, http.MethodDelete, "/", nil, admin, "id", other.ID.String())
	_ = handler.Delete(c)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for deleted user, got %d", rec.Code)
	}

	c, rec = newJSONContext(e, http.MethodGet, "/api/v1/users", nil, admin)
	_ = handler.List(c)
	if users, _ := decodeData(rec)["users"].([]any); rec.Code != http.StatusOK || len(users) != 1 {
		t.Fatalf("expected one remaining user, got %d %v", rec.Code, decodeData(rec))
	}
}

func TestUserHandler_UpdateAndMe(t *testing.T) {
	e := echo.New()
	owner := &entity.User{ID: uuid.New(), Username: "mia", Email: "mia@example.com", Roles: []string{entity.RoleUser}}
	handler := NewUserHandler(service.NewUserService(newUsersRepo(owner), nil, nil))
	self := &auth.Principal{UserID: owner.ID, Username: owner.Username, Roles: owner.Roles}

	body := dto.UpdateUserRequest{
		Email:            "mia@studio.com",
		Password:         "new-password",
		MatchingPassword: "new-password",
		FirstName:        "Mia",
		LastName:         "Wallace",
		DateOfBirth:      "1990-05-01",
	}
	c, rec := newJSONContext(e, http.MethodPut, "/api/v1/users", body, self)
	_ = handler.Update(c)
	if rec.Code != http.StatusOK || decodeData(rec)["is_updated"] != true {
		t.Fatalf("expected update, got %d %s", rec.Code, rec.Body.String())
	}

	c, rec = newJSONContext(e, http.MethodGet, "/api/v1/users/me", nil, self)
	_ = handler.Me(c)
	user, _ := decodeData(rec)["user"].(map[string]any)
	if rec.Code != http.StatusOK || user["email"] != "mia@studio.com" {
		t.Fatalf("unexpected current user: %d %v", rec.Code, user)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	e := echo.New()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("unexpected bcrypt error: %v", err)
	}
	active := &entity.User{ID: uuid.New(), Username: "admin", PasswordHash: string(hashed), Enabled: true, Roles: []string{entity.RoleAdmin}}
	disabled := &entity.User{ID: uuid.New(), Username: "aron", PasswordHash: string(hashed), Enabled: false, Roles: []string{entity.RoleUser}}
	manager := auth.NewJWTManager("secret", time.Hour)
	handler := NewAuthHandler(service.NewAuthService(newUsersRepo(active, disabled), manager))

	tests := map[string]struct {
		body   any
		status int
	}{
		"success":        {body: dto.LoginRequest{Username: "admin", Password: "password"}, status: http.StatusOK},
		"wrong password": {body: dto.LoginRequest{Username: "admin", Password: "nope"}, status: http.StatusUnauthorized},
		"unknown user":   {body: dto.LoginRequest{Username: "ghost", Password: "password"}, status: http.StatusUnauthorized},
		"disabled":       {body: dto.LoginRequest{Username: "aron", Password: "password"}, status: http.StatusForbidden},
		"missing fields": {body: dto.LoginRequest{}, status: http.StatusBadRequest},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c, rec := newJSONContext(e, http.MethodPost, "/api/v1/login", tt.body, nil)
			_ = handler.Login(c)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.status == http.StatusOK {
				data := decodeData(rec)
				token, _ := data["access_token"].(string)
				if _, err := manager.ParseToken(token); err != nil || data["token_type"] != "Bearer" {
					t.Fatalf("unexpected login payload: %v", data)
				}
			}
		})
	}
}
