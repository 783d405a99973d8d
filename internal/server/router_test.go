package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gybn/mentorat/internal/config"
	"github.com/gybn/mentorat/internal/models"
)

func setupRouter(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Discipline{}, &models.Student{}, &models.Teacher{},
		&models.Mentor{}, &models.EDA{}, &models.Contract{}, &models.Convocation{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := config.Config{Port: "8080", Env: "test", Year: 2025}
	return New(db, cfg, zap.NewNop()), db
}

func TestHealthz(t *testing.T) {
	h, _ := setupRouter(t)
	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
}

func TestAnonymousRedirectedToLogin(t *testing.T) {
	h, _ := setupRouter(t)
	for _, path := range []string{"/", "/students", "/contracts", "/stats"} {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusSeeOther {
			t.Fatalf("%s: expected redirect, got %d", path, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/login" {
			t.Fatalf("%s: redirected to %q", path, loc)
		}
	}
}

func TestLoginSessionGivesAccess(t *testing.T) {
	h, db := setupRouter(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	user := models.User{Email: "resp@gyb.ch", Password: string(hash), Name: "Responsable"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("user: %v", err)
	}

	form := url.Values{"email": {"resp@gyb.ch"}, "password": {"secret123"}}
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("login: expected redirect, got %d body=%s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie set")
	}

	r = httptest.NewRequest(http.MethodGet, "/students", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("authenticated request: expected 200, got %d", w.Code)
	}
}

func TestLoginBadPassword(t *testing.T) {
	h, db := setupRouter(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err := db.Create(&models.User{Email: "resp@gyb.ch", Password: string(hash)}).Error; err != nil {
		t.Fatalf("user: %v", err)
	}

	form := url.Values{"email": {"resp@gyb.ch"}, "password": {"wrong"}}
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected the login page again, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "incorrect") {
		t.Fatal("error message missing")
	}
}
