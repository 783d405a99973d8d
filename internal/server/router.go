package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gybn/mentorat/internal/auth"
	"github.com/gybn/mentorat/internal/config"
	"github.com/gybn/mentorat/internal/handlers"
	"github.com/gybn/mentorat/internal/httpx"
	"github.com/gybn/mentorat/internal/models"
	"github.com/gybn/mentorat/internal/pdf"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, cfg config.Config, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// Configure a user verifier so RequireAuth can ensure the user still exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	renderer := pdf.New(pdf.Assets{FontPath: cfg.FontPath, LogoPath: cfg.LogoPath})

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth endpoints
	authHandler := handlers.NewAuthHandler(db)
	authHandler.Register(mux)

	protect := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(auth.RequireAuth(h))
	}

	dash := handlers.NewDashboardHandler(db, cfg.Year)
	mux.Handle("/", protect(dash.Index))

	sh := handlers.NewStudentHandler(db, cfg.Year)
	mux.Handle("/students", protect(sh.List))
	mux.Handle("/students/details", protect(sh.Details))
	mux.Handle("/students/update", protect(sh.Update))
	mux.Handle("/students/import", protect(sh.Import))

	th := handlers.NewTeacherHandler(db)
	mux.Handle("/teachers", protect(th.List))
	mux.Handle("/teachers/create", protect(th.Create))
	mux.Handle("/teachers/update", protect(th.Update))
	mux.Handle("/teachers/import", protect(th.Import))

	mh := handlers.NewMentorHandler(db, cfg.Year)
	mux.Handle("/mentors", protect(mh.List))
	mux.Handle("/mentors/details", protect(mh.Details))
	mux.Handle("/mentors/create", protect(mh.Create))
	mux.Handle("/mentors/update", protect(mh.Update))

	eh := handlers.NewEDAHandler(db, cfg.Year)
	mux.Handle("/edas", protect(eh.List))
	mux.Handle("/edas/waiting", protect(eh.Waiting))
	mux.Handle("/edas/details", protect(eh.Details))
	mux.Handle("/edas/create", protect(eh.Create))
	mux.Handle("/edas/update", protect(eh.Update))

	ch := handlers.NewContractHandler(db, cfg.Year, renderer)
	mux.Handle("/contracts", protect(ch.List))
	mux.Handle("/contracts/create", protect(ch.CreateFromEDA))
	mux.Handle("/contracts/duplicate", protect(ch.Duplicate))
	mux.Handle("/contracts/update", protect(ch.Update))
	mux.Handle("/contracts/pdf", protect(ch.PDF))

	vh := handlers.NewConvocationHandler(db, renderer)
	mux.Handle("/convocations/create", protect(vh.CreateFromContract))
	mux.Handle("/convocations/update", protect(vh.Update))
	mux.Handle("/convocations/delete", protect(vh.Delete))
	mux.Handle("/convocations/pdf", protect(vh.PDF))

	st := handlers.NewStatsHandler(db, cfg.Year)
	mux.Handle("/stats", protect(st.List))

	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	return withRecover(logger, withLogging(logger, mux))
}

func withLogging(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func withRecover(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
