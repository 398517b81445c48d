// Package web exposes the application over HTTP as a JSON API with
// cookie-based sessions. Handlers hold no business logic beyond the
// session gate rules; they translate requests into service calls and
// service errors into status codes.
package web

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/microcosm-cc/bluemonday"

	"github.com/vbonduro/memoryvault/internal/imagestore"
	"github.com/vbonduro/memoryvault/internal/service"
)

func init() {
	// Slideshow orders are kept in the session; gob needs to know the
	// concrete slice type to encode it behind the Values interface.
	gob.Register([]int64{})
}

type Server struct {
	users    *service.UserService
	vaults   *service.VaultService
	memories *service.MemoryService
	images   imagestore.ImageStore

	sessions    *sessions.CookieStore
	sessionName string
	sanitizer   *bluemonday.Policy
	maxUpload   int64
	router      chi.Router
	logger      *slog.Logger
}

// Options captures the web-layer knobs that come from configuration.
type Options struct {
	// SessionKey authenticates session cookies. Leave empty to generate
	// an ephemeral key (sessions then die with the process).
	SessionKey  string
	SessionName string
	// MaxUploadBytes bounds multipart memory uploads.
	MaxUploadBytes int64
}

func NewServer(
	users *service.UserService,
	vaults *service.VaultService,
	memories *service.MemoryService,
	images imagestore.ImageStore,
	opts Options,
	logger *slog.Logger,
) *Server {
	key := []byte(opts.SessionKey)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
	}
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 50 * 1024 * 1024
	}

	s := &Server{
		users:       users,
		vaults:      vaults,
		memories:    memories,
		images:      images,
		sessions:    store,
		sessionName: opts.SessionName,
		sanitizer:   bluemonday.StrictPolicy(),
		maxUpload:   maxUpload,
		logger:      logger,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Post("/u/register", s.handleRegister)
	r.Post("/u/login", s.handleLogin)
	r.Post("/u/logout", s.handleLogout)
	r.Get("/u/username-taken", s.handleUsernameTaken)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/settings", s.handleSettings)
		r.Post("/settings/vault", s.handleCreateVault)
		r.Post("/settings/family", s.handleCreateFamily)
		r.Post("/settings/family/join", s.handleJoinFamily)
		r.Post("/settings/family/quit", s.handleQuitFamily)

		r.Post("/memory", s.handleUploadMemory)
		r.Get("/memory/{id}/image", s.handleGetMemoryImage)

		r.Get("/slideshow", s.handleSlideshowOptions)
		r.Post("/slideshow/run", s.handleStartSlideshow)
		r.Get("/slideshow/run", s.handleSlideshowStep)
	})

	return r
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.router)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeMessage(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps a service error onto an HTTP status. Untyped
// errors become an opaque 500; the underlying message is shown only to
// admins (and always logged).
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		s.writeMessage(w, statusForKind(svcErr.Kind), svcErr.Message)
		return
	}

	s.logger.Error("unexpected error", "path", r.URL.Path, "error", err)
	message := "something went wrong, please contact an admin to get further insights into this error"
	if sessionIsAdmin(s.currentSession(r)) {
		message = err.Error()
	}
	s.writeMessage(w, http.StatusInternalServerError, message)
}

func statusForKind(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindConflict:
		return http.StatusConflict
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
