package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/khanhnv2901/nis2-assess/internal/api/middleware"
	"github.com/khanhnv2901/nis2-assess/internal/compliance"
	"github.com/khanhnv2901/nis2-assess/internal/domain/assessment"
	"github.com/khanhnv2901/nis2-assess/internal/export"
	"github.com/khanhnv2901/nis2-assess/internal/report"
	"github.com/khanhnv2901/nis2-assess/internal/scoring"
	sharedErrors "github.com/khanhnv2901/nis2-assess/internal/shared/errors"
)

const maxBodyBytes = 1 << 20

// AssessmentService is the application surface the API exposes.
type AssessmentService interface {
	Catalog() *assessment.Catalog
	Requirements() []compliance.Requirement
	Framework() compliance.Framework
	Snapshot() assessment.Store
	SetAnswer(ctx context.Context, questionID string, value int) (assessment.AnsweredQuestion, error)
	ClearAnswer(ctx context.Context, questionID string) (assessment.AnsweredQuestion, error)
	SetComment(ctx context.Context, questionID, text string) (assessment.AnsweredQuestion, error)
	Reset(ctx context.Context) error
	Scores() scoring.Result
	Compliance() ([]compliance.RequirementStatus, compliance.Summary)
	Report(meta report.Metadata) (*report.Report, error)
}

// ReportExporter renders a report in a downloadable format.
type ReportExporter interface {
	Write(ctx context.Context, f export.Format, w io.Writer, r *report.Report) error
}

type Config struct {
	Assessment  AssessmentService
	Exporter    ReportExporter
	AuthToken   string
	Logger      *zap.Logger
	CORSOrigins []string // Allowed CORS origins (empty = allow all)
	RateLimit   int      // Requests per second per IP (0 = disabled)
	RateBurst   int      // Burst size for rate limiter
}

type Server struct {
	cfg      Config
	router   chi.Router
	limiters *rateLimiterMap
}

func NewServer(cfg Config) *Server {
	srv := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		limiters: newRateLimiterMap(),
	}
	srv.routes()
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops the rate limiter cleanup.
func (s *Server) Close() {
	s.limiters.stop()
}

func (s *Server) routes() {
	r := s.router
	// RequestID -> Logging -> RateLimit -> CORS -> Recoverer -> Auth -> Handler
	r.Use(middleware.RequestID, s.withLogging, s.withRateLimit, s.withCORS, chimw.Recoverer)
	r.NotFound(s.notFound)
	r.MethodNotAllowed(s.methodNotAllowed)

	r.Route("/api/v1", func(r chi.Router) {
		r.NotFound(s.notFound)
		r.MethodNotAllowed(s.methodNotAllowed)
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			r.Use(s.withAuth)
			r.Get("/catalog", s.handleCatalog)
			r.Get("/requirements", s.handleRequirements)
			r.Get("/answers", s.handleAnswers)
			r.Put("/answers/{questionID}", s.handleSetAnswer)
			r.Delete("/answers/{questionID}", s.handleClearAnswer)
			r.Put("/comments/{questionID}", s.handleSetComment)
			r.Post("/reset", s.handleReset)
			r.Get("/scores", s.handleScores)
			r.Get("/compliance", s.handleCompliance)
			r.Post("/report", s.handleReport)
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	// Sanitize error messages to prevent information disclosure
	msg := err.Error()

	// For 5xx errors, return generic message and log details server-side
	if status >= 500 {
		s.requestLogger(r).Error("internal_server_error",
			zap.Error(err),
			zap.Int("status", status),
		)
		msg = "internal server error"
	}

	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps domain errors to HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeError(w, r, statusFor(err), err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, sharedErrors.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, sharedErrors.ErrInvalidAnswerValue),
		errors.Is(err, sharedErrors.ErrMissingOrganization),
		errors.Is(err, sharedErrors.ErrUnknownFormat),
		errors.Is(err, sharedErrors.ErrValidation),
		errors.Is(err, sharedErrors.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// requestLogger creates a logger with request context (request ID, method, path)
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if s.cfg.Logger == nil {
		return zap.NewNop()
	}

	requestID := middleware.GetRequestID(r.Context())
	return s.cfg.Logger.With(
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, http.StatusNotFound, errors.New("not found"))
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func decodeBody(w http.ResponseWriter, r *http.Request, out interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return errors.Join(sharedErrors.ErrInvalidInput, err)
	}
	return nil
}
