// Package server exposes the quiz, profile and tutor flows over HTTP.
package server

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/abhisek/skillgap/internal/assessment"
	"github.com/abhisek/skillgap/internal/quiz"
	"github.com/abhisek/skillgap/internal/tutor"
)

// Deps are the domain components the handlers call into.
type Deps struct {
	Bank       *quiz.Bank
	Assessment *assessment.Service

	// Tutor may be nil when no chat backend is configured; tutor routes
	// then answer 503.
	Tutor *tutor.Gateway

	Logger *zap.Logger
}

// Options tune the HTTP layer.
type Options struct {
	// SessionSecret signs the quiz cookie. A random key is generated when
	// empty, so cookies do not survive a restart.
	SessionSecret string

	// TutorRate is the number of tutor calls allowed per minute per client.
	TutorRate  int
	TutorBurst int

	// SessionTTL and MaxSessions bound the in-memory quiz sessions. Zero
	// keeps the registry defaults.
	SessionTTL  time.Duration
	MaxSessions int

	// Seed fixes question sampling. Zero uses runtime entropy.
	Seed uint64
}

// Server is the gin application.
type Server struct {
	deps     Deps
	opts     Options
	engine   *gin.Engine
	cookies  *sessions.CookieStore
	registry *quiz.Registry
	metrics  *metrics
	logger   *zap.Logger
}

// New builds the router and its middleware.
func New(deps Deps, opts Options) (*Server, error) {
	if deps.Bank == nil || deps.Assessment == nil {
		return nil, errors.New("server needs a question bank and an assessment service")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.TutorRate < 1 {
		opts.TutorRate = 10
	}
	if opts.TutorBurst < 1 {
		opts.TutorBurst = 1
	}

	secret := []byte(opts.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate session key: %w", err)
		}
	}
	cookies := sessions.NewCookieStore(secret)
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int((24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	s := &Server{
		deps:     deps,
		opts:     opts,
		engine:   gin.New(),
		cookies:  cookies,
		registry: quiz.NewRegistry(quiz.WithSessionTTL(opts.SessionTTL), quiz.WithMaxSessions(opts.MaxSessions)),
		metrics:  newMetrics(),
		logger:   logger,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.engine
	r.Use(gin.Recovery(), requestLogger(s.logger), s.metrics.middleware())

	r.GET("/healthz", s.health)
	r.GET("/metrics", s.metrics.handler())

	api := r.Group("/api")
	{
		api.POST("/quiz", s.startQuiz)
		api.PUT("/quiz/answers/:id", s.answerQuestion)
		api.POST("/quiz/submit", s.submitQuiz)
		api.POST("/quiz/reset", s.resetQuiz)

		api.GET("/profile", s.getProfile)
		api.GET("/plan", s.getPlan)

		tutorGroup := api.Group("/tutor")
		tutorGroup.Use(newClientLimiter(s.opts.TutorRate, s.opts.TutorBurst, time.Minute).middleware())
		{
			tutorGroup.POST("/explain", s.tutorExplain)
			tutorGroup.POST("/diagnose", s.tutorDiagnose)
			tutorGroup.POST("/roadmap", s.tutorRoadmap)
		}
	}
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	success(c, gin.H{
		"status":          "ok",
		"questions":       len(s.deps.Bank.Questions),
		"active_sessions": s.registry.Len(),
		"tutor":           s.deps.Tutor != nil,
	})
}

// requestLogger writes one zap line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("http request", fields...)
			return
		}
		logger.Info("http request", fields...)
	}
}
