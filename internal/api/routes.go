package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"validateai/backend/internal/ai"
	"validateai/backend/internal/auth"
	"validateai/backend/internal/billing"
	"validateai/backend/internal/config"
	"validateai/backend/internal/scoring"
	"validateai/backend/internal/store"
)

// AuthProvider is the hosted auth service used for passwordless sign-in.
type AuthProvider interface {
	SendMagicLink(ctx context.Context, email, redirectTo string) error
	SignOut(ctx context.Context, accessToken string) error
}

// Billing creates checkout sessions and interprets subscription webhooks.
type Billing interface {
	Checkout(ctx context.Context, userID string, plan billing.Plan) (string, error)
	ParseWebhook(payload []byte, signature string) (store.SubscriptionState, bool, error)
}

// Options carries already constructed dependencies. Generator and DB are
// required; the rest disable their endpoints when nil.
type Options struct {
	DB             *store.Database
	Generator      ai.Generator
	Verifier       *auth.Verifier
	AuthProvider   AuthProvider
	Billing        Billing
	AllowedOrigins []string
}

// Server wires HTTP handlers with persistence, scoring and billing.
type Server struct {
	db              *store.Database
	generator       ai.Generator
	scorer          *scoring.Scorer
	verifier        *auth.Verifier
	authProvider    AuthProvider
	billing         Billing
	allowedOrigins  []string
	historyNotifier *HistoryNotifier
}

// NewServer builds every dependency from configuration.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := store.Open(cfg.Database.DSN, cfg.Database.Silent)
	if err != nil {
		return nil, err
	}

	generator, err := ai.New(ctx, cfg.AI)
	if err != nil {
		_ = db.Close()
		if errors.Is(err, ai.ErrDisabled) {
			return nil, fmt.Errorf("ai generator disabled: configure %s credentials", cfg.AI.Provider)
		}
		return nil, fmt.Errorf("ai client: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"provider": generator.Provider(),
		"model":    generator.Model(),
	}).Info("AI generator enabled")

	opts := Options{DB: db, Generator: generator, AllowedOrigins: cfg.Server.AllowedOrigins}

	if verifier, err := auth.NewVerifier(cfg.Auth); err == nil {
		opts.Verifier = verifier
	} else {
		logrus.Info("auth disabled - no JWT secret configured")
	}
	if provider, err := auth.NewProviderClient(cfg.Auth); err == nil {
		opts.AuthProvider = provider
	} else {
		logrus.Info("magic link sign-in disabled - no auth provider configured")
	}
	if svc, err := billing.NewService(cfg.Billing); err == nil {
		opts.Billing = svc
	} else {
		logrus.Info("billing disabled - no Stripe secret key configured")
	}

	return New(opts), nil
}

// New constructs the API server from prepared dependencies.
func New(opts Options) *Server {
	return &Server{
		db:              opts.DB,
		generator:       opts.Generator,
		scorer:          scoring.NewScorer(opts.Generator),
		verifier:        opts.Verifier,
		authProvider:    opts.AuthProvider,
		billing:         opts.Billing,
		allowedOrigins:  opts.AllowedOrigins,
		historyNotifier: NewHistoryNotifier(),
	}
}

// Close releases the model client and the database pool.
func (s *Server) Close() error {
	var errs []error
	if s.generator != nil {
		errs = append(errs, s.generator.Close())
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	return errors.Join(errs...)
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsCfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/api/healthz", s.handleHealth)
	r.GET("/api/config", s.handleConfig)

	requireUser := auth.RequireUser(s.verifier)

	api := r.Group("/api")
	{
		api.POST("/score", s.handleScore)
		api.POST("/checkout", auth.OptionalUser(s.verifier), s.handleCheckout)
		api.POST("/billing/webhook", s.handleBillingWebhook)
		api.POST("/auth/magic-link", s.handleMagicLink)
		api.POST("/auth/logout", requireUser, s.handleLogout)
		api.GET("/profile", requireUser, s.handleProfile)
	}

	history := api.Group("/history", requireUser)
	{
		history.GET("", s.handleListHistory)
		history.GET("/latest", s.handleLatestScore)
		history.GET("/stream", s.handleHistoryStream)
		history.POST("", s.handleSaveHistory)
		history.DELETE("", s.handleClearHistory)
		history.DELETE("/:id", s.handleDeleteHistory)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.db.Ping(c.Request.Context()); err != nil {
		logrus.WithError(err).Warn("database ping failed")
		s.renderError(c, http.StatusServiceUnavailable, errors.New("database unavailable"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ai_provider":        s.generator.Provider(),
		"ai_model":           s.generator.Model(),
		"auth_enabled":       s.verifier != nil,
		"magic_link_enabled": s.authProvider != nil,
		"billing_enabled":    s.billing != nil,
	})
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}
