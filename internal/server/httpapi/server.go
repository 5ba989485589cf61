// Package httpapi exposes the analysis gateway over HTTP+JSON.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/repsphere/internal/logging"
	"github.com/dmitrijs2005/repsphere/internal/server/models"
	"github.com/dmitrijs2005/repsphere/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// UsageService is the quota side of the gateway.
type UsageService interface {
	Current(ctx context.Context, userID string) (*services.UsageSnapshot, error)
	Consume(ctx context.Context, userID, filename string) (*services.UsageSnapshot, error)
}

// BillingService applies payment-provider subscription changes.
type BillingService interface {
	ApplySubscription(ctx context.Context, ev services.SubscriptionEvent) (*models.UserLimits, error)
}

type HTTPServer struct {
	address         string
	usage           UsageService
	analyzer        services.Analyzer
	billing         BillingService
	stripeSecret    string
	logger          logging.Logger
	jwtSecret       []byte
	allowedOrigins  []string
	shutdownTimeout time.Duration
	validate        *validator.Validate
}

// Options carries the transport settings of the gateway.
type Options struct {
	Address         string
	SecretKey       string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration

	// StripeWebhookSecret verifies /stripe-webhook payloads. Empty disables the route.
	StripeWebhookSecret string
}

func NewHTTPServer(opts Options, l logging.Logger, us UsageService, an services.Analyzer, bs BillingService) *HTTPServer {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &HTTPServer{
		address:         opts.Address,
		usage:           us,
		analyzer:        an,
		billing:         bs,
		stripeSecret:    opts.StripeWebhookSecret,
		logger:          l.With("module", "http_server"),
		jwtSecret:       []byte(opts.SecretKey),
		allowedOrigins:  opts.AllowedOrigins,
		shutdownTimeout: opts.ShutdownTimeout,
		validate:        validator.New(),
	}
}

// Router builds the route tree.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors(s.allowedOrigins))

	r.Get("/", s.index)
	r.Post("/stripe-webhook", s.stripeWebhook)

	r.Group(func(r chi.Router) {
		r.Use(s.accessToken)
		r.Post("/webhook", s.webhook)
		r.Get("/user/usage", s.userUsage)
	})

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}
