package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evtrading/evmarket-gateway/api/controllers"
	"github.com/evtrading/evmarket-gateway/api/middleware"
	"github.com/evtrading/evmarket-gateway/internal/backend"
	"github.com/evtrading/evmarket-gateway/internal/listings"
	"github.com/evtrading/evmarket-gateway/internal/moderation"
	"github.com/evtrading/evmarket-gateway/internal/orders"
	"github.com/evtrading/evmarket-gateway/internal/payments"
	"github.com/evtrading/evmarket-gateway/internal/profile"
	pkgAuth "github.com/evtrading/evmarket-gateway/pkg/auth"
	"github.com/evtrading/evmarket-gateway/pkg/auth/session"
	"github.com/evtrading/evmarket-gateway/pkg/config"
	"github.com/evtrading/evmarket-gateway/pkg/logger"
)

type sessionManager interface {
	session.Checker
	Create(ctx context.Context, sess pkgAuth.Session) (string, error)
	Revoke(ctx context.Context, sessionID string) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// RouterParams carries everything the router mounts.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	Redis    pinger
	Backend  *backend.Client
	Sessions sessionManager

	Listings   listings.Service
	Moderation moderation.Service
	Orders     orders.Service
	Payments   payments.Service
	Profile    profile.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
		middleware.Session(p.Sessions, logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.Redis, logg))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(p.Backend, p.Sessions, cfg, logg))
		r.Post("/register", controllers.Register(p.Backend, logg))
		r.Post("/logout", controllers.Logout(p.Backend, p.Sessions, cfg, logg))
	})

	r.Route("/api/v1/listings", func(r chi.Router) {
		r.Get("/", controllers.BrowseListings(p.Listings, logg))
		r.Get("/{listingID}", controllers.ListingDetail(p.Listings, logg))
		r.Get("/{listingID}/availability", controllers.OrderAvailability(p.Orders, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(logg))
			r.Get("/my", controllers.MyListings(p.Listings, logg))
			r.Post("/", controllers.CreateListing(p.Listings, logg))
			r.Put("/{listingID}", controllers.UpdateListing(p.Listings, logg))
			r.Get("/extension-quote", controllers.ExtensionQuote(p.Listings, logg))
			r.Post("/{listingID}/extend", controllers.ExtendListing(p.Listings, logg))
		})
	})

	r.Route("/api/v1/moderation", func(r chi.Router) {
		r.Use(middleware.RequireModerator(logg))
		r.Get("/pending", controllers.PendingListings(p.Moderation, logg))
		r.Post("/listings/{listingID}/approve", controllers.ApproveListing(p.Moderation, logg))
		r.Post("/listings/{listingID}/reject", controllers.RejectListing(p.Moderation, logg))
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(middleware.RequireAuth(logg))
		r.Post("/", controllers.PlaceOrder(p.Orders, logg))
		r.Get("/my", controllers.MyOrders(p.Orders, logg))
	})

	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Get("/callback", controllers.PaymentCallback(p.Payments, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(logg))
			r.Get("/payable", controllers.PayableTransactions(p.Payments, logg))
			r.Post("/", controllers.StartPayment(p.Payments, logg))
		})
	})

	r.Route("/api/v1/profile", func(r chi.Router) {
		r.Use(middleware.RequireAuth(logg))
		r.Get("/me", controllers.Me(p.Profile, logg))
		r.Put("/me", controllers.UpdateProfile(p.Profile, logg))
	})

	return r
}
