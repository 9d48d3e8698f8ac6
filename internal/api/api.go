package api

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oseayemenre/bookstore/internal/checkout"
	"github.com/oseayemenre/bookstore/internal/config"
	"github.com/oseayemenre/bookstore/internal/events"
	"github.com/oseayemenre/bookstore/internal/logger"
	"github.com/oseayemenre/bookstore/internal/metrics"
	"github.com/oseayemenre/bookstore/internal/models"
	"github.com/oseayemenre/bookstore/internal/payment"
	"github.com/oseayemenre/bookstore/internal/store"
)

type Api struct {
	router       *chi.Mux
	logger       logger.Logger
	objectStore  store.ObjectStore
	store        store.Store
	config       *config.Config
	checkout     *checkout.Service
	gateway      payment.Gateway
	publisher    events.Publisher
	hub          *events.Hub
	metrics      *metrics.ServerMetrics
	loginLimiter *ipLimiter
}

func New(
	router *chi.Mux,
	logger logger.Logger,
	objectStore store.ObjectStore,
	store store.Store,
	config *config.Config,
	gateway payment.Gateway,
	publisher events.Publisher,
	hub *events.Hub,
	metrics *metrics.ServerMetrics,
) *Api {
	if gateway == nil {
		gateway = payment.Unconfigured{}
	}

	if publisher == nil {
		publisher = events.Noop{}
	}

	return &Api{
		router:       router,
		logger:       logger,
		objectStore:  objectStore,
		store:        store,
		config:       config,
		checkout:     checkout.NewService(store, gateway, config.Razorpay_key_secret, logger),
		gateway:      gateway,
		publisher:    publisher,
		hub:          hub,
		metrics:      metrics,
		loginLimiter: newIPLimiter(config.Login_rate_per_minute),
	}
}

func (a *Api) RegisterRoutes() {
	a.router.Group(func(r chi.Router) {
		r.Use(a.LoggingMiddleware)

		r.Route("/api/user", func(r chi.Router) {
			r.Get("/captcha", a.HandleGetCaptcha)
			r.Post("/register", a.HandleRegister)
			r.With(a.RateLimitLogins).Post("/login", a.HandleUserLogin)

			r.Group(func(r chi.Router) {
				r.Use(a.Authenticate)

				r.Get("/profile", a.HandleGetProfile)
				r.Put("/profile", a.HandleUpdateProfile)
				r.Get("/notifications", a.HandleGetNotifications)

				r.Route("/wishlist", func(r chi.Router) {
					r.Get("/", a.HandleGetWishlist)
					r.Post("/", a.HandleAddToWishlist)
					r.Delete("/{bookId}", a.HandleRemoveFromWishlist)
				})

				r.Route("/cart", func(r chi.Router) {
					r.Get("/", a.HandleGetCart)
					r.Post("/", a.HandleAddToCart)
					r.Put("/", a.HandleUpdateCart)
					r.Delete("/{bookId}", a.HandleRemoveFromCart)
				})

				r.With(a.RequireRole(models.RoleAdmin)).Get("/all", a.HandleGetAllUsers)
				r.With(a.RequireRole(models.RoleAdmin)).Put("/block/{id}", a.HandleToggleBlockUser)
			})
		})

		r.With(a.RateLimitLogins).Post("/api/auth/login", a.HandleLogin)
		r.With(a.RateLimitLogins).Post("/admin/login", a.HandleAdminLogin)

		r.Route("/api/author", func(r chi.Router) {
			r.Post("/register", a.HandleAuthorRegister)
			r.With(a.RateLimitLogins).Post("/login", a.HandleAuthorLogin)
		})

		r.Route("/api/books", func(r chi.Router) {
			r.Get("/featured", a.HandleGetFeaturedBooks)
			r.Get("/all", a.HandleGetAllBooks)
			r.Get("/genres", a.HandleGetGenres)
			r.Get("/bygenre", a.HandleGetBooksByGenre)
			r.Get("/similar/{id}", a.HandleGetSimilarBooks)
			r.Get("/{id}", a.HandleGetBook)

			r.Group(func(r chi.Router) {
				r.Use(a.Authenticate)

				r.Post("/{id}/reviews", a.HandleAddReview)

				r.Group(func(r chi.Router) {
					r.Use(a.RequireRole(models.RoleAdmin))

					r.Post("/", a.HandleCreateBook)
					r.Put("/{id}", a.HandleUpdateBook)
					r.Delete("/{id}", a.HandleDeleteBook)
				})
			})
		})

		r.Route("/api/orders", func(r chi.Router) {
			r.Use(a.Authenticate)

			r.Post("/place", a.HandlePlaceOrder)
			r.Get("/history", a.HandleGetOrderHistory)
			r.With(a.RequireRole(models.RoleAdmin)).Get("/all", a.HandleGetAllOrders)
			r.Get("/{id}", a.HandleGetOrder)
			r.With(a.RequireRole(models.RoleAdmin)).Put("/{id}", a.HandleUpdateOrderStatus)
			r.Post("/{id}/cancel", a.HandleCancelOrder)
			r.Get("/{id}/invoice", a.HandleGetInvoice)
		})

		r.Route("/api/payment", func(r chi.Router) {
			r.Use(a.Authenticate)

			r.Post("/create-order", a.HandleCreatePaymentOrder)
			r.Post("/verify-payment", a.HandleVerifyPayment)
		})

		r.Route("/api/submission", func(r chi.Router) {
			r.Use(a.Authenticate)

			r.With(a.RequireRole(models.RoleUser, models.RoleAuthor)).Post("/", a.HandleCreateSubmission)
			r.Get("/my", a.HandleGetMySubmissions)
			r.With(a.RequireRole(models.RoleAdmin)).Get("/all", a.HandleGetAllSubmissions)
			r.Get("/{id}", a.HandleGetSubmission)
			r.Put("/{id}", a.HandleUpdateSubmission)
			r.Delete("/{id}", a.HandleDeleteSubmission)
		})

		r.Route("/admindashboard", func(r chi.Router) {
			r.Use(a.Authenticate)

			r.With(a.RequireRole(models.RoleUser)).Get("/dashboard/user", a.HandleUserDashboard)

			r.Group(func(r chi.Router) {
				r.Use(a.RequireRole(models.RoleAdmin))

				r.Get("/dashboard/stats", a.HandleGetDashboardStats)
				r.Get("/users", a.HandleGetAllUsers)
				r.Patch("/users/{userId}/block", a.HandleSetUserBlocked)
				r.Get("/submissions", a.HandleGetAllSubmissions)
				r.Patch("/submissions/{id}/review", a.HandleReviewSubmission)
				r.Put("/submissions/{id}", a.HandleAdminUpdateSubmission)
				r.Delete("/submissions/{id}", a.HandleDeleteSubmission)
				r.Get("/orders", a.HandleGetAllOrders)
				r.Get("/ws", a.HandleAdminWS)
			})
		})
	})
}

// publish sends an event without tying the request outcome to the broker.
func (a *Api) publish(ctx context.Context, event events.Event) {
	if event.Created_at.IsZero() {
		event.Created_at = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	outcome := "ok"

	if err := a.publisher.Publish(ctx, event); err != nil {
		outcome = "error"
		a.logger.Warn(fmt.Sprintf("error publishing event: %v", err), "service", "publish", "type", event.Type)
	}

	if a.metrics != nil {
		a.metrics.Events.WithLabelValues(event.Type, outcome).Inc()
	}
}

func (a *Api) countOrder(method string, outcome string) {
	if a.metrics != nil {
		a.metrics.Orders.WithLabelValues(method, outcome).Inc()
	}
}
