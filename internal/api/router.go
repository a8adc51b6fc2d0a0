package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/Fritte91/247LocalFinest/internal/api/docs"
	"github.com/Fritte91/247LocalFinest/internal/api/handler"
	"github.com/Fritte91/247LocalFinest/internal/api/middleware"
	"github.com/Fritte91/247LocalFinest/internal/core/domain"
	"github.com/Fritte91/247LocalFinest/internal/core/ports"
	"github.com/Fritte91/247LocalFinest/internal/core/session"
)

// Deps is everything the router needs to serve requests.
type Deps struct {
	Auth     ports.AuthService
	Products ports.ProductService
	Orders   ports.OrderService
	Reviews  ports.ReviewService
	Uploads  ports.UploadService
	Sessions *session.Manager

	JWTSecret      string
	SessionOptions middleware.SessionOptions

	Mongo handler.MongoPinger
	// Redis is nil when the session backend does not use it.
	Redis handler.RedisPinger

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddleware("localfinest"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Log)
	sessionHandler := handler.NewSessionHandler(d.Orders, d.Log)
	productHandler := handler.NewProductHandler(d.Products)
	adminHandler := handler.NewAdminHandler(d.Auth, d.Uploads)
	orderHandler := handler.NewOrderHandler(d.Orders)
	reviewHandler := handler.NewReviewHandler(d.Reviews)

	authMiddleware := middleware.Auth(d.JWTSecret)
	sessionMiddleware := middleware.Session(d.Sessions, d.SessionOptions)

	// --- Auth routes ---
	auth := e.Group("/auth", sessionMiddleware)
	auth.POST("/register", authHandler.Register)
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)

	// --- Session and cart ---
	sess := e.Group("/session", sessionMiddleware)
	sess.GET("", sessionHandler.Get)
	sess.POST("/logout", sessionHandler.Logout)

	cart := e.Group("/cart", sessionMiddleware)
	cart.GET("", sessionHandler.Cart)
	cart.DELETE("", sessionHandler.Clear)
	cart.POST("/items", sessionHandler.AddItem)
	cart.PATCH("/items/:id", sessionHandler.UpdateItem)
	cart.DELETE("/items/:id", sessionHandler.RemoveItem)
	cart.POST("/checkout", sessionHandler.Checkout, authMiddleware)

	// --- Public catalog ---
	e.GET("/products", productHandler.List)
	e.GET("/products/:id", productHandler.Get)

	// --- Back office ---
	admin := e.Group("/admin", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/products", productHandler.List)
	admin.POST("/products", productHandler.Create)
	admin.PUT("/products", productHandler.Update)
	admin.DELETE("/products", productHandler.Delete)
	admin.GET("/users", adminHandler.Users)
	admin.POST("/upload", adminHandler.Upload)

	// --- Orders ---
	orders := e.Group("/orders", authMiddleware)
	orders.GET("", orderHandler.List)
	orders.POST("", orderHandler.Create)

	// --- Reviews ---
	e.GET("/reviews", reviewHandler.List)
	reviews := e.Group("/reviews", authMiddleware)
	reviews.POST("", reviewHandler.Create)
	reviews.PUT("", reviewHandler.Update)
	reviews.DELETE("", reviewHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/health" || p == "/metrics"
		},
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
