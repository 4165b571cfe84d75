package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nexbuildhq/nexbuild-backend/internal/authctx"
	"github.com/nexbuildhq/nexbuild-backend/internal/handler"
	"github.com/nexbuildhq/nexbuild-backend/internal/invoice"
	"github.com/nexbuildhq/nexbuild-backend/internal/mail"
	appmw "github.com/nexbuildhq/nexbuild-backend/internal/middleware"
	"github.com/nexbuildhq/nexbuild-backend/internal/notify"
	"github.com/nexbuildhq/nexbuild-backend/internal/payment"
	"github.com/nexbuildhq/nexbuild-backend/internal/repository"
	"github.com/nexbuildhq/nexbuild-backend/internal/service"
)

// Deps are the external collaborators; any of them may be nil, in which case
// the corresponding side effect is skipped (useful for local development).
type Deps struct {
	FirebaseProjectID string
	Mailer            mail.Mailer
	Invoices          invoice.Generator
	Gateway           payment.Gateway
	Publisher         notify.Publisher
	Logger            *zap.Logger
}

type Server struct {
	e             *echo.Echo
	componentRepo repository.ComponentRepository
	orderRepo     repository.OrderRepository
	quotationRepo repository.QuotationRepository
	statsRepo     repository.VendorStatsRepository
	notifRepo     repository.NotificationRepository
	sha           string
	build         string
}

func New(db *gorm.DB, deps Deps, sha, buildTime string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			if strings.HasSuffix(u.Hostname(), "vercel.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	componentRepo := repository.NewComponentRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	statsRepo := repository.NewVendorStatsRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	catalogSvc := service.NewCatalogService(componentRepo)
	orderSvc := service.NewOrderService(orderRepo, componentRepo, notifRepo,
		deps.Gateway, deps.Mailer, deps.Invoices, deps.Publisher, deps.Logger)
	quotationSvc := service.NewQuotationService(quotationRepo, orderRepo, statsRepo,
		notifRepo, deps.Publisher, deps.Logger)
	notifSvc := service.NewNotificationService(notifRepo)

	componentHandler := handler.NewComponentHandler(catalogSvc)
	orderHandler := handler.NewOrderHandler(orderSvc)
	quotationHandler := handler.NewQuotationHandler(quotationSvc)
	notifHandler := handler.NewNotificationHandler(notifSvc)

	requireAuth, requireVendor, requireAdmin := authMiddlewares(e, deps.FirebaseProjectID)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})

	api := e.Group("/api")

	// Public catalog and tracking.
	api.GET("/components", componentHandler.List)
	api.GET("/components/:id", componentHandler.Get)
	api.GET("/track/:code", orderHandler.Track)

	// Customer surface.
	api.POST("/orders", orderHandler.Create, requireAuth)
	api.GET("/orders/:id", orderHandler.Get, requireAuth)
	api.GET("/me/orders", orderHandler.ListMine, requireAuth)
	api.GET("/me/notifications", notifHandler.List, requireAuth)
	api.POST("/me/notifications/read", notifHandler.MarkAllRead, requireAuth)
	api.POST("/me/orders/:id/notifications/read", notifHandler.MarkOrderRead, requireAuth)

	// Vendor surface.
	vendor := api.Group("/vendor", requireAuth, requireVendor)
	vendor.GET("/orders", orderHandler.List)
	vendor.POST("/orders/:id/quotations", quotationHandler.Submit)
	vendor.GET("/quotations", quotationHandler.ListMine)
	vendor.GET("/stats", quotationHandler.Stats)

	// Admin back-office.
	admin := api.Group("/admin", requireAuth, requireAdmin)
	admin.GET("/orders", orderHandler.List)
	admin.GET("/orders/:id", orderHandler.Get)
	admin.POST("/orders/:id/advance", orderHandler.Advance)
	admin.POST("/orders/:id/cancel", orderHandler.Cancel)
	admin.GET("/orders/:id/quotations", quotationHandler.ListByOrder)
	admin.POST("/orders/:id/quotations/:vendor/accept", quotationHandler.Accept)
	admin.POST("/orders/:id/quotations/:vendor/reject", quotationHandler.Reject)

	return &Server{
		e:             e,
		componentRepo: componentRepo,
		orderRepo:     orderRepo,
		quotationRepo: quotationRepo,
		statsRepo:     statsRepo,
		notifRepo:     notifRepo,
		sha:           sha,
		build:         buildTime,
	}
}

// authMiddlewares returns the auth chain, degraded to pass-through when no
// firebase project is configured so the API stays usable in local dev.
func authMiddlewares(e *echo.Echo, projectID string) (requireAuth, requireVendor, requireAdmin echo.MiddlewareFunc) {
	authMw, err := appmw.NewAuthMiddleware(context.Background(), projectID)
	if err != nil || authMw == nil {
		e.Logger.Warnf("firebase auth disabled: %v", err)
		noop := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
		return noop, noop, noop
	}
	return authMw.RequireAuth,
		authMw.RequireRole(authctx.RoleVendor),
		authMw.RequireRole(authctx.RoleAdmin)
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) SetDB(db *gorm.DB) {
	s.componentRepo.SetDB(db)
	s.orderRepo.SetDB(db)
	s.quotationRepo.SetDB(db)
	s.statsRepo.SetDB(db)
	s.notifRepo.SetDB(db)
}
