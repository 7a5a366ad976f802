package router

import (
	"time"

	"github.com/naimlawani01/facturerapide-api/internal/config"
	"github.com/naimlawani01/facturerapide-api/internal/handler"
	"github.com/naimlawani01/facturerapide-api/internal/infra"
	"github.com/naimlawani01/facturerapide-api/internal/middleware"
	"github.com/naimlawani01/facturerapide-api/internal/repository"
	"github.com/naimlawani01/facturerapide-api/internal/service"
	"github.com/naimlawani01/facturerapide-api/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	productRepo := repository.NewProductRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	clientSvc := service.NewClientService(clientRepo)
	productSvc := service.NewProductService(productRepo)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, clientRepo, productRepo, sequenceRepo, dispatcher)
	quoteSvc := service.NewQuoteService(quoteRepo, invoiceRepo, clientRepo, productRepo, sequenceRepo, dispatcher)
	paymentSvc := service.NewPaymentService(paymentRepo, invoiceRepo, dispatcher)
	dashboardSvc := service.NewDashboardService(dashboardRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	clientsH := handler.NewClientsHandler(clientSvc)
	productsH := handler.NewProductsHandler(productSvc)
	invoicesH := handler.NewInvoicesHandler(invoiceSvc)
	quotesH := handler.NewQuotesHandler(quoteSvc)
	paymentsH := handler.NewPaymentsHandler(paymentSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailer))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/register", middleware.LoginRateLimiter(), authH.Register)
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/auth/me", authH.Me)

		clients := v1.Group("/clients")
		{
			clients.POST("", clientsH.Create)
			clients.GET("", clientsH.List)
			clients.GET("/:id", clientsH.Get)
			clients.PATCH("/:id", clientsH.Update)
			clients.DELETE("/:id", clientsH.Delete)
		}

		products := v1.Group("/products")
		{
			products.POST("", productsH.Create)
			products.GET("", productsH.List)
			products.GET("/:id", productsH.Get)
			products.PATCH("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Deactivate)
			products.POST("/:id/reactivate", productsH.Reactivate)
		}

		invoices := v1.Group("/invoices")
		{
			invoices.POST("", invoicesH.Create)
			invoices.GET("", invoicesH.List)
			invoices.GET("/:id", invoicesH.Get)
			invoices.PATCH("/:id", invoicesH.Update)
			invoices.DELETE("/:id", invoicesH.Delete)
			invoices.POST("/:id/items", invoicesH.AddItem)
			invoices.DELETE("/:id/items/:itemId", invoicesH.RemoveItem)
			invoices.POST("/:id/send", invoicesH.Send)
			invoices.POST("/:id/cancel", invoicesH.Cancel)
			invoices.GET("/:id/pdf", invoicesH.DownloadPDF)
			invoices.GET("/:id/payments", paymentsH.ListByInvoice)
		}

		quotes := v1.Group("/quotes")
		{
			quotes.POST("", quotesH.Create)
			quotes.GET("", quotesH.List)
			quotes.GET("/:id", quotesH.Get)
			quotes.PATCH("/:id", quotesH.Update)
			quotes.DELETE("/:id", quotesH.Delete)
			quotes.POST("/:id/items", quotesH.AddItem)
			quotes.DELETE("/:id/items/:itemId", quotesH.RemoveItem)
			quotes.POST("/:id/send", quotesH.Send)
			quotes.POST("/:id/accept", quotesH.Accept)
			quotes.POST("/:id/reject", quotesH.Reject)
			quotes.POST("/:id/convert", quotesH.Convert)
			quotes.GET("/:id/pdf", quotesH.DownloadPDF)
		}

		payments := v1.Group("/payments")
		{
			payments.POST("", paymentsH.Create)
			payments.GET("", paymentsH.List)
			payments.GET("/:id", paymentsH.Get)
			payments.DELETE("/:id", paymentsH.Delete)
		}

		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/overview", dashboardH.Overview)
			dashboard.GET("/revenue", dashboardH.RevenueByMonth)
			dashboard.GET("/top-clients", dashboardH.TopClients)
			dashboard.GET("/recent", dashboardH.RecentDocuments)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
