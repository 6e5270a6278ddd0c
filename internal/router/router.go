package router

import (
	"time"

	"github.com/spetoki/pastelFacil-sub000/internal/config"
	"github.com/spetoki/pastelFacil-sub000/internal/handler"
	"github.com/spetoki/pastelFacil-sub000/internal/middleware"
	"github.com/spetoki/pastelFacil-sub000/internal/repository"
	"github.com/spetoki/pastelFacil-sub000/internal/service"
	"github.com/spetoki/pastelFacil-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
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
	productRepo := repository.NewProductRepository(db)
	clientRepo := repository.NewClientRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	cashRepo := repository.NewCashRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	closureRepo := repository.NewClosureRepository(db)
	stockMovementRepo := repository.NewStockMovementRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, stockMovementRepo, rdb, cfg.PriceCacheTTL)
	clientSvc := service.NewClientService(clientRepo, cashRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, clientRepo, stockMovementRepo, documentRepo, dispatcher)
	cashSvc := service.NewCashService(cashRepo, shiftRepo)
	shiftSvc := service.NewShiftService(shiftRepo, saleRepo, cashRepo, closureRepo, documentRepo, dispatcher)
	reportSvc := service.NewReportService(closureRepo, saleRepo, cashRepo)
	documentSvc := service.NewDocumentService(documentRepo, clientRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	priceH := handler.NewPriceCheckHandler(productSvc)
	clientsH := handler.NewClientsHandler(clientSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	cashH := handler.NewCashHandler(cashSvc)
	shiftH := handler.NewShiftHandler(shiftSvc)
	reportsH := handler.NewReportsHandler(reportSvc)
	documentsH := handler.NewDocumentsHandler(documentSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth, consumed by the shop-floor totem
	r.GET("/v1/price/:barcode", priceH.Check)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	pinMW := middleware.SupervisorPIN(cfg.SupervisorPIN)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cashier, manager — declared per-endpoint
		anyRole := middleware.RequireRole("cashier", "manager")
		managerOnly := middleware.RequireRole("manager")

		// Sales
		v1.POST("/sales", anyRole, salesH.Register)
		v1.GET("/sales", anyRole, salesH.List)
		v1.GET("/sales/:id", anyRole, salesH.Get)
		v1.POST("/sales/:id/void", managerOnly, pinMW, salesH.Void)

		// Products — reads for everyone, writes for managers
		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/:id", anyRole, productsH.Get)
		v1.GET("/products/:id/movements", anyRole, productsH.StockMovements)
		prods := v1.Group("/products", managerOnly)
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.POST("/:id/stock", productsH.AdjustStock)
			prods.DELETE("/:id", pinMW, productsH.Delete)
			prods.PATCH("/:id/reactivate", productsH.Reactivate)
		}

		// Clients and fiado
		v1.GET("/clients", anyRole, clientsH.List)
		v1.GET("/clients/:id", anyRole, clientsH.Get)
		v1.POST("/clients", anyRole, clientsH.Create)
		v1.POST("/clients/:id/debt-payments", anyRole, clientsH.PayDebt)
		clients := v1.Group("/clients", managerOnly)
		{
			clients.PUT("/:id", clientsH.Update)
			clients.DELETE("/:id", pinMW, clientsH.Delete)
			clients.PATCH("/:id/reactivate", clientsH.Reactivate)
		}

		// Cash ledger
		v1.POST("/cash/transactions", anyRole, cashH.Register)
		v1.GET("/cash/transactions", anyRole, cashH.ListCurrentShift)

		// Shift closing
		v1.GET("/shift/report", anyRole, shiftH.Report)
		v1.POST("/shift/close", anyRole, shiftH.Close)

		// Closure history — supervisor PIN on top of auth
		reports := v1.Group("/reports", anyRole, pinMW)
		{
			reports.GET("/closures", reportsH.ListClosures)
			reports.GET("/closures/:id", reportsH.GetClosure)
			reports.GET("/credit-sales", reportsH.CreditSales)
		}

		// Documents
		v1.POST("/documents/contracts", anyRole, documentsH.CreateContract)
		v1.GET("/documents", anyRole, documentsH.List)
		v1.GET("/documents/:id", anyRole, documentsH.Get)
		v1.GET("/documents/:id/pdf", anyRole, documentsH.PDF)
		v1.POST("/documents/:id/retry", managerOnly, documentsH.Retry)

		// Users — managers only
		users := v1.Group("/users", managerOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
