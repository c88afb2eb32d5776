package handlers

import (
	"net/http"

	"github.com/SscSPs/backoffice_ledger/cmd/docs"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/middleware"
	"github.com/SscSPs/backoffice_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupSwaggerRoutes(r, cfg)
	setupAPIV1Routes(r, cfg, services)
}

// setupSwaggerRoutes serves the API docs outside production.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))

	// ledger
	RegisterCurrencyRoutes(v1, service.Currency, service.ExchangeRate)
	RegisterAccountRoutes(v1, service.Account, service.Ledger)
	RegisterLedgerRoutes(v1, service.Ledger)
	RegisterDocumentRoutes(v1, service.Settlement)

	// workflows
	RegisterEmployeeRoutes(v1, service.Employee)
	RegisterPayrollRoutes(v1, service.Payroll)
	RegisterBorrowingRoutes(v1, service.Borrowing)
	RegisterReimbursementRoutes(v1, service.Reimbursement)
	RegisterLeaveRoutes(v1, service.Leave)
}
