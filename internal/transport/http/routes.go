package httpt

import (
	"net/http"

	_ "github.com/Mohamedgad1983/PROShael-sub019/docs" // for swagger

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Payment Ledger API
// @version         1.0
// @description     API for payment validation, lifecycle and the transaction ledger
// @termsOfService  http://swagger.io/terms/
// @contact.name    API Support
// @contact.email   support@example.com
// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html
// @host            localhost:8080
// @BasePath        /api/v1
// @schemes         http https
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func (h *PaymentHandler) setupRoutes() {
	h.router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	api := h.router.Group("/api/v1")

	payments := api.Group("/payments")
	{
		payments.POST("", h.createPaymentHandler)
		payments.POST("/normalize", h.normalizeBatchHandler)
		payments.GET("/:payment_id", h.getPaymentHandler)
		payments.GET("/:payment_id/history", h.getHistoryHandler)
		payments.POST("/:payment_id/transitions", h.transitionStatusHandler)
	}

	ledgerGroup := api.Group("/ledger")
	{
		ledgerGroup.GET("", h.queryLedgerHandler)
		ledgerGroup.GET("/summary", h.ledgerSummaryHandler)
		ledgerGroup.GET("/:log_id/verify", h.verifyEntryHandler)
	}

	api.GET("/payers/:payer_id/audit-trail", h.auditTrailHandler)

	h.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
