package httpt

import (
	"github.com/gin-gonic/gin"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/service"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/logger"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/metric"
)

type PaymentHandler struct {
	svc     *service.PaymentService
	log     logger.Logger
	metrics metric.HTTP
	router  *gin.Engine
}

func NewPaymentHandler(
	svc *service.PaymentService,
	log logger.Logger,
	metrics metric.HTTP,
) *PaymentHandler {
	h := &PaymentHandler{
		svc:     svc,
		log:     log,
		metrics: metrics,
	}

	router := gin.New()

	router.Use(h.requestIDMiddleware())
	router.Use(h.loggingMiddleware())
	router.Use(gin.Recovery())

	h.router = router

	h.setupRoutes()

	return h
}

func (h *PaymentHandler) Engine() *gin.Engine {
	return h.router
}
