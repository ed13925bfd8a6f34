package httpt

import (
	"context"
	"net/http"
	"time"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/entity"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	_defaultContextTimeout = 500 * time.Millisecond
)

// @Summary Create payment
// @Description Validates the request, applies the method fee, converts to the base currency and records the payment in the transaction log
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body entity.PaymentRequest true "Payment request"
// @Success 201 {object} entity.Payment "Created payment"
// @Failure 400 {object} httpt.ValidationErrorResponse "Validation failures"
// @Failure 500 {object} httpt.ErrorResponse "Internal server error"
// @Router /payments [post]
func (h *PaymentHandler) createPaymentHandler(c *gin.Context) {
	const op = "transport.createPaymentHandler"

	log := h.log.Ctx(c.Request.Context())

	var req entity.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleInvalidBody(c, op, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), _defaultContextTimeout)
	defer cancel()

	clientContext := map[string]any{
		"ip":         c.ClientIP(),
		"user_agent": c.Request.UserAgent(),
	}

	created, err := h.svc.CreatePayment(ctx, &req, clientContext)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	log.LogAttrs(ctx, logger.InfoLevel, "payment created",
		logger.String("payment_id", created.ID),
		logger.String("payer_id", created.PayerID),
	)

	c.JSON(http.StatusCreated, created)
}

// @Summary Get payment
// @Description Returns a payment by its identifier
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment_id path string true "Payment identifier"
// @Success 200 {object} entity.Payment "Payment"
// @Failure 404 {object} httpt.ErrorResponse "Payment not found"
// @Failure 500 {object} httpt.ErrorResponse "Internal server error"
// @Router /payments/{payment_id} [get]
func (h *PaymentHandler) getPaymentHandler(c *gin.Context) {
	const op = "transport.getPaymentHandler"

	ctx, cancel := context.WithTimeout(c.Request.Context(), _defaultContextTimeout)
	defer cancel()

	payment, err := h.svc.GetPayment(ctx, c.Param("payment_id"))
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// @Summary Get status history
// @Description Returns every recorded status transition of a payment in order
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment_id path string true "Payment identifier"
// @Success 200 {array} entity.StatusTransition "Transition history"
// @Failure 404 {object} httpt.ErrorResponse "Payment not found"
// @Failure 500 {object} httpt.ErrorResponse "Internal server error"
// @Router /payments/{payment_id}/history [get]
func (h *PaymentHandler) getHistoryHandler(c *gin.Context) {
	const op = "transport.getHistoryHandler"

	ctx, cancel := context.WithTimeout(c.Request.Context(), _defaultContextTimeout)
	defer cancel()

	history, err := h.svc.GetHistory(ctx, c.Param("payment_id"))
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusOK, history)
}

// @Summary Transition payment status
// @Description Moves a payment along its lifecycle; illegal moves are rejected without changing state
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment_id path string true "Payment identifier"
// @Param request body httpt.TransitionRequest true "Requested transition"
// @Success 200 {object} entity.TransitionResult "Applied transition"
// @Failure 400 {object} httpt.ErrorResponse "Invalid request body"
// @Failure 404 {object} httpt.ErrorResponse "Payment not found"
// @Failure 409 {object} httpt.ErrorResponse "Transition not allowed"
// @Failure 500 {object} httpt.ErrorResponse "Internal server error"
// @Router /payments/{payment_id}/transitions [post]
func (h *PaymentHandler) transitionStatusHandler(c *gin.Context) {
	const op = "transport.transitionStatusHandler"

	log := h.log.Ctx(c.Request.Context())

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleInvalidBody(c, op, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), _defaultContextTimeout)
	defer cancel()

	paymentID := c.Param("payment_id")

	result, err := h.svc.TransitionStatus(ctx, paymentID, req.FromStatus, req.ToStatus, req.Metadata)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	log.LogAttrs(ctx, logger.InfoLevel, "payment status changed",
		logger.String("payment_id", paymentID),
		logger.String("from", string(result.PreviousStatus)),
		logger.String("to", string(result.Status)),
	)

	c.JSON(http.StatusOK, result)
}

// @Summary Normalize payment batch
// @Description Converts a mixed-currency batch into base-currency amounts with per-currency totals
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body httpt.NormalizeRequest true "Payments to normalize"
// @Success 200 {object} currency.BatchResult "Normalized batch"
// @Failure 400 {object} httpt.ErrorResponse "Unsupported currency"
// @Failure 500 {object} httpt.ErrorResponse "Internal server error"
// @Router /payments/normalize [post]
func (h *PaymentHandler) normalizeBatchHandler(c *gin.Context) {
	const op = "transport.normalizeBatchHandler"

	var req NormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleInvalidBody(c, op, err)
		return
	}

	result, err := h.svc.NormalizeBatch(req.Payments)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Query transaction log
// @Description Filters the transaction log; all supplied filters apply together
// @Tags Ledger
// @Accept json
// @Produce json
// @Param payer_id query string false "Payer identifier"
// @Param status query string false "Payment status"
// @Param start_date query string false "Inclusive lower bound, RFC 3339"
// @Param end_date query string false "Inclusive upper bound, RFC 3339"
// @Param min_amount query string false "Inclusive minimum amount"
// @Success 200 {array} entity.TransactionLogEntry "Matching entries"
// @Failure 400 {object} httpt.ErrorResponse "Malformed filter"
// @Router /ledger [get]
func (h *PaymentHandler) queryLedgerHandler(c *gin.Context) {
	const op = "transport.queryLedgerHandler"

	var q logFilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.handleInvalidBody(c, op, err)
		return
	}

	filter, err := q.toFilter()
	if err != nil {
		h.handleInvalidBody(c, op, err)
		return
	}

	c.JSON(http.StatusOK, h.svc.QueryLogs(filter))
}

// @Summary Ledger summary
// @Description Aggregates recorded payments into per-currency and base-currency totals
// @Tags Ledger
// @Accept json
// @Produce json
// @Success 200 {object} service.LedgerSummary "Aggregated totals"
// @Failure 500 {object} httpt.ErrorResponse "Internal server error"
// @Router /ledger/summary [get]
func (h *PaymentHandler) ledgerSummaryHandler(c *gin.Context) {
	const op = "transport.ledgerSummaryHandler"

	summary, err := h.svc.Summary()
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// @Summary Verify log entry
// @Description Recomputes a log entry's checksum to detect tampering
// @Tags Ledger
// @Accept json
// @Produce json
// @Param log_id path string true "Log entry identifier"
// @Success 200 {object} httpt.VerifyResponse "Verification result"
// @Failure 404 {object} httpt.ErrorResponse "Log entry not found"
// @Router /ledger/{log_id}/verify [get]
func (h *PaymentHandler) verifyEntryHandler(c *gin.Context) {
	const op = "transport.verifyEntryHandler"

	logID := c.Param("log_id")

	valid, err := h.svc.VerifyLogEntry(logID)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusOK, VerifyResponse{LogID: logID, Valid: valid})
}

// @Summary Payer audit trail
// @Description Returns every log entry touching one payer in chronological order
// @Tags Ledger
// @Accept json
// @Produce json
// @Param payer_id path string true "Payer identifier"
// @Success 200 {array} entity.TransactionLogEntry "Audit trail"
// @Router /payers/{payer_id}/audit-trail [get]
func (h *PaymentHandler) auditTrailHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.AuditTrail(c.Param("payer_id")))
}

func (q logFilterQuery) toFilter() (entity.LogFilter, error) {
	var filter entity.LogFilter

	filter.PayerID = q.PayerID
	filter.Status = entity.PaymentStatus(q.Status)

	if q.StartDate != "" {
		start, err := time.Parse(time.RFC3339, q.StartDate)
		if err != nil {
			return entity.LogFilter{}, err
		}
		filter.StartDate = start
	}

	if q.EndDate != "" {
		end, err := time.Parse(time.RFC3339, q.EndDate)
		if err != nil {
			return entity.LogFilter{}, err
		}
		filter.EndDate = end
	}

	if q.MinAmount != "" {
		minAmount, err := decimal.NewFromString(q.MinAmount)
		if err != nil {
			return entity.LogFilter{}, err
		}
		filter.MinAmount = decimalPtr(minAmount)
	}

	return filter, nil
}
