package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/learnhub/enrollment-pipeline/internal/api/metrics"
	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
	"github.com/learnhub/enrollment-pipeline/internal/core/ports"
)

// PurchaseHandler receives purchase webhooks and serves recorded outcomes.
type PurchaseHandler struct {
	svc ports.PurchaseService
	log zerolog.Logger
}

func NewPurchaseHandler(svc ports.PurchaseService, log zerolog.Logger) *PurchaseHandler {
	return &PurchaseHandler{svc: svc, log: log}
}

// Receive handles POST /v1/webhooks/purchases. The call is synchronous: the
// sender learns the outcome, and a 503 tells it to redeliver later.
//
// @Summary      Apply a purchase notification
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      purchaseEventRequest  true  "Purchase event"
// @Success      201   {object}  purchaseResponse  "Enrollment created"
// @Success      200   {object}  purchaseResponse  "Already enrolled or already processed"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse  "Course not found"
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse  "Storage unavailable, redeliver later"
// @Router       /v1/webhooks/purchases [post]
func (h *PurchaseHandler) Receive(c echo.Context) error {
	subject, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req purchaseEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req = req.trimmed()
	if err := c.Validate(&req); err != nil {
		metrics.PurchasesErrorsTotal.WithLabelValues("validation").Inc()
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	start := time.Now()
	outcome, err := h.svc.Process(c.Request().Context(), toPurchaseInput(req))
	if err != nil {
		metrics.PurchaseProcessingDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		metrics.PurchasesErrorsTotal.WithLabelValues(errorReason(err)).Inc()
		h.log.Warn().Err(err).
			Str("source", subject).
			Str("course_id", req.CourseID).
			Bool("retryable", domain.IsRetryable(err)).
			Msg("purchase rejected")
		return err
	}

	kind := string(outcome.Kind())
	metrics.PurchaseProcessingDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	metrics.PurchasesProcessedTotal.WithLabelValues(kind).Inc()

	status := http.StatusOK
	if outcome.IsNewEnrollment && !outcome.AlreadyProcessed {
		status = http.StatusCreated
	}
	return c.JSON(status, toPurchaseResponse(outcome))
}

// Lookup handles GET /v1/purchases/:key and returns the recorded outcome of
// a processed purchase.
//
// @Summary      Get the recorded outcome of a purchase
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Param        key  path      string  true  "Transaction id or derived dedup key"
// @Success      200  {object}  purchaseResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/purchases/{key} [get]
func (h *PurchaseHandler) Lookup(c echo.Context) error {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "key is required")
	}

	outcome, err := h.svc.Lookup(c.Request().Context(), domain.DedupKey(key))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPurchaseResponse(outcome))
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrCourseNotFound):
		return "course_not_found"
	case errors.Is(err, domain.ErrStorage):
		return "storage"
	default:
		return "internal"
	}
}
