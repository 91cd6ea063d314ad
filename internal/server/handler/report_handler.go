package handler

import (
	"errors"
	"log/slog"

	"github.com/finsight-event-ledger/internal/domain/event"
	"github.com/finsight-event-ledger/internal/service"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles HTTP requests for aggregated reports
type ReportHandler struct {
	reportService service.ReportService
	logger        *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(logger *slog.Logger, reportService service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// Summary returns revenue, expense, net and breakdowns for one scope
func (h *ReportHandler) Summary(c *gin.Context) {
	scope, err := scopeFromQuery(c)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	summary, err := h.reportService.EventSummary(c.Request.Context(), scope)
	if err != nil {
		if isScopeNotFound(err) {
			RespondNotFound(c, "Scope not found")
			return
		}
		h.logger.Error("Failed to build summary", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, summary)
}

// Budget returns the current budget utilization for one scope without
// triggering any alerts
func (h *ReportHandler) Budget(c *gin.Context) {
	scope, err := scopeFromQuery(c)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	status, err := h.reportService.BudgetOverview(c.Request.Context(), scope)
	if err != nil {
		if isScopeNotFound(err) {
			RespondNotFound(c, "Scope not found")
			return
		}
		h.logger.Error("Failed to build budget overview", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, status)
}

// Dashboard returns events grouped by lifecycle status with their totals
func (h *ReportHandler) Dashboard(c *gin.Context) {
	grouped, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to build dashboard", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, grouped)
}

func isScopeNotFound(err error) bool {
	return errors.Is(err, event.ErrEventNotFound{}) || errors.Is(err, event.ErrSubEventNotFound{})
}
