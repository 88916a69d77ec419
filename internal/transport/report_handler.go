package transport

import (
	"errors"
	"net/http"

	"milka-pos/internal/middleware"
	"milka-pos/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReportHandler handles HTTP requests for sales reports
type ReportHandler struct {
	reportService service.ReportService
	logger        *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// RegisterRoutes registers all report routes
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/daily", h.DailyReport)
}

// DailyReport summarizes today's sales, or those of ?date=YYYY-MM-DD
func (h *ReportHandler) DailyReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportService.Daily(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
				{Field: "date", Message: "Must be formatted as YYYY-MM-DD"},
			})
			return
		}
		middleware.RespondWithInternalError(w, h.logger, "failed to build daily report", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, report)
}
