package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendlog/internal/errors"
	"spendlog/internal/intent"
	"spendlog/internal/services"
)

// ReportHandler handles spending questions.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ReportRequest represents the request payload for a spending question
type ReportRequest struct {
	Query string `json:"query" binding:"required,max=500"`
}

// CompileRequest represents a pre-classified query. Fields hold raw
// classifier values and are normalized before compiling.
type CompileRequest struct {
	Query       string `json:"query" binding:"max=500"`
	Action      string `json:"action" binding:"max=32"`
	Timeframe   string `json:"timeframe" binding:"max=32"`
	FilterType  string `json:"filter_type" binding:"max=32"`
	FilterValue string `json:"filter_value" binding:"max=128"`
}

// raw drops empty fields so they count as missing.
func (r CompileRequest) raw() intent.Raw {
	raw := intent.Raw{}
	for k, v := range map[string]string{
		intent.KeyAction:      r.Action,
		intent.KeyTimeframe:   r.Timeframe,
		intent.KeyFilterType:  r.FilterType,
		intent.KeyFilterValue: r.FilterValue,
	} {
		if v != "" {
			raw[k] = v
		}
	}
	return raw
}

// Report handles answering a spending question
// @Summary     Answer a spending question
// @Description Classify a natural-language question, run it against the ledger and summarize the result
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ReportRequest true "Question"
// @Success     200 {object} services.Report "Answer"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Classifier reply unusable"
// @Failure     503 {object} ErrorResponse "Classifier not configured"
// @Router      /reports [post]
func (h *ReportHandler) Report(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	report, err := h.reportService.Report(c.Request.Context(), req.Query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// Compile handles compiling a pre-classified query without running it
// @Summary     Compile a query
// @Description Normalize raw intent fields and return the compiled plan
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CompileRequest true "Raw intent"
// @Success     200 {object} query.Plan "Plan"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /reports/compile [post]
func (h *ReportHandler) Compile(c *gin.Context) {
	var req CompileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	plan := h.reportService.Compile(req.Query, req.raw())
	c.JSON(http.StatusOK, gin.H{"plan": plan, "summary": plan.String()})
}
