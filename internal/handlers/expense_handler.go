package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "spendlog/internal/errors"
	"spendlog/internal/models"
	"spendlog/internal/pagination"
	"spendlog/internal/services"
)

// maxReceiptBytes caps receipt uploads.
const maxReceiptBytes = 10 << 20

// ExpenseHandler handles expense extraction and ledger requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	receiptService services.ReceiptServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, receiptService services.ReceiptServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, receiptService: receiptService}
}

// ExtractRequest represents the request payload for extracting an expense
type ExtractRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

// CreateExpenseRequest represents the request payload for recording an expense.
// Amount is extracted from Text when omitted.
type CreateExpenseRequest struct {
	Text     string           `json:"text" binding:"max=2000"`
	Keywords []string         `json:"keywords" binding:"omitempty,max=20,dive,keyword"`
	Amount   *decimal.Decimal `json:"amount"`
	Currency string           `json:"currency" binding:"omitempty,iso4217"`
	Source   string           `json:"source" binding:"omitempty,transaction_source"`
	ImageURL *string          `json:"image_url" binding:"omitempty,url"`
}

// AddKeywordsRequest represents the request payload for adding keywords.
// Text is parsed as a comma-separated list.
type AddKeywordsRequest struct {
	Keywords []string `json:"keywords" binding:"omitempty,max=20,dive,max=128"`
	Text     string   `json:"text" binding:"max=500"`
}

// Extract handles extracting a draft expense from text
// @Summary     Extract an expense
// @Description Extract amount and merchant keywords from free text without saving
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ExtractRequest true "Expense text"
// @Success     200 {object} services.Draft "Draft expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     422 {object} ErrorResponse "No amount found"
// @Router      /expenses/extract [post]
func (h *ExpenseHandler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	draft, err := h.expenseService.Extract(c.Request.Context(), req.Text)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// ScanReceipt handles extracting a draft expense from a receipt upload
// @Summary     Scan a receipt
// @Description OCR a receipt photo or PDF and extract a draft expense
// @Tags        expenses
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file formData file true "Receipt image (JPEG, PNG) or PDF"
// @Success     200 {object} services.Draft "Draft expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     415 {object} ErrorResponse "Unsupported media"
// @Failure     422 {object} ErrorResponse "No text or amount found"
// @Router      /expenses/receipt [post]
func (h *ExpenseHandler) ScanReceipt(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "file is required"))
		return
	}
	if header.Size > maxReceiptBytes {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "receipt must be at most 10 MB"))
		return
	}

	f, err := header.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxReceiptBytes))
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	draft, err := h.receiptService.Scan(c.Request.Context(), data, header.Header.Get("Content-Type"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// Create handles recording an expense
// @Summary     Record an expense
// @Description Record an expense from text, explicit fields, or both
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Transaction "Expense recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     422 {object} ErrorResponse "No amount or keyword"
// @Router      /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.Text == "" && req.Amount == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "text or amount is required"))
		return
	}

	tx, err := h.expenseService.Record(c.Request.Context(), services.RecordInput{
		Text:     req.Text,
		Keywords: models.KeywordList{}.Add(req.Keywords...),
		Amount:   req.Amount,
		Currency: req.Currency,
		Source:   models.TransactionSource(req.Source),
		ImageURL: req.ImageURL,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// List handles listing recorded expenses
// @Summary     List expenses
// @Description Get a paginated list of expenses, newest first
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.expenseService.List(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles fetching one expense
// @Summary     Get an expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Expense"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.expenseService.Get(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// AddKeywords handles appending keywords to an expense
// @Summary     Add keywords
// @Description Append keywords to an expense, ignoring ones already present
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Transaction ID"
// @Param       request body AddKeywordsRequest true "Keywords"
// @Success     200 {object} models.Transaction "Updated expense"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     422 {object} ErrorResponse "No keywords given"
// @Router      /expenses/{id}/keywords [post]
func (h *ExpenseHandler) AddKeywords(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddKeywordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	keywords := models.KeywordList{}.Add(req.Keywords...).Add(models.ParseKeywordInput(req.Text)...)
	tx, err := h.expenseService.AddKeywords(c.Request.Context(), id, keywords)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// Delete handles deleting an expense
// @Summary     Delete an expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} MessageResponse "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Expense deleted successfully"})
}
