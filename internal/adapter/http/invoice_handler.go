package http

import (
	"net/http"
	"time"

	uc "invoice-approval-service/internal/usecase/invoice"

	"github.com/labstack/echo/v4"
)

type InvoiceHandler struct{ uc *uc.Usecase }

func NewInvoiceHandler(u *uc.Usecase) *InvoiceHandler { return &InvoiceHandler{uc: u} }

type submitInvoiceReq struct {
	Amount float64 `json:"amount"         validate:"required,gt=0,dec2"`
	// Accept canonical date `YYYY-MM-DD` (aligns with schema DATE)
	EffectiveDate string `json:"effective_date" validate:"required,datetime=2006-01-02"`
	Description   string `json:"description"`
}

func (h *InvoiceHandler) Submit(c echo.Context) error {
	actor, ok := actorFromHeaders(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-Actor-Id / Ax-Actor-Role"})
	}

	var req submitInvoiceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	effDate, _ := time.Parse("2006-01-02", req.EffectiveDate) // validated above

	dto, err := h.uc.Submit(c.Request().Context(), uc.SubmitInput{
		SubmittedBy:   actor.ID,
		SubmitterRole: actor.Role,
		Amount:        req.Amount,
		EffectiveDate: effDate,
		Description:   req.Description,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *InvoiceHandler) Get(c echo.Context) error {
	invoiceID := c.Param("invoice_id")
	if invoiceID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing invoice_id path param"})
	}
	dto, err := h.uc.Get(c.Request().Context(), invoiceID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *InvoiceHandler) ListMine(c echo.Context) error {
	actor, ok := actorFromHeaders(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-Actor-Id / Ax-Actor-Role"})
	}
	dtos, err := h.uc.ListBySubmitter(c.Request().Context(), actor.ID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *InvoiceHandler) History(c echo.Context) error {
	invoiceID := c.Param("invoice_id")
	if invoiceID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing invoice_id path param"})
	}
	events, err := h.uc.History(c.Request().Context(), invoiceID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

func (h *InvoiceHandler) AuditTrail(c echo.Context) error {
	invoiceID := c.Param("invoice_id")
	if invoiceID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing invoice_id path param"})
	}
	entries, err := h.uc.AuditTrail(c.Request().Context(), invoiceID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}
