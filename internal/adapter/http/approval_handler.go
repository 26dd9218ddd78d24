package http

import (
	"net/http"

	domain "invoice-approval-service/internal/domain/invoice"
	uc "invoice-approval-service/internal/usecase/invoice"

	"github.com/labstack/echo/v4"
)

type ApprovalHandler struct{ uc *uc.Usecase }

func NewApprovalHandler(u *uc.Usecase) *ApprovalHandler { return &ApprovalHandler{uc: u} }

type approveReq struct {
	Comment string `json:"comment"`
}

// Rejections must say why; the engine itself stays permissive, the contract
// is enforced here at the boundary.
type rejectReq struct {
	Comment string `json:"comment" validate:"required"`
}

func (h *ApprovalHandler) Approve(c echo.Context) error {
	var req approveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	return h.decide(c, domain.ActionApprove, req.Comment)
}

func (h *ApprovalHandler) Reject(c echo.Context) error {
	var req rejectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return h.decide(c, domain.ActionReject, req.Comment)
}

func (h *ApprovalHandler) decide(c echo.Context, action domain.Action, comment string) error {
	invoiceID := c.Param("invoice_id")
	if invoiceID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing invoice_id path param"})
	}
	actor, ok := actorFromHeaders(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-Actor-Id / Ax-Actor-Role"})
	}

	dto, err := h.uc.Decide(c.Request().Context(), uc.DecideInput{
		InvoiceID: invoiceID,
		Actor:     actor,
		Action:    action,
		Comment:   comment,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
