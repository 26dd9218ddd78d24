package http

import (
	"errors"
	"log"
	"net/http"

	domain "invoice-approval-service/internal/domain/invoice"
	uc "invoice-approval-service/internal/usecase/invoice"

	"github.com/labstack/echo/v4"
)

// actorFromHeaders reads the acting identity the gateway injects. Token
// verification happens upstream; this service only needs id + role.
func actorFromHeaders(c echo.Context) (domain.Actor, bool) {
	a := domain.Actor{
		ID:   c.Request().Header.Get("Ax-Actor-Id"),
		Role: domain.Role(c.Request().Header.Get("Ax-Actor-Role")),
	}
	return a, a.ID != "" && a.Role.Valid()
}

// writeDomainError maps workflow failure kinds onto HTTP responses. Every
// kind stays distinguishable so clients (and tests) can assert on it.
func writeDomainError(c echo.Context, err error) error {
	var wse *domain.WrongStageError
	switch {
	case errors.As(err, &wse):
		return c.JSON(http.StatusForbidden, ErrorResponse{
			Error:        "action not allowed at this approval stage",
			ExpectedRole: string(wse.Expected),
		})
	case errors.Is(err, domain.ErrConflictOfInterest):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "submitters cannot decide their own invoice"})
	case errors.Is(err, domain.ErrAlreadyFinalized):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "this invoice is closed"})
	case errors.Is(err, domain.ErrNoActionExpected):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "invoice is not in a decidable state"})
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "invoice not found"})
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, uc.ErrInvalidSubmission):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
	case errors.Is(err, uc.ErrIDExhausted):
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "could not allocate an invoice number, please retry"})
	case errors.Is(err, domain.ErrUnhandledState):
		// engine defect, not a runtime condition
		log.Printf("http: SEVERE unhandled workflow state: %v", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	default:
		log.Printf("http: unexpected error: %v", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
