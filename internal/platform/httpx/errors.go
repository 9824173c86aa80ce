// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	acctshared "github.com/satwa-erp/satwa-erp/internal/accounting/shared"
	"github.com/satwa-erp/satwa-erp/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, acctshared.ErrUnbalanced), errors.Is(err, acctshared.ErrTooFewLines):
		Problem(w, http.StatusUnprocessableEntity, "Unbalanced Entry", err.Error())
	case errors.Is(err, acctshared.ErrUnknownTransactionType):
		Problem(w, http.StatusBadRequest, "Unknown Transaction Type", err.Error())
	case errors.Is(err, acctshared.ErrJournalNotFound), errors.Is(err, acctshared.ErrAccountNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, acctshared.ErrInvalidStatus),
		errors.Is(err, acctshared.ErrHeaderAccount),
		errors.Is(err, acctshared.ErrAccountInactive),
		errors.Is(err, acctshared.ErrAccountHasChildren),
		errors.Is(err, acctshared.ErrAccountHasPostings):
		Problem(w, http.StatusConflict, "Invariant Violation", err.Error())
	case errors.Is(err, acctshared.ErrDefaultAccountMissing):
		Problem(w, http.StatusInternalServerError, "Configuration Error", err.Error())
	case errors.Is(err, shared.ErrInvariant):
		Problem(w, http.StatusConflict, "Invariant Violation", err.Error())
	case errors.Is(err, shared.ErrConcurrencyConflict):
		Problem(w, http.StatusConflict, "Conflict", "operation collided, retry the request")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
