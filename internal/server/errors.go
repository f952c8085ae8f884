package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/types"
)

// ErrBadRequest indicates a request body that could not be read or decoded
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		quotaErr      *types.ErrQuotaExceeded
		notFoundErr   *types.ErrNotFound
		validationErr *types.ErrValidation
		conflictErr   *types.ErrConflict
		badRequestErr *ErrBadRequest
	)
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &quotaErr):
		return http.StatusTooManyRequests
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &validationErr), errors.As(err, &badRequestErr):
		return http.StatusBadRequest
	case errors.As(err, &conflictErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// quotaExceededBody is the 429 payload for an exhausted monthly quota.
type quotaExceededBody struct {
	Error  string          `json:"error"`
	Kind   types.QuotaKind `json:"kind"`
	Period string          `json:"period_ym"`
	Limit  int             `json:"limit"`
	Used   int             `json:"used"`
}

// writeError maps err to a status and JSON body. Server faults are logged and
// answered with a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)

	var quotaErr *types.ErrQuotaExceeded
	if errors.As(err, &quotaErr) {
		s.jsonResponse(w, status, quotaExceededBody{
			Error:  "quota_exceeded",
			Kind:   quotaErr.Kind,
			Period: quotaErr.Period,
			Limit:  quotaErr.Limit,
			Used:   quotaErr.Used,
		})
		return
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		s.errorResponse(w, status, "internal server error")
		return
	}

	s.errorResponse(w, status, err.Error())
}
