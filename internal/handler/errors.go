package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/backpackers/internal/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure. Category tells the client whether
// fixing the input and retrying can help ("retry") or not ("final").
type ErrorDetail struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Category string   `json:"category"`
	Fields   []string `json:"fields,omitempty"`
}

// errorStatus maps domain sentinels to status and code. Order matters only
// in that the first match wins.
var errorStatus = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrValidation, http.StatusUnprocessableEntity, "validation_error"},
	{domain.ErrDuplicatePending, http.StatusConflict, "duplicate_pending"},
	{domain.ErrCapacityExceeded, http.StatusConflict, "capacity_exceeded"},
	{domain.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{domain.ErrAlreadyMember, http.StatusConflict, "already_member"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrUnauthorized, http.StatusForbidden, "unauthorized"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
}

// writeError classifies err and writes the matching error response.
// Unclassified errors are logged and answered with a generic 500 so storage
// details never reach the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, e := range errorStatus {
		if !errors.Is(err, e.target) {
			continue
		}
		detail := ErrorDetail{
			Code:     e.code,
			Message:  unwrapMessage(err),
			Category: string(domain.CategoryOf(err)),
		}
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			detail.Fields = ve.Fields
		}
		writeJSON(w, e.status, ErrorResponse{Error: detail})
		return
	}

	s.logger.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
		Code:     "internal_error",
		Message:  "internal server error",
		Category: string(domain.CategoryRetry),
	}})
}

// requestError answers a request rejected before reaching the service layer,
// such as a malformed body or query parameter.
func requestError(w http.ResponseWriter, message string, fields ...string) {
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
		Code:     "validation_error",
		Message:  message,
		Category: string(domain.CategoryRetry),
		Fields:   fields,
	}})
}

// decodeJSON reads a JSON body into dst. A body cut off by the body-size
// middleware is answered with 413, anything else unreadable with 422.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: ErrorDetail{
			Code:     "body_too_large",
			Message:  "request body too large",
			Category: string(domain.CategoryRetry),
		}})
		return false
	}
	requestError(w, "malformed JSON body: "+err.Error())
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// unwrapMessage strips the "pkg.Type.Method: " wrapping prefixes so the
// client sees only the domain message.
// e.g. "service.JoinService.Decide: group capacity exceeded" -> "group capacity exceeded"
func unwrapMessage(err error) string {
	msg := err.Error()
	for {
		head, rest, ok := strings.Cut(msg, ": ")
		if !ok || !isCallSite(head) {
			return msg
		}
		msg = rest
	}
}

// isCallSite reports whether s looks like "repo.GroupRepo.Insert".
func isCallSite(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts {
		if p == "" || strings.ContainsAny(p, " \t") {
			return false
		}
	}
	return true
}
