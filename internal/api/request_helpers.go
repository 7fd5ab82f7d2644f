package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-cards/internal/api/shared"
	"github.com/phrazzld/scry-cards/internal/domain"
	"github.com/phrazzld/scry-cards/internal/platform/logger"
	"github.com/phrazzld/scry-cards/internal/service"
)

// getPathID extracts a positive integer ID from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

// requireUserID extracts the authenticated user from the request context.
// It writes a 401 response and returns false when there is none.
func requireUserID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}
	return userID, true
}

// handleUserIDAndPathID is a composite helper that extracts both the user ID
// from context and an ID from the path parameters. It writes an error
// response if either extraction fails.
func handleUserIDAndPathID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (uuid.UUID, int64, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return uuid.Nil, 0, false
	}

	id, err := getPathID(r, paramName)
	if err != nil {
		log.Warn("invalid "+paramName, slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, 0, false
	}
	return userID, id, true
}

type pageQuery struct {
	Page  int `json:"page"  validate:"gte=1"`
	Limit int `json:"limit" validate:"gte=1,lte=100"`
}

// parsePage reads the page and limit query parameters. Absent values take
// the defaults; malformed or out-of-range values are reported as field
// errors.
func parsePage(r *http.Request) (service.Page, shared.ValidationResult) {
	q := pageQuery{Page: 1, Limit: service.DefaultPageSize}
	var errs []shared.FieldError

	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, shared.FieldError{Field: "page", Message: "must be an integer"})
		} else {
			q.Page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, shared.FieldError{Field: "limit", Message: "must be an integer"})
		} else {
			q.Limit = n
		}
	}

	res := shared.ValidateRequest(&q)
	errs = append(errs, res.Errors...)
	if len(errs) > 0 {
		return service.Page{}, shared.ValidationResult{Errors: errs}
	}
	return service.Page{Page: q.Page, Limit: q.Limit}, shared.ValidationResult{Valid: true}
}

// parseOptionalBool reads a boolean query parameter. It returns nil when
// the parameter is absent.
func parseOptionalBool(r *http.Request, name string) (*bool, *shared.FieldError) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, &shared.FieldError{Field: name, Message: "must be true or false"}
	}
	return &b, nil
}
