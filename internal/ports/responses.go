package ports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Amund211/profilelookup/internal/domain"
	"github.com/Amund211/profilelookup/internal/reporting"
)

type profileResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type errorBody struct {
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

const serverErrorJSON = `{"error":{"message":"Server error"}}`

func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		reporting.Report(ctx, fmt.Errorf("failed to marshal response: %w", err))
		statusCode = http.StatusInternalServerError
		data = []byte(serverErrorJSON)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(data)
}

func writeError(ctx context.Context, w http.ResponseWriter, statusCode int, message string, details map[string]any) {
	writeJSON(ctx, w, statusCode, errorResponse{
		Error: errorBody{
			Message: message,
			Details: details,
		},
	})
}

func writeProfile(ctx context.Context, w http.ResponseWriter, profile domain.Profile) {
	writeJSON(ctx, w, http.StatusOK, profileResponse{
		ID:       profile.ID,
		Username: profile.Username,
		Avatar:   profile.AvatarURL,
	})
}

// errorStatus maps a lookup failure to the status code and message shown to the caller
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidParams):
		return http.StatusUnprocessableEntity, "The given data was invalid"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "Too many requests, try again shortly"
	case errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound, "Unable to find profile"
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return http.StatusBadGateway, "Profile service currently unavailable"
	case errors.Is(err, domain.ErrUpstreamClient):
		return http.StatusBadRequest, "Profile service could not handle the request"
	}
	return http.StatusInternalServerError, "Server error"
}

func errorDetails(err error) map[string]any {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		details := make(map[string]any, len(validationErr.Fields))
		for field, reason := range validationErr.Fields {
			details[field] = reason
		}
		return details
	}

	if statusCode, ok := domain.ExternalStatusCode(err); ok {
		return map[string]any{"external_response_code": statusCode}
	}

	return nil
}
