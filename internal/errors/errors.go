package errors

import (
	"net/http"
	"os"
	"strings"

	"codeberg.org/cosmicquirks/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// Error Handling Guidelines:
//
// For HTTP REST handlers:
//   - Use errors.InternalError(), errors.BadRequest(), etc. for critical errors
//     These functions handle both logging and HTTP response automatically
//   - Use logger.ErrorErr() only for non-critical errors where processing continues
//   - Never call both logger.ErrorErr() and errors.InternalError() for the same error
//
// For services/repositories/internal packages:
//   - Return wrapped errors with context using fmt.Errorf("context: %w", err)
//   - Let the caller (handler) decide how to log and respond
//   - Do not log errors in non-handler code (avoid double logging)

// represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`             // error code (e.g., "unauthorized", "not_found")
	Message string `json:"message"`           // user-friendly message
	Code    string `json:"code,omitempty"`    // stable machine code for clients
	Used    *int   `json:"used,omitempty"`    // current usage, on quota rejections
	Limit   *int   `json:"limit,omitempty"`   // daily limit, on quota rejections
	Details string `json:"details,omitempty"` // optional details (sanitized in production)
}

// standard error codes
const (
	CodeUnauthorized    = "unauthorized"
	CodeForbidden       = "forbidden"
	CodeNotFound        = "not_found"
	CodeValidationError = "validation_error"
	CodeServerError     = "server_error"
	CodeBadRequest      = "bad_request"
	CodeConflict        = "conflict"
	CodeTooManyRequests = "too_many_requests"
)

// generation pipeline error codes surfaced to clients
const (
	CodeFormAccessDenied   = "FORM_ACCESS_DENIED"
	CodeUsageLimitExceeded = "USAGE_LIMIT_EXCEEDED"
	CodeAIGenerationFailed = "AI_GENERATION_FAILED"
	CodeIncompleteResult   = "INCOMPLETE_RESULT"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
)

// returns a 401 unauthorized error
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}

	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:   CodeUnauthorized,
		Message: message,
	})
}

// returns a 403 forbidden error
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "permission denied"
	}

	c.JSON(http.StatusForbidden, ErrorResponse{
		Error:   CodeForbidden,
		Message: message,
	})
}

// returns a 404 not found error
func NotFound(c *gin.Context, resource string) {
	message := "resource not found"

	if resource != "" {
		message = resource + " not found"
	}

	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:   CodeNotFound,
		Message: message,
	})
}

// returns a 400 bad request error
func BadRequest(c *gin.Context, message string, err error) {
	if message == "" {
		message = "invalid request"
	}

	response := ErrorResponse{
		Error:   CodeBadRequest,
		Message: message,
	}

	if err != nil {
		response.Details = sanitizeError(err)
	}

	c.JSON(http.StatusBadRequest, response)
}

// returns a 400 bad request error for validation failures
func ValidationError(c *gin.Context, err error) {
	message := "validation failed"
	details := ""

	if err != nil {
		details = sanitizeError(err)

		if strings.Contains(err.Error(), "binding") || strings.Contains(err.Error(), "validation") {
			message = "request validation failed"
		}
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   CodeValidationError,
		Message: message,
		Details: details,
	})
}

// returns a 500 internal server error
func InternalError(c *gin.Context, message string, err error) {
	if message == "" {
		message = "an error occurred"
	}

	// log full error server-side with context
	logger.ErrorErr(err, message,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"user_id", c.GetString("user_id"),
	)

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   CodeServerError,
		Message: message,
		Code:    CodeInternalError,
		Details: sanitizeError(err),
	})
}

// returns a 409 conflict error
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "resource conflict"
	}

	c.JSON(http.StatusConflict, ErrorResponse{
		Error:   CodeConflict,
		Message: message,
	})
}

// returns a 429 response for sliding-window rate limit rejections
func RateLimited(c *gin.Context, identifier string) {
	c.Header("X-RateLimit-Identifier", identifier)
	c.Header("Retry-After", "60")

	c.JSON(http.StatusTooManyRequests, ErrorResponse{
		Error:   "Too many cosmic requests",
		Message: "The mystical energies are overwhelmed! Please slow down and try again in a moment.",
		Code:    CodeRateLimitExceeded,
	})
}

// returns a 429 response for daily quota rejections, echoing current usage
func QuotaExceeded(c *gin.Context, message string, used, limit int) {
	if message == "" {
		message = "Your cosmic energy is recharging... Try again tomorrow when the stars align!"
	}

	c.JSON(http.StatusTooManyRequests, ErrorResponse{
		Error:   "Daily cosmic limit reached",
		Message: message,
		Code:    CodeUsageLimitExceeded,
		Used:    &used,
		Limit:   &limit,
	})
}

// returns a 403 response when a form type is not available to the user's tier
func FormAccessDenied(c *gin.Context) {
	c.JSON(http.StatusForbidden, ErrorResponse{
		Error:   "Mystical form restricted",
		Message: "This type of cosmic wisdom requires registration to access.",
		Code:    CodeFormAccessDenied,
	})
}

// returns a 503 response when the upstream text generator fails
func GenerationFailed(c *gin.Context, err error) {
	logger.ErrorErr(err, "character generation failed",
		"path", c.Request.URL.Path,
		"user_id", c.GetString("user_id"),
	)

	c.JSON(http.StatusServiceUnavailable, ErrorResponse{
		Error:   "Cosmic interference detected",
		Message: "The oracle is experiencing mystical disturbances. Please try again in a few moments.",
		Code:    CodeAIGenerationFailed,
	})
}

// returns a 500 response when the generator replied but required fields are missing
func IncompleteResult(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "Incomplete cosmic vision",
		Message: "The oracle's vision was incomplete. Please try again.",
		Code:    CodeIncompleteResult,
	})
}

// sanitizes error messages for production
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}

	errMsg := err.Error()
	env := os.Getenv("ENVIRONMENT")

	if env != "production" {
		return errMsg
	}

	lower := strings.ToLower(errMsg)

	switch {
	case strings.Contains(lower, "database"), strings.Contains(lower, "sql"), strings.Contains(lower, "pgx"):
		return "database operation failed"
	case strings.Contains(lower, "openai"), strings.Contains(lower, "api key"):
		return "upstream service error"
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "deadline"):
		return "operation timed out"
	default:
		return "internal error"
	}
}
