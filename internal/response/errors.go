package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_TAKEN"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrInsufficientRole ErrCode = "INSUFFICIENT_ROLE"
	ErrNotOwner         ErrCode = "NOT_OWNER"
	ErrUnknownRole      ErrCode = "UNKNOWN_ROLE"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation       ErrCode = "VALIDATION_ERROR"
	ErrInvalidID        ErrCode = "INVALID_ID"
	ErrInvalidPayload   ErrCode = "INVALID_PAYLOAD"
	ErrFeedbackRequired ErrCode = "FEEDBACK_REQUIRED"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound          ErrCode = "NOT_FOUND"
	ErrConflict          ErrCode = "CONFLICT"
	ErrInvalidTransition ErrCode = "INVALID_TRANSITION"
	ErrDependencyExists  ErrCode = "DEPENDENCY_EXISTS"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Incorrect email or password."
	case ErrEmailTaken:
		return "An account with this email already exists."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or has expired."
	case ErrSessionInvalidated:
		return "Your session has ended. Please sign in again."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrInsufficientRole:
		return "Your role does not allow this action."
	case ErrNotOwner:
		return "Only the owner of this content can modify it."
	case ErrUnknownRole:
		return "Your account record is invalid. Please contact support."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrFeedbackRequired:
		return "Rejection feedback is required."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "The resource already exists."
	case ErrInvalidTransition:
		return "The content is no longer in a state that allows this action."
	case ErrDependencyExists:
		return "This record cannot be deleted because other records depend on it."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
