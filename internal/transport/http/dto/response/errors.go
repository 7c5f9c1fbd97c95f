package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status: "error",
		Error:  "authentication_failed",
	}

	ErrUserAlreadyExists = ErrorResponse{
		Status:  "error",
		Error:   "user_already_exists",
		Details: "User with this email already exists",
	}

	ErrUnauthenticated = ErrorResponse{
		Status:  "error",
		Error:   "unauthenticated",
		Details: "Authentication required",
	}

	ErrForbidden = ErrorResponse{
		Status:  "error",
		Error:   "forbidden",
		Details: "Insufficient role",
	}

	ErrInvalidRefreshToken = ErrorResponse{
		Status:  "error",
		Error:   "invalid_refresh_token",
		Details: "Missing, invalid or expired refresh token",
	}

	ErrUserNotFound = ErrorResponse{
		Status:  "error",
		Error:   "user_not_found",
		Details: "User no longer exists",
	}

	ErrTooManyRequests = ErrorResponse{
		Status:  "error",
		Error:   "too_many_requests",
		Details: "Rate limit exceeded, retry later",
	}

	ErrInternal = ErrorResponse{
		Status:  "error",
		Error:   "internal_error",
		Details: "Internal server error",
	}
)
