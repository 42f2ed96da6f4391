package utils

import "net/http"

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrValidation = &AppError{Code: "VALIDATION_ERROR",
		Message: "Invalid or missing input",
		Status:  http.StatusBadRequest,
	}

	// Identical message for unknown username and wrong password.
	ErrInvalidCredentials = &AppError{Code: "AUTH_ERROR",
		Message: "Invalid username or password",
		Status:  http.StatusOK,
	}

	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED",
		Message: "Session is missing or expired",
		Status:  http.StatusUnauthorized,
	}

	ErrStudentNotFound = &AppError{Code: "STUDENT_NOT_FOUND",
		Message: "Student ID not found or no pending tuition debt",
		Status:  http.StatusNotFound,
	}

	ErrInsufficientFunds = &AppError{Code: "INSUFFICIENT_FUNDS",
		Message: "Insufficient balance. Please top up your account.",
		Status:  http.StatusUnprocessableEntity,
	}

	ErrOtpInvalid = &AppError{Code: "OTP_INVALID",
		Message: "Invalid OTP code",
		Status:  http.StatusUnprocessableEntity,
	}

	ErrOtpExpired = &AppError{Code: "OTP_EXPIRED",
		Message: "OTP has expired. Please request a new one.",
		Status:  http.StatusUnprocessableEntity,
	}

	ErrWorkflowState = &AppError{Code: "WORKFLOW_STATE",
		Message: "Operation is not allowed in the current payment state",
		Status:  http.StatusConflict,
	}

	ErrWorkflowNotFound = &AppError{Code: "WORKFLOW_NOT_FOUND",
		Message: "Payment attempt not found",
		Status:  http.StatusNotFound,
	}

	ErrPaymentProcessing = &AppError{Code: "PAYMENT_PROCESSING",
		Message: "Payment processing failed. Please try again.",
		Status:  http.StatusUnprocessableEntity,
	}

	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND",
		Message: "Transaction not found",
		Status:  http.StatusNotFound,
	}

	ErrInternalServer = &AppError{Code: "SERVER_ERROR",
		Message: "Internal server error",
		Status:  http.StatusInternalServerError,
	}
)
