package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON           = "INVALID_JSON"
	ErrCodeInvalidParameter      = "INVALID_PARAMETER"
	ErrCodeMissingField          = "MISSING_FIELD"
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeProductNotFound       = "PRODUCT_NOT_FOUND"
	ErrCodeInvalidQuantity       = "INVALID_QUANTITY"
	ErrCodeEmptyCart             = "EMPTY_CART"
	ErrCodeInvalidPaymentMethod  = "INVALID_PAYMENT_METHOD"
	ErrCodeStorageUnavailable    = "STORAGE_UNAVAILABLE"
	ErrCodeDuplicateIdentifier   = "DUPLICATE_IDENTIFIER"
	ErrCodeInvalidOTP            = "INVALID_OTP"
	ErrCodeOTPExpired            = "OTP_EXPIRED"
	ErrCodeOTPSuperseded         = "OTP_SUPERSEDED"
	ErrCodePhoneNotVerified      = "PHONE_NOT_VERIFIED"
	ErrCodePhoneTaken            = "PHONE_TAKEN"
	ErrCodeInvalidCredentials    = "INVALID_CREDENTIALS"
	ErrCodeUserNotFound          = "USER_NOT_FOUND"
	ErrCodeUnsupportedLanguage   = "UNSUPPORTED_LANGUAGE"
	ErrCodeOrderNotCancellable   = "ORDER_NOT_CANCELLABLE"
	ErrCodeUnauthorised          = "UNAUTHORIZED"
	ErrCodeInternalError         = "INTERNAL_ERROR"
	ErrCodeNotificationNotFound  = "NOTIFICATION_NOT_FOUND"
	ErrCodeInvalidPhoneFormat    = "INVALID_PHONE_FORMAT"
	ErrCodeInvalidPasswordLength = "INVALID_PASSWORD_LENGTH"
	ErrCodeCheckoutInProgress    = "CHECKOUT_IN_PROGRESS"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound              = NewDomainError(ErrCodeNotFound, "Resource not found")
	ErrProductNotFound       = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrInvalidQuantity       = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrMissingField          = NewDomainError(ErrCodeMissingField, "Required field is missing")
	ErrEmptyCart             = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrInvalidPaymentMethod  = NewDomainError(ErrCodeInvalidPaymentMethod, "Unknown payment method")
	ErrStorageUnavailable    = NewDomainError(ErrCodeStorageUnavailable, "Storage is unavailable")
	ErrDuplicateIdentifier   = NewDomainError(ErrCodeDuplicateIdentifier, "Could not generate a unique identifier")
	ErrInvalidOTP            = NewDomainError(ErrCodeInvalidOTP, "Verification code must be 6 digits")
	ErrOTPExpired            = NewDomainError(ErrCodeOTPExpired, "Verification code has expired")
	ErrOTPSuperseded         = NewDomainError(ErrCodeOTPSuperseded, "A newer verification code was requested")
	ErrPhoneNotVerified      = NewDomainError(ErrCodePhoneNotVerified, "Phone number has not been verified")
	ErrPhoneTaken            = NewDomainError(ErrCodePhoneTaken, "Phone number is already registered")
	ErrInvalidCredentials    = NewDomainError(ErrCodeInvalidCredentials, "Phone number or password is incorrect")
	ErrUserNotFound          = NewDomainError(ErrCodeUserNotFound, "No user is logged in")
	ErrUnsupportedLanguage   = NewDomainError(ErrCodeUnsupportedLanguage, "Language is not supported")
	ErrOrderNotCancellable   = NewDomainError(ErrCodeOrderNotCancellable, "Order can no longer be cancelled")
	ErrNotificationNotFound  = NewDomainError(ErrCodeNotificationNotFound, "Notification not found")
	ErrInvalidPhoneFormat    = NewDomainError(ErrCodeInvalidPhoneFormat, "Phone number must contain 10 or 11 digits")
	ErrInvalidPasswordLength = NewDomainError(ErrCodeInvalidPasswordLength, "Password must be at least 8 characters")
	ErrCheckoutInProgress    = NewDomainError(ErrCodeCheckoutInProgress, "Another checkout is already in progress")
)
