package services

import "errors"

// Ошибки сервисного слоя; хендлеры маппят их в HTTP-статусы.
var (
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidInput         = errors.New("invalid input")
	ErrPaymentRequired      = errors.New("access payment required")
	ErrAccessActive         = errors.New("access is already active")
	ErrAlreadyHired         = errors.New("employee is already on your team")
	ErrInvalidHireType      = errors.New("hire_type must be long-term or once-off")
	ErrConfirmationRequired = errors.New("payment confirmation code is required")
	ErrPremiumRequired      = errors.New("premium subscription required")
	ErrAlreadyPremium       = errors.New("subscription is already premium")
	ErrEmailTaken           = errors.New("email is already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidRefresh       = errors.New("invalid refresh token")
	ErrRefundNotAllowed     = errors.New("refund cannot be requested for this transaction")
	ErrRefundNotPending     = errors.New("refund is not awaiting a decision")
	ErrTicketClosed         = errors.New("ticket is closed")
	ErrInvalidTransition    = errors.New("invalid status transition")
)
