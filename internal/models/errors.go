package models

import (
	"errors"
	"fmt"
)

// ErrorCode lets callers branch on failure kind instead of matching strings.
type ErrorCode string

const (
	ErrCodeInvalidPincode          ErrorCode = "INVALID_PINCODE"
	ErrCodeNoRateForCarrierService ErrorCode = "NO_RATE_FOR_CARRIER_SERVICE"
	ErrCodeNoDefaultRateCard       ErrorCode = "NO_DEFAULT_RATE_CARD"
	ErrCodeRateCardNotActive       ErrorCode = "RATE_CARD_NOT_ACTIVE"
	ErrCodeAmbiguousRateCard       ErrorCode = "AMBIGUOUS_RATE_CARD"
	ErrCodeNoWeightSlab            ErrorCode = "NO_WEIGHT_SLAB"
	ErrCodeUpstreamUnavailable     ErrorCode = "UPSTREAM_UNAVAILABLE"
)

// ErrPostalNotFound — сигнальная ошибка справочника пинкодов. Классификатор
// превращает её в INVALID_PINCODE; всё остальное от стора — UPSTREAM_UNAVAILABLE.
var ErrPostalNotFound = errors.New("postal code not found")

// ErrRateCardNotFound — сигнальная ошибка стора для явного rateCardId.
var ErrRateCardNotFound = errors.New("rate card not found")

// Error is a typed engine failure. The engine never swallows or defaults:
// every ambiguity surfaces as one of these.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func WrapError(err error, code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf returns the engine code carried by err, or "" for foreign errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err is an engine failure with the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
