package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents connection, timeout and HTTP status errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypeExtraction represents selector/markup extraction errors
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeNormalization represents price normalization errors
	ErrorTypeNormalization ErrorType = "normalization"
	// ErrorTypeNotification represents alert delivery errors
	ErrorTypeNotification ErrorType = "notification"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// TrackerError represents a pipeline-specific error
type TrackerError struct {
	Type    ErrorType
	URL     string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *TrackerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.URL, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.URL, e.Message)
}

// Unwrap returns the underlying error
func (e *TrackerError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *TrackerError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork:
		return true
	case ErrorTypeCache:
		return true
	default:
		return false
	}
}

// New creates a new TrackerError
func New(errType ErrorType, url, message string, err error) *TrackerError {
	return &TrackerError{
		Type:    errType,
		URL:     url,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(url, message string, err error) *TrackerError {
	return New(ErrorTypeNetwork, url, message, err)
}

// NewCache creates a new cache error
func NewCache(url, message string, err error) *TrackerError {
	return New(ErrorTypeCache, url, message, err)
}

// NewExtraction creates a new extraction error
func NewExtraction(url, message string) *TrackerError {
	return New(ErrorTypeExtraction, url, message, nil)
}

// NewNormalization creates a new normalization error
func NewNormalization(url, message string) *TrackerError {
	return New(ErrorTypeNormalization, url, message, nil)
}

// NewNotification creates a new notification error
func NewNotification(message string, err error) *TrackerError {
	return New(ErrorTypeNotification, "", message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *TrackerError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsType reports whether err is a TrackerError of the given type
func IsType(err error, errType ErrorType) bool {
	var terr *TrackerError
	if errors.As(err, &terr) {
		return terr.Type == errType
	}
	return false
}
