package repositories

import (
	"errors"
	"strings"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrProviderNotFound = errors.New("service provider not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrRequestNotFound  = errors.New("service request not found")
	ErrProposalNotFound = errors.New("proposal not found")
	ErrSessionNotFound  = errors.New("session not found")

	// ErrDuplicate - нарушение уникального индекса
	ErrDuplicate = errors.New("duplicate value")
)

// IsUniqueViolation распознает нарушение уникальности для postgres и sqlite
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicate) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "sqlstate 23505")
}
