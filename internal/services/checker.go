package services

import (
	"context"
)

// Checker reports whether one dependency of the service is usable
type Checker interface {
	// Type returns the dependency name shown in readiness output
	Type() string

	// HealthCheck returns nil when the dependency is available
	HealthCheck(ctx context.Context) error
}

// CheckFunc is a health probe
type CheckFunc func(ctx context.Context) error

// BaseChecker provides common functionality for checkers
type BaseChecker struct {
	serviceType string
}

// Type returns the service type
func (c *BaseChecker) Type() string {
	return c.serviceType
}

type funcChecker struct {
	BaseChecker
	fn CheckFunc
}

// NewChecker wraps fn as a Checker of the given type
func NewChecker(serviceType string, fn CheckFunc) Checker {
	return &funcChecker{BaseChecker: BaseChecker{serviceType: serviceType}, fn: fn}
}

func (c *funcChecker) HealthCheck(ctx context.Context) error {
	return c.fn(ctx)
}
