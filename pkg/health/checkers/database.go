// Package checkers holds health.Check implementations for service dependencies.
package checkers

import (
	"context"
	"errors"
	"fmt"
)

// Pinger is satisfied by connection pools that can verify a round trip.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabaseChecker reports whether the data layer answers a ping.
type DatabaseChecker struct {
	pinger Pinger
	name   string
}

// NewDatabaseChecker creates a checker named name, or "database" when empty.
func NewDatabaseChecker(p Pinger, name string) *DatabaseChecker {
	if name == "" {
		name = "database"
	}
	return &DatabaseChecker{pinger: p, name: name}
}

// Name returns the name of this health check.
func (d *DatabaseChecker) Name() string {
	return d.name
}

// Check pings the database.
func (d *DatabaseChecker) Check(ctx context.Context) error {
	if d.pinger == nil {
		return errors.New("data layer not initialised")
	}
	if err := d.pinger.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
