package action

import (
	"context"
	"fmt"

	"github.com/hostup/hostup/pkg/system"
)

// EnsureServiceActive ensures a unit is running
type EnsureServiceActive struct {
	sm   system.ServiceManager
	unit string
}

// NewEnsureServiceActive creates a service activation action
func NewEnsureServiceActive(sm system.ServiceManager, unit string) *EnsureServiceActive {
	return &EnsureServiceActive{sm: sm, unit: unit}
}

// Name identifies the action
func (a *EnsureServiceActive) Name() string {
	return fmt.Sprintf("service-active:%s", a.unit)
}

// Check asks the service manager whether the unit is running
func (a *EnsureServiceActive) Check(ctx context.Context) (Status, error) {
	active, err := a.sm.IsActive(ctx, a.unit)
	if err != nil {
		return StatusUnsatisfied, err
	}
	if active {
		return StatusSatisfied, nil
	}
	return StatusUnsatisfied, nil
}

// Apply starts the unit
func (a *EnsureServiceActive) Apply(ctx context.Context) error {
	return a.sm.Start(ctx, a.unit)
}

// EnsureServiceEnabled ensures a unit starts at boot
type EnsureServiceEnabled struct {
	sm   system.ServiceManager
	unit string
}

// NewEnsureServiceEnabled creates a service enablement action
func NewEnsureServiceEnabled(sm system.ServiceManager, unit string) *EnsureServiceEnabled {
	return &EnsureServiceEnabled{sm: sm, unit: unit}
}

// Name identifies the action
func (a *EnsureServiceEnabled) Name() string {
	return fmt.Sprintf("service-enabled:%s", a.unit)
}

// Check asks the service manager whether the unit is enabled
func (a *EnsureServiceEnabled) Check(ctx context.Context) (Status, error) {
	enabled, err := a.sm.IsEnabled(ctx, a.unit)
	if err != nil {
		return StatusUnsatisfied, err
	}
	if enabled {
		return StatusSatisfied, nil
	}
	return StatusUnsatisfied, nil
}

// Apply enables the unit
func (a *EnsureServiceEnabled) Apply(ctx context.Context) error {
	return a.sm.Enable(ctx, a.unit)
}
