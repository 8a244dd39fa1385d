package dispatch

import (
	"errors"
	"fmt"
)

// ErrNotConfigured means the active printer type has no address or name set.
// User-actionable; the dispatcher performs no I/O before returning it.
var ErrNotConfigured = errors.New("no printer configured")

// NetworkDeliveryError wraps a TCP connect/write failure or timeout.
// Transient; safe for the caller to retry.
type NetworkDeliveryError struct {
	Addr string
	Err  error
}

func (e *NetworkDeliveryError) Error() string {
	return fmt.Sprintf("network delivery to %s failed: %v", e.Addr, e.Err)
}

func (e *NetworkDeliveryError) Unwrap() error { return e.Err }

// LocalSpoolError means both the primary and the fallback OS print commands
// failed. Often persistent until an operator intervenes.
type LocalSpoolError struct {
	Printer string
	Err     error
}

func (e *LocalSpoolError) Error() string {
	return fmt.Sprintf("local spool to %q failed: %v", e.Printer, e.Err)
}

func (e *LocalSpoolError) Unwrap() error { return e.Err }
