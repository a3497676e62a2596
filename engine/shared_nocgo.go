//go:build !cgo || !(linux || darwin || freebsd)

package engine

import (
	"context"

	"github.com/wippyai/aspell-go"
	"github.com/wippyai/aspell-go/errors"
)

// Shared is unavailable in this build; OpenShared always fails.
type Shared struct {
	aspell.Engine
}

// OpenShared reports that shared-library loading needs cgo. Use OpenWasm.
func OpenShared(string) (*Shared, error) {
	return nil, errors.Unsupported(errors.PhaseLoad, "load", "shared library loading requires cgo")
}

// Path returns "".
func (s *Shared) Path() string { return "" }

// Close is a no-op.
func (s *Shared) Close(context.Context) error { return nil }
