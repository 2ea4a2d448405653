// errors.go
package framegen

import "github.com/pkg/errors"

// Accelerator implementations report these through errors.Is so the bridge
// can describe init failures.
var (
	ErrDriverOutOfDate     = errors.New("framegen: driver is out of date")
	ErrOSOutOfDate         = errors.New("framegen: OS is out of date")
	ErrFeatureNotSupported = errors.New("framegen: feature not supported")
)

var (
	ErrNoAccelerator  = errors.New("framegen: no accelerator")
	ErrNotInitialized = errors.New("framegen: bridge not initialized")
	ErrShutdown       = errors.New("framegen: bridge already shut down")
)
