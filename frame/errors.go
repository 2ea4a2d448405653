// errors.go
package frame

import "github.com/pkg/errors"

// Contract violations. These are raised with panic.
var (
	ErrFrameInProgress = errors.New("frame: BeginFrame called while a frame is recording")
	ErrNoFrame         = errors.New("frame: EndFrame called without a recording frame")
)

var ErrClosed = errors.New("frame: orchestrator closed")
