//go:build !windows

// library_other.go
package streamline

import (
	"runtime"

	"github.com/pkg/errors"
)

// Streamline only ships for Windows.
type library struct{}

func openLibrary(path string) (*library, error) {
	return nil, errors.Wrapf(ErrUnavailable, "%s on %s", path, runtime.GOOS)
}

func (l *library) symbol(string) uintptr { return 0 }

func (l *library) close() {}
