//go:build windows

// library_windows.go
package streamline

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

type library struct {
	dll *windows.DLL
}

func openLibrary(path string) (*library, error) {
	dll, err := windows.LoadDLL(path)
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "load %s: %v", path, err)
	}
	return &library{dll: dll}, nil
}

func (l *library) symbol(name string) uintptr {
	proc, err := l.dll.FindProc(name)
	if err != nil {
		return 0
	}
	return proc.Addr()
}

func (l *library) close() {
	l.dll.Release()
}
