package export

import (
	"errors"
	"fmt"
)

// ErrExport matches every ExportError via errors.Is.
var ErrExport = errors.New("export error")

type Kind int

const (
	DirError Kind = iota + 1
	OpenError
	WriteError
)

func (k Kind) String() string {
	switch k {
	case DirError:
		return "create_dir"
	case OpenError:
		return "open_artifact"
	case WriteError:
		return "write_artifact"
	default:
		return "unknown"
	}
}

type ExportError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

func (e *ExportError) Is(target error) bool { return target == ErrExport }
