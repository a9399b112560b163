package batch

import (
	"fmt"
	"io"
	"os"
)

// File is an open batch file. It is owned by a single writer and must be
// closed; Close may be called any number of times.
type File struct {
	path string
	f    *os.File
	err  error
}

// OpenFile opens path for writing. In append mode existing content is kept,
// otherwise the file is truncated. The prologue lines are written only when
// the file is empty after opening.
func OpenFile(path string, appendMode bool, prologue []string) (*File, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open batch file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat batch file: %w", err)
	}

	bf := &File{path: path, f: f}
	if info.Size() == 0 && len(prologue) > 0 {
		for _, line := range prologue {
			if _, err := io.WriteString(f, line+"\n"); err != nil {
				f.Close()
				return nil, fmt.Errorf("write prologue: %w", err)
			}
		}
		if err := f.Sync(); err != nil {
			f.Close()
			return nil, fmt.Errorf("sync prologue: %w", err)
		}
	}
	return bf, nil
}

// Path returns the file path.
func (b *File) Path() string {
	return b.path
}

// WriteLine writes line plus a newline and flushes it to stable storage.
func (b *File) WriteLine(line string) error {
	if b.f == nil {
		return fmt.Errorf("write %s: file already closed", b.path)
	}
	if _, err := io.WriteString(b.f, line+"\n"); err != nil {
		return fmt.Errorf("write %s: %w", b.path, err)
	}
	if err := b.f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", b.path, err)
	}
	return nil
}

// Close releases the file. Later calls return the result of the first.
func (b *File) Close() error {
	if b.f == nil {
		return b.err
	}
	b.err = b.f.Close()
	b.f = nil
	return b.err
}
