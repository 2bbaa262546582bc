package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nxadm/tail"
)

// ErrNotFound is returned when the log file does not exist
var ErrNotFound = errors.New("log file not found")

// LogLine represents a raw line from the log file
type LogLine struct {
	Source  string
	Num     int // 1-based line number
	Content string
	Err     error
}

// FileReader reads a log file once, start to finish
type FileReader struct {
	path string
	t    *tail.Tail
}

// NewFileReader creates a reader for a path
func NewFileReader(path string) *FileReader {
	return &FileReader{
		path: path,
	}
}

// Open opens the file and returns a channel of lines in file order.
// The channel is closed at EOF; call Wait afterwards to collect read errors.
func (f *FileReader) Open() (<-chan LogLine, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, f.path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", f.path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("failed to read %s: is a directory", f.path)
	}

	// Single pass: no follow, no reopen
	config := tail.Config{
		Follow:    false,
		ReOpen:    false,
		MustExist: true,
		Poll:      true, // no inotify watch for a one-shot read
		Logger:    tail.DiscardingLogger,
	}

	t, err := tail.TailFile(f.path, config)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.path, err)
	}
	f.t = t

	out := make(chan LogLine)

	go func() {
		defer close(out)
		num := 0
		for line := range t.Lines {
			num++
			out <- LogLine{
				Source:  f.path,
				Num:     num,
				Content: line.Text,
				Err:     line.Err,
			}
		}
	}()

	return out, nil
}

// Wait blocks until the reader has finished and returns any read error
func (f *FileReader) Wait() error {
	if f.t == nil {
		return nil
	}
	if err := f.t.Wait(); err != nil {
		return fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	return nil
}
