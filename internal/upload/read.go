package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"modeltron/internal/logging"
)

// DefaultMaxBytes caps how much of a file is read.
const DefaultMaxBytes int64 = 1 << 20

// ErrTooLarge is returned when a file exceeds the reader's cap.
var ErrTooLarge = errors.New("file exceeds size limit")

// File is a validated upload.
type File struct {
	Path    string
	Name    string
	Content string
	Size    int64
}

// Reader validates and reads uploads.
type Reader struct {
	policy   Policy
	maxBytes int64
}

// NewReader returns a Reader with the given allow-list and size cap.
// A non-positive cap uses DefaultMaxBytes.
func NewReader(policy Policy, maxBytes int64) *Reader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Reader{policy: policy, maxBytes: maxBytes}
}

// Policy returns the reader's allow-list.
func (r *Reader) Policy() Policy { return r.policy }

// Read validates path's extension and reads it as text.
// Format errors are returned as *FormatError; everything else wraps ErrTooLarge or the I/O error.
func (r *Reader) Read(path string) (*File, error) {
	name := filepath.Base(path)
	if err := r.policy.Validate(name); err != nil {
		logging.UploadWarn("rejected %s: unsupported extension %q", name, Ext(name))
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, r.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if int64(len(data)) > r.maxBytes {
		logging.UploadWarn("rejected %s: larger than %d bytes", name, r.maxBytes)
		return nil, fmt.Errorf("%s: %w (%d bytes)", name, ErrTooLarge, r.maxBytes)
	}

	content := string(data)
	if !utf8.ValidString(content) {
		// binary artifacts (.h5, .pth, ...) still get analysed by name
		content = fmt.Sprintf("<binary content, %d bytes>", len(data))
	}

	logging.UploadDebug("read %s (%d bytes)", name, len(data))
	return &File{Path: path, Name: name, Content: content, Size: int64(len(data))}, nil
}

// UserMessage maps a Read error to the text shown in the console.
func UserMessage(err error) string {
	var fe *FormatError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fe):
		return fe.Error()
	case errors.Is(err, ErrTooLarge):
		return MsgProcessFailed
	default:
		return MsgReadFailed
	}
}
