// Package upload validates and reads ML artifacts submitted to the console.
package upload

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ModelExtensions are the formats the chat panel accepts.
var ModelExtensions = []string{".py", ".ipynb", ".h5", ".pkl", ".model", ".pth", ".onnx", ".pb"}

// AllExtensions are the formats the text panel accepts.
var AllExtensions = append(append([]string{}, ModelExtensions...), ".json", ".yaml", ".csv", ".txt", ".md")

// ErrUnsupportedFormat is wrapped by FormatError.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Validation and I/O messages shown to the user.
const (
	MsgReadFailed    = "Error reading file. Please try again."
	MsgProcessFailed = "Error processing file. Please try again."
)

// FormatError reports a file whose extension is not in the allow-list.
type FormatError struct {
	Name    string
	Allowed []string
}

func (e *FormatError) Error() string {
	return "Unsupported file format. Supported formats: " + strings.Join(e.Allowed, ", ")
}

func (e *FormatError) Unwrap() error { return ErrUnsupportedFormat }

// Policy is an extension allow-list.
type Policy struct {
	Allowed []string
}

// TextPolicy returns the allow-list used by text analysis.
func TextPolicy() Policy { return Policy{Allowed: AllExtensions} }

// ChatPolicy returns the allow-list used by model chat.
func ChatPolicy() Policy { return Policy{Allowed: ModelExtensions} }

// Ext returns the lower-cased extension of name including the dot.
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// Validate returns a *FormatError when name's extension is not allowed.
func (p Policy) Validate(name string) error {
	ext := Ext(name)
	for _, a := range p.Allowed {
		if a == ext {
			return nil
		}
	}
	return &FormatError{Name: name, Allowed: p.Allowed}
}

// Accepts reports whether name passes Validate.
func (p Policy) Accepts(name string) bool {
	return p.Validate(name) == nil
}

// AnalysisPrompt is the text-panel prompt for an uploaded file.
func AnalysisPrompt(name, content string) string {
	return fmt.Sprintf("Analyze this ML file: %s\n\nContent:\n%s", name, content)
}

// ChatPrompt is the chat-panel prompt for an uploaded file.
func ChatPrompt(name, content string) string {
	return fmt.Sprintf("Analyzing ML file: %s\n\nContent:\n%s", name, content)
}

// RegardingPrompt prefixes a chat question with the attached file name.
func RegardingPrompt(name, question string) string {
	if name == "" {
		return question
	}
	return fmt.Sprintf("Regarding model file %s: %s", name, question)
}
