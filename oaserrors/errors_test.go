package oaserrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := &ParseError{
			Path:    "api.yaml",
			Message: "unsupported document",
			Cause:   errors.New("boom"),
		}
		if got := err.Error(); got != "parse error in api.yaml: unsupported document: boom" {
			t.Errorf("unexpected error message: %s", got)
		}
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		err := &ParseError{}
		if err.Error() != "parse error" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Matches sentinel through wrapping", func(t *testing.T) {
		err := fmt.Errorf("document: %w", &ParseError{Path: "x"})
		if !errors.Is(err, ErrParse) {
			t.Error("wrapped ParseError should match ErrParse")
		}
		if errors.Is(err, ErrReference) {
			t.Error("ParseError should not match ErrReference")
		}
	})
}

func TestReferenceError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ReferenceError
		message  string
		sentinel []error
		notMatch []error
	}{
		{
			name:     "plain",
			err:      &ReferenceError{Ref: "#/definitions/Pet", Message: "not found"},
			message:  "reference error: #/definitions/Pet: not found",
			sentinel: []error{ErrReference},
			notMatch: []error{ErrCircularReference, ErrPathTraversal},
		},
		{
			name:     "circular",
			err:      &ReferenceError{Ref: "#/definitions/Node", IsCircular: true},
			message:  "circular reference: #/definitions/Node",
			sentinel: []error{ErrReference, ErrCircularReference},
			notMatch: []error{ErrPathTraversal},
		},
		{
			name:     "traversal",
			err:      &ReferenceError{Ref: "../secret.yaml", IsPathTraversal: true},
			message:  "path traversal detected: ../secret.yaml",
			sentinel: []error{ErrReference, ErrPathTraversal},
			notMatch: []error{ErrCircularReference},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.message {
				t.Errorf("Error() = %q, want %q", got, tt.message)
			}
			for _, s := range tt.sentinel {
				if !errors.Is(tt.err, s) {
					t.Errorf("expected match for %v", s)
				}
			}
			for _, s := range tt.notMatch {
				if errors.Is(tt.err, s) {
					t.Errorf("unexpected match for %v", s)
				}
			}
		})
	}

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("read failed")
		err := &ReferenceError{Cause: cause}
		if !errors.Is(err, cause) {
			t.Error("errors.Is should find cause")
		}
	})
}

func TestResourceLimitError(t *testing.T) {
	err := &ResourceLimitError{ResourceType: "ref_depth", Limit: 100, Actual: 101, Message: "too deep"}
	if got := err.Error(); got != "resource limit exceeded: ref_depth (limit: 100, actual: 101): too deep" {
		t.Errorf("unexpected error message: %s", got)
	}
	if !errors.Is(err, ErrResourceLimit) {
		t.Error("should match ErrResourceLimit")
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Option: "backend", Value: "xml", Message: "unknown schema backend"}
	if got := err.Error(); got != "configuration error for backend (value: xml): unknown schema backend" {
		t.Errorf("unexpected error message: %s", got)
	}
	if !errors.Is(err, ErrConfig) {
		t.Error("should match ErrConfig")
	}
}

func TestCompileError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("error parsing regexp")
		err := &CompileError{
			Path:     "/users/{id}",
			Method:   "get",
			Location: "parameter query.name",
			Message:  "invalid pattern",
			Cause:    cause,
		}
		want := "compile error at /users/{id} get (parameter query.name): invalid pattern: error parsing regexp"
		if got := err.Error(); got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
		if !errors.Is(err, cause) {
			t.Error("errors.Is should find cause")
		}
	})

	t.Run("errors.As extracts details", func(t *testing.T) {
		wrapped := fmt.Errorf("compiler: %w", &CompileError{Path: "/a/{"})
		var ce *CompileError
		if !errors.As(wrapped, &ce) {
			t.Fatal("errors.As should extract CompileError")
		}
		if ce.Path != "/a/{" {
			t.Errorf("Path = %q", ce.Path)
		}
		if !errors.Is(wrapped, ErrCompile) {
			t.Error("should match ErrCompile")
		}
	})
}
