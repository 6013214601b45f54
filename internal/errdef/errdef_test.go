package errdef

import (
	"errors"
	"io/fs"
	"testing"
)

func TestWrapKeepsCauseAndCode(t *testing.T) {
	err := Wrap(CodeFilesystem, fs.ErrNotExist, "read %s", "settings.toml")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected wrapped error to match fs.ErrNotExist")
	}
	if code := CodeOf(err); code != CodeFilesystem {
		t.Fatalf("expected code %q, got %q", CodeFilesystem, code)
	}
	if got := Message(err); got != "read settings.toml: file does not exist" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestWrapNilReturnsNil(t *testing.T) {
	if err := Wrap(CodeConfig, nil, "noop"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestCodeOfPlainError(t *testing.T) {
	if code := CodeOf(errors.New("boom")); code != CodeUnknown {
		t.Fatalf("expected unknown code, got %q", code)
	}
	if code := CodeOf(nil); code != "" {
		t.Fatalf("expected empty code for nil, got %q", code)
	}
}

func TestNewFormatsMessage(t *testing.T) {
	err := New(CodeProtocol, "unsupported method %q", "foo/bar")
	if err.Error() != `unsupported method "foo/bar"` {
		t.Fatalf("unexpected error text %q", err.Error())
	}
	if CodeOf(err) != CodeProtocol {
		t.Fatalf("expected protocol code")
	}
}
