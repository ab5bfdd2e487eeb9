package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseEncode,
				Kind:   KindInvalidInput,
				Path:   []string{"dir/a\nb.txt"},
				Detail: "invalid file name: contains newline",
			},
			contains: []string{"[encode]", "invalid_input", `"dir/a\nb.txt"`, "contains newline"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindInvalidData,
			},
			contains: []string{"[decode]", "invalid_data"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseHost,
				Kind:   KindInstantiation,
				Detail: "instantiate module",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[host]", "instantiation", "instantiate module", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_LongPathIsTruncated(t *testing.T) {
	name := strings.Repeat("long-key-txt", 1024)
	msg := InvalidName(name, "contains newline").Error()
	if len(msg) > 256 {
		t.Errorf("message length = %d, want a short preview of the name", len(msg))
	}
	if !strings.Contains(msg, "...") {
		t.Errorf("message %q should mark the truncated name", msg)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindOverflow,
		Path:  []string{"big.bin"},
	}

	if !err.Is(&Error{Phase: PhaseEncode, Kind: KindOverflow}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseDecode, Kind: KindOverflow}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseEncode, Kind: KindInvalidInput}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseEncode, Kind: KindOverflow}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDecode, KindInvalidData).
		Path("a.bin").
		Value(42).
		Cause(cause).
		Detail("kind %d out of range", 3).
		Build()

	if err.Phase != PhaseDecode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDecode)
	}
	if err.Kind != KindInvalidData {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidData)
	}
	if len(err.Path) != 1 || err.Path[0] != "a.bin" {
		t.Errorf("Path = %v, want [a.bin]", err.Path)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "kind 3 out of range" {
		t.Errorf("Detail = %v, want 'kind 3 out of range'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("InvalidName", func(t *testing.T) {
		err := InvalidName("a\nb", "contains newline")
		if err.Phase != PhaseEncode || err.Kind != KindInvalidInput {
			t.Errorf("got [%v] %v", err.Phase, err.Kind)
		}
		if err.Value != "a\nb" {
			t.Errorf("Value = %v", err.Value)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseEncode, []string{"big.bin"}, 1<<30, "30-bit length")
		if err.Kind != KindOverflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
		}
		if err.Value != 1<<30 {
			t.Errorf("Value = %v, want %d", err.Value, 1<<30)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseDecode, []string{"a.bin"}, 16, 8, 20)
		if err.Kind != KindInvalidData {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidData)
		}
		if !strings.Contains(err.Detail, "[16, 24)") {
			t.Errorf("Detail = %v, should contain the range", err.Detail)
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseHost, "no decompressor")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
	})

	t.Run("Exhausted", func(t *testing.T) {
		err := Exhausted(PhaseDecode, []string{"big.txt"}, "chunk size reached zero")
		if err.Kind != KindExhausted {
			t.Errorf("Kind = %v, want %v", err.Kind, KindExhausted)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseConfig, "pattern", "*.png")
		if err.Kind != KindNotFound || !strings.Contains(err.Detail, `"*.png"`) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("Instantiation", func(t *testing.T) {
		cause := errors.New("bad module")
		err := Instantiation(cause)
		if err.Phase != PhaseHost || !errors.Is(err, cause) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("Load", func(t *testing.T) {
		err := Load("decompress artifact", errors.New("corrupt"))
		if err.Phase != PhaseLoad || err.Kind != KindInvalidData {
			t.Errorf("got [%v] %v", err.Phase, err.Kind)
		}
	})
}
