package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// SequenceError Tests
// -----------------------------------------------------------------------------

func TestSequenceError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *SequenceError
		want string
	}{
		{
			name: "basic",
			err:  NewSequenceError("no steps", nil),
			want: "sequence error: no steps",
		},
		{
			name: "with cause",
			err:  NewSequenceError("no steps", ErrEmptySequence),
			want: "sequence error: no steps: step sequence is empty",
		},
		{
			name: "with index and length",
			err:  NewSequenceError("jump", ErrOutOfRange).WithIndex(9).WithLength(6),
			want: "sequence error [index=9, length=6]: jump: step index out of range",
		},
		{
			name: "index zero is reported",
			err:  NewSequenceError("jump", nil).WithIndex(0),
			want: "sequence error [index=0]: jump",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSequenceError_Is(t *testing.T) {
	err := NewSequenceError("jump", ErrOutOfRange).WithIndex(-2)

	if !Is(err, &SequenceError{}) {
		t.Error("Is(SequenceError{}) = false, want true")
	}
	if !Is(err, ErrOutOfRange) {
		t.Error("Is(ErrOutOfRange) = false, want true")
	}
	if Is(err, ErrEmptySequence) {
		t.Error("Is(ErrEmptySequence) = true, want false")
	}

	wrapped := fmt.Errorf("navigating: %w", err)
	var seqErr *SequenceError
	if !As(wrapped, &seqErr) {
		t.Fatal("As(SequenceError) = false, want true")
	}
	if seqErr.Index != -2 {
		t.Errorf("Index = %d, want -2", seqErr.Index)
	}
}

// -----------------------------------------------------------------------------
// ActionError Tests
// -----------------------------------------------------------------------------

func TestActionError(t *testing.T) {
	cause := NewAssetError("loading scene", ErrAssetNotFound).WithScene("ram-1")
	err := NewActionError(2, "ram-levers", cause)

	want := "action error [step=2, id=ram-levers]: step action failed: asset error [scene=ram-1]: loading scene: asset not found"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrActionFailed) {
		t.Error("Is(ErrActionFailed) = false, want true")
	}
	if !Is(err, ErrAssetNotFound) {
		t.Error("Is(ErrAssetNotFound) = false, want true")
	}

	var assetErr *AssetError
	if !As(err, &assetErr) {
		t.Fatal("As(AssetError) = false, want true")
	}
	if assetErr.Scene != "ram-1" {
		t.Errorf("Scene = %q, want %q", assetErr.Scene, "ram-1")
	}
}

func TestActionError_WithSeverity(t *testing.T) {
	err := NewActionError(0, "", errors.New("boom")).WithSeverity(SeverityWarning)
	if GetSeverity(err) != SeverityWarning {
		t.Errorf("GetSeverity() = %v, want %v", GetSeverity(err), SeverityWarning)
	}
	if got, want := err.Error(), "action error [step=0]: step action failed: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

// -----------------------------------------------------------------------------
// AssetError / GuideError / SessionError Tests
// -----------------------------------------------------------------------------

func TestAssetError_Error(t *testing.T) {
	err := NewAssetError("parsing descriptor", ErrAssetLoadFailed).
		WithScene("cpu").
		WithPath("scenes/cpu.yaml").
		WithRetryable(true)

	want := "asset error [scene=cpu, path=scenes/cpu.yaml]: parsing descriptor: asset load failed"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable() = false, want true")
	}
}

func TestGuideError_Error(t *testing.T) {
	err := NewGuideError("duplicate step id", ErrGuideInvalid).WithGuide("pc-assembly").WithStep("cpu")
	want := "guide error [guide=pc-assembly, step=cpu]: duplicate step id: guide is invalid"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, &GuideError{}) || !Is(err, ErrGuideInvalid) {
		t.Error("GuideError should match its type and cause")
	}
}

func TestSessionError_Error(t *testing.T) {
	err := NewSessionError("loading session", ErrSessionNotFound).WithSessionID("abc")
	want := "session error [session=abc]: loading session: session not found"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

// -----------------------------------------------------------------------------
// Semantic Error Tests
// -----------------------------------------------------------------------------

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("guide", "ram-only")
	if got, want := err.Error(), "guide 'ram-only' not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	err = err.WithCause(ErrGuideNotFound)
	if !Is(err, ErrGuideNotFound) {
		t.Error("Is(ErrGuideNotFound) = false, want true")
	}
	if GetSeverity(err) != SeverityWarning {
		t.Errorf("GetSeverity() = %v, want warning", GetSeverity(err))
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("floor must be below step count").WithField("floor").WithValue(4)
	want := "validation error [field=floor, value=4]: floor must be below step count"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrInvalidInput) {
		t.Error("ValidationError should match ErrInvalidInput")
	}
}

// -----------------------------------------------------------------------------
// Classification Tests
// -----------------------------------------------------------------------------

func TestClassification(t *testing.T) {
	plain := errors.New("plain")

	tests := []struct {
		name       string
		err        error
		userFacing bool
		domain     bool
		severity   Severity
	}{
		{"nil", nil, false, false, SeverityDebug},
		{"plain", plain, false, false, SeverityError},
		{"sequence", NewSequenceError("x", nil), true, true, SeverityError},
		{"wrapped action", Wrap(NewActionError(1, "a", plain), "advance"), true, true, SeverityError},
		{"validation", NewValidationError("x"), true, false, SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.userFacing {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.userFacing)
			}
			if got := IsDomainError(tt.err); got != tt.domain {
				t.Errorf("IsDomainError() = %v, want %v", got, tt.domain)
			}
			if got := GetSeverity(tt.err); got != tt.severity {
				t.Errorf("GetSeverity() = %v, want %v", got, tt.severity)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, "ctx %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	err := Wrapf(ErrOutOfRange, "jump to %d", 7)
	if got, want := err.Error(), "jump to 7: step index out of range"; got != want {
		t.Errorf("Wrapf() = %q, want %q", got, want)
	}
	if !Is(err, ErrOutOfRange) {
		t.Error("wrapped error should match sentinel")
	}
}
