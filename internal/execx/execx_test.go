package execx

import (
	"context"
	"errors"
	"os/exec"
	"slices"
	"strings"
	"testing"
)

func TestCommand_ForcesLocale(t *testing.T) {
	t.Setenv("LC_ALL", "de_DE.ISO8859-1")

	cmd := Command(context.Background(), "true")
	if !slices.Contains(cmd.Env, "LC_ALL=C.UTF-8") {
		t.Error("LC_ALL=C.UTF-8 missing from environment")
	}
	if !slices.Contains(cmd.Env, "LANG=C.UTF-8") {
		t.Error("LANG=C.UTF-8 missing from environment")
	}
	// Later entries win for duplicate keys, so the forced locale must come
	// after the inherited one.
	inherited := slices.Index(cmd.Env, "LC_ALL=de_DE.ISO8859-1")
	forced := slices.Index(cmd.Env, "LC_ALL=C.UTF-8")
	if inherited >= 0 && forced < inherited {
		t.Error("forced locale does not override inherited LC_ALL")
	}
}

func TestOutput_CapturesCombined(t *testing.T) {
	out, err := Output(context.Background(), "sh", "-c", "echo out; echo err 1>&2")
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	if !strings.Contains(out, "out") || !strings.Contains(out, "err") {
		t.Errorf("combined output = %q", out)
	}
}

func TestOutput_ReturnsOutputOnFailure(t *testing.T) {
	out, err := Output(context.Background(), "sh", "-c", "echo partial; exit 7")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(out, "partial") {
		t.Errorf("output on failure = %q, want it to contain %q", out, "partial")
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Errorf("ExitCode(nil) = %d, want 0", got)
	}

	err := Run(context.Background(), "sh", "-c", "exit 3")
	if err == nil {
		t.Fatal("expected error from failing command")
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error %v does not wrap *exec.ExitError", err)
	}
	if got := ExitCode(err); got != 3 {
		t.Errorf("ExitCode = %d, want 3", got)
	}

	if got := ExitCode(errors.New("not an exit error")); got != 1 {
		t.Errorf("ExitCode(non-exit error) = %d, want 1", got)
	}
}

func TestExec_UnknownProgram(t *testing.T) {
	err := Exec("definitely-not-a-real-binary-name", []string{"x"})
	if err == nil {
		t.Fatal("expected error for unknown program, got nil")
	}
}
