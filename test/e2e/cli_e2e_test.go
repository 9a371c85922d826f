package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestCLI_E2E builds the binary and checks its output and exit codes.
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping binary build in short mode")
	}

	binName := "primefind"
	if runtime.GOOS == "windows" {
		binName += ".exe"
	}
	binPath := filepath.Join(t.TempDir(), binName)

	// go test runs in test/e2e; build from the module root.
	build := exec.Command("go", "build", "-o", binPath, "./cmd/primefind")
	build.Dir = "../.."
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to build primefind: %v", err)
	}

	tests := []struct {
		name     string
		args     []string
		wantOut  string // case-insensitive substring
		wantCode int
	}{
		{"Batch", []string{"-n", "30", "-threads", "2", "-print", "batch", "-q"}, "Total primes found: 10", 0},
		{"Immediate Queue", []string{"-n", "30", "-division", "queue", "-q"}, "found prime: 29", 0},
		{"Verify", []string{"-n", "1000", "-verify"}, "Verification passed", 0},
		{"Compare", []string{"-n", "500", "-compare"}, "Global Status: Success", 0},
		{"Upper Limit One", []string{"-n", "1", "-print", "batch", "-q"}, "Total primes found: 0", 0},
		{"Zero Threads", []string{"-threads", "0"}, "Configuration error", 4},
		{"Unknown Division", []string{"-division", "diagonal"}, "division_mode", 4},
		{"Help", []string{"--help"}, "usage", 0},
		{"Version Flag", []string{"--version"}, "primefind", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			cmd.Dir = t.TempDir()
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("failed to run binary: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nOutput: %s", code, tt.wantCode, outStr)
			}
			if !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
				t.Errorf("output should contain %q\nOutput: %s", tt.wantOut, outStr)
			}
		})
	}
}
