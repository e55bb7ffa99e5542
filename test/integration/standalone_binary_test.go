package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// buildStandaloneBinary compiles the CLI and copies it to a directory outside
// the repo, so commands run without the module context present.
func buildStandaloneBinary(t *testing.T) string {
	t.Helper()

	goModPathBytes, err := exec.Command("go", "env", "GOMOD").Output()
	if err != nil {
		t.Fatalf("go env GOMOD: %v", err)
	}
	goModPath := strings.TrimSpace(string(goModPathBytes))
	if goModPath == "" {
		t.Fatalf("go env GOMOD returned empty")
	}
	repoRoot := filepath.Dir(goModPath)

	binaryPath := filepath.Join(t.TempDir(), "starfollow")
	build := exec.Command("go", "build", "-o", binaryPath, "./cmd/starfollow")
	build.Dir = repoRoot
	build.Env = os.Environ()
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("go build: %v\n%s", err, string(out))
	}

	outside := t.TempDir()
	copied := filepath.Join(outside, "starfollow")
	data, err := os.ReadFile(binaryPath)
	if err != nil {
		t.Fatalf("read built binary: %v", err)
	}
	if err := os.WriteFile(copied, data, 0o755); err != nil {
		t.Fatalf("write copied binary: %v", err)
	}
	return copied
}

func runBinary(t *testing.T, binary string, args ...string) string {
	t.Helper()

	cmd := exec.Command(binary, args...)
	cmd.Dir = filepath.Dir(binary)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("%s %s: %v\n%s", filepath.Base(binary), strings.Join(args, " "), err, string(out))
	}
	return string(out)
}

func TestStandaloneBinaryCommandsWorkOutsideRepo(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("standalone binary copy/exec test is unix-focused")
	}

	binary := buildStandaloneBinary(t)

	version := runBinary(t, binary, "version")
	if !strings.Contains(version, "starfollow") {
		t.Fatalf("version output missing binary name: %s", version)
	}

	help := runBinary(t, binary, "--help")
	for _, sub := range []string{"run", "whoami", "version"} {
		if !strings.Contains(help, sub) {
			t.Fatalf("--help missing %q subcommand:\n%s", sub, help)
		}
	}

	runHelp := runBinary(t, binary, "run", "--help")
	for _, flag := range []string{"--page", "--max-pages", "--output"} {
		if !strings.Contains(runHelp, flag) {
			t.Fatalf("run --help missing %q flag:\n%s", flag, runHelp)
		}
	}
	if !strings.Contains(runHelp, "stargazer") {
		t.Fatalf("run --help missing command description:\n%s", runHelp)
	}

	whoamiHelp := runBinary(t, binary, "whoami", "--help")
	if !strings.Contains(whoamiHelp, "credential") {
		t.Fatalf("whoami --help missing command description:\n%s", whoamiHelp)
	}
}
