//go:build mage

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir     = "bin"
	binaryName = "benchviz"
	mainPkg    = "./cmd/benchviz"
	versionPkg = "github.com/dkoosis/benchviz/internal/version"
)

// Default target - build the binary
var Default = Build

// Build builds the benchviz binary with version information
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	ldflags := fmt.Sprintf("-s -w -X %[1]s.Version=%[2]s -X %[1]s.CommitHash=%[3]s -X %[1]s.BuildDate=%[4]s",
		versionPkg, gitOutput("describe", "--tags", "--always", "--dirty"), gitOutput("rev-parse", "--short", "HEAD"), buildDate())
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", filepath.Join(binDir, binaryName), mainPkg)
}

// Test runs all tests with the race detector
func Test() error {
	return sh.RunV("go", "test", "-race", "-count=1", "./...")
}

// Lint runs go vet and, when installed, golangci-lint
func Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return fmt.Errorf("vet failed: %w", err)
	}
	if err := sh.RunV("golangci-lint", "run", "--timeout=5m", "./..."); err != nil {
		if isCommandNotFound(err) {
			fmt.Println("golangci-lint not found (install: go install github.com/golangci/golangci-lint/cmd/golangci-lint@latest)")
			return nil
		}
		return fmt.Errorf("golangci-lint failed: %w", err)
	}
	return nil
}

// QA runs formatting, lint and tests
func QA() {
	mg.SerialDeps(Fmt, Lint, Test)
}

// Fmt formats all Go sources
func Fmt() error {
	return sh.RunV("go", "fmt", "./...")
}

// Report pipes the test suite through benchviz
func Report() error {
	mg.Deps(Build)
	return sh.RunV("sh", "-c", "go test -json ./... | "+filepath.Join(binDir, binaryName))
}

// Clean removes build artifacts
func Clean() error {
	return sh.Rm(binDir)
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil || out == "" {
		return "unknown"
	}
	return out
}

func buildDate() string {
	out, err := sh.Output("date", "-u", "+%Y-%m-%dT%H:%M:%SZ")
	if err != nil {
		return "unknown"
	}
	return out
}

func isCommandNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}
