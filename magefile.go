//go:build mage

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	modulePath = "github.com/dkoosis/pulse"
	binPath    = "bin/pulse"
)

// Default target - build the binary
var Default = Build

// Build builds the pulse binary with version metadata.
func Build() error {
	ldflags := fmt.Sprintf("-s -w -X '%[1]s/internal/version.Version=%[2]s' -X '%[1]s/internal/version.CommitHash=%[3]s' -X '%[1]s/internal/version.BuildDate=%[4]s'",
		modulePath, gitOutput("dev", "describe", "--tags", "--always", "--dirty", "--match=v*"),
		gitOutput("unknown", "rev-parse", "--short", "HEAD"), time.Now().UTC().Format(time.RFC3339))
	fmt.Println("Building pulse...")
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", binPath, "./cmd/pulse")
}

// Clean removes build artifacts
func Clean() error {
	return os.RemoveAll("bin")
}

// QA runs formatting, vet, tests and the linters that are installed.
func QA() {
	mg.SerialDeps(Lint.Format, Lint.Vet, Test.All, Lint.Golangci)
}

// Lint namespace for linting commands
type Lint mg.Namespace

// Format fails when gofmt would change a file.
func (Lint) Format() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if strings.TrimSpace(out) != "" {
		return fmt.Errorf("files need gofmt:\n%s", out)
	}
	return nil
}

// Vet runs go vet
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Golangci runs golangci-lint when it is installed.
func (Lint) Golangci() error {
	if err := sh.Run("golangci-lint", "version"); err != nil {
		fmt.Println("golangci-lint not found (install: go install github.com/golangci/golangci-lint/cmd/golangci-lint@latest)")
		return nil
	}
	return sh.RunV("golangci-lint", "run", "--timeout=5m", "./...")
}

// Test namespace for test commands
type Test mg.Namespace

// All runs every test.
func (Test) All() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs the tests with the race detector.
func (Test) Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Coverage writes coverage.out and prints the per-function summary.
func (Test) Coverage() error {
	if err := sh.RunV("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func=coverage.out")
}

// Run builds and starts the dashboard on its own runtime.
func Run() error {
	mg.Deps(Build)
	return sh.RunV(binPath)
}

func gitOutput(fallback string, args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil || out == "" {
		return fallback
	}
	return strings.TrimSpace(out)
}
