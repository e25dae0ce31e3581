//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary  = "gptranslate"
	mainPkg = "./cmd/gptranslate"
)

// Default target to run when none is specified
var Default = Build

// Build compiles the gptranslate binary into the working directory
func Build() error {
	return sh.RunV("go", "build", "-o", binary, mainPkg)
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet on all packages
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install builds and copies the binary to ~/go/bin
func Install() error {
	mg.Deps(Build)

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dest := filepath.Join(home, "go", "bin", binary)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	if err := sh.Copy(dest, binary); err != nil {
		return err
	}
	return os.Chmod(dest, 0o755)
}

// Clean removes the built binary
func Clean() error {
	return sh.Rm(binary)
}
