package main

import (
	"fmt"
	"os"
	"testing"

	"github.com/joho/godotenv"
)

// TestMain loads .env when present, then runs the commands from a scratch
// directory so reports written under their default file name stay out of
// the source tree.
func TestMain(m *testing.M) {
	_ = godotenv.Load()

	dir, err := os.MkdirTemp("", "skillbridge-cmd-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "scratch dir: %v\n", err)
		os.Exit(1)
	}
	if err := os.Chdir(dir); err != nil {
		fmt.Fprintf(os.Stderr, "chdir: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}
