//go:build basic || database

// Package integration contains end-to-end tests for cellplot.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Database backends: go test -tags database ./integration
package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedBinaryPath holds the path to a cellplot binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBinary returns the path to the cellplot binary, building it once if needed.
func getBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "cellplot-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binPath := filepath.Join(tempDir, "cellplot")
		buildCmd := exec.Command("go", "build", "-o", binPath, ".")
		buildCmd.Dir = ".." // Build from project root
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build cellplot: %v", err))
		}

		sharedBinaryPath = binPath
	})

	return sharedBinaryPath
}

// runCellplot runs the binary in dir with env appended to the current environment and
// returns its stdout.
func runCellplot(t *testing.T, dir string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getBinary(), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}

// mustRun is runCellplot that fails the test on error.
func mustRun(t *testing.T, dir string, env []string, args ...string) string {
	t.Helper()
	out, err := runCellplot(t, dir, env, args...)
	require.NoError(t, err)
	return out
}

// writeFixtures writes the cells and summaries CSV files used by every backend test.
func writeFixtures(t *testing.T, dir string) (cellsCSV, summariesCSV string) {
	t.Helper()
	cellsCSV = filepath.Join(dir, "cells.csv")
	summariesCSV = filepath.Join(dir, "summaries.csv")

	cells := "cell_id,charge_policy,cycle_life\n" +
		"b1c0,3.6C(80%)-3.6C,1852\n" +
		"b1c1,3.6C(80%)-3.6C,2160\n" +
		"b2c0,5.4C(40%)-3.6C,\n"
	summaries := "cell_id,cycle_index,ir,q_charge,q_discharge,tavg\n" +
		"b1c0,1,0.0167,1.07,1.06,31.9\n" +
		"b1c0,2,0.0166,1.08,1.07,32.1\n" +
		"b1c0,3,,1.08,1.07,32.0\n" +
		"b1c0,4,0.0168,1.07,1.06,31.8\n"

	require.NoError(t, os.WriteFile(cellsCSV, []byte(cells), 0o644))
	require.NoError(t, os.WriteFile(summariesCSV, []byte(summaries), 0o644))
	return cellsCSV, summariesCSV
}
