package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/loan-affordability/internal/config"
	"github.com/iwvelando/loan-affordability/internal/server"
	"github.com/iwvelando/loan-affordability/pkg/loans"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout bytes.Buffer
	cmd := newRootCommand(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name        string
		logging     config.LoggingConfig
		override    string
		expectError bool
	}{
		{"Defaults", config.LoggingConfig{}, "", false},
		{"Console debug", config.LoggingConfig{Level: "debug", Format: "console"}, "", false},
		{"Override wins", config.LoggingConfig{Level: "bogus"}, "warn", false},
		{"Invalid level", config.LoggingConfig{Level: "loud"}, "", true},
		{"Invalid format", config.LoggingConfig{Format: "xml"}, "", true},
		{"Output file", config.LoggingConfig{OutputFile: filepath.Join(t.TempDir(), "logs", "app.log")}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.logging, tt.override)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestPaymentCommand(t *testing.T) {
	out, err := runCommand(t, "payment", "--principal", "230000", "--rate", "4", "--term", "25", "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "Monthly payment          | 1,214.02")
	assert.Contains(t, out, "Monthly insurance        | 76.67")
	assert.Contains(t, out, "Total monthly payment    | 1,290.69")
	assert.NotContains(t, out, "Month |")
}

func TestPaymentCommandSchedule(t *testing.T) {
	out, err := runCommand(t, "payment", "--principal", "1200", "--rate", "0", "--term", "1",
		"--insurance-rate", "0", "--schedule", "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "Monthly payment          | 100.00")
	assert.Contains(t, out, "Total interest 0.00, total paid 1,200.00")
}

func TestPaymentCommandRejectsInvalidTerm(t *testing.T) {
	_, err := runCommand(t, "payment", "--principal", "1000", "--rate", "4", "--term", "0", "--log-level", "error")
	assert.Error(t, err)
}

func TestPaymentCommandRejectsNegativeInsurance(t *testing.T) {
	out, err := runCommand(t, "payment", "--principal", "230000", "--rate", "4", "--term", "25",
		"--insurance-rate", "-0.4", "--log-level", "error")
	require.Error(t, err)
	assert.True(t, errors.Is(err, loans.ErrNegativeRate), "got %v", err)
	assert.NotContains(t, out, "Monthly insurance")
}

func TestMaxBorrowableCommand(t *testing.T) {
	out, err := runCommand(t, "max-borrowable", "--income", "2000", "--rate", "4", "--term", "25",
		"--down-payment", "20000", "--search-upper-bound", "1000000", "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "Payment ceiling          | 660.00")
	assert.Contains(t, out, "Max principal            | 117,611")
	assert.Contains(t, out, "Max property price       | 137,611")
	assert.Contains(t, out, "Search iterations        | 20")
}

func TestMaxBorrowableCommandWithoutCapacity(t *testing.T) {
	out, err := runCommand(t, "max-borrowable", "--income", "2000", "--rate", "4", "--term", "25",
		"--obligations", "700", "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "Max principal            | 0")
	assert.Contains(t, out, "Note: ")
}

func TestMaxBorrowableCommandRejectsInvalidPolicy(t *testing.T) {
	_, err := runCommand(t, "max-borrowable", "--income", "2000", "--rate", "4", "--term", "25",
		"--ceiling", "150", "--log-level", "error")
	assert.Error(t, err)
}

func TestEvaluateCommand(t *testing.T) {
	configPath := filepath.Join("..", "..", "internal", "config", "testdata", "scenarios.yaml")

	out, err := runCommand(t, "evaluate", "--config", configPath, "--log-level", "error")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "scenario,principal"))
	assert.True(t, strings.HasPrefix(lines[1], "flat,230000.00"))

	out, err = runCommand(t, "evaluate", "--config", configPath, "--output-format", "pretty", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "--- Results for scenario flat ---")
}

func TestEvaluateCommandCsvSchedule(t *testing.T) {
	configPath := filepath.Join("..", "..", "internal", "config", "testdata", "scenarios.yaml")

	out, err := runCommand(t, "evaluate", "--config", configPath, "--schedule", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "scenario,month,payment")
	assert.Contains(t, out, "\nflat,300,")
	assert.Contains(t, out, "\nflat/car,120,")
}

func TestEvaluateCommandErrors(t *testing.T) {
	configPath := filepath.Join("..", "..", "internal", "config", "testdata", "scenarios.yaml")

	_, err := runCommand(t, "evaluate", "--config", configPath, "--output-format", "xml", "--log-level", "error")
	assert.Error(t, err)

	_, err = runCommand(t, "evaluate", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found; copy config.yaml.example to start")
}

func TestRunServerStopsOnCancel(t *testing.T) {
	cfg := server.DefaultConfig()
	cfg.Address = "127.0.0.1:0"
	srv := server.New(zap.NewNop(), cfg, "test")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runServer(ctx, zap.NewNop(), srv)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}
