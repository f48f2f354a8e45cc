package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/healthops/health"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "healthops.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const goroutineConfig = `
service: {name: healthops-cli}
components:
  - name: runtime-goroutines
    probe: {kind: goroutines, warning: 1000000, critical: 2000000}
`

func TestValidate(t *testing.T) {
	path := writeConfig(t, goroutineConfig)

	out, err := execute(t, "validate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok (1 components, 1 probed, policy binary)")
}

func TestValidate_Invalid(t *testing.T) {
	path := writeConfig(t, "service: {name: svc}\nsweep: {policy: majority}\n")

	_, err := execute(t, "validate", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sweep.policy")
}

func TestValidate_LogLevelOverride(t *testing.T) {
	path := writeConfig(t, goroutineConfig)

	_, err := execute(t, "validate", "--config", path, "--log-level", "chatty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")

	_, err = execute(t, "validate", "--config", path, "--log-level", "warning")
	assert.NoError(t, err)
}

func TestCheck_Healthy(t *testing.T) {
	path := writeConfig(t, goroutineConfig)

	out, err := execute(t, "check", "-c", path)
	require.NoError(t, err)

	var report checkReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, health.StateHealthy, report.Status)
	assert.Equal(t, health.StateHealthy, report.Components["runtime-goroutines"].State)
	assert.False(t, report.LastChecked.IsZero())
}

func TestCheck_NotHealthy(t *testing.T) {
	path := writeConfig(t, "service: {name: healthops-cli}\ncomponents:\n  - name: data_feeder\n")

	out, err := execute(t, "check", "-c", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, errNotHealthy)
	assert.Contains(t, out, `"status": "degraded"`)
}

func TestCheck_MissingConfig(t *testing.T) {
	_, err := execute(t, "check", "-c", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
