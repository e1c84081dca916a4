package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/numdiff/internal/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "numdiff "+version+"\n", out)
}

func TestFunctions(t *testing.T) {
	out, err := run(t, "functions")
	require.NoError(t, err)
	assert.Contains(t, out, "rosenbrock")
	assert.Contains(t, out, "broken-rosenbrock")
	assert.Contains(t, out, "trig")
}

func TestCheck_Pass(t *testing.T) {
	path := writePlan(t, `
policy: five-points
epsilon: 1e-3
threshold: 1e-6
workers: 2
checks:
  - name: valley
    function: rosenbrock
    dimension: 2
    points: [[0, 0], [1.2, -0.7], [1, 1]]
  - name: waves
    function: trig
    dimension: 3
    mode: jacobian
    points: [[0.1, 0.2, 0.3]]
`)
	out, err := run(t, "check", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "PASS  valley  x=[1.2 -0.7]")
	assert.Contains(t, out, "PASS  waves  x=[0.1 0.2 0.3]")
	assert.Contains(t, out, "4 points checked, 0 failed")
	// Rosenbrock: 3 points x 2 columns x 4 evaluations.
	assert.Regexp(t, `rosenbrock\s+24 evaluations`, out)
	assert.Regexp(t, `trig\s+12 evaluations`, out)
}

func TestCheck_ConcurrentChecksKeepPlanOrder(t *testing.T) {
	path := writePlan(t, `
workers: 4
checks:
  - name: first
    function: trig
    dimension: 2
    points: [[0.3, 0.1]]
  - name: second
    function: broken-rosenbrock
    dimension: 2
    points: [[0.5, 0.5]]
  - name: third
    function: rosenbrock
    dimension: 3
    points: [[0.1, 0.2, 0.3], [1, 1, 1]]
  - name: fourth
    function: trig
    dimension: 2
    mode: jacobian
    points: [[-0.4, 0.9]]
`)
	out, err := run(t, "check", "--config", path)
	require.ErrorIs(t, err, errChecksFailed)

	lines := []string{
		"PASS  first  x=[0.3 0.1]",
		"FAIL  second  x=[0.5 0.5]",
		"PASS  third  x=[0.1 0.2 0.3]",
		"PASS  third  x=[1 1 1]",
		"PASS  fourth  x=[-0.4 0.9]",
	}
	last := -1
	for _, line := range lines {
		at := strings.Index(out, line)
		require.GreaterOrEqual(t, at, 0, "missing %q in\n%s", line, out)
		assert.Greater(t, at, last, "%q out of order", line)
		last = at
	}
	assert.Contains(t, out, "5 points checked, 1 failed")
}

func TestCheck_FailExitsNonZero(t *testing.T) {
	path := writePlan(t, `
checks:
  - function: broken-rosenbrock
    dimension: 2
    points: [[0.5, 0.5]]
`)
	out, err := run(t, "check", "-c", path)
	require.ErrorIs(t, err, errChecksFailed)
	assert.Contains(t, out, "FAIL  broken-rosenbrock-0")
	assert.Contains(t, out, "at component 0")
	assert.Contains(t, out, "1 points checked, 1 failed")
}

func TestCheck_Errors(t *testing.T) {
	_, err := run(t, "check")
	require.Error(t, err)

	_, err = run(t, "check", "--config", filepath.Join(t.TempDir(), "none.yaml"))
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	path := writePlan(t, `
checks:
  - function: himmelblau
    dimension: 2
    points: [[0, 0]]
`)
	_, err = run(t, "check", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown function")
}
