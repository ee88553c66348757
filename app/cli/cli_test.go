package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/app/apitest"
)

type harness struct {
	t         *testing.T
	server    string
	configDir string
}

func newHarness(t *testing.T) *harness {
	srv := apitest.NewServer(t, apitest.Options{})
	return &harness{t: t, server: srv.URL, configDir: t.TempDir()}
}

func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand(&out, &errOut)
	full := append([]string{"--server", h.server, "--config-dir", h.configDir}, args...)
	err := root.Execute(context.Background(), full)
	return out.String(), errOut.String(), err
}

func TestCLI_Workflow(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("register", "Ann", "ann@x.com", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "Account created.")
	assert.Contains(t, out, "Ann <ann@x.com>")

	out, _, err = h.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome back, Ann!")
	assert.Contains(t, out, "No tasks yet")

	out, _, err = h.run("add", "Buy", "milk", "--priority", "high", "-d", "2 litres")
	require.NoError(t, err)
	assert.Contains(t, out, "[ ] Buy milk  (high)")

	out, _, err = h.run("toggle", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "[x] Buy milk")

	out, _, err = h.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "1 tasks, 1 completed")

	out, _, err = h.run("rm", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Task removed.")

	out, _, err = h.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks yet")

	out, _, err = h.run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")

	_, errOut, err := h.run("list")
	assert.ErrorIs(t, err, ErrActionFailed)
	assert.Contains(t, errOut, "not logged in")

	out, _, err = h.run("login", "ann@x.com", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in.")

	out, _, err = h.run("whoami")
	require.NoError(t, err)
	assert.Equal(t, "Ann <ann@x.com>\n", out)
}

func TestCLI_Errors(t *testing.T) {
	h := newHarness(t)

	_, errOut, err := h.run("login", "nobody@x.com", "pw")
	assert.ErrorIs(t, err, ErrActionFailed)
	assert.Equal(t, "error: invalid credentials\n", errOut)

	_, _, err = h.run("register", "Ann")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrActionFailed)

	_, _, err = h.run("register", "Ann", "ann@x.com", "pw")
	require.NoError(t, err)

	_, errOut, err = h.run("add", "   ")
	assert.ErrorIs(t, err, ErrActionFailed)
	assert.Contains(t, errOut, "title is required")

	_, errOut, err = h.run("toggle", "7")
	assert.ErrorIs(t, err, ErrActionFailed)
	assert.True(t, strings.HasPrefix(errOut, "error: task number out of range"), errOut)
}

func TestCLI_BadServerURL(t *testing.T) {
	var out, errOut bytes.Buffer
	root := NewRootCommand(&out, &errOut)

	err := root.Execute(context.Background(), []string{"--server", "not a url", "--config-dir", t.TempDir(), "list"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server url")
}
