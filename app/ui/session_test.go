package ui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/app/models"
)

func TestDefaultConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", AppName), DefaultConfigDir())

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/ann")
	assert.Equal(t, filepath.Join("/home/ann", ".config", AppName), DefaultConfigDir())
}

func TestSessionStore_RoundTrip(t *testing.T) {
	store := NewSessionStore(filepath.Join(t.TempDir(), "taskctl"))

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)

	want := &Session{Token: "tok", User: models.PublicUser{ID: "1", Name: "Ann", Email: "ann@x.com"}}
	require.NoError(t, store.Save(want))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	got, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore_Corrupt(t *testing.T) {
	store := NewSessionStore(t.TempDir())
	require.NoError(t, os.WriteFile(store.Path(), []byte("{"), 0600))

	_, err := store.Load()
	assert.ErrorContains(t, err, SessionFile)
}
