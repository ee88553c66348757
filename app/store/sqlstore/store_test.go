package sqlstore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"taskmanager/app/store"
	"taskmanager/app/store/storetest"
)

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := OpenSQLite(context.Background(), ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { s.Close(context.Background()) })
		return s
	})
}

func TestSQLiteStore_FileReopen(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/tasks.db"

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	u := storetest.NewUser("Ann", "ann@x.com")
	require.NoError(t, s.CreateUser(ctx, u))
	require.NoError(t, s.Close(ctx))

	// migrations are idempotent and data survives
	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close(ctx)

	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "ann@x.com", got.Email)
}

func TestMySQLStore(t *testing.T) {
	dsn := os.Getenv("TASKMGR_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TASKMGR_TEST_MYSQL_DSN not set")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		ctx := context.Background()
		s, err := OpenMySQL(ctx, dsn)
		require.NoError(t, err)
		t.Cleanup(func() {
			s.db.ExecContext(ctx, `DELETE FROM tasks`)
			s.db.ExecContext(ctx, `DELETE FROM users`)
			s.Close(ctx)
		})
		return s
	})
}

func TestDialectByName(t *testing.T) {
	d, ok := DialectByName("sqlite")
	require.True(t, ok)
	require.Equal(t, "sqlite", d.Driver)

	d, ok = DialectByName("mysql")
	require.True(t, ok)
	require.Equal(t, "mysql", d.Driver)

	_, ok = DialectByName("postgres")
	require.False(t, ok)
}
