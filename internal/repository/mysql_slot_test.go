package repository_test

import (
	"database/sql"
	"os"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	_ "github.com/go-sql-driver/mysql"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getMySQL(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		t.Skip("MYSQL_DSN not set")
	}

	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)

	if err := db.PingContext(t.Context()); err != nil {
		_ = db.Close()
		t.Skipf("MySQL not available: %v", err)
	}

	schema, err := os.ReadFile("../migrations/mysql/01_storage_slots.up.sql")
	require.NoError(t, err)
	_, err = db.ExecContext(t.Context(), string(schema))
	require.NoError(t, err)

	return db
}

func TestMySQLSlots(t *testing.T) {
	db := getMySQL(t)
	defer db.Close()

	ctx := t.Context()
	slots := repository.NewMySQLSlots(db)
	name := gofakeit.UUID()

	_, ok, err := slots.Get(ctx, name)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, slots.Set(ctx, name, "first"))
	require.NoError(t, slots.Set(ctx, name, "second"))

	got, ok, err := slots.Get(ctx, name)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", got)

	_, _, err = slots.Get(ctx, "")
	require.ErrorIs(t, err, repository.ErrEmptyName)
}
