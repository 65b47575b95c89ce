package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/cobranza?sslmode=disable", migrateURL("postgres://u:p@db:5432/cobranza?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/cobranza", migrateURL("postgresql://u@db/cobranza"))
	assert.Equal(t, "pgx5://already", migrateURL("pgx5://already"))
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, len(entries), 2, "cada migración tiene up y down")
}
