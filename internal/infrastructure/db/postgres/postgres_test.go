package postgres

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmdemo/marketplace/internal/core/domain"
	"github.com/elmdemo/marketplace/internal/core/ports"
)

func TestProductWhere(t *testing.T) {
	tests := []struct {
		name      string
		filter    ports.ListProductsFilter
		wantWhere string
		wantArgs  []any
	}{
		{"no filter", ports.ListProductsFilter{Limit: 10}, "", nil},
		{"owner", ports.ListProductsFilter{OwnerID: 7}, " WHERE owner_id = $1", []any{int64(7)}},
		{"status", ports.ListProductsFilter{Status: domain.StatusActive}, " WHERE status = $1", []any{"ACTIVE"}},
		{"owner and status", ports.ListProductsFilter{OwnerID: 7, Status: domain.StatusInactive}, " WHERE owner_id = $1 AND status = $2", []any{int64(7), "INACTIVE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := productWhere(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestErrorClassification(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, isDuplicateKey(dup))
	assert.False(t, isDuplicateKey(fk))
	assert.False(t, isDuplicateKey(errors.New("boom")))

	assert.True(t, isNotFound(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
	assert.False(t, isNotFound(dup))
}

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "00001_create_accounts.sql", entries[0].Name())
	assert.Equal(t, "00002_create_products.sql", entries[1].Name())
}

func TestGooseLogger(t *testing.T) {
	var buf bytes.Buffer
	l := gooseLogger{log: zerolog.New(&buf)}

	l.Printf("applied %d migrations", 2)
	assert.Contains(t, buf.String(), `"level":"info"`)
	assert.Contains(t, buf.String(), "applied 2 migrations")
}
