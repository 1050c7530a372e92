// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToPgx5DSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/lexora", "pgx5://u:p@localhost:5432/lexora"},
		{"postgresql://u@db/lexora?sslmode=disable", "pgx5://u@db/lexora?sslmode=disable"},
		{"pgx5://u@db/lexora", "pgx5://u@db/lexora"},
		{"host=db user=u", "host=db user=u"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, convertToPgx5DSN(tt.in), tt.in)
	}
}

func TestEmbeddedMigrations_ArePaired(t *testing.T) {
	ups, err := fs.Glob(migrationFiles, "sql/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationFiles, "sql/*.down.sql")
	require.NoError(t, err)

	require.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}
