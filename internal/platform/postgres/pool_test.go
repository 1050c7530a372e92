// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lexora/internal/platform/constants"
)

func TestConfig(t *testing.T) {
	tests := []struct {
		name        string
		dsn         string
		options     PoolOptions
		wantMax     int32
		wantMin     int32
		wantTimeout string
		wantApp     string
	}{
		{"defaults", "postgres://lexora@db:5432/lexora", PoolOptions{}, constants.DefaultDatabaseMaxConns, 0, "30000", constants.AppName},
		{"min_clamped_to_max", "postgres://lexora@db/lexora", PoolOptions{MaxConns: 4, MinConns: 9}, 4, 4, "30000", constants.AppName},
		{"custom_timeout", "postgres://lexora@db/lexora", PoolOptions{MaxConns: 5, MinConns: 1, StatementTimeout: 1500 * time.Millisecond}, 5, 1, "1500", constants.AppName},
		{"dsn_application_name_kept", "postgres://lexora@db/lexora?application_name=worker", PoolOptions{}, constants.DefaultDatabaseMaxConns, 0, "30000", "worker"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poolConfig, err := config(tt.dsn, tt.options)
			require.NoError(t, err)

			assert.Equal(t, tt.wantMax, poolConfig.MaxConns)
			assert.Equal(t, tt.wantMin, poolConfig.MinConns)
			assert.Equal(t, tt.wantTimeout, poolConfig.ConnConfig.RuntimeParams["statement_timeout"])
			assert.Equal(t, tt.wantApp, poolConfig.ConnConfig.RuntimeParams["application_name"])
		})
	}
}

func TestConfig_InvalidDSN(t *testing.T) {
	_, err := config("postgres://%zz", PoolOptions{})
	assert.Error(t, err)
}
