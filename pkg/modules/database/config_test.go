// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_SQLite(t *testing.T) {
	cfg, err := ParseConfig(map[string]interface{}{
		"type": "sqlite",
		"file": "/tmp/app.db",
	})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Type())
	assert.Equal(t, "sqlite3", cfg.DriverName())
	assert.Equal(t, "/tmp/app.db", cfg.DSN(30*time.Second))
}

func TestParseConfig_SQLiteMemorySharedCache(t *testing.T) {
	cfg, err := ParseConfig(map[string]interface{}{
		"type": "sqlite",
		"file": ":memory:",
	})
	require.NoError(t, err)
	assert.Equal(t, "file::memory:?cache=shared", cfg.DSN(30*time.Second))
}

func TestParseConfig_SQLiteMissingFile(t *testing.T) {
	_, err := ParseConfig(map[string]interface{}{"type": "sqlite"})
	assert.ErrorContains(t, err, "file")
}

func TestParseConfig_MySQLDefaults(t *testing.T) {
	cfg, err := ParseConfig(map[string]interface{}{
		"type":     "mysql",
		"database": "app",
		"username": "root",
		"password": "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Type())
	assert.Equal(t, "mysql", cfg.DriverName())

	dsn := cfg.DSN(30 * time.Second)
	assert.Equal(t, "root:secret@tcp(localhost:3306)/app?parseTime=true&timeout=30s", dsn)
}

func TestParseConfig_PostgreSQLDefaults(t *testing.T) {
	cfg, err := ParseConfig(map[string]interface{}{
		"type":     "postgresql",
		"host":     "db.internal",
		"port":     float64(5433),
		"database": "app",
		"username": "svc",
		"password": "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "postgresql", cfg.Type())
	assert.Equal(t, "postgres", cfg.DriverName())

	dsn := cfg.DSN(30 * time.Second)
	assert.Equal(t, "host=db.internal port=5433 dbname=app user=svc password=secret sslmode=disable connect_timeout=30", dsn)
}

func TestParseConfig_TypeIsCaseInsensitive(t *testing.T) {
	for _, typ := range []string{"SQLite", "SQLITE", "sqlite"} {
		cfg, err := ParseConfig(map[string]interface{}{"type": typ, "file": "x.db"})
		require.NoError(t, err)
		assert.Equal(t, "sqlite", cfg.Type())
	}
}

func TestParseConfig_UnsupportedType(t *testing.T) {
	_, err := ParseConfig(map[string]interface{}{"type": "oracle"})
	assert.ErrorContains(t, err, "Unsupported database type: oracle")
}
