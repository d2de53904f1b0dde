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
	"fmt"
	"strings"
	"time"
)

// Config describes one database target. The three variants map to the
// supported backends; Type() is always canonical lowercase.
type Config interface {
	Type() string
	DriverName() string
	// DSN builds the driver-specific data source name. connectTimeout
	// is encoded where the driver supports it.
	DSN(connectTimeout time.Duration) string
}

// SQLiteConfig targets a SQLite database file.
type SQLiteConfig struct {
	File string
}

// Type implements Config.
func (SQLiteConfig) Type() string { return "sqlite" }

// DriverName implements Config. The driver is registered by
// internal/sqlitedriver (sqlcipher under cgo, modernc otherwise).
func (SQLiteConfig) DriverName() string { return "sqlite3" }

// DSN implements Config. A bare ":memory:" is rewritten to a shared-
// cache URI so every pooled connection sees the same database.
func (c SQLiteConfig) DSN(time.Duration) string {
	if c.File == ":memory:" {
		return "file::memory:?cache=shared"
	}
	return c.File
}

// MySQLConfig targets a MySQL server.
type MySQLConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

// Type implements Config.
func (MySQLConfig) Type() string { return "mysql" }

// DriverName implements Config.
func (MySQLConfig) DriverName() string { return "mysql" }

// DSN implements Config. parseTime makes the driver surface temporal
// columns as time.Time so results render as ISO-8601.
func (c MySQLConfig) DSN(connectTimeout time.Duration) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&timeout=%s",
		c.Username, c.Password, c.Host, c.Port, c.Database, connectTimeout)
}

// PostgreSQLConfig targets a PostgreSQL server.
type PostgreSQLConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

// Type implements Config.
func (PostgreSQLConfig) Type() string { return "postgresql" }

// DriverName implements Config.
func (PostgreSQLConfig) DriverName() string { return "postgres" }

// DSN implements Config.
func (c PostgreSQLConfig) DSN(connectTimeout time.Duration) string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable connect_timeout=%d",
		c.Host, c.Port, c.Database, c.Username, c.Password, int(connectTimeout.Seconds()))
}

// ParseConfig builds a Config from the tool-call config object. The
// type discriminator is case-insensitive on input.
func ParseConfig(raw map[string]interface{}) (Config, error) {
	typ, _ := raw["type"].(string)

	switch strings.ToLower(typ) {
	case "sqlite":
		file, _ := raw["file"].(string)
		if file == "" {
			return nil, fmt.Errorf("Required field 'file' is missing")
		}
		return SQLiteConfig{File: file}, nil
	case "mysql":
		return MySQLConfig{
			Host:     stringOr(raw, "host", "localhost"),
			Port:     intOr(raw, "port", 3306),
			Database: stringOr(raw, "database", ""),
			Username: stringOr(raw, "username", ""),
			Password: stringOr(raw, "password", ""),
		}, nil
	case "postgresql":
		return PostgreSQLConfig{
			Host:     stringOr(raw, "host", "localhost"),
			Port:     intOr(raw, "port", 5432),
			Database: stringOr(raw, "database", ""),
			Username: stringOr(raw, "username", ""),
			Password: stringOr(raw, "password", ""),
		}, nil
	default:
		return nil, fmt.Errorf("Unsupported database type: %s", typ)
	}
}

func stringOr(m map[string]interface{}, key, def string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return def
}

func intOr(m map[string]interface{}, key string, def int) int {
	switch n := m[key].(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return def
}
