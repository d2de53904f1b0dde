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
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// TableInfo describes one metadata table of kind "TABLE".
type TableInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Schema  string `json:"schema"`
	Catalog string `json:"catalog"`
	Remarks string `json:"remarks"`
}

// ColumnInfo describes one column of a table.
type ColumnInfo struct {
	Name          string      `json:"name"`
	Type          string      `json:"type"`
	Size          int         `json:"size"`
	Nullable      bool        `json:"nullable"`
	DefaultValue  interface{} `json:"defaultValue"`
	Precision     int         `json:"precision"`
	Scale         int         `json:"scale"`
	AutoIncrement bool        `json:"autoIncrement"`
	IsPrimaryKey  bool        `json:"isPrimaryKey"`
}

// ListTables enumerates the user tables of the connected database.
// There is no portable catalog API in database/sql, so each dialect
// queries its own metadata surface.
func (m *Manager) ListTables(ctx context.Context, connectionId string) ([]TableInfo, error) {
	pool, err := m.get(connectionId)
	if err != nil {
		return nil, err
	}

	var tables []TableInfo
	switch pool.config.Type() {
	case "sqlite":
		tables, err = listTablesSQLite(ctx, pool.db)
	case "mysql":
		tables, err = listTablesMySQL(ctx, pool.db)
	case "postgresql":
		tables, err = listTablesPostgres(ctx, pool.db)
	default:
		err = fmt.Errorf("Unsupported database type: %s", pool.config.Type())
	}
	if err != nil {
		return nil, m.wrapError(pool, err)
	}
	return tables, nil
}

// GetTableSchema enumerates the columns of one table, with primary-key
// flags computed from the dialect's key metadata.
func (m *Manager) GetTableSchema(ctx context.Context, connectionId, tableName string) ([]ColumnInfo, error) {
	pool, err := m.get(connectionId)
	if err != nil {
		return nil, err
	}

	var columns []ColumnInfo
	switch pool.config.Type() {
	case "sqlite":
		columns, err = tableSchemaSQLite(ctx, pool.db, tableName)
	case "mysql":
		columns, err = tableSchemaMySQL(ctx, pool.db, tableName)
	case "postgresql":
		columns, err = tableSchemaPostgres(ctx, pool.db, tableName)
	default:
		err = fmt.Errorf("Unsupported database type: %s", pool.config.Type())
	}
	if err != nil {
		return nil, m.wrapError(pool, err)
	}
	return columns, nil
}

func listTablesSQLite(ctx context.Context, db *sql.DB) ([]TableInfo, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]TableInfo, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, TableInfo{Name: name, Type: "TABLE", Schema: "main"})
	}
	return tables, rows.Err()
}

func tableSchemaSQLite(ctx context.Context, db *sql.DB, tableName string) ([]ColumnInfo, error) {
	// PRAGMA arguments cannot be bound; the table name is a quoted
	// identifier here.
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", tableName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := make([]ColumnInfo, 0)
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, err
		}
		col := ColumnInfo{
			Name:         name,
			Type:         typ,
			Nullable:     notNull == 0,
			IsPrimaryKey: pk > 0,
		}
		if defaultVal.Valid {
			col.DefaultValue = defaultVal.String
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table not found: %s", tableName)
	}
	return columns, nil
}

func listTablesMySQL(ctx context.Context, db *sql.DB) ([]TableInfo, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT table_name, table_schema, table_catalog, IFNULL(table_comment, '')
		 FROM information_schema.tables
		 WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
		 ORDER BY table_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]TableInfo, 0)
	for rows.Next() {
		var t TableInfo
		if err := rows.Scan(&t.Name, &t.Schema, &t.Catalog, &t.Remarks); err != nil {
			return nil, err
		}
		t.Type = "TABLE"
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func tableSchemaMySQL(ctx context.Context, db *sql.DB, tableName string) ([]ColumnInfo, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT column_name, data_type,
		        IFNULL(character_maximum_length, 0),
		        is_nullable, column_default,
		        IFNULL(numeric_precision, 0), IFNULL(numeric_scale, 0),
		        extra, column_key
		 FROM information_schema.columns
		 WHERE table_schema = DATABASE() AND table_name = ?
		 ORDER BY ordinal_position`, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := make([]ColumnInfo, 0)
	for rows.Next() {
		var (
			col              ColumnInfo
			size             int64
			nullable         string
			defaultVal       sql.NullString
			precision, scale int64
			extra, key       string
		)
		if err := rows.Scan(&col.Name, &col.Type, &size, &nullable, &defaultVal,
			&precision, &scale, &extra, &key); err != nil {
			return nil, err
		}
		col.Size = int(size)
		col.Nullable = strings.EqualFold(nullable, "YES")
		if defaultVal.Valid {
			col.DefaultValue = defaultVal.String
		}
		col.Precision = int(precision)
		col.Scale = int(scale)
		col.AutoIncrement = strings.Contains(strings.ToLower(extra), "auto_increment")
		col.IsPrimaryKey = key == "PRI"
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table not found: %s", tableName)
	}
	return columns, nil
}

func listTablesPostgres(ctx context.Context, db *sql.DB) ([]TableInfo, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT table_name, table_schema, table_catalog
		 FROM information_schema.tables
		 WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		 ORDER BY table_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]TableInfo, 0)
	for rows.Next() {
		var t TableInfo
		if err := rows.Scan(&t.Name, &t.Schema, &t.Catalog); err != nil {
			return nil, err
		}
		t.Type = "TABLE"
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func tableSchemaPostgres(ctx context.Context, db *sql.DB, tableName string) ([]ColumnInfo, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT column_name, data_type,
		        COALESCE(character_maximum_length, 0),
		        is_nullable, column_default,
		        COALESCE(numeric_precision, 0), COALESCE(numeric_scale, 0)
		 FROM information_schema.columns
		 WHERE table_schema = 'public' AND table_name = $1
		 ORDER BY ordinal_position`, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := make([]ColumnInfo, 0)
	for rows.Next() {
		var (
			col              ColumnInfo
			size             int64
			nullable         string
			defaultVal       sql.NullString
			precision, scale int64
		)
		if err := rows.Scan(&col.Name, &col.Type, &size, &nullable, &defaultVal,
			&precision, &scale); err != nil {
			return nil, err
		}
		col.Size = int(size)
		col.Nullable = strings.EqualFold(nullable, "YES")
		if defaultVal.Valid {
			col.DefaultValue = defaultVal.String
			col.AutoIncrement = strings.HasPrefix(defaultVal.String, "nextval(")
		}
		col.Precision = int(precision)
		col.Scale = int(scale)
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table not found: %s", tableName)
	}

	// Primary keys come from the constraint catalog; intersect with the
	// column list the way JDBC metadata consumers do.
	pkRows, err := db.QueryContext(ctx,
		`SELECT kcu.column_name
		 FROM information_schema.table_constraints tc
		 JOIN information_schema.key_column_usage kcu
		   ON tc.constraint_name = kcu.constraint_name
		  AND tc.table_schema = kcu.table_schema
		 WHERE tc.constraint_type = 'PRIMARY KEY'
		   AND tc.table_schema = 'public'
		   AND tc.table_name = $1`, tableName)
	if err != nil {
		return nil, err
	}
	defer pkRows.Close()

	primary := make(map[string]bool)
	for pkRows.Next() {
		var name string
		if err := pkRows.Scan(&name); err != nil {
			return nil, err
		}
		primary[name] = true
	}
	if err := pkRows.Err(); err != nil {
		return nil, err
	}

	for i := range columns {
		columns[i].IsPrimaryKey = primary[columns[i].Name]
	}
	return columns, nil
}
