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

// Package database exposes the database tool family: pooled
// connections to SQLite, MySQL, and PostgreSQL, parameterised queries,
// transactions with rollback, DML/DDL helpers, and schema
// introspection.
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/teradata-labs/anvil/pkg/mcp/protocol"
	"github.com/teradata-labs/anvil/pkg/modules"
	"github.com/teradata-labs/anvil/pkg/tools"
)

const (
	moduleName        = "database-module"
	moduleVersion     = "1.0.0"
	moduleDescription = "A set of database interaction tools supporting SQLite, MySQL, and PostgreSQL."
)

// Module is the database tool module.
type Module struct {
	manager *Manager
	logger  *zap.Logger
}

// New creates the database module around a connection manager.
func New(manager *Manager, logger *zap.Logger) *Module {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Module{manager: manager, logger: logger}
}

// Config implements modules.Module.
func (m *Module) Config() modules.Config {
	return modules.Config{
		Name:        moduleName,
		Version:     moduleVersion,
		Description: moduleDescription,
	}
}

// Manager returns the connection manager owned by this module.
func (m *Module) Manager() *Manager {
	return m.manager
}

// OnUnload closes every open pool.
func (m *Module) OnUnload() error {
	m.manager.Close()
	return nil
}

// Tools implements modules.Module.
func (m *Module) Tools() []tools.Tool {
	return []tools.Tool{
		{
			Name:        "connect_database",
			Description: "Connect to a SQL database (SQLite, MySQL, or PostgreSQL) with connection pooling",
			InputSchema: connectDatabaseSchema(),
			Handler:     m.handleConnectDatabase,
		},
		{
			Name:        "disconnect_database",
			Description: "Disconnect from a previously connected database",
			InputSchema: connectionIdOnlySchema("Database connection identifier"),
			Handler:     m.handleDisconnectDatabase,
		},
		{
			Name:        "execute_query",
			Description: "Execute a SQL query against a connected database",
			InputSchema: executeQuerySchema(),
			Handler:     m.handleExecuteQuery,
		},
		{
			Name:        "execute_transaction",
			Description: "Execute multiple SQL statements as a transaction with automatic rollback on failure",
			InputSchema: executeTransactionSchema(),
			Handler:     m.handleExecuteTransaction,
		},
		{
			Name:        "list_tables",
			Description: "List all tables in the connected database",
			InputSchema: connectionIdOnlySchema("Database connection identifier"),
			Handler:     m.handleListTables,
		},
		{
			Name:        "get_table_schema",
			Description: "Get detailed schema information for a specific table including primary keys and constraints",
			InputSchema: getTableSchemaSchema(),
			Handler:     m.handleGetTableSchema,
		},
		{
			Name:        "get_database_metrics",
			Description: "Get performance metrics for database connections including query counts and pool statistics",
			InputSchema: getMetricsSchema(),
			Handler:     m.handleGetMetrics,
		},
		{
			Name:        "insert_data",
			Description: "Insert new data into a specified table",
			InputSchema: insertDataSchema(),
			Handler:     m.handleInsertData,
		},
		{
			Name:        "update_data",
			Description: "Update existing data in a specified table",
			InputSchema: updateDataSchema(),
			Handler:     m.handleUpdateData,
		},
		{
			Name:        "delete_data",
			Description: "Delete data from a specified table",
			InputSchema: deleteDataSchema(),
			Handler:     m.handleDeleteData,
		},
		{
			Name:        "create_table",
			Description: "Create a new table in the database",
			InputSchema: createTableSchema(),
			Handler:     m.handleCreateTable,
		},
		{
			Name:        "drop_table",
			Description: "Drop an existing table from the database",
			InputSchema: dropTableSchema(),
			Handler:     m.handleDropTable,
		},
		{
			Name:        "alter_table",
			Description: "Alter an existing table (add or drop columns)",
			InputSchema: alterTableSchema(),
			Handler:     m.handleAlterTable,
		},
	}
}

func (m *Module) handleConnectDatabase(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	connectionId, err := tools.StringArg(args, "connectionId")
	if err != nil {
		return nil, err
	}
	rawConfig, err := tools.ObjectArg(args, "config")
	if err != nil {
		return nil, err
	}

	if m.manager.Has(connectionId) {
		return nil, fmt.Errorf("Connection '%s' already exists", connectionId)
	}

	cfg, err := ParseConfig(rawConfig)
	if err != nil {
		return nil, err
	}
	if err := m.manager.Connect(ctx, connectionId, cfg); err != nil {
		return nil, err
	}

	return protocol.NewTextResult(fmt.Sprintf("Successfully connected to %s database: %s", cfg.Type(), connectionId)), nil
}

func (m *Module) handleDisconnectDatabase(_ context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	connectionId, err := tools.StringArg(args, "connectionId")
	if err != nil {
		return nil, err
	}

	m.manager.Disconnect(connectionId)
	return protocol.NewTextResult("Successfully disconnected from database: " + connectionId), nil
}

func (m *Module) handleExecuteQuery(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	connectionId, err := tools.StringArg(args, "connectionId")
	if err != nil {
		return nil, err
	}
	query, err := tools.StringArg(args, "query")
	if err != nil {
		return nil, err
	}
	params := tools.OptionalArray(args, "params")
	limit := tools.OptionalInt(args, "limit", 1000)

	result, err := m.manager.ExecuteQuery(ctx, connectionId, query, params, limit)
	if err != nil {
		return nil, err
	}

	response := struct {
		RowCount     int                      `json:"rowCount"`
		Columns      []string                 `json:"columns"`
		Rows         []map[string]interface{} `json:"rows"`
		AffectedRows int                      `json:"affectedRows"`
		Query        string                   `json:"query"`
	}{
		RowCount:     result.RowCount,
		Columns:      result.Columns,
		Rows:         result.Rows,
		AffectedRows: result.AffectedRows,
		Query:        truncateQuery(query),
	}
	return jsonResult(response)
}

func (m *Module) handleExecuteTransaction(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	connectionId, err := tools.StringArg(args, "connectionId")
	if err != nil {
		return nil, err
	}
	rawQueries, err := tools.ArrayArg(args, "queries")
	if err != nil {
		return nil, err
	}

	queries := make([]QueryWithParams, 0, len(rawQueries))
	for _, raw := range rawQueries {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("Each transaction entry must be an object")
		}
		query, err := tools.StringArg(entry, "query")
		if err != nil {
			return nil, err
		}
		queries = append(queries, QueryWithParams{
			Query:  query,
			Params: tools.OptionalArray(entry, "params"),
		})
	}

	results, err := m.manager.ExecuteTransaction(ctx, connectionId, queries)
	if err != nil {
		return nil, err
	}

	type txEntry struct {
		QueryIndex   int `json:"queryIndex"`
		RowCount     int `json:"rowCount"`
		AffectedRows int `json:"affectedRows"`
	}
	entries := make([]txEntry, len(results))
	for i, r := range results {
		entries[i] = txEntry{QueryIndex: i, RowCount: r.RowCount, AffectedRows: r.AffectedRows}
	}

	response := struct {
		TransactionComplete bool      `json:"transactionComplete"`
		QueryCount          int       `json:"queryCount"`
		Results             []txEntry `json:"results"`
	}{
		TransactionComplete: true,
		QueryCount:          len(queries),
		Results:             entries,
	}
	return jsonResult(response)
}

func (m *Module) handleListTables(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	connectionId, err := tools.StringArg(args, "connectionId")
	if err != nil {
		return nil, err
	}

	tables, err := m.manager.ListTables(ctx, connectionId)
	if err != nil {
		return nil, err
	}

	response := struct {
		TableCount int         `json:"tableCount"`
		Tables     []TableInfo `json:"tables"`
	}{
		TableCount: len(tables),
		Tables:     tables,
	}
	return jsonResult(response)
}

func (m *Module) handleGetTableSchema(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	connectionId, err := tools.StringArg(args, "connectionId")
	if err != nil {
		return nil, err
	}
	tableName, err := tools.StringArg(args, "tableName")
	if err != nil {
		return nil, err
	}

	columns, err := m.manager.GetTableSchema(ctx, connectionId, tableName)
	if err != nil {
		return nil, err
	}

	response := struct {
		TableName string       `json:"tableName"`
		Columns   []ColumnInfo `json:"columns"`
	}{
		TableName: tableName,
		Columns:   columns,
	}
	return jsonResult(response)
}

func (m *Module) handleGetMetrics(_ context.Context, _ map[string]interface{}) (*protocol.CallToolResult, error) {
	return jsonResult(m.manager.Metrics())
}

func (m *Module) handleInsertData(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	connectionId, err := tools.StringArg(args, "connectionId")
	if err != nil {
		return nil, err
	}
	tableName, err := tools.StringArg(args, "tableName")
	if err != nil {
		return nil, err
	}
	data, err := tools.ObjectArg(args, "data")
	if err != nil {
		return nil, err
	}

	affected, err := m.manager.InsertData(ctx, connectionId, tableName, data)
	if err != nil {
		return nil, err
	}
	return tableAffectedResult(tableName, affected)
}

func (m *Module) handleUpdateData(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	connectionId, err := tools.StringArg(args, "connectionId")
	if err != nil {
		return nil, err
	}
	tableName, err := tools.StringArg(args, "tableName")
	if err != nil {
		return nil, err
	}
	data, err := tools.ObjectArg(args, "data")
	if err != nil {
		return nil, err
	}
	where := tools.OptionalString(args, "where", "")
	params := tools.OptionalArray(args, "params")

	affected, err := m.manager.UpdateData(ctx, connectionId, tableName, data, where, params)
	if err != nil {
		return nil, err
	}
	return tableAffectedResult(tableName, affected)
}

func (m *Module) handleDeleteData(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	connectionId, err := tools.StringArg(args, "connectionId")
	if err != nil {
		return nil, err
	}
	tableName, err := tools.StringArg(args, "tableName")
	if err != nil {
		return nil, err
	}
	where := tools.OptionalString(args, "where", "")
	params := tools.OptionalArray(args, "params")

	affected, err := m.manager.DeleteData(ctx, connectionId, tableName, where, params)
	if err != nil {
		return nil, err
	}
	return tableAffectedResult(tableName, affected)
}

func (m *Module) handleCreateTable(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	connectionId, err := tools.StringArg(args, "connectionId")
	if err != nil {
		return nil, err
	}
	tableName, err := tools.StringArg(args, "tableName")
	if err != nil {
		return nil, err
	}
	rawColumns, err := tools.ArrayArg(args, "columns")
	if err != nil {
		return nil, err
	}

	columns := make([]ColumnDefinition, 0, len(rawColumns))
	for _, raw := range rawColumns {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("Each column definition must be an object")
		}
		def, err := parseColumnDefinition(entry)
		if err != nil {
			return nil, err
		}
		columns = append(columns, def)
	}

	if err := m.manager.CreateTable(ctx, connectionId, tableName, columns); err != nil {
		return nil, err
	}
	return protocol.NewTextResult(fmt.Sprintf("Table '%s' created successfully.", tableName)), nil
}

func (m *Module) handleDropTable(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	connectionId, err := tools.StringArg(args, "connectionId")
	if err != nil {
		return nil, err
	}
	tableName, err := tools.StringArg(args, "tableName")
	if err != nil {
		return nil, err
	}

	if err := m.manager.DropTable(ctx, connectionId, tableName); err != nil {
		return nil, err
	}
	return protocol.NewTextResult(fmt.Sprintf("Table '%s' dropped successfully.", tableName)), nil
}

func (m *Module) handleAlterTable(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	connectionId, err := tools.StringArg(args, "connectionId")
	if err != nil {
		return nil, err
	}
	tableName, err := tools.StringArg(args, "tableName")
	if err != nil {
		return nil, err
	}
	action, err := tools.StringArg(args, "action")
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(action) {
	case "add_column":
		rawColumn, err := tools.ObjectArg(args, "columnDefinition")
		if err != nil {
			return nil, err
		}
		def, err := parseColumnDefinition(rawColumn)
		if err != nil {
			return nil, err
		}
		if err := m.manager.AddColumn(ctx, connectionId, tableName, def); err != nil {
			return nil, err
		}
		return protocol.NewTextResult(fmt.Sprintf("Column added to table '%s' successfully.", tableName)), nil

	case "drop_column":
		columnName, err := tools.StringArg(args, "columnName")
		if err != nil {
			return nil, err
		}
		if err := m.manager.DropColumn(ctx, connectionId, tableName, columnName); err != nil {
			return nil, err
		}
		return protocol.NewTextResult(fmt.Sprintf("Column dropped from table '%s' successfully.", tableName)), nil

	default:
		return nil, fmt.Errorf("Invalid alter table action: %s", action)
	}
}

func parseColumnDefinition(entry map[string]interface{}) (ColumnDefinition, error) {
	name, err := tools.StringArg(entry, "name")
	if err != nil {
		return ColumnDefinition{}, err
	}
	typ, err := tools.StringArg(entry, "type")
	if err != nil {
		return ColumnDefinition{}, err
	}

	def := ColumnDefinition{
		Name:       name,
		Type:       typ,
		PrimaryKey: tools.OptionalBool(entry, "primaryKey", false),
		NotNull:    tools.OptionalBool(entry, "notNull", false),
	}
	if v, ok := entry["defaultValue"]; ok {
		def.DefaultValue = v
		def.HasDefault = true
	}
	return def, nil
}

func tableAffectedResult(tableName string, affected int) (*protocol.CallToolResult, error) {
	response := struct {
		TableName    string `json:"tableName"`
		AffectedRows int    `json:"affectedRows"`
	}{
		TableName:    tableName,
		AffectedRows: affected,
	}
	return jsonResult(response)
}

// jsonResult renders a value as pretty-printed JSON inside a text
// envelope.
func jsonResult(v interface{}) (*protocol.CallToolResult, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("format response: %w", err)
	}
	return protocol.NewTextResult(string(raw)), nil
}
