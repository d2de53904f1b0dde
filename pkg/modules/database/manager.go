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
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// txSelectRowLimit caps materialised rows for SELECTs executed inside a
// transaction.
const txSelectRowLimit = 1000

// livenessTimeout bounds the validation ping after opening a pool.
const livenessTimeout = 5 * time.Second

// PoolSettings configures every pool the manager opens.
type PoolSettings struct {
	MaxSize        int
	MinIdle        int
	ConnectTimeout time.Duration
	IdleTimeout    time.Duration
	MaxLifetime    time.Duration
	// LeakDetection is accepted for parity with the runtime config;
	// database/sql has no leak detector, so it is logged at connect
	// time only.
	LeakDetection time.Duration
}

// DefaultPoolSettings returns the standard pool sizing.
func DefaultPoolSettings() PoolSettings {
	return PoolSettings{
		MaxSize:        10,
		MinIdle:        2,
		ConnectTimeout: 30 * time.Second,
		IdleTimeout:    10 * time.Minute,
		MaxLifetime:    30 * time.Minute,
		LeakDetection:  time.Minute,
	}
}

// managedPool is one connection record: a client-supplied id, its
// config, and the pooled handle.
type managedPool struct {
	id     string
	config Config
	db     *sql.DB
	closed atomic.Bool
}

// Manager owns the map of connectionId → pooled database handle, plus
// process-lifetime query counters.
type Manager struct {
	mu    sync.RWMutex
	pools map[string]*managedPool

	totalQueries atomic.Int64
	totalErrors  atomic.Int64

	settings PoolSettings
	logger   *zap.Logger
}

// NewManager creates a connection manager.
func NewManager(settings PoolSettings, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		pools:    make(map[string]*managedPool),
		settings: settings,
		logger:   logger,
	}
}

// Connect opens and validates a pool for connectionId. On any failure
// the pool is destroyed and the mapping is left untouched; a record
// exists iff the pool validated once.
func (m *Manager) Connect(ctx context.Context, connectionId string, cfg Config) error {
	m.mu.Lock()
	if _, exists := m.pools[connectionId]; exists {
		m.mu.Unlock()
		return fmt.Errorf("Connection '%s' already exists", connectionId)
	}
	// Reserve the id while validation runs so concurrent connects with
	// the same id cannot both succeed.
	m.pools[connectionId] = nil
	m.mu.Unlock()

	release := func() {
		m.mu.Lock()
		delete(m.pools, connectionId)
		m.mu.Unlock()
	}

	db, err := sql.Open(cfg.DriverName(), cfg.DSN(m.settings.ConnectTimeout))
	if err != nil {
		release()
		return fmt.Errorf("open %s database: %w", cfg.Type(), err)
	}

	db.SetMaxOpenConns(m.settings.MaxSize)
	db.SetMaxIdleConns(m.settings.MinIdle)
	db.SetConnMaxIdleTime(m.settings.IdleTimeout)
	db.SetConnMaxLifetime(m.settings.MaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, livenessTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		release()
		return fmt.Errorf("database connection validation failed: %w", err)
	}

	m.mu.Lock()
	m.pools[connectionId] = &managedPool{id: connectionId, config: cfg, db: db}
	m.mu.Unlock()

	m.logger.Info("database connection established",
		zap.String("connectionId", connectionId),
		zap.String("type", cfg.Type()),
		zap.Int("poolSize", m.settings.MaxSize),
		zap.Duration("leakDetectionThreshold", m.settings.LeakDetection),
	)
	return nil
}

// Disconnect removes the record and closes the pool. Missing ids log
// but do not fail.
func (m *Manager) Disconnect(connectionId string) {
	m.mu.Lock()
	pool := m.pools[connectionId]
	delete(m.pools, connectionId)
	m.mu.Unlock()

	if pool == nil {
		m.logger.Info("disconnect for unknown connection", zap.String("connectionId", connectionId))
		return
	}

	pool.closed.Store(true)
	_ = pool.db.Close()
	m.logger.Info("database connection closed", zap.String("connectionId", connectionId))
}

// Has reports whether a connection record exists.
func (m *Manager) Has(connectionId string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pool, ok := m.pools[connectionId]
	return ok && pool != nil
}

// get returns the pool for connectionId, failing on unknown or closed
// pools.
func (m *Manager) get(connectionId string) (*managedPool, error) {
	m.mu.RLock()
	pool, ok := m.pools[connectionId]
	m.mu.RUnlock()

	if !ok || pool == nil {
		return nil, fmt.Errorf("Connection not found: %s", connectionId)
	}
	if pool.closed.Load() {
		return nil, fmt.Errorf("Connection pool is closed: %s", connectionId)
	}
	return pool, nil
}

// QueryWithParams pairs one statement with its parameters.
type QueryWithParams struct {
	Query  string
	Params []interface{}
}

// ExecuteQuery runs one parameterised statement, materialising at most
// limit rows for row-returning statements.
func (m *Manager) ExecuteQuery(ctx context.Context, connectionId, query string, params []interface{}, limit int) (QueryResult, error) {
	start := time.Now()
	m.totalQueries.Add(1)

	pool, err := m.get(connectionId)
	if err != nil {
		m.totalErrors.Add(1)
		return QueryResult{}, err
	}

	if err := m.validateQuery(query); err != nil {
		m.totalErrors.Add(1)
		return QueryResult{}, err
	}

	result, err := runStatement(ctx, pool.db, query, normalizeParams(params), limit)
	if err != nil {
		m.totalErrors.Add(1)
		m.logQueryError(connectionId, query, start, err)
		return QueryResult{}, m.wrapError(pool, err)
	}

	m.logQuerySuccess(connectionId, query, start, resultCount(result))
	return result, nil
}

// ExecuteTransaction runs every statement on one connection with
// autocommit suspended; either all of them commit or none does.
// Rollback always precedes error propagation and never masks the
// original cause.
func (m *Manager) ExecuteTransaction(ctx context.Context, connectionId string, queries []QueryWithParams) ([]QueryResult, error) {
	start := time.Now()
	m.totalQueries.Add(1)

	pool, err := m.get(connectionId)
	if err != nil {
		m.totalErrors.Add(1)
		return nil, err
	}

	tx, err := pool.db.BeginTx(ctx, nil)
	if err != nil {
		m.totalErrors.Add(1)
		return nil, m.wrapError(pool, err)
	}

	results := make([]QueryResult, 0, len(queries))
	for _, q := range queries {
		if err := m.validateQuery(q.Query); err != nil {
			_ = tx.Rollback()
			m.totalErrors.Add(1)
			m.logTransactionError(connectionId, len(queries), start, err)
			return nil, m.wrapError(pool, err)
		}

		result, err := runStatementTx(ctx, tx, q.Query, normalizeParams(q.Params), txSelectRowLimit)
		if err != nil {
			_ = tx.Rollback()
			m.totalErrors.Add(1)
			m.logTransactionError(connectionId, len(queries), start, err)
			return nil, m.wrapError(pool, err)
		}
		results = append(results, result)
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		m.totalErrors.Add(1)
		m.logTransactionError(connectionId, len(queries), start, err)
		return nil, m.wrapError(pool, err)
	}

	m.logger.Debug("transaction executed successfully",
		zap.String("connectionId", connectionId),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		zap.Int("queryCount", len(queries)),
	)
	return results, nil
}

// InsertData builds and executes a parameterised INSERT from a
// column→value map.
func (m *Manager) InsertData(ctx context.Context, connectionId, tableName string, data map[string]interface{}) (int, error) {
	start := time.Now()
	m.totalQueries.Add(1)

	pool, err := m.get(connectionId)
	if err != nil {
		m.totalErrors.Add(1)
		return 0, err
	}
	if len(data) == 0 {
		m.totalErrors.Add(1)
		return 0, fmt.Errorf("Data for insertion cannot be empty.")
	}

	columns := sortedKeys(data)
	placeholders := make([]string, len(columns))
	params := make([]interface{}, len(columns))
	for i, col := range columns {
		placeholders[i] = m.placeholder(pool.config, i+1)
		params[i] = data[col]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		tableName, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	return m.execUpdate(ctx, pool, connectionId, query, normalizeParams(params), start)
}

// UpdateData builds and executes a parameterised UPDATE with an
// optional WHERE clause and its own parameter sequence.
func (m *Manager) UpdateData(ctx context.Context, connectionId, tableName string, data map[string]interface{}, whereClause string, whereParams []interface{}) (int, error) {
	start := time.Now()
	m.totalQueries.Add(1)

	pool, err := m.get(connectionId)
	if err != nil {
		m.totalErrors.Add(1)
		return 0, err
	}
	if len(data) == 0 {
		m.totalErrors.Add(1)
		return 0, fmt.Errorf("Data for update cannot be empty.")
	}

	columns := sortedKeys(data)
	assignments := make([]string, len(columns))
	params := make([]interface{}, 0, len(columns)+len(whereParams))
	for i, col := range columns {
		assignments[i] = col + " = " + m.placeholder(pool.config, i+1)
		params = append(params, data[col])
	}

	query := fmt.Sprintf("UPDATE %s SET %s", tableName, strings.Join(assignments, ", "))
	if whereClause != "" {
		query += " WHERE " + m.renumberWhere(pool.config, whereClause, len(columns))
		params = append(params, whereParams...)
	}

	return m.execUpdate(ctx, pool, connectionId, query, normalizeParams(params), start)
}

// DeleteData builds and executes a parameterised DELETE with an
// optional WHERE clause.
func (m *Manager) DeleteData(ctx context.Context, connectionId, tableName, whereClause string, whereParams []interface{}) (int, error) {
	start := time.Now()
	m.totalQueries.Add(1)

	pool, err := m.get(connectionId)
	if err != nil {
		m.totalErrors.Add(1)
		return 0, err
	}

	query := "DELETE FROM " + tableName
	if whereClause != "" {
		query += " WHERE " + m.renumberWhere(pool.config, whereClause, 0)
	}

	return m.execUpdate(ctx, pool, connectionId, query, normalizeParams(whereParams), start)
}

// ColumnDefinition describes one column of a generated DDL statement.
type ColumnDefinition struct {
	Name         string
	Type         string
	PrimaryKey   bool
	NotNull      bool
	DefaultValue interface{}
	HasDefault   bool
}

// renderColumn appends PRIMARY KEY, NOT NULL, and DEFAULT in that order
// when present.
func renderColumn(c ColumnDefinition) string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteString(" ")
	b.WriteString(c.Type)
	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	if c.NotNull {
		b.WriteString(" NOT NULL")
	}
	if c.HasDefault {
		fmt.Fprintf(&b, " DEFAULT %v", c.DefaultValue)
	}
	return b.String()
}

// CreateTable generates and executes a CREATE TABLE statement from
// structured column definitions.
func (m *Manager) CreateTable(ctx context.Context, connectionId, tableName string, columns []ColumnDefinition) error {
	start := time.Now()
	m.totalQueries.Add(1)

	pool, err := m.get(connectionId)
	if err != nil {
		m.totalErrors.Add(1)
		return err
	}
	if len(columns) == 0 {
		m.totalErrors.Add(1)
		return fmt.Errorf("Columns for table creation cannot be empty.")
	}

	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = renderColumn(c)
	}
	query := fmt.Sprintf("CREATE TABLE %s (%s)", tableName, strings.Join(defs, ", "))

	_, err = m.execUpdate(ctx, pool, connectionId, query, nil, start)
	return err
}

// DropTable generates and executes a DROP TABLE statement.
func (m *Manager) DropTable(ctx context.Context, connectionId, tableName string) error {
	start := time.Now()
	m.totalQueries.Add(1)

	pool, err := m.get(connectionId)
	if err != nil {
		m.totalErrors.Add(1)
		return err
	}

	_, err = m.execUpdate(ctx, pool, connectionId, "DROP TABLE "+tableName, nil, start)
	return err
}

// AddColumn generates and executes ALTER TABLE ... ADD COLUMN.
func (m *Manager) AddColumn(ctx context.Context, connectionId, tableName string, column ColumnDefinition) error {
	start := time.Now()
	m.totalQueries.Add(1)

	pool, err := m.get(connectionId)
	if err != nil {
		m.totalErrors.Add(1)
		return err
	}

	def := ColumnDefinition{
		Name:         column.Name,
		Type:         column.Type,
		NotNull:      column.NotNull,
		DefaultValue: column.DefaultValue,
		HasDefault:   column.HasDefault,
	}
	query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", tableName, renderColumn(def))

	_, err = m.execUpdate(ctx, pool, connectionId, query, nil, start)
	return err
}

// DropColumn generates and executes ALTER TABLE ... DROP COLUMN.
func (m *Manager) DropColumn(ctx context.Context, connectionId, tableName, columnName string) error {
	start := time.Now()
	m.totalQueries.Add(1)

	pool, err := m.get(connectionId)
	if err != nil {
		m.totalErrors.Add(1)
		return err
	}

	query := fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", tableName, columnName)
	_, err = m.execUpdate(ctx, pool, connectionId, query, nil, start)
	return err
}

// Metrics returns process-lifetime counters and per-pool statistics.
func (m *Manager) Metrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	connections := make(map[string]interface{})
	active := 0
	for id, pool := range m.pools {
		if pool == nil {
			continue
		}
		active++
		stats := pool.db.Stats()
		connections[id] = map[string]interface{}{
			"activeConnections": stats.InUse,
			"idleConnections":   stats.Idle,
			"totalConnections":  stats.OpenConnections,
		}
	}

	return map[string]interface{}{
		"totalQueries":      m.totalQueries.Load(),
		"totalErrors":       m.totalErrors.Load(),
		"activeConnections": active,
		"connections":       connections,
	}
}

// Close shuts down every pool and clears the mapping.
func (m *Manager) Close() {
	m.mu.Lock()
	pools := m.pools
	m.pools = make(map[string]*managedPool)
	m.mu.Unlock()

	for _, pool := range pools {
		if pool == nil {
			continue
		}
		pool.closed.Store(true)
		_ = pool.db.Close()
	}
	m.logger.Info("connection manager shutdown complete")
}

// --- execution helpers ---

// rowQuery reports whether a statement produces a result set. The set
// of leading keywords replaces JDBC's execute() boolean dispatch.
func rowQuery(query string) bool {
	fields := strings.Fields(strings.ToUpper(query))
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "SELECT", "WITH", "PRAGMA", "SHOW", "EXPLAIN", "DESCRIBE", "VALUES":
		return true
	}
	return false
}

func runStatement(ctx context.Context, db *sql.DB, query string, params []interface{}, limit int) (QueryResult, error) {
	if rowQuery(query) {
		rows, err := db.QueryContext(ctx, query, params...)
		if err != nil {
			return QueryResult{}, err
		}
		defer rows.Close()
		return buildQueryResult(rows, limit)
	}

	res, err := db.ExecContext(ctx, query, params...)
	if err != nil {
		return QueryResult{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		affected = 0
	}
	return UpdateResult(int(affected)), nil
}

func runStatementTx(ctx context.Context, tx *sql.Tx, query string, params []interface{}, limit int) (QueryResult, error) {
	if rowQuery(query) {
		rows, err := tx.QueryContext(ctx, query, params...)
		if err != nil {
			return QueryResult{}, err
		}
		defer rows.Close()
		return buildQueryResult(rows, limit)
	}

	res, err := tx.ExecContext(ctx, query, params...)
	if err != nil {
		return QueryResult{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		affected = 0
	}
	return UpdateResult(int(affected)), nil
}

// execUpdate executes a generated statement and logs the outcome. The
// caller has already incremented totalQueries.
func (m *Manager) execUpdate(ctx context.Context, pool *managedPool, connectionId, query string, params []interface{}, start time.Time) (int, error) {
	res, err := pool.db.ExecContext(ctx, query, params...)
	if err != nil {
		m.totalErrors.Add(1)
		m.logQueryError(connectionId, query, start, err)
		return 0, m.wrapError(pool, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		affected = 0
	}
	m.logQuerySuccess(connectionId, query, start, int(affected))
	return int(affected), nil
}

// validateQuery rejects empty statements and logs a soft warning for
// hazardous keywords. Detection is logging only; it never blocks the
// dedicated DDL tools.
func (m *Manager) validateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("Query cannot be null or empty")
	}

	upper := strings.ToUpper(query)
	if strings.Contains(upper, "DROP ") || strings.Contains(upper, "TRUNCATE ") ||
		strings.Contains(upper, "ALTER ") || strings.Contains(upper, "CREATE ") {
		m.logger.Warn("potentially dangerous SQL operation detected", zap.String("query", query))
	}
	return nil
}

// placeholder renders the n-th bind marker for the dialect.
func (m *Manager) placeholder(cfg Config, n int) string {
	if cfg.Type() == "postgresql" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// renumberWhere shifts "?" markers in a client-supplied WHERE clause to
// "$n" markers for PostgreSQL, continuing after offset already-bound
// parameters. Other dialects pass through unchanged.
func (m *Manager) renumberWhere(cfg Config, whereClause string, offset int) string {
	if cfg.Type() != "postgresql" {
		return whereClause
	}
	var b strings.Builder
	n := offset
	for _, r := range whereClause {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// wrapError re-raises a driver failure as the driver-agnostic condition
// the tool surface promises.
func (m *Manager) wrapError(pool *managedPool, cause error) error {
	return fmt.Errorf("Database operation failed for %s database (connection: %s): %w",
		pool.config.Type(), pool.id, cause)
}

func resultCount(r QueryResult) int {
	if r.RowCount > 0 {
		return r.RowCount
	}
	return r.AffectedRows
}

func (m *Manager) logQuerySuccess(connectionId, query string, start time.Time, count int) {
	m.logger.Debug("query executed successfully",
		zap.String("connectionId", connectionId),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		zap.Int("resultCount", count),
		zap.String("query", truncateQuery(query)),
	)
}

func (m *Manager) logQueryError(connectionId, query string, start time.Time, err error) {
	m.logger.Error("query execution failed",
		zap.String("connectionId", connectionId),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		zap.String("error", err.Error()),
		zap.String("query", truncateQuery(query)),
	)
}

func (m *Manager) logTransactionError(connectionId string, queryCount int, start time.Time, err error) {
	m.logger.Error("transaction execution failed",
		zap.String("connectionId", connectionId),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		zap.Int("queryCount", queryCount),
		zap.String("error", err.Error()),
	)
}

// truncateQuery caps logged query text at 100 characters.
func truncateQuery(query string) string {
	if len(query) > 100 {
		return query[:100] + "..."
	}
	return query
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
