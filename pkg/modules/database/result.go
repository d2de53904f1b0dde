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
	"database/sql"
	"fmt"
	"time"
)

// QueryResult is the materialised outcome of one statement. For
// SELECT-shaped statements AffectedRows is 0; for updates Columns and
// Rows are empty and RowCount is 0.
type QueryResult struct {
	RowCount     int                      `json:"rowCount"`
	Columns      []string                 `json:"columns"`
	Rows         []map[string]interface{} `json:"rows"`
	AffectedRows int                      `json:"affectedRows"`
}

// SelectResult builds a result for a row-returning statement.
func SelectResult(columns []string, rows []map[string]interface{}) QueryResult {
	return QueryResult{
		RowCount:     len(rows),
		Columns:      columns,
		Rows:         rows,
		AffectedRows: 0,
	}
}

// UpdateResult builds a result for a non-row-returning statement.
func UpdateResult(affectedRows int) QueryResult {
	return QueryResult{
		Columns:      []string{},
		Rows:         []map[string]interface{}{},
		AffectedRows: affectedRows,
	}
}

// buildQueryResult materialises at most limit rows. Column order is
// preserved as reported by the driver; row maps are keyed by column
// name.
func buildQueryResult(rows *sql.Rows, limit int) (QueryResult, error) {
	columns, err := rows.Columns()
	if err != nil {
		return QueryResult{}, fmt.Errorf("read columns: %w", err)
	}

	out := make([]map[string]interface{}, 0)
	values := make([]interface{}, len(columns))
	scanTargets := make([]interface{}, len(columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	for len(out) < limit && rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return QueryResult{}, fmt.Errorf("scan row: %w", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = renderValue(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return QueryResult{}, err
	}

	return SelectResult(columns, out), nil
}

// renderValue converts a driver value into its JSON form. Temporal
// values become ISO-8601 strings, byte slices become strings, NULL
// stays null, everything else keeps its native form.
func renderValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case []byte:
		return string(val)
	default:
		return val
	}
}

// normalizeParams converts JSON-decoded parameters into driver-friendly
// values, dispatching by type the way a typed parameter binder would:
// integral numbers bind as int64, everything else keeps its form.
func normalizeParams(params []interface{}) []interface{} {
	if params == nil {
		return nil
	}
	out := make([]interface{}, len(params))
	for i, p := range params {
		switch v := p.(type) {
		case float64:
			if v == float64(int64(v)) {
				out[i] = int64(v)
			} else {
				out[i] = v
			}
		default:
			out[i] = p
		}
	}
	return out
}
