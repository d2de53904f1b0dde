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

// JSON Schema (Draft-07) documents for the database tools. These are
// the wire contract; the dispatch pipeline compiles each one once at
// registration.

const schemaDraft = "http://json-schema.org/draft-07/schema#"

// connectionIdPattern constrains client-supplied connection ids.
const connectionIdPattern = "^[A-Za-z0-9_-]+$"

func connectionIdProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
		"pattern":     connectionIdPattern,
	}
}

func connectDatabaseSchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema": schemaDraft,
		"type":    "object",
		"properties": map[string]interface{}{
			"connectionId": connectionIdProperty("Unique identifier for this database connection"),
			"config": map[string]interface{}{
				"type":        "object",
				"description": "Database configuration",
				"properties": map[string]interface{}{
					"type": map[string]interface{}{
						"type":        "string",
						"enum":        []interface{}{"sqlite", "mysql", "postgresql"},
						"description": "Database type",
					},
					"file": map[string]interface{}{
						"type":        "string",
						"description": "SQLite database file path",
					},
					"host": map[string]interface{}{
						"type":        "string",
						"description": "Database host",
						"default":     "localhost",
					},
					"port": map[string]interface{}{
						"type":        "integer",
						"description": "Database port",
					},
					"database": map[string]interface{}{
						"type":        "string",
						"description": "Database name",
					},
					"username": map[string]interface{}{
						"type":        "string",
						"description": "Database username",
					},
					"password": map[string]interface{}{
						"type":        "string",
						"description": "Database password",
					},
				},
				"required": []interface{}{"type"},
			},
		},
		"required": []interface{}{"connectionId", "config"},
	}
}

func connectionIdOnlySchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"$schema": schemaDraft,
		"type":    "object",
		"properties": map[string]interface{}{
			"connectionId": connectionIdProperty(description),
		},
		"required": []interface{}{"connectionId"},
	}
}

func executeQuerySchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema": schemaDraft,
		"type":    "object",
		"properties": map[string]interface{}{
			"connectionId": connectionIdProperty("Database connection identifier"),
			"query": map[string]interface{}{
				"type":        "string",
				"description": "SQL query to execute",
				"minLength":   1,
			},
			"params": map[string]interface{}{
				"type":        "array",
				"description": "Query parameters for prepared statements",
			},
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum rows to return",
				"minimum":     1,
				"maximum":     10000,
				"default":     1000,
			},
		},
		"required": []interface{}{"connectionId", "query"},
	}
}

func executeTransactionSchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema": schemaDraft,
		"type":    "object",
		"properties": map[string]interface{}{
			"connectionId": connectionIdProperty("Database connection identifier"),
			"queries": map[string]interface{}{
				"type":        "array",
				"description": "Array of queries to execute in transaction",
				"minItems":    1,
				"maxItems":    100,
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"query": map[string]interface{}{
							"type":        "string",
							"description": "SQL query",
							"minLength":   1,
						},
						"params": map[string]interface{}{
							"type":        "array",
							"description": "Query parameters",
						},
					},
					"required": []interface{}{"query"},
				},
			},
		},
		"required": []interface{}{"connectionId", "queries"},
	}
}

func getTableSchemaSchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema": schemaDraft,
		"type":    "object",
		"properties": map[string]interface{}{
			"connectionId": connectionIdProperty("Database connection identifier"),
			"tableName": map[string]interface{}{
				"type":        "string",
				"description": "Name of the table to describe",
				"minLength":   1,
			},
		},
		"required": []interface{}{"connectionId", "tableName"},
	}
}

func getMetricsSchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema":     schemaDraft,
		"type":        "object",
		"description": "Get database performance metrics",
		"properties":  map[string]interface{}{},
	}
}

func insertDataSchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema": schemaDraft,
		"type":    "object",
		"properties": map[string]interface{}{
			"connectionId": connectionIdProperty("Database connection identifier"),
			"tableName": map[string]interface{}{
				"type":        "string",
				"description": "Table to insert into",
				"minLength":   1,
			},
			"data": map[string]interface{}{
				"type":        "object",
				"description": "Column-to-value map of the row to insert",
			},
		},
		"required": []interface{}{"connectionId", "tableName", "data"},
	}
}

func updateDataSchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema": schemaDraft,
		"type":    "object",
		"properties": map[string]interface{}{
			"connectionId": connectionIdProperty("Database connection identifier"),
			"tableName": map[string]interface{}{
				"type":        "string",
				"description": "Table to update",
				"minLength":   1,
			},
			"data": map[string]interface{}{
				"type":        "object",
				"description": "Column-to-value map of the new values",
			},
			"where": map[string]interface{}{
				"type":        "string",
				"description": "SQL WHERE clause filtering the rows to update (without the WHERE keyword)",
			},
			"params": map[string]interface{}{
				"type":        "array",
				"description": "Parameters for the WHERE clause",
			},
		},
		"required": []interface{}{"connectionId", "tableName", "data"},
	}
}

func deleteDataSchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema": schemaDraft,
		"type":    "object",
		"properties": map[string]interface{}{
			"connectionId": connectionIdProperty("Database connection identifier"),
			"tableName": map[string]interface{}{
				"type":        "string",
				"description": "Table to delete from",
				"minLength":   1,
			},
			"where": map[string]interface{}{
				"type":        "string",
				"description": "SQL WHERE clause filtering the rows to delete (without the WHERE keyword)",
			},
			"params": map[string]interface{}{
				"type":        "array",
				"description": "Parameters for the WHERE clause",
			},
		},
		"required": []interface{}{"connectionId", "tableName"},
	}
}

func columnDefinitionSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Column name",
				"minLength":   1,
			},
			"type": map[string]interface{}{
				"type":        "string",
				"description": "SQL column type",
				"minLength":   1,
			},
			"primaryKey": map[string]interface{}{
				"type":        "boolean",
				"description": "Whether this column is the primary key",
			},
			"notNull": map[string]interface{}{
				"type":        "boolean",
				"description": "Whether this column is NOT NULL",
			},
			"defaultValue": map[string]interface{}{
				"description": "Default value literal",
			},
		},
		"required": []interface{}{"name", "type"},
	}
}

func createTableSchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema": schemaDraft,
		"type":    "object",
		"properties": map[string]interface{}{
			"connectionId": connectionIdProperty("Database connection identifier"),
			"tableName": map[string]interface{}{
				"type":        "string",
				"description": "Name of the table to create",
				"minLength":   1,
			},
			"columns": map[string]interface{}{
				"type":        "array",
				"description": "Column definitions",
				"minItems":    1,
				"items":       columnDefinitionSchema(),
			},
		},
		"required": []interface{}{"connectionId", "tableName", "columns"},
	}
}

func dropTableSchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema": schemaDraft,
		"type":    "object",
		"properties": map[string]interface{}{
			"connectionId": connectionIdProperty("Database connection identifier"),
			"tableName": map[string]interface{}{
				"type":        "string",
				"description": "Name of the table to drop",
				"minLength":   1,
			},
		},
		"required": []interface{}{"connectionId", "tableName"},
	}
}

func alterTableSchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema": schemaDraft,
		"type":    "object",
		"properties": map[string]interface{}{
			"connectionId": connectionIdProperty("Database connection identifier"),
			"tableName": map[string]interface{}{
				"type":        "string",
				"description": "Name of the table to alter",
				"minLength":   1,
			},
			"action": map[string]interface{}{
				"type":        "string",
				"enum":        []interface{}{"add_column", "drop_column"},
				"description": "Alteration to perform",
			},
			"columnDefinition": columnDefinitionSchema(),
			"columnName": map[string]interface{}{
				"type":        "string",
				"description": "Column to drop",
				"minLength":   1,
			},
		},
		"required": []interface{}{"connectionId", "tableName", "action"},
		"oneOf": []interface{}{
			map[string]interface{}{
				"properties": map[string]interface{}{
					"action": map[string]interface{}{"const": "add_column"},
				},
				"required": []interface{}{"columnDefinition"},
			},
			map[string]interface{}{
				"properties": map[string]interface{}{
					"action": map[string]interface{}{"const": "drop_column"},
				},
				"required": []interface{}{"columnName"},
			},
		},
	}
}
