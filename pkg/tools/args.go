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

package tools

import "fmt"

// Typed accessors for tool arguments. Arguments have already passed
// schema validation, so the missing/mistyped errors here only fire for
// fields the schema leaves open.

// StringArg extracts a required string field.
func StringArg(args map[string]interface{}, name string) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return "", fmt.Errorf("Required field '%s' is missing", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("Required field '%s' is not a string", name)
	}
	return s, nil
}

// OptionalString extracts an optional string field with a default.
func OptionalString(args map[string]interface{}, name, def string) string {
	if v, ok := args[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// OptionalInt extracts an optional integer field with a default. JSON
// numbers arrive as float64.
func OptionalInt(args map[string]interface{}, name string, def int) int {
	if v, ok := args[name]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// OptionalBool extracts an optional boolean field with a default.
func OptionalBool(args map[string]interface{}, name string, def bool) bool {
	if v, ok := args[name]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// ObjectArg extracts a required object field.
func ObjectArg(args map[string]interface{}, name string) (map[string]interface{}, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return nil, fmt.Errorf("Required field '%s' is not an object", name)
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("Required field '%s' is not an object", name)
	}
	return m, nil
}

// OptionalObject extracts an optional object field; nil when absent.
func OptionalObject(args map[string]interface{}, name string) map[string]interface{} {
	if v, ok := args[name]; ok {
		if m, ok := v.(map[string]interface{}); ok {
			return m
		}
	}
	return nil
}

// ArrayArg extracts a required array field.
func ArrayArg(args map[string]interface{}, name string) ([]interface{}, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return nil, fmt.Errorf("Required field '%s' is not an array", name)
	}
	a, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("Required field '%s' is not an array", name)
	}
	return a, nil
}

// OptionalArray extracts an optional array field; nil when absent.
func OptionalArray(args map[string]interface{}, name string) []interface{} {
	if v, ok := args[name]; ok {
		if a, ok := v.([]interface{}); ok {
			return a
		}
	}
	return nil
}
