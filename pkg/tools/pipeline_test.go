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

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/anvil/pkg/mcp/protocol"
)

func querySchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"properties": map[string]interface{}{
			"connectionId": map[string]interface{}{
				"type":    "string",
				"pattern": "^[A-Za-z0-9_-]+$",
			},
			"query": map[string]interface{}{
				"type":      "string",
				"minLength": 1,
			},
			"limit": map[string]interface{}{
				"type":    "integer",
				"minimum": 1,
				"maximum": 10000,
			},
		},
		"required": []interface{}{"connectionId", "query"},
	}
}

func TestWrap_ValidArgumentsReachHandler(t *testing.T) {
	var received map[string]interface{}
	tool := Tool{
		Name:        "execute_query",
		InputSchema: querySchema(),
		Handler: func(_ context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
			received = args
			return protocol.NewTextResult("done"), nil
		},
	}

	wrapped, err := Wrap(tool, nil)
	require.NoError(t, err)

	res, err := wrapped.Handler(context.Background(), map[string]interface{}{
		"connectionId": "c1",
		"query":        "SELECT 1",
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "done", res.Content[0].Text)
	assert.Equal(t, "SELECT 1", received["query"])
}

func TestWrap_ValidationIsTerminal(t *testing.T) {
	invoked := false
	tool := Tool{
		Name:        "execute_query",
		InputSchema: querySchema(),
		Handler: func(context.Context, map[string]interface{}) (*protocol.CallToolResult, error) {
			invoked = true
			return protocol.NewTextResult("done"), nil
		},
	}

	wrapped, err := Wrap(tool, nil)
	require.NoError(t, err)

	tests := []struct {
		name     string
		args     map[string]interface{}
		wantPath string
	}{
		{
			name:     "empty query",
			args:     map[string]interface{}{"connectionId": "c1", "query": ""},
			wantPath: "$.query",
		},
		{
			name:     "missing required field",
			args:     map[string]interface{}{"connectionId": "c1"},
			wantPath: "query",
		},
		{
			name:     "bad connection id",
			args:     map[string]interface{}{"connectionId": "no spaces!", "query": "SELECT 1"},
			wantPath: "$.connectionId",
		},
		{
			name:     "limit out of range",
			args:     map[string]interface{}{"connectionId": "c1", "query": "SELECT 1", "limit": float64(99999)},
			wantPath: "$.limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoked = false
			res, err := wrapped.Handler(context.Background(), tt.args)
			require.NoError(t, err)

			assert.True(t, res.IsError)
			text := res.Content[0].Text
			assert.True(t, strings.HasPrefix(text, "Error: Input validation failed: "), text)
			assert.Contains(t, text, tt.wantPath)
			assert.False(t, invoked, "inner handler must not run on validation failure")
		})
	}
}

func TestWrap_HandlerErrorBecomesErrorEnvelope(t *testing.T) {
	tool := Tool{
		Name:        "failing",
		InputSchema: map[string]interface{}{"type": "object"},
		Handler: func(context.Context, map[string]interface{}) (*protocol.CallToolResult, error) {
			return nil, fmt.Errorf("database exploded")
		},
	}

	wrapped, err := Wrap(tool, nil)
	require.NoError(t, err)

	res, err := wrapped.Handler(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "Error: database exploded", res.Content[0].Text)
}

func TestWrap_PanicBecomesErrorEnvelope(t *testing.T) {
	tool := Tool{
		Name:        "panicky",
		InputSchema: map[string]interface{}{"type": "object"},
		Handler: func(context.Context, map[string]interface{}) (*protocol.CallToolResult, error) {
			panic("unexpected state")
		},
	}

	wrapped, err := Wrap(tool, nil)
	require.NoError(t, err)

	res, err := wrapped.Handler(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "unexpected state")
}

func TestWrap_InvalidSchemaFailsAtRegistration(t *testing.T) {
	tool := Tool{
		Name: "broken",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{"x": map[string]interface{}{"pattern": "["}},
		},
		Handler: func(context.Context, map[string]interface{}) (*protocol.CallToolResult, error) {
			return protocol.NewTextResult("ok"), nil
		},
	}

	_, err := Wrap(tool, nil)
	assert.Error(t, err)
}
