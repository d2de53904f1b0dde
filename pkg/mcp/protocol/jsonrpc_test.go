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
package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		id       *RequestID
		expected string
	}{
		{
			name:     "string ID",
			id:       NewStringRequestID("test-123"),
			expected: `"test-123"`,
		},
		{
			name:     "number ID",
			id:       NewNumericRequestID(42),
			expected: `42`,
		},
		{
			name:     "nil ID",
			id:       nil,
			expected: `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.id)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestRequestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantStr *string
		wantNum *int64
		wantErr bool
	}{
		{
			name:    "string ID",
			input:   `"req-1"`,
			wantStr: stringPtr("req-1"),
		},
		{
			name:    "number ID",
			input:   `7`,
			wantNum: int64Ptr(7),
		},
		{
			name:    "invalid type",
			input:   `true`,
			wantErr: true,
		},
		{
			name:    "invalid JSON",
			input:   `{invalid}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id RequestID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantStr != nil {
				require.NotNil(t, id.Str)
				assert.Equal(t, *tt.wantStr, *id.Str)
			}
			if tt.wantNum != nil {
				require.NotNil(t, id.Num)
				assert.Equal(t, *tt.wantNum, *id.Num)
			}
		})
	}
}

func TestRequestID_RoundTrip(t *testing.T) {
	// A numeric id must survive parse+echo without becoming a string.
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`), &req))

	resp := Response{JSONRPC: JSONRPCVersion, ID: req.ID, Result: json.RawMessage(`{}`)}
	out, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"id":1`)
}

func TestResponse_OmitsAbsentID(t *testing.T) {
	resp := Response{JSONRPC: JSONRPCVersion, Result: json.RawMessage(`{}`)}
	out, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"id"`)
}

func TestError_ErrorString(t *testing.T) {
	e := &Error{Code: ServerError, Message: "Unknown method: nope"}
	assert.Equal(t, "JSON-RPC error -32000: Unknown method: nope", e.Error())
}

func stringPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64    { return &n }
