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

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/anvil/pkg/mcp/protocol"
	"github.com/teradata-labs/anvil/pkg/tools"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	registry := tools.NewRegistry()

	echo := tools.Tool{
		Name:        "echo",
		Description: "Echoes the message argument",
		InputSchema: map[string]interface{}{
			"$schema": "http://json-schema.org/draft-07/schema#",
			"type":    "object",
			"properties": map[string]interface{}{
				"message": map[string]interface{}{"type": "string", "minLength": 1},
			},
			"required": []interface{}{"message"},
		},
		Handler: func(_ context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
			msg, _ := args["message"].(string)
			return protocol.NewTextResult(msg), nil
		},
	}
	wrapped, err := tools.Wrap(echo, nil)
	require.NoError(t, err)
	require.NoError(t, registry.Register(wrapped))

	failing := tools.Tool{
		Name:        "always_fails",
		Description: "Fails unconditionally",
		InputSchema: map[string]interface{}{"type": "object"},
		Handler: func(context.Context, map[string]interface{}) (*protocol.CallToolResult, error) {
			return nil, fmt.Errorf("boom")
		},
	}
	wrapped, err = tools.Wrap(failing, nil)
	require.NoError(t, err)
	require.NoError(t, registry.Register(wrapped))

	return New("anvil-mcp", "1.0.0", registry, nil)
}

func handle(t *testing.T, s *Server, raw string) map[string]interface{} {
	t.Helper()
	out := s.HandleMessage(context.Background(), []byte(raw))
	require.NotEmpty(t, out)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "2.0", decoded["jsonrpc"])
	return decoded
}

func envelope(t *testing.T, decoded map[string]interface{}) (text string, isError bool) {
	t.Helper()
	result, ok := decoded["result"].(map[string]interface{})
	require.True(t, ok, "response must carry a result: %v", decoded)

	content, ok := result["content"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, content)

	part := content[0].(map[string]interface{})
	assert.Equal(t, "text", part["type"])

	isError, _ = result["isError"].(bool)
	return part["text"].(string), isError
}

func TestServer_Initialize(t *testing.T) {
	s := testServer(t)
	decoded := handle(t, s, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)

	assert.Equal(t, float64(1), decoded["id"])

	result := decoded["result"].(map[string]interface{})
	assert.Equal(t, "2024-11-05", result["protocolVersion"])

	caps := result["capabilities"].(map[string]interface{})
	assert.Contains(t, caps, "tools")

	info := result["serverInfo"].(map[string]interface{})
	assert.Equal(t, "anvil-mcp", info["name"])
	assert.Equal(t, "1.0.0", info["version"])
}

func TestServer_ToolsList(t *testing.T) {
	s := testServer(t)
	decoded := handle(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)

	assert.Equal(t, float64(2), decoded["id"])

	result := decoded["result"].(map[string]interface{})
	list := result["tools"].([]interface{})
	require.Len(t, list, 2)

	// Registration order is preserved.
	first := list[0].(map[string]interface{})
	assert.Equal(t, "echo", first["name"])

	schema := first["inputSchema"].(map[string]interface{})
	props := schema["properties"].(map[string]interface{})
	assert.Contains(t, props, "message")
}

func TestServer_ToolsCall(t *testing.T) {
	s := testServer(t)
	decoded := handle(t, s, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"echo","arguments":{"message":"hi"}}}`)

	text, isError := envelope(t, decoded)
	assert.False(t, isError)
	assert.Equal(t, "hi", text)
}

func TestServer_ToolsCall_ValidationFailure(t *testing.T) {
	s := testServer(t)
	decoded := handle(t, s, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"echo","arguments":{"message":""}}}`)

	text, isError := envelope(t, decoded)
	assert.True(t, isError)
	assert.True(t, strings.HasPrefix(text, "Error: Input validation failed:"), text)
	assert.Contains(t, text, "$.message")
}

func TestServer_ToolsCall_HandlerFailure(t *testing.T) {
	s := testServer(t)
	decoded := handle(t, s, `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"always_fails"}}`)

	text, isError := envelope(t, decoded)
	assert.True(t, isError)
	assert.Equal(t, "Error: boom", text)
}

func TestServer_ToolsCall_UnknownTool(t *testing.T) {
	s := testServer(t)
	decoded := handle(t, s, `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"nope"}}`)

	text, isError := envelope(t, decoded)
	assert.True(t, isError)
	assert.Equal(t, "Error: Tool not found: nope", text)
}

func TestServer_UnknownMethod(t *testing.T) {
	s := testServer(t)
	decoded := handle(t, s, `{"jsonrpc":"2.0","id":7,"method":"resources/list"}`)

	rpcErr := decoded["error"].(map[string]interface{})
	assert.Equal(t, float64(-32000), rpcErr["code"])
	assert.Equal(t, "Unknown method: resources/list", rpcErr["message"])
	assert.Equal(t, float64(7), decoded["id"])
}

func TestServer_InvalidJSON(t *testing.T) {
	s := testServer(t)
	out := s.HandleMessage(context.Background(), []byte(`{not json`))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))

	rpcErr := decoded["error"].(map[string]interface{})
	assert.Equal(t, float64(-32000), rpcErr["code"])
	assert.Equal(t, "Invalid JSON message", rpcErr["message"])
	assert.NotContains(t, decoded, "id")
}

func TestServer_IDParity(t *testing.T) {
	s := testServer(t)

	t.Run("string id", func(t *testing.T) {
		decoded := handle(t, s, `{"jsonrpc":"2.0","id":"req-9","method":"initialize"}`)
		assert.Equal(t, "req-9", decoded["id"])
	})

	t.Run("numeric id", func(t *testing.T) {
		decoded := handle(t, s, `{"jsonrpc":"2.0","id":9,"method":"initialize"}`)
		assert.Equal(t, float64(9), decoded["id"])
	})

	t.Run("absent id omitted", func(t *testing.T) {
		out := s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"initialize"}`))
		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(out, &decoded))
		assert.NotContains(t, decoded, "id")
		assert.Contains(t, decoded, "result")
	})
}

func TestServer_NotificationsAreSilent(t *testing.T) {
	s := testServer(t)
	out := s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	assert.Nil(t, out)
}
