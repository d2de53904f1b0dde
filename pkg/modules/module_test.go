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

package modules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/anvil/pkg/mcp/protocol"
	"github.com/teradata-labs/anvil/pkg/tools"
)

type fakeModule struct {
	cfg       Config
	toolNames []string
	loaded    int
	unloaded  int
}

func (m *fakeModule) Config() Config { return m.cfg }

func (m *fakeModule) Tools() []tools.Tool {
	out := make([]tools.Tool, 0, len(m.toolNames))
	for _, name := range m.toolNames {
		out = append(out, tools.Tool{
			Name:        name,
			Description: "test tool",
			InputSchema: map[string]interface{}{"type": "object"},
			Handler: func(context.Context, map[string]interface{}) (*protocol.CallToolResult, error) {
				return protocol.NewTextResult("ok"), nil
			},
		})
	}
	return out
}

func (m *fakeModule) OnLoad() error   { m.loaded++; return nil }
func (m *fakeModule) OnUnload() error { m.unloaded++; return nil }

func TestHost_RegisterRunsLifecycleAndRegistersTools(t *testing.T) {
	registry := tools.NewRegistry()
	host := NewHost(registry, nil)

	mod := &fakeModule{
		cfg:       Config{Name: "fake-module", Version: "1.0.0"},
		toolNames: []string{"one", "two"},
	}
	require.NoError(t, host.Register(mod))

	assert.Equal(t, 1, mod.loaded)
	assert.Equal(t, 2, registry.Len())

	_, ok := registry.Get("one")
	assert.True(t, ok)
}

func TestHost_RegisterTwiceFails(t *testing.T) {
	registry := tools.NewRegistry()
	host := NewHost(registry, nil)

	mod := &fakeModule{cfg: Config{Name: "fake-module", Version: "1.0.0"}}
	require.NoError(t, host.Register(mod))

	err := host.Register(mod)
	assert.ErrorContains(t, err, "already registered")
}

func TestHost_CollidingToolsRegisterNothing(t *testing.T) {
	registry := tools.NewRegistry()
	host := NewHost(registry, nil)

	first := &fakeModule{
		cfg:       Config{Name: "first", Version: "1.0.0"},
		toolNames: []string{"shared"},
	}
	require.NoError(t, host.Register(first))

	second := &fakeModule{
		cfg:       Config{Name: "second", Version: "1.0.0"},
		toolNames: []string{"fresh", "shared"},
	}
	err := host.Register(second)
	require.Error(t, err)

	// Atomicity: the non-colliding tool of the failed module must not
	// have leaked into the registry.
	_, ok := registry.Get("fresh")
	assert.False(t, ok)
	assert.Equal(t, 1, registry.Len())
}

func TestHost_ShutdownUnloadsAndClearsRegistry(t *testing.T) {
	registry := tools.NewRegistry()
	host := NewHost(registry, nil)

	mod := &fakeModule{
		cfg:       Config{Name: "fake-module", Version: "1.0.0"},
		toolNames: []string{"one"},
	}
	require.NoError(t, host.Register(mod))

	host.Shutdown()
	assert.Equal(t, 1, mod.unloaded)
	assert.Equal(t, 0, registry.Len())
	assert.Empty(t, host.Modules())
}

func TestHost_WrappedToolsValidateInput(t *testing.T) {
	registry := tools.NewRegistry()
	host := NewHost(registry, nil)

	mod := &strictModule{}
	require.NoError(t, host.Register(mod))

	tool, ok := registry.Get("strict")
	require.True(t, ok)

	res, err := tool.Handler(context.Background(), map[string]interface{}{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "Input validation failed")
}

type strictModule struct{}

func (strictModule) Config() Config {
	return Config{Name: "strict-module", Version: "1.0.0"}
}

func (strictModule) Tools() []tools.Tool {
	return []tools.Tool{{
		Name:        "strict",
		Description: "requires a name",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{"type": "string"},
			},
			"required": []interface{}{"name"},
		},
		Handler: func(context.Context, map[string]interface{}) (*protocol.CallToolResult, error) {
			return protocol.NewTextResult("ok"), nil
		},
	}}
}
