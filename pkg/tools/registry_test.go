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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/anvil/pkg/mcp/protocol"
)

func noopTool(name string) Tool {
	return Tool{
		Name:        name,
		Description: "test tool " + name,
		InputSchema: map[string]interface{}{"type": "object"},
		Handler: func(context.Context, map[string]interface{}) (*protocol.CallToolResult, error) {
			return protocol.NewTextResult("ok"), nil
		},
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(noopTool("a")))

	tool, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", tool.Name)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(noopTool("a")))

	err := r.Register(noopTool("a"))
	assert.ErrorContains(t, err, "already registered")
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_RejectsEmptyName(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(noopTool("")))
}

func TestRegistry_ListPreservesRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	names := []string{"zeta", "alpha", "mid"}
	for _, name := range names {
		require.NoError(t, r.Register(noopTool(name)))
	}

	defs := r.List()
	require.Len(t, defs, len(names))
	for i, name := range names {
		assert.Equal(t, name, defs[i].Name)
	}
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(noopTool("a")))
	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.List())
}
