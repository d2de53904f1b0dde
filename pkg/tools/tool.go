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

// Package tools holds the tool descriptor, the name-keyed registry, and
// the dispatch pipeline that wraps every handler with schema validation
// and uniform error conversion.
package tools

import (
	"context"

	"github.com/teradata-labs/anvil/pkg/mcp/protocol"
)

// Handler is the inner callable of a tool. It receives arguments that
// already passed schema validation and returns a response envelope.
// Handlers signal failure by returning an error; the dispatch pipeline
// converts it to an error envelope. Handlers never build error
// envelopes themselves except for domain errors they want to message
// specially.
type Handler func(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error)

// Tool is an immutable tool descriptor: constructed at module load,
// owned by the registry for the lifetime of the process.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
	Handler     Handler
}

// Definition returns the wire-level descriptor advertised by tools/list.
func (t Tool) Definition() protocol.Tool {
	return protocol.Tool{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: t.InputSchema,
	}
}
