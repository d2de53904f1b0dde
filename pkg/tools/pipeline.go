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
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/teradata-labs/anvil/pkg/mcp/protocol"
)

// Wrap builds the dispatch pipeline around a tool handler: schema
// validation, timing, structured logging, and conversion of any
// failure into an error envelope. The input schema is compiled exactly
// once, here; the hot path never reparses it.
//
// This is the single choke-point where internal failures become error
// envelopes. Validation failures never reach the inner handler.
func Wrap(t Tool, logger *zap.Logger) (Tool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var schema *gojsonschema.Schema
	if len(t.InputSchema) > 0 {
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(t.InputSchema))
		if err != nil {
			return Tool{}, fmt.Errorf("compile input schema for tool '%s': %w", t.Name, err)
		}
		schema = compiled
	}

	inner := t.Handler
	name := t.Name

	t.Handler = func(ctx context.Context, args map[string]interface{}) (result *protocol.CallToolResult, _ error) {
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				logger.Error("tool execution failed",
					zap.String("tool", name),
					zap.Int64("duration_ms", time.Since(start).Milliseconds()),
					zap.Any("panic", r),
				)
				result = protocol.NewErrorResult(fmt.Sprintf("%v", r))
			}
		}()

		if args == nil {
			args = map[string]interface{}{}
		}

		if schema != nil {
			if msg, ok := validate(schema, args); !ok {
				logger.Debug("tool input validation failed",
					zap.String("tool", name),
					zap.String("error", msg),
				)
				return protocol.NewErrorResult(msg), nil
			}
		}

		res, err := inner(ctx, args)
		duration := time.Since(start).Milliseconds()

		if err != nil {
			logger.Error("tool execution failed",
				zap.String("tool", name),
				zap.Int64("duration_ms", duration),
				zap.Error(err),
			)
			return protocol.NewErrorResult(err.Error()), nil
		}

		logger.Debug("tool executed",
			zap.String("tool", name),
			zap.Int64("duration_ms", duration),
			zap.Bool("success", true),
		)
		return res, nil
	}

	return t, nil
}

// validate runs the compiled schema against the arguments. On failure
// it returns the aggregated message
// "Input validation failed: $.<field>: <reason>, ...".
func validate(schema *gojsonschema.Schema, args map[string]interface{}) (string, bool) {
	result, err := schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return "Input validation failed: " + err.Error(), false
	}
	if result.Valid() {
		return "", true
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		msgs = append(msgs, fieldPath(verr.Field())+": "+verr.Description())
	}
	return "Input validation failed: " + strings.Join(msgs, ", "), false
}

// fieldPath renders a gojsonschema field as a JSON-Pointer-style path
// rooted at "$".
func fieldPath(field string) string {
	if field == "" || field == "(root)" {
		return "$"
	}
	return "$." + field
}
