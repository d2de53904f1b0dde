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

// Package server implements the JSON-RPC kernel of the anvil MCP tool
// server: request parsing, method routing for initialize, tools/list,
// and tools/call, and response formatting with verbatim id echo.
//
// Failures split into two levels by design: parse and routing failures
// become JSON-RPC error objects; failures inside tool dispatch travel
// inside result as error envelopes.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teradata-labs/anvil/pkg/mcp/protocol"
	"github.com/teradata-labs/anvil/pkg/mcp/transport"
	"github.com/teradata-labs/anvil/pkg/tools"
)

// Server routes JSON-RPC messages to the tool registry.
type Server struct {
	info     protocol.Implementation
	registry *tools.Registry
	logger   *zap.Logger
}

// New creates a server with the given identity and tool registry.
func New(name, version string, registry *tools.Registry, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		info:     protocol.Implementation{Name: name, Version: version},
		registry: registry,
		logger:   logger,
	}
}

// Name returns the server name advertised during initialize.
func (s *Server) Name() string { return s.info.Name }

// Version returns the server version advertised during initialize.
func (s *Server) Version() string { return s.info.Version }

// Connect attaches the server to a transport and starts it.
func (s *Server) Connect(ctx context.Context, t transport.Transport) error {
	t.SetHandler(s.HandleMessage)
	if err := t.Start(ctx); err != nil {
		return fmt.Errorf("start transport: %w", err)
	}
	s.logger.Info("server connected",
		zap.String("name", s.info.Name),
		zap.String("version", s.info.Version),
	)
	return nil
}

// HandleMessage processes a single JSON-RPC message and returns the
// response bytes. Every request produces exactly one response, except
// "notifications/*" methods, which return nil (no reply); the id is
// echoed verbatim and omitted when the request carried none.
func (s *Server) HandleMessage(ctx context.Context, msg []byte) []byte {
	var req protocol.Request
	if err := json.Unmarshal(msg, &req); err != nil {
		s.logger.Error("failed to parse message", zap.Error(err))
		return s.protocolError(nil, "Invalid JSON message")
	}

	s.logger.Debug("handling request",
		zap.String("method", req.Method),
		zap.String("id", req.ID.String()),
	)
	start := time.Now()

	var resp []byte
	switch req.Method {
	case "initialize":
		resp = s.handleInitialize(req.ID)
	case "tools/list":
		resp = s.handleToolsList(req.ID)
	case "tools/call":
		resp = s.handleToolsCall(ctx, req.ID, req.Params)
	default:
		if strings.HasPrefix(req.Method, "notifications/") {
			// Client-side notifications carry no id and expect no reply.
			return nil
		}
		resp = s.protocolError(req.ID, "Unknown method: "+req.Method)
	}

	s.logger.Debug("request handled",
		zap.String("method", req.Method),
		zap.Duration("duration", time.Since(start)),
	)
	return resp
}

func (s *Server) handleInitialize(id *protocol.RequestID) []byte {
	result := protocol.InitializeResult{
		ProtocolVersion: protocol.ProtocolVersion,
		Capabilities: protocol.ServerCapabilities{
			Tools: &protocol.ToolsCapability{},
		},
		ServerInfo: s.info,
	}
	return s.result(id, result)
}

func (s *Server) handleToolsList(id *protocol.RequestID) []byte {
	return s.result(id, protocol.ToolListResult{Tools: s.registry.List()})
}

func (s *Server) handleToolsCall(ctx context.Context, id *protocol.RequestID, params json.RawMessage) []byte {
	var callParams protocol.CallToolParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &callParams); err != nil {
			return s.protocolError(id, fmt.Sprintf("Invalid tool call params: %v", err))
		}
	}

	tool, ok := s.registry.Get(callParams.Name)
	if !ok {
		return s.result(id, protocol.NewErrorResult("Tool not found: "+callParams.Name))
	}

	envelope, err := tool.Handler(ctx, callParams.Arguments)
	if err != nil {
		// The dispatch pipeline converts handler failures itself; an
		// error here means the pipeline machinery broke.
		s.logger.Error("tool dispatch failed",
			zap.String("tool", callParams.Name),
			zap.Error(err),
		)
		return s.result(id, protocol.NewErrorResult("Tool execution failed: "+err.Error()))
	}

	return s.result(id, envelope)
}

// result marshals a success response.
func (s *Server) result(id *protocol.RequestID, v interface{}) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to marshal result", zap.Error(err))
		return s.protocolError(id, "Internal server error")
	}
	resp := protocol.Response{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      id,
		Result:  raw,
	}
	out, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to marshal response", zap.Error(err))
		return s.protocolError(id, "Internal server error")
	}
	return out
}

// protocolError marshals a JSON-RPC error object with code -32000.
func (s *Server) protocolError(id *protocol.RequestID, message string) []byte {
	resp := protocol.Response{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      id,
		Error:   &protocol.Error{Code: protocol.ServerError, Message: message},
	}
	out, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to create error response", zap.Error(err))
		return []byte(`{"jsonrpc":"2.0","error":{"code":-32000,"message":"Failed to create error response"}}`)
	}
	return out
}
