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

// Package transport moves framed JSON-RPC messages between the client
// and the server kernel. Only the stdio framing (one JSON value per
// line) is implemented; the kernel is transport-pluggable through the
// Transport interface.
package transport

import "context"

// Handler processes one incoming message and returns the response to
// write, or nil when no response should be sent.
type Handler func(ctx context.Context, message []byte) []byte

// Transport is the contract the server kernel attaches to.
//
// Implementations must invoke the handler concurrently (a slow handler
// must never block the read path) and must serialise Send so concurrent
// responses never interleave on the wire.
type Transport interface {
	// SetHandler installs the message handler. Must be called before Start.
	SetHandler(h Handler)

	// Start begins reading messages. It fails if no handler is set or
	// the transport is already running.
	Start(ctx context.Context) error

	// Stop ceases reading. Outstanding handlers complete and their
	// responses are still written, best effort. Idempotent.
	Stop() error

	// Send writes a single message frame.
	Send(message []byte) error

	// Running reports whether the transport is currently started.
	Running() bool
}
