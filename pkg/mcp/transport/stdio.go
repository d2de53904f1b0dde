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

package transport

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Stdio implements Transport over a line-delimited reader/writer pair,
// typically os.Stdin and os.Stdout. Each non-blank input line is handed
// to the handler on its own goroutine; responses are written one line
// each under a write lock.
type Stdio struct {
	reader *bufio.Reader
	writer io.Writer
	logger *zap.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	handler Handler
	running bool
	baseCtx context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}

	handlers sync.WaitGroup
}

// NewStdio creates a stdio transport over r and w.
func NewStdio(r io.Reader, w io.Writer, logger *zap.Logger) *Stdio {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Stdio{
		reader: bufio.NewReaderSize(r, 1024*1024), // 1MB buffer
		writer: w,
		logger: logger,
	}
}

// SetHandler installs the message handler.
func (t *Stdio) SetHandler(h Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = h
}

// Start launches the read loop. It fails when no handler is set or the
// transport is already running.
func (t *Stdio) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("transport is already running")
	}
	if t.handler == nil {
		return fmt.Errorf("message handler must be set before starting")
	}

	readCtx, cancel := context.WithCancel(ctx)
	t.baseCtx = ctx
	t.cancel = cancel
	t.running = true
	t.done = make(chan struct{})
	t.stopped = make(chan struct{})

	go t.readLoop(readCtx)

	t.logger.Info("stdio transport started")
	return nil
}

// Stop ceases reading. Idempotent; in-flight handlers are allowed to
// finish and their responses are still written.
func (t *Stdio) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return nil
	}
	t.running = false
	t.cancel()
	close(t.stopped)

	t.logger.Info("stdio transport stopped")
	return nil
}

// Running reports whether the transport is started.
func (t *Stdio) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Send writes one message frame terminated by a newline. Writes are
// serialised so concurrent responses never interleave.
func (t *Stdio) Send(message []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if _, err := t.writer.Write(message); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if _, err := t.writer.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	return nil
}

// Wait blocks until reading has ended (EOF on input or Stop) and all
// in-flight handlers have completed. Stop can fire while the read loop
// is still blocked on input, so both signals release the wait.
func (t *Stdio) Wait() {
	t.mu.Lock()
	done, stopped := t.done, t.stopped
	t.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-stopped:
		}
	}
	t.handlers.Wait()
}

// readLoop reads lines until EOF, error, or cancellation. Each message
// is dispatched on its own goroutine so slow handlers never stall the
// read path.
func (t *Stdio) readLoop(ctx context.Context) {
	defer close(t.done)
	defer func() {
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
	}()

	for {
		line, err := t.reader.ReadBytes('\n')

		if msg := bytes.TrimSpace(line); len(msg) > 0 {
			t.dispatch(msg)
		}

		if err != nil {
			if err != io.EOF {
				t.logger.Error("error reading from input", zap.Error(err))
			}
			return
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// dispatch hands a message to the handler on its own goroutine. The
// handler context is the one passed to Start, not the read-loop
// context, so Stop does not abort work already in flight.
func (t *Stdio) dispatch(msg []byte) {
	t.mu.Lock()
	handler := t.handler
	ctx := t.baseCtx
	t.mu.Unlock()

	t.handlers.Add(1)
	go func() {
		defer t.handlers.Done()

		resp := handler(ctx, msg)
		if len(resp) == 0 {
			return
		}
		if err := t.Send(resp); err != nil {
			t.logger.Error("failed to send response", zap.Error(err))
		}
	}()
}
