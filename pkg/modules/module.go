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

// Package modules groups related tools into named modules with a
// load/unload lifecycle, and hosts them against the tool registry.
package modules

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/teradata-labs/anvil/pkg/tools"
)

// Config identifies a module.
type Config struct {
	Name        string
	Version     string
	Description string
}

// Module is a cohesive group of tools. Modules declare their tools as
// an explicit registration table; the host wraps each one with the
// dispatch pipeline before it reaches the registry.
type Module interface {
	Config() Config
	Tools() []tools.Tool
}

// Loader is implemented by modules that need setup before their tools
// are registered.
type Loader interface {
	OnLoad() error
}

// Unloader is implemented by modules that need teardown at shutdown.
type Unloader interface {
	OnUnload() error
}

// Host initialises modules against a tool registry and manages their
// lifecycle. Initialisation order across modules is not observable;
// modules must not depend on one another's initialisation.
type Host struct {
	registry *tools.Registry
	logger   *zap.Logger

	mu      sync.Mutex
	modules map[string]Module
	order   []string
}

// NewHost creates a module host bound to a registry.
func NewHost(registry *tools.Registry, logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{
		registry: registry,
		logger:   logger,
		modules:  make(map[string]Module),
	}
}

// Register initialises a module exactly once: runs OnLoad, then
// registers every tool through the dispatch pipeline. Registration is
// atomic with respect to the registry: tool names are checked up front
// and nothing is registered when any of them would collide.
func (h *Host) Register(mod Module) error {
	cfg := mod.Config()

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.modules[cfg.Name]; exists {
		return fmt.Errorf("module '%s' is already registered", cfg.Name)
	}

	h.logger.Info("initializing module",
		zap.String("module", cfg.Name),
		zap.String("version", cfg.Version),
	)

	if loader, ok := mod.(Loader); ok {
		if err := loader.OnLoad(); err != nil {
			return fmt.Errorf("module '%s' failed to load: %w", cfg.Name, err)
		}
	}

	declared := mod.Tools()

	seen := make(map[string]bool, len(declared))
	for _, t := range declared {
		if t.Name == "" {
			return fmt.Errorf("module '%s' declares a tool with no name", cfg.Name)
		}
		if seen[t.Name] {
			return fmt.Errorf("module '%s' declares tool '%s' twice", cfg.Name, t.Name)
		}
		seen[t.Name] = true
		if _, taken := h.registry.Get(t.Name); taken {
			return fmt.Errorf("tool '%s' is already registered", t.Name)
		}
	}

	wrapped := make([]tools.Tool, 0, len(declared))
	for _, t := range declared {
		w, err := tools.Wrap(t, h.logger)
		if err != nil {
			return fmt.Errorf("module '%s': %w", cfg.Name, err)
		}
		wrapped = append(wrapped, w)
	}

	for _, w := range wrapped {
		if err := h.registry.Register(w); err != nil {
			return fmt.Errorf("module '%s': %w", cfg.Name, err)
		}
	}

	h.modules[cfg.Name] = mod
	h.order = append(h.order, cfg.Name)

	h.logger.Info("module loaded",
		zap.String("module", cfg.Name),
		zap.String("version", cfg.Version),
		zap.Int("tools", len(wrapped)),
	)
	return nil
}

// Modules returns the configs of all registered modules.
func (h *Host) Modules() []Config {
	h.mu.Lock()
	defer h.mu.Unlock()

	configs := make([]Config, 0, len(h.order))
	for _, name := range h.order {
		configs = append(configs, h.modules[name].Config())
	}
	return configs
}

// Shutdown unloads every module and clears the registry. Tools are not
// removed individually on unload; the registry is cleared wholesale, a
// known limitation of the kernel.
func (h *Host) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := len(h.order) - 1; i >= 0; i-- {
		name := h.order[i]
		if unloader, ok := h.modules[name].(Unloader); ok {
			if err := unloader.OnUnload(); err != nil {
				h.logger.Error("module unload failed",
					zap.String("module", name),
					zap.Error(err),
				)
			}
		}
	}
	h.modules = make(map[string]Module)
	h.order = nil
	h.registry.Clear()
}
