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

// Package config loads runtime configuration from the environment.
// Every key has a default; environment variables use the ANVIL_ prefix
// (ANVIL_DB_POOL_SIZE, ANVIL_LOG_LEVEL, ...).
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// DefaultUserAgent is the fixed desktop browser User-Agent sent by the
// web fetcher when none is configured.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config holds all recognised runtime options.
type Config struct {
	LogLevel string `mapstructure:"log_level"`

	DBPoolSize            int `mapstructure:"db_pool_size"`
	DBPoolMinIdle         int `mapstructure:"db_pool_min_idle"`
	DBConnectionTimeoutMS int `mapstructure:"db_connection_timeout_ms"`
	DBIdleTimeoutMS       int `mapstructure:"db_idle_timeout_ms"`
	DBMaxLifetimeMS       int `mapstructure:"db_max_lifetime_ms"`
	DBLeakDetectionMS     int `mapstructure:"db_leak_detection_ms"`

	WebConnectionTimeoutMS int    `mapstructure:"web_connection_timeout_ms"`
	WebReadTimeoutMS       int    `mapstructure:"web_read_timeout_ms"`
	WebMaxPageSizeBytes    int64  `mapstructure:"web_max_page_size_bytes"`
	WebUserAgent           string `mapstructure:"web_user_agent"`
}

// Load reads configuration from the environment, falling back to
// defaults for every unset key.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ANVIL")
	v.AutomaticEnv()

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Default returns the built-in configuration without consulting the
// environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("db_pool_size", 10)
	v.SetDefault("db_pool_min_idle", 2)
	v.SetDefault("db_connection_timeout_ms", 30_000)
	v.SetDefault("db_idle_timeout_ms", 600_000)
	v.SetDefault("db_max_lifetime_ms", 1_800_000)
	v.SetDefault("db_leak_detection_ms", 60_000)

	v.SetDefault("web_connection_timeout_ms", 10_000)
	v.SetDefault("web_read_timeout_ms", 10_000)
	v.SetDefault("web_max_page_size_bytes", int64(10*1024*1024))
	v.SetDefault("web_user_agent", DefaultUserAgent)
}
