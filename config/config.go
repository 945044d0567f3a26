/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package config loads pool.Config, channel.Config and listener bind
// settings from a viper-backed source: file, environment, or both
// (SPEC_FULL.md §10.3 "Configuration").
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/nabbar/channelcore/channel"
	"github.com/nabbar/channelcore/pool"
)

// PoolSettings mirrors pool.Config in a form viper can unmarshal.
type PoolSettings struct {
	ChunkSize      int     `mapstructure:"chunk_size"`
	TrimPercentile float64 `mapstructure:"trim_percentile"`
	MinIdealFree   int     `mapstructure:"min_ideal_free"`
}

// ChannelSettings mirrors the wire-affecting subset of channel.Config.
type ChannelSettings struct {
	NoDelay           bool          `mapstructure:"no_delay"`
	TTL               int           `mapstructure:"ttl"`
	Backlog           int           `mapstructure:"backlog"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	AcceptConcurrency int64         `mapstructure:"accept_concurrency"`
}

// ListenSettings is where to bind.
type ListenSettings struct {
	Network string `mapstructure:"network"`
	Address string `mapstructure:"address"`
}

// Settings is the top-level document config.Load reads.
type Settings struct {
	Pool    PoolSettings    `mapstructure:"pool"`
	Channel ChannelSettings `mapstructure:"channel"`
	Listen  ListenSettings  `mapstructure:"listen"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("pool.chunk_size", 4096)
	v.SetDefault("pool.trim_percentile", 0.65)
	v.SetDefault("pool.min_ideal_free", 10)
	v.SetDefault("channel.write_timeout", 10*time.Second)
	v.SetDefault("listen.network", "tcp")
}

// Load reads Settings from path (any format viper supports by extension)
// overlaid with CHANNELCORE_-prefixed environment variables.
func Load(path string) (*Settings, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix("CHANNELCORE")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &s, nil
}

// PoolConfig adapts PoolSettings into pool.Config.
func (s *Settings) PoolConfig() pool.Config {
	return pool.Config{
		ChunkSize:      s.Pool.ChunkSize,
		TrimPercentile: s.Pool.TrimPercentile,
		MinIdealFree:   s.Pool.MinIdealFree,
	}
}

// ChannelConfig adapts ChannelSettings into a channel.Config that borrows
// chunks from p, the Pool built from PoolConfig. The caller still sets
// TLS and Metrics, neither of which has a viper-serializable form.
func (s *Settings) ChannelConfig(p pool.Pool) channel.Config {
	return channel.Config{
		Pool:              p,
		NoDelay:           s.Channel.NoDelay,
		TTL:               s.Channel.TTL,
		Backlog:           s.Channel.Backlog,
		WriteTimeout:      s.Channel.WriteTimeout,
		AcceptConcurrency: s.Channel.AcceptConcurrency,
	}
}

// BindArgs returns the network/address pair ListenerChannel.Bind expects,
// as loaded into ListenSettings.
func (s *Settings) BindArgs() (network, address string) {
	return s.Listen.Network, s.Listen.Address
}
