// Package config loads the service settings from the environment.
package config

import (
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr            string        `env:"BAND_ADDR" envDefault:":8080"`
	RedisAddr       string        `env:"BAND_REDIS_ADDR"` // empty keeps bands in memory
	RateLimit       int           `env:"BAND_RATE_LIMIT" envDefault:"5"`
	RateWindow      time.Duration `env:"BAND_RATE_WINDOW" envDefault:"1m"`
	ShutdownTimeout time.Duration `env:"BAND_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ReadTimeout     time.Duration `env:"BAND_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"BAND_WRITE_TIMEOUT" envDefault:"15s"`
	LogLevel        string        `env:"BAND_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"BAND_LOG_FORMAT" envDefault:"text"`
	TrustedProxies  []string      `env:"BAND_TRUSTED_PROXIES" envSeparator:","` // IPs or CIDRs allowed to set X-Forwarded-For
}

// Load parses Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.RateLimit <= 0 {
		return fmt.Errorf("BAND_RATE_LIMIT must be positive, got %d", c.RateLimit)
	}
	if c.RateWindow <= 0 {
		return fmt.Errorf("BAND_RATE_WINDOW must be positive, got %s", c.RateWindow)
	}
	for _, p := range c.TrustedProxies {
		if _, err := ParseProxy(p); err != nil {
			return fmt.Errorf("BAND_TRUSTED_PROXIES: %w", err)
		}
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("BAND_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// ParseProxy reads a trusted proxy given as a single IP or a CIDR block.
func ParseProxy(s string) (netip.Prefix, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return netip.Prefix{}, fmt.Errorf("invalid proxy %q", s)
		}
		return p.Masked(), nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid proxy %q", s)
	}
	addr = addr.Unmap()
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}
