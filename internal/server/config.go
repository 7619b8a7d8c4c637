package server

import (
	"fmt"

	"github.com/civicstack/mediavault/internal/server/session"
	"github.com/civicstack/mediavault/internal/server/store"
)

const DefaultAddr = "127.0.0.1:8080"

type Config struct {
	HTTP   HTTPConfig   `mapstructure:"http"`
	Store  store.Config `mapstructure:"store"`
	Upload UploadConfig `mapstructure:"upload"`
	DBPath string       `mapstructure:"db_path"`
}

type HTTPConfig struct {
	Addr     string `mapstructure:"addr"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

type UploadConfig struct {
	Session session.Config `mapstructure:"session"`
	// RateLimit in ulule/limiter format, e.g. "120-M"
	RateLimit string `mapstructure:"rate_limit"`
	// MaxDirectBody caps the multipart/form-data direct path, bytes
	MaxDirectBody int64 `mapstructure:"max_direct_body"`
}

func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultAddr
	}
	if c.Upload.RateLimit == "" {
		c.Upload.RateLimit = "240-M"
	}
	if c.Upload.MaxDirectBody <= 0 {
		c.Upload.MaxDirectBody = 32 << 20 // 32 MiB
	}
	if c.DBPath == "" {
		c.DBPath = "mediavault.db"
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store config: %w", err)
	}
	return nil
}
