package store

import (
	"fmt"

	"github.com/civicstack/mediavault/internal/utils"
)

type Config struct {
	BucketName    string `mapstructure:"bucket_name"`
	Region        string `mapstructure:"region"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Endpoint      string `mapstructure:"endpoint"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	UseAccelerate bool   `mapstructure:"use_accelerate"`
}

func (c *Config) Validate() error {
	if c.BucketName == "" {
		return fmt.Errorf("bucket_name required")
	}
	if c.Region == "" {
		return fmt.Errorf("region required")
	}
	if c.AccessKey == "" {
		return fmt.Errorf("access_key required")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret_key required")
	}
	if c.Endpoint != "" && !utils.IsValidURL(c.Endpoint) {
		return fmt.Errorf("invalid endpoint URL %q", c.Endpoint)
	}
	if c.PublicBaseURL != "" && !utils.IsValidURL(c.PublicBaseURL) {
		return fmt.Errorf("invalid public_base_url %q", c.PublicBaseURL)
	}
	return nil
}
