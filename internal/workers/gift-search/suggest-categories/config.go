// internal/workers/gift-search/suggest-categories/config.go
package suggestcategories

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 2 * time.Second,
	}
}
