// internal/workers/gift-search/parse-gift-context/config.go
package parsegiftcontext

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
