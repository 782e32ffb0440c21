// internal/workers/gift-search/parse-follow-up/config.go
package parsefollowup

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
