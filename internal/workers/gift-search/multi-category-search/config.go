// internal/workers/gift-search/multi-category-search/config.go
package multicategorysearch

import (
	"time"

	"gifting-workers/internal/gifting/search"
)

type Config struct {
	Timeout          time.Duration
	PerCategoryLimit int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:          15 * time.Second,
		PerCategoryLimit: search.DefaultPerCategoryLimit,
	}
}
