package configs

import "time"

// Platform holds connectivity settings for the external advertising
// platform API.
type Platform struct {
	// BaseURL is the API root, without a trailing slash.
	BaseURL string `env:"BASE_URL" envDefault:"https://business-api.tiktok.com/open_api/v1.3"`
	// AccessToken authenticates every request.
	AccessToken string `env:"ACCESS_TOKEN"`
	// PageSize is the page size requested on list endpoints.
	PageSize int `env:"PAGE_SIZE" envDefault:"100"`
	// MaxPages bounds any single page loop so a lying total_page field
	// cannot spin the client forever.
	MaxPages int `env:"MAX_PAGES" envDefault:"500"`
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}
