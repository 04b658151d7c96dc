package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Webhook   WebhookConfig
	Log       LogConfig
	Schedule  ScheduleConfig
}

// ServerConfig controls the HTTP server of the daemon binary.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// WindowWidth/WindowHeight set the browser window size. The ad
	// library renders a different layout below desktop widths.
	WindowWidth  int // default: 1920
	WindowHeight int // default: 1080

	// AcceptLanguage is sent with every request; the ad library localizes
	// card labels from it. default: "ko-KR,ko;q=0.9,en-US;q=0.8"
	AcceptLanguage string
}

// ScraperConfig controls scraping behavior.
type ScraperConfig struct {
	// BaseURL is the ad library URL the search query is appended to.
	BaseURL string // default: "https://www.facebook.com/ads/library"

	// NavigationTimeout is the max time for page navigation alone.
	NavigationTimeout time.Duration // default: 30s

	// ElementTimeout bounds each wait-for-element poll.
	ElementTimeout time.Duration // default: 10s

	// ScrollPause is the settle delay after each scroll step.
	ScrollPause time.Duration // default: 2s

	// MaxScrollAttempts bounds the lazy-load scroll loop.
	MaxScrollAttempts int // default: 50

	// ModalSettle is the wait after opening the ad detail overlay.
	ModalSettle time.Duration // default: 3s

	// NavigationsPerMinute paces page loads across runs. 0 disables pacing.
	NavigationsPerMinute float64 // default: 6
}

// StorageConfig controls where run artifacts land.
type StorageConfig struct {
	// OutputDir is the root for all artifacts.
	OutputDir string // default: "output"

	// CSVDir and HTMLDir are created under OutputDir.
	CSVDir  string // default: "csv_files"
	HTMLDir string // default: "html_archives"
}

// RedisConfig controls the optional Redis record publisher.
type RedisConfig struct {
	// Addr enables publishing when non-empty, e.g. "localhost:6379".
	Addr    string
	DB      int    // default: 0
	Channel string // default: "ad_records"
}

// AuthConfig controls API key authentication on the daemon.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-identity API rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// WebhookConfig controls run-completion notifications.
type WebhookConfig struct {
	// URL enables delivery of run summaries when non-empty.
	URL string

	// Secret signs each payload with HMAC-SHA256 when non-empty.
	Secret string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"

	// File enables rotating file output alongside stdout when non-empty.
	File       string
	MaxSizeMB  int // default: 100
	MaxBackups int // default: 3
}

// ScheduleConfig controls recurring runs in the daemon.
type ScheduleConfig struct {
	// Interval between scheduled runs. 0 disables scheduling.
	Interval time.Duration

	// PageIDs lists the pages scraped on each scheduled run.
	PageIDs []string

	// Country applies to every scheduled run. default: "US"
	Country string
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host: envOr("ADSCRAPER_HOST", "0.0.0.0"),
			Port: envIntOr("ADSCRAPER_PORT", 8080),
			Mode: envOr("ADSCRAPER_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:       envBoolOr("ADSCRAPER_HEADLESS", true),
			NoSandbox:      envBoolOr("ADSCRAPER_NO_SANDBOX", false),
			BrowserBin:     os.Getenv("ADSCRAPER_BROWSER_BIN"),
			WindowWidth:    envIntOr("ADSCRAPER_WINDOW_WIDTH", 1920),
			WindowHeight:   envIntOr("ADSCRAPER_WINDOW_HEIGHT", 1080),
			AcceptLanguage: envOr("ADSCRAPER_ACCEPT_LANGUAGE", "ko-KR,ko;q=0.9,en-US;q=0.8"),
		},
		Scraper: ScraperConfig{
			BaseURL:              envOr("ADSCRAPER_BASE_URL", "https://www.facebook.com/ads/library"),
			NavigationTimeout:    envDurationOr("ADSCRAPER_NAV_TIMEOUT", 30*time.Second),
			ElementTimeout:       envDurationOr("ADSCRAPER_ELEMENT_TIMEOUT", 10*time.Second),
			ScrollPause:          envDurationOr("ADSCRAPER_SCROLL_PAUSE", 2*time.Second),
			MaxScrollAttempts:    envIntOr("ADSCRAPER_MAX_SCROLLS", 50),
			ModalSettle:          envDurationOr("ADSCRAPER_MODAL_SETTLE", 3*time.Second),
			NavigationsPerMinute: envFloatOr("ADSCRAPER_NAV_PER_MINUTE", 6),
		},
		Storage: StorageConfig{
			OutputDir: envOr("ADSCRAPER_OUTPUT_DIR", "output"),
			CSVDir:    envOr("ADSCRAPER_CSV_DIR", "csv_files"),
			HTMLDir:   envOr("ADSCRAPER_HTML_DIR", "html_archives"),
		},
		Redis: RedisConfig{
			Addr:    os.Getenv("ADSCRAPER_REDIS_ADDR"),
			DB:      envIntOr("ADSCRAPER_REDIS_DB", 0),
			Channel: envOr("ADSCRAPER_REDIS_CHANNEL", "ad_records"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("ADSCRAPER_AUTH_ENABLED", true),
			APIKeys: envSliceOr("ADSCRAPER_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("ADSCRAPER_RATE_RPS", 5.0),
			Burst:             envIntOr("ADSCRAPER_RATE_BURST", 10),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv("ADSCRAPER_WEBHOOK_URL"),
			Secret: os.Getenv("ADSCRAPER_WEBHOOK_SECRET"),
		},
		Log: LogConfig{
			Level:      envOr("ADSCRAPER_LOG_LEVEL", "info"),
			Format:     envOr("ADSCRAPER_LOG_FORMAT", "json"),
			File:       os.Getenv("ADSCRAPER_LOG_FILE"),
			MaxSizeMB:  envIntOr("ADSCRAPER_LOG_MAX_SIZE_MB", 100),
			MaxBackups: envIntOr("ADSCRAPER_LOG_MAX_BACKUPS", 3),
		},
		Schedule: ScheduleConfig{
			Interval: envDurationOr("ADSCRAPER_SCHEDULE_INTERVAL", 0),
			PageIDs:  envSliceOr("ADSCRAPER_SCHEDULE_PAGE_IDS", nil),
			Country:  envOr("ADSCRAPER_SCHEDULE_COUNTRY", "US"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
