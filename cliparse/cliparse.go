package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
)

// Store type constants
const (
	StoreMemory  = "memory"
	StoreRedis   = "redis"
	StoreRethink = "rethink"
)

type Config struct {
	Port      int
	StoreType string

	RedisAddr     string
	RedisPassword string
	RethinkAddrs  []string

	ArchiveDriver string
	ArchiveURL    string

	YelpAPIKey string
	YelpAPIURL string
}

// ParseFlags validates flags and fills in environment fallbacks
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var rethinkAddrs string

	fs := flag.NewFlagSet("group-table", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.StoreType, "s", "", "Session store type (memory, redis, or rethink)")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", "", "Redis address (host:port)")
	fs.StringVar(&rethinkAddrs, "rethink-addrs", "", "Comma-separated RethinkDB addresses")
	fs.StringVar(&cfg.ArchiveDriver, "archive-driver", "", "Archive database driver (sqlite or postgres)")
	fs.StringVar(&cfg.ArchiveURL, "archive-url", "", "Archive database URL (empty disables archiving)")
	fs.StringVar(&cfg.YelpAPIURL, "yelp-url", "", "Yelp AI chat endpoint override")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.YelpAPIKey, "yelp-key", "", "Yelp API key (prefer env)")
	fs.StringVar(&cfg.RedisPassword, "redis-password", "", "Redis password (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3626 // default
		}
	}

	if cfg.StoreType == "" {
		cfg.StoreType = os.Getenv("STORE_TYPE")
		if cfg.StoreType == "" {
			cfg.StoreType = StoreMemory
		}
	}
	switch cfg.StoreType {
	case StoreMemory, StoreRedis, StoreRethink:
	default:
		return Config{}, errors.New("store type must be one of: memory, redis, rethink")
	}

	if cfg.RedisAddr == "" {
		cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}
	if cfg.RedisPassword == "" {
		cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	}

	if rethinkAddrs == "" {
		rethinkAddrs = os.Getenv("RETHINK_ADDRS")
	}
	if rethinkAddrs == "" {
		rethinkAddrs = "localhost:28015"
	}
	for _, addr := range strings.Split(rethinkAddrs, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			cfg.RethinkAddrs = append(cfg.RethinkAddrs, addr)
		}
	}

	if cfg.ArchiveURL == "" {
		cfg.ArchiveURL = os.Getenv("ARCHIVE_URL")
	}
	if cfg.ArchiveDriver == "" {
		cfg.ArchiveDriver = os.Getenv("ARCHIVE_DRIVER")
		if cfg.ArchiveDriver == "" {
			cfg.ArchiveDriver = "sqlite"
		}
	}
	if cfg.ArchiveURL != "" && cfg.ArchiveDriver != "sqlite" && cfg.ArchiveDriver != "postgres" {
		return Config{}, errors.New("archive driver must be sqlite or postgres")
	}

	if cfg.YelpAPIURL == "" {
		cfg.YelpAPIURL = os.Getenv("YELP_API_URL")
	}

	// Secrets - MUST be provided
	if cfg.YelpAPIKey == "" {
		cfg.YelpAPIKey = os.Getenv("YELP_API_KEY")
	}
	if cfg.YelpAPIKey == "" {
		return Config{}, errors.New("YELP_API_KEY required")
	}

	return cfg, nil
}
