// Package config loads tmdbstash settings from viper (config.yaml and
// environment variables) and validates them.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lepinkainen/tmdbstash/internal/cache"
	"github.com/lepinkainen/tmdbstash/internal/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultCacheDBFile  = "./cache.db"
	DefaultUserDataFile = "./userdata.db"
	DefaultServerAddr   = ":8080"
	DefaultRateLimit    = 300
)

// envBindings maps viper keys to the environment variables that override them.
var envBindings = map[string]string{
	"tmdb.token":       "TMDB_API_TOKEN",
	"tmdb.allowed_ids": "ALLOWED_TMDB_IDS",
	"tmdb.shows_file":  "TMDB_SHOWS_FILE",
	"tmdb.base_url":    "TMDB_BASE_URL",
	"cache.backend":    "CACHE_BACKEND",
	"cache.dbfile":     "CACHE_DBFILE",
	"cache.redis_url":  "KV_URL",
	"userdata.dbfile":  "USERDATA_DBFILE",
}

// Show is one entry of the YAML shows file.
type Show struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

type showsFile struct {
	Shows []Show `yaml:"shows"`
}

// Settings is the validated runtime configuration.
type Settings struct {
	TMDBToken string
	BaseURL   string
	// AllowedIDs is the complete catalog, in declared order without duplicates.
	AllowedIDs []int

	Cache    cache.Options
	CacheTTL time.Duration

	UserDataFile string

	ServerAddr  string
	CORSOrigins []string
	// RateLimit is requests per minute per client IP.
	RateLimit int
}

// SetDefaults registers defaults and environment bindings on the global viper.
func SetDefaults() error {
	viper.SetDefault("tmdb.base_url", DefaultBaseURL)
	viper.SetDefault("cache.backend", cache.BackendSQLite)
	viper.SetDefault("cache.dbfile", DefaultCacheDBFile)
	viper.SetDefault("cache.ttl", cache.DefaultCacheTTL.String())
	viper.SetDefault("userdata.dbfile", DefaultUserDataFile)
	viper.SetDefault("server.addr", DefaultServerAddr)
	viper.SetDefault("server.cors_origins", []string{"*"})
	viper.SetDefault("server.rate_limit", DefaultRateLimit)

	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	return nil
}

// Load reads and validates settings from viper.
func Load() (*Settings, error) {
	token := strings.TrimSpace(viper.GetString("tmdb.token"))
	if token == "" {
		return nil, errors.NewConfigurationError("tmdb.token", "TMDB_API_TOKEN is required")
	}

	allowed, err := allowedIDsFromViper()
	if err != nil {
		return nil, err
	}

	if path := viper.GetString("tmdb.shows_file"); path != "" {
		shows, err := LoadShowsFile(path)
		if err != nil {
			return nil, err
		}
		for _, show := range shows {
			allowed = append(allowed, show.ID)
		}
		allowed = dedupe(allowed)
	}

	if len(allowed) == 0 && !viper.IsSet("tmdb.allowed_ids") && viper.GetString("tmdb.shows_file") == "" {
		return nil, errors.NewConfigurationError("tmdb.allowed_ids", "ALLOWED_TMDB_IDS or TMDB_SHOWS_FILE is required")
	}

	ttl, err := time.ParseDuration(viper.GetString("cache.ttl"))
	if err != nil || ttl <= 0 {
		return nil, errors.NewConfigurationError("cache.ttl", fmt.Sprintf("invalid duration %q", viper.GetString("cache.ttl")))
	}

	cacheOpts := cache.Options{
		Backend:  strings.ToLower(strings.TrimSpace(viper.GetString("cache.backend"))),
		DBFile:   viper.GetString("cache.dbfile"),
		RedisURL: viper.GetString("cache.redis_url"),
	}
	switch cacheOpts.Backend {
	case cache.BackendSQLite, cache.BackendMemory:
	case cache.BackendRedis:
		if cacheOpts.RedisURL == "" {
			return nil, errors.NewConfigurationError("cache.redis_url", "KV_URL is required for the redis cache backend")
		}
	default:
		return nil, errors.NewConfigurationError("cache.backend", fmt.Sprintf("unknown backend %q", cacheOpts.Backend))
	}

	rateLimit := viper.GetInt("server.rate_limit")
	if rateLimit < 0 {
		return nil, errors.NewConfigurationError("server.rate_limit", "must not be negative")
	}

	return &Settings{
		TMDBToken:    token,
		BaseURL:      strings.TrimRight(viper.GetString("tmdb.base_url"), "/"),
		AllowedIDs:   allowed,
		Cache:        cacheOpts,
		CacheTTL:     ttl,
		UserDataFile: viper.GetString("userdata.dbfile"),
		ServerAddr:   viper.GetString("server.addr"),
		CORSOrigins:  viper.GetStringSlice("server.cors_origins"),
		RateLimit:    rateLimit,
	}, nil
}

// allowedIDsFromViper accepts either a comma separated string (environment)
// or a YAML list.
func allowedIDsFromViper() ([]int, error) {
	switch v := viper.Get("tmdb.allowed_ids").(type) {
	case nil:
		return nil, nil
	case string:
		return ParseAllowedIDs(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return ParseAllowedIDs(strings.Join(parts, ","))
	case []int:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, strconv.Itoa(item))
		}
		return ParseAllowedIDs(strings.Join(parts, ","))
	case []string:
		return ParseAllowedIDs(strings.Join(v, ","))
	default:
		return ParseAllowedIDs(fmt.Sprint(v))
	}
}

// ParseAllowedIDs parses a comma separated list of positive show ids.
// Empty segments are skipped and duplicates collapse onto their first
// occurrence.
func ParseAllowedIDs(raw string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.NewConfigurationError("tmdb.allowed_ids", fmt.Sprintf("%q is not a number", part))
		}
		if id <= 0 {
			return nil, errors.NewConfigurationError("tmdb.allowed_ids", fmt.Sprintf("%d is not a positive id", id))
		}
		ids = append(ids, id)
	}
	return dedupe(ids), nil
}

// LoadShowsFile reads a YAML allow-list of the form
//
//	shows:
//	  - id: 1399
//	    name: Game of Thrones
func LoadShowsFile(path string) ([]Show, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigurationError("tmdb.shows_file", fmt.Sprintf("failed to read %s: %v", path, err))
	}

	var file showsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.NewConfigurationError("tmdb.shows_file", fmt.Sprintf("failed to parse %s: %v", path, err))
	}

	for _, show := range file.Shows {
		if show.ID <= 0 {
			return nil, errors.NewConfigurationError("tmdb.shows_file", fmt.Sprintf("show %q has invalid id %d", show.Name, show.ID))
		}
	}
	return file.Shows, nil
}

func dedupe(ids []int) []int {
	if len(ids) == 0 {
		return ids
	}
	seen := make(map[int]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
