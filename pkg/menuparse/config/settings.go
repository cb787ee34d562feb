package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cognicore/menuparse/pkg/menuparse/internalerr"
)

// Environment variable names.
const (
	EnvDBPath          = "MENUPARSE_DB_PATH"
	EnvDatabaseURL     = "MENUPARSE_DATABASE_URL"
	EnvLexicon         = "MENUPARSE_LEXICON"
	EnvFetchTimeout    = "MENUPARSE_FETCH_TIMEOUT"
	EnvUserAgent       = "MENUPARSE_USER_AGENT"
	EnvWorkers         = "MENUPARSE_WORKERS"
	EnvBrowserFallback = "MENUPARSE_BROWSER_FALLBACK"
)

// DefaultUserAgent identifies the fetcher to restaurant sites.
const DefaultUserAgent = "Mozilla/5.0 (compatible; menuparse/1.0)"

// Settings are the process-level knobs, read from the environment and
// overridden by CLI flags.
type Settings struct {
	DBPath          string        `validate:"required_without=DatabaseURL"`
	DatabaseURL     string        `validate:"omitempty,url"`
	LexiconPath     string        `validate:"omitempty,file"`
	FetchTimeout    time.Duration `validate:"gte=0"`
	UserAgent       string        `validate:"required"`
	Workers         int           `validate:"gte=0,lte=256"`
	BrowserFallback bool
}

// Defaults returns settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		DBPath:       "menuparse.db",
		FetchTimeout: 30 * time.Second,
		UserAgent:    DefaultUserAgent,
	}
}

// NewFromEnv reads settings from the environment on top of Defaults.
func NewFromEnv() (Settings, error) {
	return newFromLookup(os.LookupEnv)
}

func newFromLookup(lookup func(string) (string, bool)) (Settings, error) {
	s := Defaults()

	if v, ok := lookup(EnvDBPath); ok && strings.TrimSpace(v) != "" {
		s.DBPath = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvDatabaseURL); ok {
		s.DatabaseURL = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvLexicon); ok {
		s.LexiconPath = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvUserAgent); ok && strings.TrimSpace(v) != "" {
		s.UserAgent = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvFetchTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return s, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, EnvFetchTimeout, err)
		}
		s.FetchTimeout = d
	}
	if v, ok := lookup(EnvWorkers); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return s, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, EnvWorkers, err)
		}
		s.Workers = n
	}
	if v, ok := lookup(EnvBrowserFallback); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return s, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, EnvBrowserFallback, err)
		}
		s.BrowserFallback = b
	}

	return s, nil
}

// Validate checks that the settings have valid values.
func (s Settings) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	return nil
}

// UsePostgres reports whether the hosted database is configured. It wins
// over the local sqlite file.
func (s Settings) UsePostgres() bool {
	return s.DatabaseURL != ""
}
