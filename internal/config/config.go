package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/mrnez/weewx-ecowitt-API/internal/ecowitt"
	"github.com/mrnez/weewx-ecowitt-API/internal/record"
)

var validate = validator.New()

// Matches the station's typical archive cadence.
const defaultFetchInterval = "60s"

// AppConfig is built once at startup and immutable afterwards. The three
// credential fields are secrets: they go into outbound requests only and
// must never appear in log output or error messages.
type AppConfig struct {
	ApplicationKey string `validate:"required"`
	APIKey         string `validate:"required"`
	MAC            string `validate:"required"`

	// UnitSystem tags the archive records this process builds.
	UnitSystem record.UnitSystem `validate:"required,oneof=US METRICWX"`

	// LabelMap maps vendor flat keys to archive field names, in order.
	LabelMap []ecowitt.LabelPair `validate:"required,min=1"`

	// IgnoreValueError downgrades non-numeric mapped values from an
	// interval-level failure to a counted skip.
	IgnoreValueError bool

	// BaseURL overrides the vendor endpoint; empty means production. A
	// malformed override must fail here, at startup, not per interval.
	BaseURL string `validate:"omitempty,url"`

	// FetchInterval controls how often an archive record is built.
	FetchInterval  time.Duration
	RequestTimeout time.Duration

	// In-memory record store retention.
	StoreMaxHistory int           // max number of snapshots (0 = unlimited)
	StoreMaxAge     time.Duration // max snapshot age (0 = unlimited)

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load(logf func(format string, args ...any)) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && logf != nil {
		logf("no .env file found: %v", err)
	}
	cfg := &AppConfig{}

	cfg.ApplicationKey = strings.TrimSpace(os.Getenv("ECOWITT_APPLICATION_KEY"))
	cfg.APIKey = strings.TrimSpace(os.Getenv("ECOWITT_API_KEY"))
	cfg.MAC = strings.TrimSpace(os.Getenv("ECOWITT_MAC"))
	cfg.BaseURL = strings.TrimSpace(os.Getenv("ECOWITT_BASE_URL"))

	cfg.UnitSystem = record.UnitSystem(strings.ToUpper(getenvDefault("UNIT_SYSTEM", string(record.UnitSystemMetricWX))))

	labels, err := ParseLabelMap(getenvDefault("LABEL_MAP",
		"pressure.relative=barometer,pressure.absolute=pressure"))
	if err != nil {
		return nil, err
	}
	cfg.LabelMap = labels

	cfg.IgnoreValueError = getenvBool("IGNORE_VALUE_ERROR", true)

	interval, err := time.ParseDuration(getenvDefault("FETCH_INTERVAL", defaultFetchInterval))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	timeout, err := time.ParseDuration(getenvDefault("REQUEST_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	cfg.RequestTimeout = timeout

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 1440) // 24h at 60s intervals

	maxAge, err := time.ParseDuration(getenvDefault("STORE_MAX_AGE", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge
	cfg.Port = getenvDefault("PORT", "8080")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ParseLabelMap parses an ordered "source=dest,source=dest" list. Source
// keys must be unique; order is preserved for the merge.
func ParseLabelMap(s string) ([]ecowitt.LabelPair, error) {
	var labels []ecowitt.LabelPair
	seen := make(map[string]bool)
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		src, dest, ok := strings.Cut(entry, "=")
		src = strings.TrimSpace(src)
		dest = strings.TrimSpace(dest)
		if !ok || src == "" || dest == "" {
			return nil, fmt.Errorf("invalid LABEL_MAP entry %q", entry)
		}
		if seen[src] {
			return nil, fmt.Errorf("duplicate LABEL_MAP source key %q", src)
		}
		seen[src] = true
		labels = append(labels, ecowitt.LabelPair{Source: src, Dest: dest})
	}
	return labels, nil
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v == "1" || strings.EqualFold(v, "true")
}
