package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config carries every external setting the service needs. It is built once
// in main and handed to the constructors; nothing reads the environment
// after startup.
type Config struct {
	Port string

	// Record store (Airtable-style tabular API)
	StoreAPIKey    string
	StoreBaseID    string
	StoreBaseURL   string
	ProspectsTable string
	ResponsesTable string
	OperatorsTable string

	// CRM
	CRMAPIKey        string
	CRMLocationID    string
	CRMBaseURL       string
	CRMFieldEncoding string // "flat" or "list", see crm.EncoderFor

	// Booking URL template with a single %s for the operator's CRM user id.
	// Empty disables the redirect target in submit responses.
	BookingURLTemplate string

	// Wait between the store writes and the CRM sync, so store-side
	// automations can settle first. Zero disables the wait.
	PreSyncDelay time.Duration

	// How long an operator roster read may be reused before going back to
	// the store. Zero means a fresh read on every assignment.
	RosterCacheTTL time.Duration
}

var ErrMissingStoreCredentials = errors.New("STORE_API_KEY and STORE_BASE_ID are required")

func Load() (*Config, error) {
	cfg := &Config{
		Port: ":" + getenv("PORT", "8080"),

		StoreAPIKey:    os.Getenv("STORE_API_KEY"),
		StoreBaseID:    os.Getenv("STORE_BASE_ID"),
		StoreBaseURL:   getenv("STORE_BASE_URL", "https://api.airtable.com/v0"),
		ProspectsTable: getenv("STORE_PROSPECTS_TABLE", "Prospects"),
		ResponsesTable: getenv("STORE_RESPONSES_TABLE", "Survey Responses"),
		OperatorsTable: getenv("STORE_OPERATORS_TABLE", "Operators"),

		CRMAPIKey:        os.Getenv("CRM_API_KEY"),
		CRMLocationID:    os.Getenv("CRM_LOCATION_ID"),
		CRMBaseURL:       getenv("CRM_BASE_URL", "https://rest.gohighlevel.com/v1"),
		CRMFieldEncoding: getenv("CRM_FIELD_ENCODING", "flat"),

		BookingURLTemplate: os.Getenv("BOOKING_URL_TEMPLATE"),

		PreSyncDelay:   secondsEnv("PRE_SYNC_DELAY_SECONDS", 0),
		RosterCacheTTL: secondsEnv("ROSTER_CACHE_TTL_SECONDS", 30),
	}

	if cfg.StoreAPIKey == "" || cfg.StoreBaseID == "" {
		return nil, ErrMissingStoreCredentials
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func secondsEnv(key string, fallback int) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(fallback) * time.Second
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return time.Duration(fallback) * time.Second
	}
	return time.Duration(n) * time.Second
}
