package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/tyt2025/shopifytyt/pkg/errors"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendSupabase = "supabase"
)

type Config struct {
	Port         string
	Environment  string
	LogLevel     string
	StoreBackend string
	Database     DatabaseConfig
	Supabase     SupabaseConfig
	Shopify      ShopifyConfig
	OpenAI       OpenAIConfig
	Publish      PublishConfig
	API          APIConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string // DATABASE_URL; takes precedence over the discrete fields
}

// SupabaseConfig points at the hosted data store's REST layer
type SupabaseConfig struct {
	URL           string
	Key           string
	ProductsTable string
	EventsTable   string
}

type ShopifyConfig struct {
	StoreDomain string
	AccessToken string
	APIVersion  string
}

// OpenAIConfig is used for SEO copy generation; an empty APIKey disables it
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type PublishConfig struct {
	Channels            []string // substrings matched against sales channel names
	DefaultChannel      string
	RequireProductType  bool
	CollectionsAsTags   bool
	SEOMetafieldsInline bool
	DuplicateScanLimit  int
	WebhookURL          string
	SeedCollections     []string
}

type APIConfig struct {
	OperatorKeyHash    string // bcrypt hash; empty disables operator auth
	CORSAllowedOrigins []string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.AutomaticEnv()

	// A missing .env is fine, env vars are enough
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "catalog"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
			URL:      strings.TrimSpace(getEnvOrViper("DATABASE_URL", "")),
		},
		Supabase: SupabaseConfig{
			URL:           strings.TrimSuffix(strings.TrimSpace(getEnvOrViper("SUPABASE_URL", "")), "/"),
			Key:           strings.TrimSpace(getEnvOrViper("SUPABASE_KEY", "")),
			ProductsTable: getEnvOrViper("SUPABASE_PRODUCTS_TABLE", "productos"),
			EventsTable:   getEnvOrViper("SUPABASE_EVENTS_TABLE", "publish_events"),
		},
		Shopify: ShopifyConfig{
			StoreDomain: strings.TrimSpace(getEnvOrViper("SHOPIFY_STORE_DOMAIN", "")),
			AccessToken: strings.TrimSpace(getEnvOrViper("SHOPIFY_ACCESS_TOKEN", "")),
			APIVersion:  getEnvOrViper("SHOPIFY_API_VERSION", "2024-01"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  strings.TrimSpace(getEnvOrViper("OPENAI_API_KEY", "")),
			Model:   getEnvOrViper("OPENAI_MODEL", "gpt-4"),
			BaseURL: strings.TrimSpace(getEnvOrViper("OPENAI_BASE_URL", "")),
		},
		Publish: PublishConfig{
			Channels:            splitList(getEnvOrViper("PUBLISH_CHANNELS", "google")),
			DefaultChannel:      getEnvOrViper("PUBLISH_DEFAULT_CHANNEL", "online store"),
			RequireProductType:  getBool("PUBLISH_REQUIRE_PRODUCT_TYPE", true),
			CollectionsAsTags:   getBool("PUBLISH_COLLECTIONS_AS_TAGS", false),
			SEOMetafieldsInline: getBool("PUBLISH_SEO_METAFIELDS_INLINE", true),
			DuplicateScanLimit:  getInt("PUBLISH_DUPLICATE_SCAN_LIMIT", 250),
			WebhookURL:          strings.TrimSpace(getEnvOrViper("PUBLISH_WEBHOOK_URL", "")),
			SeedCollections:     splitList(getEnvOrViper("SEED_COLLECTIONS", "")),
		},
		API: APIConfig{
			OperatorKeyHash:    strings.TrimSpace(getEnvOrViper("OPERATOR_API_KEY_HASH", "")),
			CORSAllowedOrigins: splitList(getEnvOrViper("CORS_ALLOWED_ORIGINS", "*")),
		},
	}

	backend := strings.ToLower(strings.TrimSpace(getEnvOrViper("STORE_BACKEND", "")))
	if backend == "" {
		backend = StoreBackendPostgres
		if cfg.Supabase.URL != "" {
			backend = StoreBackendSupabase
		}
	}
	if backend != StoreBackendPostgres && backend != StoreBackendSupabase {
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreBackendPostgres, StoreBackendSupabase, backend)
	}
	cfg.StoreBackend = backend

	if backend == StoreBackendSupabase && (cfg.Supabase.URL == "" || cfg.Supabase.Key == "") {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_KEY are required for the supabase store backend")
	}

	return cfg, nil
}

// Validate reports missing Shopify credentials. It is checked per batch rather than
// at startup so the operator API can still serve local reads without them.
func (c ShopifyConfig) Validate() error {
	var missing []string
	if c.StoreDomain == "" {
		missing = append(missing, "SHOPIFY_STORE_DOMAIN")
	}
	if c.AccessToken == "" {
		missing = append(missing, "SHOPIFY_ACCESS_TOKEN")
	}
	if len(missing) > 0 {
		return &errors.ErrConfiguration{Message: "Shopify credentials not configured: " + strings.Join(missing, ", ") + " required"}
	}
	return nil
}

// DSN builds the lib/pq connection string
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	raw := strings.TrimSpace(getEnvOrViper(key, ""))
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

func getInt(key string, defaultValue int) int {
	raw := strings.TrimSpace(getEnvOrViper(key, ""))
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
