// internal/config/config.go
package config

import (
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Cache    CacheConfig
	Supplier SupplierConfig
	Forecast ForecastConfig
	Alert    AlertConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

// DatabaseConfig selects the catalog backend. Backend is "memory" or "postgres".
type DatabaseConfig struct {
	Backend  string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AppConfig struct {
	DefaultTier          string
	ArtificialDelay      time.Duration
	StarterProductLimit  int
	RandomSeed           int64
	DefaultAdjustingUser string
	ReportDir            string
}

type CacheConfig struct {
	Enabled         bool
	RedisURL        string
	RedisHost       string
	RedisPort       string
	RedisPassword   string
	RedisDB         int
	ProductsTTLSecs int
}

type SupplierConfig struct {
	Delay     time.Duration
	MockStock int
}

type ForecastConfig struct {
	APIKey          string
	ForecastModel   string
	SuggestionModel string
	Timeout         time.Duration
	RatePerSecond   float64
	Burst           int
}

type AlertConfig struct {
	Delay time.Duration
}

type StorageConfig struct {
	Driver    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	Prefix    string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		setDefaults()

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Backend:  viper.GetString("STORE_BACKEND"),
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			App: AppConfig{
				DefaultTier:          viper.GetString("APP_DEFAULT_TIER"),
				ArtificialDelay:      viper.GetDuration("APP_ARTIFICIAL_DELAY"),
				StarterProductLimit:  viper.GetInt("APP_STARTER_PRODUCT_LIMIT"),
				RandomSeed:           viper.GetInt64("APP_RANDOM_SEED"),
				DefaultAdjustingUser: viper.GetString("APP_DEFAULT_USER"),
				ReportDir:            viper.GetString("APP_REPORT_DIR"),
			},
			Cache: CacheConfig{
				Enabled:         viper.GetBool("CACHE_ENABLED"),
				RedisURL:        viper.GetString("REDIS_URL"),
				RedisHost:       viper.GetString("REDIS_HOST"),
				RedisPort:       viper.GetString("REDIS_PORT"),
				RedisPassword:   viper.GetString("REDIS_PASSWORD"),
				RedisDB:         viper.GetInt("REDIS_DB"),
				ProductsTTLSecs: viper.GetInt("CACHE_PRODUCTS_TTL_SECONDS"),
			},
			Supplier: SupplierConfig{
				Delay:     viper.GetDuration("SUPPLIER_DELAY"),
				MockStock: viper.GetInt("SUPPLIER_MOCK_STOCK"),
			},
			Forecast: ForecastConfig{
				APIKey:          firstNonEmpty(viper.GetString("GEMINI_API_KEY"), viper.GetString("API_KEY")),
				ForecastModel:   viper.GetString("FORECAST_MODEL"),
				SuggestionModel: viper.GetString("FORECAST_SUGGESTION_MODEL"),
				Timeout:         viper.GetDuration("FORECAST_TIMEOUT"),
				RatePerSecond:   viper.GetFloat64("FORECAST_RATE_PER_SECOND"),
				Burst:           viper.GetInt("FORECAST_BURST"),
			},
			Alert: AlertConfig{
				Delay: viper.GetDuration("ALERT_DELAY"),
			},
			Storage: StorageConfig{
				Driver:    viper.GetString("STORAGE_DRIVER"),
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				Region:    viper.GetString("STORAGE_REGION"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
				Prefix:    viper.GetString("STORAGE_PREFIX"),
			},
		}
	})

	return instance
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_MODE", "debug")
	viper.SetDefault("SERVER_READ_TIMEOUT", 15)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

	viper.SetDefault("STORE_BACKEND", "memory")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "stockpilot")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.SetDefault("APP_DEFAULT_TIER", "Starter")
	viper.SetDefault("APP_ARTIFICIAL_DELAY", "500ms")
	viper.SetDefault("APP_STARTER_PRODUCT_LIMIT", 3)
	viper.SetDefault("APP_RANDOM_SEED", 0)
	viper.SetDefault("APP_DEFAULT_USER", "Jane Doe")
	viper.SetDefault("APP_REPORT_DIR", "./data/reports")

	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_HOST", "127.0.0.1")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_PRODUCTS_TTL_SECONDS", 60)

	viper.SetDefault("SUPPLIER_DELAY", "300ms")
	viper.SetDefault("SUPPLIER_MOCK_STOCK", 75)

	viper.SetDefault("FORECAST_MODEL", "gemini-3-pro-preview")
	viper.SetDefault("FORECAST_SUGGESTION_MODEL", "gemini-2.5-flash")
	viper.SetDefault("FORECAST_TIMEOUT", "20s")
	viper.SetDefault("FORECAST_RATE_PER_SECOND", 2.0)
	viper.SetDefault("FORECAST_BURST", 5)

	viper.SetDefault("ALERT_DELAY", "800ms")

	viper.SetDefault("STORAGE_DRIVER", "minio")
	viper.SetDefault("STORAGE_USE_SSL", true)
	viper.SetDefault("STORAGE_PREFIX", "reports")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
