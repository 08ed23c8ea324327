// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	AWS         AWSConfig
	Badge       BadgeConfig
	I18n        I18nConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  int // in hours
	RefreshTokenTTL int // in hours
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
}

// BadgeConfig carries the per-deployment constants of the badge collection.
// VaultAddress is the collection's own custody address: freshly registered
// assets and freshly minted tokens are held there until the mint flow hands
// them to the recipient. These values are wiring, fixed at process start,
// as opposed to the instance state created by the initialize call.
type BadgeConfig struct {
	VaultAddress     string
	RegistryAddress  string
	LicensingAddress string
	LicenseTemplate  string
	LicenseTermsID   int64

	CollectionName   string
	CollectionSymbol string
	ContractURI      string

	TokenURI        string
	IPMetadataURI   string
	IPMetadataHash  string
	NFTMetadataHash string
}

type I18nConfig struct {
	DefaultLocale string
	LocalesPath   string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "badge_service"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		JWT: JWTConfig{
			SecretKey:       getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenTTL:  getEnvAsInt("JWT_ACCESS_TTL", 24),   // 24 hours
			RefreshTokenTTL: getEnvAsInt("JWT_REFRESH_TTL", 168), // 7 days
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "badge-metadata"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
		},
		Badge: BadgeConfig{
			VaultAddress:     getEnv("BADGE_VAULT_ADDRESS", ""),
			RegistryAddress:  getEnv("BADGE_REGISTRY_ADDRESS", ""),
			LicensingAddress: getEnv("BADGE_LICENSING_ADDRESS", ""),
			LicenseTemplate:  getEnv("BADGE_LICENSE_TEMPLATE", "pil"),
			LicenseTermsID:   int64(getEnvAsInt("BADGE_LICENSE_TERMS_ID", 1)),
			CollectionName:   getEnv("BADGE_COLLECTION_NAME", "Membership Badge"),
			CollectionSymbol: getEnv("BADGE_COLLECTION_SYMBOL", "BADGE"),
			ContractURI:      getEnv("BADGE_CONTRACT_URI", ""),
			TokenURI:         getEnv("BADGE_TOKEN_URI", ""),
			IPMetadataURI:    getEnv("BADGE_IP_METADATA_URI", ""),
			IPMetadataHash:   getEnv("BADGE_IP_METADATA_HASH", ""),
			NFTMetadataHash:  getEnv("BADGE_NFT_METADATA_HASH", ""),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
			LocalesPath:   getEnv("LOCALES_PATH", "./internal/i18n/locales"),
		},
	}

	return config, config.Validate()
}

var zeroAddressPattern = regexp.MustCompile(`^0x0+$`)

// IsZeroAddress reports whether addr is the sentinel zero value: an empty
// string or an all-zero hex address.
func IsZeroAddress(addr string) bool {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return true
	}
	return zeroAddressPattern.MatchString(strings.ToLower(trimmed))
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == "your-secret-key-change-in-production" && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if c.Environment == "production" {
		if err := c.ValidateBadgeAddresses(); err != nil {
			return err
		}
	}

	return nil
}

// ValidateBadgeAddresses rejects sentinel zero values for the collaborator
// addresses. The check runs once, at construction of the services that use
// them, never per call. Load also applies it in production so a misconfigured
// deployment fails before anything is persisted.
func (c *Config) ValidateBadgeAddresses() error {
	checks := []struct {
		name string
		addr string
	}{
		{"vault", c.Badge.VaultAddress},
		{"registry", c.Badge.RegistryAddress},
		{"licensing", c.Badge.LicensingAddress},
	}

	for _, check := range checks {
		if IsZeroAddress(check.addr) {
			return fmt.Errorf("zero address parameter: %s", check.name)
		}
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
