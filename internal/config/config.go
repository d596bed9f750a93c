package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything the process needs at startup. Values come from an
// optional config file plus INVISION_* environment overrides.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		URL string
	}
	Redis struct {
		Addr           string
		ResultTTLHours int
	}
	Storage struct {
		Bucket          string
		CDNDomain       string
		CredentialsFile string
	}
	Model struct {
		Path            string
		LabelsPath      string
		Threshold       float64
		UncertainPolicy string // "write" or "skip"
	}
	Auth struct {
		JWTSecret            string
		OperatorUser         string
		OperatorPasswordHash string
		TokenTTLMinutes      int
	}
	CORS struct {
		Origins []string
	}
}

// Load reads config.yaml from the given directory (if present) and applies
// environment overrides, e.g. INVISION_DATABASE_URL.
func Load(dir string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("invision")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.result_ttl_hours", 24)
	v.SetDefault("storage.cdn_domain", "")
	v.SetDefault("model.threshold", 0.80)
	v.SetDefault("model.uncertain_policy", "write")
	v.SetDefault("auth.token_ttl_minutes", 15)
	v.SetDefault("cors.origins", []string{"http://localhost:3000", "http://localhost:8100"})

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	cfg.Server.Addr = v.GetString("server.addr")
	cfg.Database.URL = v.GetString("database.url")
	cfg.Redis.Addr = v.GetString("redis.addr")
	cfg.Redis.ResultTTLHours = v.GetInt("redis.result_ttl_hours")
	cfg.Storage.Bucket = v.GetString("storage.bucket")
	cfg.Storage.CDNDomain = v.GetString("storage.cdn_domain")
	cfg.Storage.CredentialsFile = v.GetString("storage.credentials_file")
	cfg.Model.Path = v.GetString("model.path")
	cfg.Model.LabelsPath = v.GetString("model.labels_path")
	cfg.Model.Threshold = v.GetFloat64("model.threshold")
	cfg.Model.UncertainPolicy = v.GetString("model.uncertain_policy")
	cfg.Auth.JWTSecret = v.GetString("auth.jwt_secret")
	cfg.Auth.OperatorUser = v.GetString("auth.operator_user")
	cfg.Auth.OperatorPasswordHash = v.GetString("auth.operator_password_hash")
	cfg.Auth.TokenTTLMinutes = v.GetInt("auth.token_ttl_minutes")
	cfg.CORS.Origins = v.GetStringSlice("cors.origins")

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required (INVISION_DATABASE_URL)")
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required (INVISION_STORAGE_BUCKET)")
	}
	if c.Model.Path == "" || c.Model.LabelsPath == "" {
		return fmt.Errorf("model.path and model.labels_path are required")
	}
	if c.Model.Threshold < 0 || c.Model.Threshold > 1 {
		return fmt.Errorf("model.threshold must be in [0,1], got %v", c.Model.Threshold)
	}
	switch c.Model.UncertainPolicy {
	case "write", "skip":
	default:
		return fmt.Errorf("model.uncertain_policy must be %q or %q", "write", "skip")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.OperatorUser == "" || c.Auth.OperatorPasswordHash == "" {
		return fmt.Errorf("auth.operator_user and auth.operator_password_hash are required")
	}
	if !strings.HasPrefix(c.Auth.OperatorPasswordHash, "$2") {
		return fmt.Errorf("auth.operator_password_hash must be a bcrypt hash")
	}
	return nil
}
