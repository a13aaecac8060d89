package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr           string        `yaml:"addr"`
	JWTSecret      string        `yaml:"jwt_secret"`
	APITimeout     time.Duration `yaml:"timeout"`
	StorageTimeout time.Duration `yaml:"storage_timeout"`
	DatabasePath   string        `yaml:"database_path"`
	TokenDuration  time.Duration `yaml:"token_duration"`
	GitHub         GitHubConfig  `yaml:"github"`
}

type GitHubConfig struct {
	BaseURL      string        `yaml:"base_url"`
	ClientID     string        `yaml:"client_id"`
	ClientSecret string        `yaml:"client_secret"`
	Timeout      time.Duration `yaml:"timeout"`
	Retries      int           `yaml:"retries"`
	Backoff      time.Duration `yaml:"backoff"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:           getEnv("DEVCONNECT_ADDR", ":8080"),
		JWTSecret:      getEnv("DEVCONNECT_JWT_SECRET", "supersecretkey"),
		APITimeout:     15 * time.Second,
		StorageTimeout: 5 * time.Second,
		DatabasePath:   getEnv("DEVCONNECT_DATABASE_PATH", "devconnect.db"),
		// tokens issued at login/registration stay valid for ten hours
		TokenDuration: 10 * time.Hour,
		GitHub: GitHubConfig{
			BaseURL:      getEnv("DEVCONNECT_GITHUB_BASE_URL", "https://api.github.com"),
			ClientID:     getEnv("DEVCONNECT_GITHUB_CLIENT_ID", ""),
			ClientSecret: getEnv("DEVCONNECT_GITHUB_CLIENT_SECRET", ""),
			Timeout:      10 * time.Second,
			Retries:      2,
			Backoff:      500 * time.Millisecond,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
