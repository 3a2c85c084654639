package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port       string `yaml:"port"`
		CORSOrigin string `yaml:"cors_origin"`
	} `yaml:"server"`
	Database struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`
	Redis struct {
		Addr string `yaml:"addr"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	Uploads struct {
		Dir     string `yaml:"dir"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"uploads"`
	Alerts struct {
		SendgridKey string `yaml:"sendgrid_key"`
		From        string `yaml:"from"`
		To          string `yaml:"to"`
	} `yaml:"alerts"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads YAML config from path when it exists and fills any gaps from
// the environment, so a bare .env deployment still works.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		} else if !os.IsNotExist(err) {
			return cfg, err
		}
	}

	fallback(&cfg.Server.Port, "PORT", "8080")
	fallback(&cfg.Server.CORSOrigin, "CORS_ORIGIN", "http://localhost:3000")
	fallback(&cfg.Database.Host, "DB_HOST", "localhost")
	fallback(&cfg.Database.Port, "DB_PORT", "5432")
	fallback(&cfg.Database.User, "DB_USER", "postgres")
	fallback(&cfg.Database.Password, "DB_PASSWORD", "")
	fallback(&cfg.Database.Name, "DB_NAME", "cup")
	fallback(&cfg.Redis.Addr, "REDIS_ADDR", "localhost:6379")
	fallback(&cfg.Auth.JWTSecret, "JWT_SECRET", "")
	fallback(&cfg.Uploads.Dir, "UPLOADS_DIR", "uploads")
	fallback(&cfg.Uploads.BaseURL, "UPLOADS_BASE_URL", "http://localhost:8080/uploads")
	fallback(&cfg.Alerts.SendgridKey, "SENDGRID_KEY", "")
	fallback(&cfg.Alerts.From, "ALERTS_FROM", "")
	fallback(&cfg.Alerts.To, "ALERTS_TO", "")
	fallback(&cfg.Log.Level, "LOG_LEVEL", "")

	return cfg, nil
}

func fallback(dst *string, env, def string) {
	if *dst != "" {
		return
	}
	if v := os.Getenv(env); v != "" {
		*dst = v
		return
	}
	*dst = def
}
