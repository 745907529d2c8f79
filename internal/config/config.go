package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultPath = "config/config.yaml"

type FilesConfig struct {
	RootDir  string `yaml:"root_dir"`
	FontPath string `yaml:"font_path"`
}

type TelegramConfig struct {
	BotToken     string  `yaml:"bot_token"`
	AdminChatIDs []int64 `yaml:"admin_chat_ids"`
}

// GatingConfig — free-view quota and the paid access window.
type GatingConfig struct {
	ProfileViewLimit int     `yaml:"profile_view_limit"`
	AccessPeriodDays int     `yaml:"access_period_days"`
	AccessFee        float64 `yaml:"access_fee"`
}

func (g GatingConfig) AccessPeriod() time.Duration {
	return time.Duration(g.AccessPeriodDays) * 24 * time.Hour
}

type FeesConfig struct {
	LongTermPremium float64 `yaml:"long_term_premium"`
	LongTerm        float64 `yaml:"long_term"`
	OnceOff         float64 `yaml:"once_off"`
	PremiumPlan     float64 `yaml:"premium_plan"`
	Currency        string  `yaml:"currency"`
}

type Config struct {
	Server struct {
		Port                 int           `yaml:"port"`
		HousekeepingInterval time.Duration `yaml:"housekeeping_interval"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret  string        `yaml:"jwt_secret"`
		AccessTTL  time.Duration `yaml:"access_ttl"`
		RefreshTTL time.Duration `yaml:"refresh_ttl"`
	} `yaml:"auth"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Admin struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"admin"`
	Files    FilesConfig    `yaml:"files"`
	Telegram TelegramConfig `yaml:"telegram"`
	Gating   GatingConfig   `yaml:"gating"`
	Fees     FeesConfig     `yaml:"fees"`
}

// dev-значение из config/config.yaml
const defaultJWTSecret = "change-me"

// InsecureJWTSecret — секрет пустой или остался из поставляемого конфига.
func (c *Config) InsecureJWTSecret() bool {
	secret := strings.TrimSpace(c.Auth.JWTSecret)
	return secret == "" || secret == defaultJWTSecret
}

func LoadConfig() *Config {
	path := defaultPath
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		path = p
	}
	cfg, err := LoadConfigFrom(path)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return cfg
}

func LoadConfigFrom(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.Admin.Password = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.HousekeepingInterval <= 0 {
		cfg.Server.HousekeepingInterval = time.Hour
	}
	if cfg.Auth.AccessTTL <= 0 {
		cfg.Auth.AccessTTL = 15 * time.Minute
	}
	if cfg.Auth.RefreshTTL <= 0 {
		cfg.Auth.RefreshTTL = 30 * 24 * time.Hour
	}
	if cfg.Admin.Name == "" {
		cfg.Admin.Name = "Administrator"
	}
	if cfg.Files.RootDir == "" {
		cfg.Files.RootDir = "./files"
	}
	if cfg.Gating.ProfileViewLimit <= 0 {
		cfg.Gating.ProfileViewLimit = 4
	}
	if cfg.Gating.AccessPeriodDays <= 0 {
		cfg.Gating.AccessPeriodDays = 30
	}
	if cfg.Gating.AccessFee <= 0 {
		cfg.Gating.AccessFee = 10
	}
	if cfg.Fees.LongTermPremium <= 0 {
		cfg.Fees.LongTermPremium = 120
	}
	if cfg.Fees.LongTerm <= 0 {
		cfg.Fees.LongTerm = 40
	}
	if cfg.Fees.OnceOff <= 0 {
		cfg.Fees.OnceOff = 20
	}
	if cfg.Fees.PremiumPlan <= 0 {
		cfg.Fees.PremiumPlan = 19.99
	}
	if cfg.Fees.Currency == "" {
		cfg.Fees.Currency = "USD"
	}
}
