package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// RemoteConfig points at the Momo Moving REST API.
type RemoteConfig struct {
	BaseURL string
	Timeout time.Duration
}

type StoreConfig struct {
	Driver     string
	SQLitePath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type SecurityConfig struct {
	DeviceSecret string
	DeviceTTL    time.Duration
	TokenSecret  string
}

type SessionConfig struct {
	ErrorTTL      time.Duration
	IdleTTL       time.Duration
	ResolveWait   time.Duration
	SweepSchedule string
}

type AdviceConfig struct {
	Timeout time.Duration
}

type CookieConfig struct {
	Name   string
	Secure bool
}

type AppConfig struct {
	Environment      string
	LogLevel         string
	HTTP             HTTPConfig
	Remote           RemoteConfig
	Store            StoreConfig
	Redis            RedisConfig
	Security         SecurityConfig
	Session          SessionConfig
	Advice           AdviceConfig
	Cookie           CookieConfig
	AllowCORSOrigins []string
}

const (
	StoreDriverSQLite = "sqlite"
	StoreDriverRedis  = "redis"
	StoreDriverMemory = "memory"
)

func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("MOMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *AppConfig) validate() error {
	switch c.Store.Driver {
	case StoreDriverSQLite, StoreDriverRedis, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Remote.BaseURL == "" {
		return errors.New("remote.baseurl is required")
	}
	if c.Environment == "production" && (c.Security.DeviceSecret == "" || c.Security.TokenSecret == "") {
		return errors.New("security secrets are required in production")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("loglevel", "")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 3000)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "0s") // event streams stay open
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("remote.baseurl", "https://momomoving-be.onrender.com")
	v.SetDefault("remote.timeout", "45s")

	v.SetDefault("store.driver", StoreDriverSQLite)
	v.SetDefault("store.sqlitepath", "data/momo.db")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "momo:device:")

	v.SetDefault("security.devicesecret", "dev-device-secret")
	v.SetDefault("security.devicettl", "8760h") // one year
	v.SetDefault("security.tokensecret", "dev-token-secret")

	v.SetDefault("session.errorttl", "5s")
	v.SetDefault("session.idlettl", "30m")
	v.SetDefault("session.resolvewait", "2s")
	v.SetDefault("session.sweepschedule", "0 */5 * * * *")

	v.SetDefault("advice.timeout", "30s")

	v.SetDefault("cookie.name", "momo_device")
	v.SetDefault("cookie.secure", false)
}
