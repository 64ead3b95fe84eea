package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env           string        `mapstructure:"ENV"`
	Port          string        `mapstructure:"PORT"`
	MockData      bool          `mapstructure:"MOCK_DATA"`
	DBServer      string        `mapstructure:"DB_SERVER"`
	DBDatabase    string        `mapstructure:"DB_DATABASE"`
	DBUsername    string        `mapstructure:"DB_USERNAME"`
	DBPassword    string        `mapstructure:"DB_PASSWORD"`
	DBTimeout     time.Duration `mapstructure:"DB_TIMEOUT"`
	AdminPassword string        `mapstructure:"ADMIN_PASSWORD"`
	CORSAllowed   string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`

	// Miles a vehicle may accumulate between services before it is due.
	ServiceIntervalMiles int64 `mapstructure:"SERVICE_INTERVAL_MILES"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("MOCK_DATA", false)
	v.SetDefault("DB_TIMEOUT", "60s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("SERVICE_INTERVAL_MILES", 4000)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DatabaseURL assembles a connection URL from the DB_* parts. Empty when the
// configuration is incomplete; callers decide whether that is fatal.
func (c Config) DatabaseURL() string {
	if c.DBServer == "" || c.DBDatabase == "" || c.DBUsername == "" {
		return ""
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUsername, c.DBPassword),
		Host:   c.DBServer,
		Path:   c.DBDatabase,
	}
	q := u.Query()
	q.Set("connect_timeout", fmt.Sprint(int(c.DBTimeout.Seconds())))
	u.RawQuery = q.Encode()
	return u.String()
}
