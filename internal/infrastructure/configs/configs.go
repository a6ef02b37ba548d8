package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort            int     `mapstructure:"PORT" validate:"required,gte=1,lte=65535"`
	LogFile               string  `mapstructure:"LOGGING_FILE"`
	StaticDir             string  `mapstructure:"STATIC_DIR" validate:"required"`
	ServerShutdownTimeout int     `mapstructure:"SERVER_SHUTDOWN_TIMEOUT" validate:"gte=0"`
	MaxAllowedSize        int     `mapstructure:"JSON_BODY_MAX_SIZE" validate:"required,gte=1"`
	RataLimitCapacity     float64 `mapstructure:"RATE_LIMITER_CAPACITY" validate:"gte=0"`
	RataLimitFillRate     float64 `mapstructure:"RATE_LIMITER_FILL_RATE" validate:"gte=0"`
	ChromePath            string  `mapstructure:"CHROME_PATH"`
	BrowserQueueSize      int     `mapstructure:"BROWSER_QUEUE_SIZE" validate:"required,gte=1"`
}

var defaults = map[string]any{
	"PORT":                    10000,
	"LOGGING_FILE":            "",
	"STATIC_DIR":              "web/public",
	"SERVER_SHUTDOWN_TIMEOUT": 10,
	"JSON_BODY_MAX_SIZE":      1 << 20,
	"RATE_LIMITER_CAPACITY":   0,
	"RATE_LIMITER_FILL_RATE":  0,
	"CHROME_PATH":             "",
	"BROWSER_QUEUE_SIZE":      8,
}

// LoadConfigs reads settings from the environment, optionally layered over
// the .env style file at path.
func LoadConfigs(path string) (*Config, error) {

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		err := v.ReadInConfig()
		if err != nil {
			return nil, err
		}
	}

	var Cfg Config

	err := v.Unmarshal(&Cfg)
	if err != nil {
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(Cfg)
	if err != nil {
		return nil, err
	}

	return &Cfg, nil

}

func (c *Config) RateLimitEnabled() bool {
	return c.RataLimitCapacity > 0
}
