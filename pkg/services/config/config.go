package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type Server struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (s Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type Remote struct {
	BaseURL string        `mapstructure:"base_url" validate:"required"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Geography struct {
	// Path points at a provinces/cities JSON file. Empty means the bundled
	// table.
	Path string `mapstructure:"path"`
}

type Config struct {
	Server    Server    `mapstructure:"server"`
	Remote    Remote    `mapstructure:"remote"`
	Geography Geography `mapstructure:"geography"`
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("remote.timeout", 30*time.Second)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Remote.BaseURL == "" {
		return nil, fmt.Errorf("remote.base_url is required")
	}
	return &cfg, nil
}
