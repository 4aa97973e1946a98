package main

import (
	"fmt"
	"strings"

	"shardbot/internal/repository"
	"shardbot/internal/scheduler"
	"shardbot/internal/telegram"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Server   ServerConfig     `yaml:"server"`
	Storage  StorageConfig    `yaml:"storage"`
	Telegram telegram.Config  `yaml:"telegram"`
	Schedule scheduler.Config `yaml:"schedule"`

	AdminIDs []int64 `yaml:"adminIds"`
	LogLevel string  `yaml:"logLevel"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

// StorageConfig selects the snapshot backend: "file", "postgres" or
// "memory".
type StorageConfig struct {
	Driver   string                    `yaml:"driver"`
	FilePath string                    `yaml:"filePath"`
	Database repository.PostgresConfig `yaml:"database"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(configName)
	viper.AddConfigPath(configPath)
	viper.SetConfigType(configFormat)

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
