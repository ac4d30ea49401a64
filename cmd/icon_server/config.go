package main

import (
	"encoding/json"
	"fmt"
	"os"

	"fileicon/internal/settings"
	"fileicon/internal/utils"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Host      string `json:"host" envconfig:"FILEICON_HOST"`
	Port      string `json:"port" envconfig:"FILEICON_PORT"`
	CacheSize int    `json:"cache_size" envconfig:"FILEICON_CACHE_SIZE"`
	NoCache   bool   `json:"no_cache" envconfig:"FILEICON_NO_CACHE"`
	LogFile   string `json:"log_file" envconfig:"FILEICON_LOG_FILE"`
}

var CONFIG Config = Config{}

func processError(err error) {
	fmt.Println(err)
	os.Exit(2)
}

func readFile(cfg *Config) {
	configPath := "fileicon_config.json"
	if !utils.FileExists(configPath) {
		settingsPath, err := settings.GetSettingsPath()
		if err != nil {
			processError(err)
		}
		if !utils.FileExists(settingsPath) {
			return
		}
		configPath = settingsPath
	}

	f, err := os.Open(configPath)
	if err != nil {
		processError(err)
	}
	defer f.Close()

	decoder := json.NewDecoder(f)
	err = decoder.Decode(cfg)
	if err != nil {
		processError(err)
	}
}

func readEnv(cfg *Config) {
	err := envconfig.Process("", cfg)
	if err != nil {
		processError(err)
	}
}

func loadDefaults(cfg *Config) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "7781"
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = 256
	}
	if cfg.LogFile == "" {
		logPath, err := settings.GetLogFilePath()
		if err != nil {
			processError(err)
		}
		cfg.LogFile = logPath
	}
}

// saveConfig writes the current config to fileicon_config.json
func saveConfig(cfg *Config) error {
	file, err := os.Create("fileicon_config.json")
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
