package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type Mode string

const (
	ServerMode Mode = "server"
	ClientMode Mode = "client"
)

var (
	currentMode = ClientMode // Default to client mode
	initialized bool
	mu          sync.RWMutex
)

func InitializeServer() error {
	mu.Lock()
	defer mu.Unlock()

	if initialized {
		return fmt.Errorf("runtime already initialized")
	}

	currentMode = ServerMode
	initialized = true
	return nil
}

// IsServer returns true if running in server mode
func IsServer() bool {
	mu.RLock()
	defer mu.RUnlock()
	return currentMode == ServerMode
}

// GetDataDir returns the per-user data directory, creating it if needed.
func GetDataDir() (string, error) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dataDir := filepath.Join(homedir, "fileicon", "data")
	if err := os.MkdirAll(dataDir, os.ModePerm); err != nil {
		return "", err
	}
	return dataDir, nil
}

func GetSettingsPath() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "config.json"), nil
}

func GetLogFilePath() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "fileicon.log"), nil
}
