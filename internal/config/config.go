package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	DefaultSettingsFile   = "appsettings.json"
	DefaultEnvFile        = ".env"
	DefaultConnectionName = "DefaultConnection"
)

// Settings mirrors the layout of appsettings.json
type Settings struct {
	ConnectionStrings map[string]string `json:"ConnectionStrings"`
	Database          struct {
		Driver       string `json:"Driver"`
		QueryTimeout int    `json:"QueryTimeout"`
	} `json:"Database"`
	Logging struct {
		Level string `json:"Level"`
	} `json:"Logging"`
}

// ReadSettings reads the settings file at path, a missing file is not an
// error and returns nil settings
func ReadSettings(path string) (*Settings, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	settings := &Settings{}
	if err := json.Unmarshal(bytes, settings); err != nil {
		return nil, errors.Wrapf(err, "unable to parse settings file %s", path)
	}
	return settings, nil
}

// ToEnvs flattens the settings into the keys the rest of the application
// configures itself from
func (s *Settings) ToEnvs() map[string]string {
	envs := make(map[string]string)
	if connectionString := s.ConnectionStrings[DefaultConnectionName]; connectionString != "" {
		envs["DATABASE_CONNECTION_STRING"] = connectionString
	}
	if s.Database.Driver != "" {
		envs["DATABASE_DRIVER"] = s.Database.Driver
	}
	if s.Database.QueryTimeout > 0 {
		envs["DATABASE_QUERY_TIMEOUT"] = strconv.Itoa(s.Database.QueryTimeout)
	}
	if s.Logging.Level != "" {
		envs["LOG_LEVEL"] = s.Logging.Level
	}
	return envs
}

// Load merges, in increasing priority, the settings file, the .env file and
// the provided envs; paths are relative to pwd unless APPSETTINGS_FILE or
// ENV_FILE are set
func Load(pwd string, envs map[string]string) (map[string]string, error) {
	merged := make(map[string]string)
	settingsFile := filepath.Join(pwd, DefaultSettingsFile)
	if s := envs["APPSETTINGS_FILE"]; s != "" {
		settingsFile = s
	}
	settings, err := ReadSettings(settingsFile)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		for key, value := range settings.ToEnvs() {
			merged[key] = value
		}
	}
	envFile := filepath.Join(pwd, DefaultEnvFile)
	if s := envs["ENV_FILE"]; s != "" {
		envFile = s
	}
	if _, err := os.Stat(envFile); err == nil {
		dotEnvs, err := godotenv.Read(envFile)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read env file %s", envFile)
		}
		for key, value := range dotEnvs {
			merged[key] = value
		}
	}
	for key, value := range envs {
		merged[key] = value
	}
	return merged, nil
}
