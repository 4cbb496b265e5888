package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds the configuration settings for the application.
type Config struct {
	Server   *ServerConfig `yaml:"server"`
	LogLevel string        `yaml:"log_level"`
	DB       *DBConfig     `yaml:"db"`
}

// ServerConfig holds the configuration settings for the HTTP server.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DBConfig holds the configuration settings for the UTXO pool store.
type DBConfig struct {
	Dir    string `yaml:"dir"`
	DBType string `yaml:"db_type"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, err
	}

	return config, nil
}
