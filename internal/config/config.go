package config

import (
	"fmt"
)

type Config struct {
	ServerAddr     string
	StorePath      string
	AllowedOrigins []string
}

func NewConfig(serverAddr, storePath string, allowedOrigins []string) (*Config, error) {
	if serverAddr == "" {
		return nil, fmt.Errorf("server address cannot be empty")
	}
	if storePath == "" {
		return nil, fmt.Errorf("store path cannot be empty")
	}

	return &Config{
		ServerAddr:     serverAddr,
		StorePath:      storePath,
		AllowedOrigins: allowedOrigins,
	}, nil
}
