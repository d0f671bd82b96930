package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	AWS      AWSConfig      `yaml:"aws"`
	APNS     APNSConfig     `yaml:"apns"`
	JWT      JWTConfig      `yaml:"jwt"`
	Users    UsersConfig    `yaml:"users"`
	Deck     DeckConfig     `yaml:"deck"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// AWSConfig holds S3 backup configuration
type AWSConfig struct {
	Region   string `yaml:"region"`
	S3Bucket string `yaml:"s3_bucket"`
	Endpoint string `yaml:"endpoint"` // custom endpoint for S3-compatible hosts
}

// APNSConfig holds push notification configuration. Pushes are disabled
// when CertFile is empty.
type APNSConfig struct {
	CertFile   string `yaml:"cert_file"`
	CertPass   string `yaml:"cert_pass"`
	Topic      string `yaml:"topic"`
	Production bool   `yaml:"production"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// UsersConfig names the two fixed identities. Matching is strictly
// pairwise between these two; there is no account system behind them.
type UsersConfig struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
}

// Pair returns both identities in declaration order.
func (u UsersConfig) Pair() [2]string {
	return [2]string{u.A, u.B}
}

// Known reports whether name is one of the two identities.
func (u UsersConfig) Known(name string) bool {
	return name == u.A || name == u.B
}

// Partner returns the other identity, or "" if name is not one of the pair.
func (u UsersConfig) Partner(name string) string {
	switch name {
	case u.A:
		return u.B
	case u.B:
		return u.A
	}
	return ""
}

// DeckConfig holds swipe deck tuning
type DeckConfig struct {
	UndoWindow time.Duration `yaml:"undo_window"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Users.A == "" || cfg.Users.B == "" {
		cfg.Users = UsersConfig{A: "Andreas", B: "Emilie"}
	}
	if cfg.Users.A == cfg.Users.B {
		return nil, fmt.Errorf("users.a and users.b must differ")
	}
	if cfg.Deck.UndoWindow <= 0 {
		cfg.Deck.UndoWindow = 15 * time.Second
	}

	return &cfg, nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
