package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Sheet       SheetConfig       `toml:"sheet"`
	Database    DatabaseConfig    `toml:"database"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	YouTube YouTubeConfig `toml:"youtube"`
	Genius  GeniusConfig  `toml:"genius"`
	Sheets  SheetsConfig  `toml:"sheets"`
}

// SpotifyConfig contains Spotify API credentials for the
// client-credentials grant.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// YouTubeConfig contains the YouTube Data API key.
type YouTubeConfig struct {
	APIKey string `toml:"api_key"`
}

// GeniusConfig contains the Genius API access token.
type GeniusConfig struct {
	AccessToken string `toml:"access_token"`
}

// SheetsConfig points at the Google service account key used for
// Sheets and Drive access.
type SheetsConfig struct {
	CredentialsFile string `toml:"credentials_file"`
}

// SheetConfig holds the default spreadsheet and worksheet names.
type SheetConfig struct {
	Spreadsheet string `toml:"spreadsheet"`
	Worksheet   string `toml:"worksheet"`
}

// DatabaseConfig contains settings for the local SQLite backend.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with placeholder values loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig marshals the config to TOML and writes it to the specified path.
func SaveConfig(path string, config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// envFallbacks maps environment variables onto config fields that are
// still blank after loading the file.
func (c *Config) envFallbacks() map[string]*string {
	return map[string]*string{
		"SPOTIFY_CLIENT_ID":              &c.Credentials.Spotify.ClientID,
		"SPOTIFY_CLIENT_SECRET":          &c.Credentials.Spotify.ClientSecret,
		"YOUTUBE_API_KEY":                &c.Credentials.YouTube.APIKey,
		"GENIUS_ACCESS_TOKEN":            &c.Credentials.Genius.AccessToken,
		"GOOGLE_SHEETS_CREDENTIALS_FILE": &c.Credentials.Sheets.CredentialsFile,
	}
}

// Resolve fills empty credential fields from the environment. Values
// already present in the config win over the environment.
func (c *Config) Resolve() {
	for key, field := range c.envFallbacks() {
		if *field == "" {
			if v := os.Getenv(key); v != "" {
				*field = v
			}
		}
	}
}
