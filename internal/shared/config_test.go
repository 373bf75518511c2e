package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./songdata.db" {
			t.Errorf("expected database path ./songdata.db, got %s", config.Database.Path)
		}

		if config.Sheet.Worksheet != "Sheet1" {
			t.Errorf("expected worksheet Sheet1, got %s", config.Sheet.Worksheet)
		}

		if config.Credentials.Spotify.ClientID != "your_spotify_client_id" {
			t.Errorf("expected spotify client_id your_spotify_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		if config.Credentials.Genius.AccessToken != "your_genius_access_token" {
			t.Errorf("expected genius access_token placeholder, got %s", config.Credentials.Genius.AccessToken)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[sheet]
spreadsheet = "My Songs"
worksheet = "2024"

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"

[credentials.youtube]
api_key = "test_api_key"

[credentials.genius]
access_token = "test_genius_token"

[credentials.sheets]
credentials_file = "/path/to/sa.json"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Sheet.Spreadsheet != "My Songs" {
			t.Errorf("expected spreadsheet My Songs, got %s", config.Sheet.Spreadsheet)
		}

		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		if config.Credentials.Sheets.CredentialsFile != "/path/to/sa.json" {
			t.Errorf("expected sheets credentials file /path/to/sa.json, got %s", config.Credentials.Sheets.CredentialsFile)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error loading missing config")
		}
	})

	t.Run("SaveConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		config := DefaultConfig()
		config.Credentials.YouTube.APIKey = "saved_key"

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}

		if loaded.Credentials.YouTube.APIKey != "saved_key" {
			t.Errorf("expected saved api key, got %s", loaded.Credentials.YouTube.APIKey)
		}

		if err := SaveConfig(configPath, nil); err == nil {
			t.Error("expected error saving nil config")
		}
	})

	t.Run("Resolve", func(t *testing.T) {
		t.Run("fills blank fields from environment", func(t *testing.T) {
			t.Setenv("SPOTIFY_CLIENT_ID", "env_client_id")
			t.Setenv("GENIUS_ACCESS_TOKEN", "env_genius_token")

			config := &Config{}
			config.Resolve()

			if config.Credentials.Spotify.ClientID != "env_client_id" {
				t.Errorf("expected env client id, got %s", config.Credentials.Spotify.ClientID)
			}
			if config.Credentials.Genius.AccessToken != "env_genius_token" {
				t.Errorf("expected env genius token, got %s", config.Credentials.Genius.AccessToken)
			}
		})

		t.Run("explicit config wins over environment", func(t *testing.T) {
			t.Setenv("YOUTUBE_API_KEY", "env_api_key")

			config := &Config{}
			config.Credentials.YouTube.APIKey = "file_api_key"
			config.Resolve()

			if config.Credentials.YouTube.APIKey != "file_api_key" {
				t.Errorf("expected file value to win, got %s", config.Credentials.YouTube.APIKey)
			}
		})

		t.Run("leaves blanks when environment unset", func(t *testing.T) {
			t.Setenv("SPOTIFY_CLIENT_SECRET", "")

			config := &Config{}
			config.Resolve()

			if config.Credentials.Spotify.ClientSecret != "" {
				t.Errorf("expected blank secret, got %s", config.Credentials.Spotify.ClientSecret)
			}
		})
	})
}
