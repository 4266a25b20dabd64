package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"Sator.eden/internal/models"
)

// Config holds the application's configuration. It is loaded once at startup
// and only read afterwards.
type Config struct {
	Port           string
	LogLevel       string
	AllowedOrigins []string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	ElevenLabsAPIKey  string
	ElevenLabsBaseURL string

	ThingSpeakBaseURL string
	TopChannel        models.Channel
	BottomChannel     models.Channel

	CameraURL string

	InfluxDBURL    string
	InfluxDBToken  string
	InfluxDBOrg    string
	InfluxDBBucket string

	Auth0Issuer   string
	Auth0Audience string
}

// LoadConfig loads the configuration from a .env file (if any) and the
// environment. Missing credentials are not an error here: each endpoint
// reports its own missing configuration.
func LoadConfig() (*Config, error) {
	//load env variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system environment variables")
	}
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash-exp")
	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")
	v.SetDefault("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io")
	v.SetDefault("THINGSPEAK_BASE_URL", "https://api.thingspeak.com")
	v.SetDefault("INFLUXDB_BUCKET", "rover_telemetry")
	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:           v.GetString("PORT"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),

		GeminiAPIKey:  v.GetString("GEMINI_API_KEY"),
		GeminiModel:   v.GetString("GEMINI_MODEL"),
		GeminiBaseURL: v.GetString("GEMINI_BASE_URL"),

		ElevenLabsAPIKey:  v.GetString("ELEVENLABS_API_KEY"),
		ElevenLabsBaseURL: v.GetString("ELEVENLABS_BASE_URL"),

		ThingSpeakBaseURL: v.GetString("THINGSPEAK_BASE_URL"),
		TopChannel: models.Channel{
			Name:       "top",
			ID:         v.GetString("THINGSPEAK_TOP_CHANNEL_ID"),
			ReadKey:    v.GetString("THINGSPEAK_TOP_READ_KEY"),
			FieldNames: models.TopFieldNames,
		},
		BottomChannel: models.Channel{
			Name:       "bottom",
			ID:         v.GetString("THINGSPEAK_BOTTOM_CHANNEL_ID"),
			ReadKey:    v.GetString("THINGSPEAK_BOTTOM_READ_KEY"),
			WholeUnits: true,
			FieldNames: models.BottomFieldNames,
		},

		CameraURL: v.GetString("ESP32_CAMERA_URL"),

		InfluxDBURL:    v.GetString("INFLUXDB_URL"),
		InfluxDBToken:  v.GetString("INFLUXDB_TOKEN"),
		InfluxDBOrg:    v.GetString("INFLUXDB_ORG"),
		InfluxDBBucket: v.GetString("INFLUXDB_BUCKET"),

		Auth0Issuer:   v.GetString("AUTH0_ISSUER"),
		Auth0Audience: v.GetString("AUTH0_AUDIENCE"),
	}
	if cfg.CameraURL == "" {
		// The dashboard build shares its .env with the server.
		cfg.CameraURL = v.GetString("VITE_ESP32_CAMERA_URL")
	}

	if cfg.Port == "" {
		return nil, fmt.Errorf("PORT must not be empty")
	}
	if !cfg.ArchiveEnabled() && (cfg.InfluxDBURL != "" || cfg.InfluxDBToken != "") {
		return nil, fmt.Errorf("InfluxDB configuration is incomplete. Please set INFLUXDB_URL, INFLUXDB_TOKEN, and INFLUXDB_ORG environment variables")
	}
	if (cfg.Auth0Issuer == "") != (cfg.Auth0Audience == "") {
		return nil, fmt.Errorf("Auth0 configuration is incomplete. Please set both AUTH0_ISSUER and AUTH0_AUDIENCE")
	}
	return cfg, nil
}

// ArchiveEnabled reports whether the InfluxDB archive is fully configured.
func (c *Config) ArchiveEnabled() bool {
	return c.InfluxDBURL != "" && c.InfluxDBToken != "" && c.InfluxDBOrg != ""
}

// AuthEnabled reports whether chat routes require an Auth0 bearer token.
func (c *Config) AuthEnabled() bool {
	return c.Auth0Issuer != "" && c.Auth0Audience != ""
}

// MissingSettings lists the integrations that will answer with a
// configuration error, for the startup log.
func (c *Config) MissingSettings() []string {
	var missing []string
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if c.ElevenLabsAPIKey == "" {
		missing = append(missing, "ELEVENLABS_API_KEY")
	}
	if !c.TopChannel.Configured() {
		missing = append(missing, "THINGSPEAK_TOP_CHANNEL_ID/THINGSPEAK_TOP_READ_KEY")
	}
	if !c.BottomChannel.Configured() {
		missing = append(missing, "THINGSPEAK_BOTTOM_CHANNEL_ID/THINGSPEAK_BOTTOM_READ_KEY")
	}
	if c.CameraURL == "" {
		missing = append(missing, "ESP32_CAMERA_URL")
	}
	return missing
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
