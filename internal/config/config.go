package config

import (
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port                          string        `mapstructure:"PORT"`
	DatabasePath                  string        `mapstructure:"DATABASE_PATH"`
	LivingAppsBaseURL             string        `mapstructure:"LIVINGAPPS_BASE_URL"`
	LivingAppsToken               string        `mapstructure:"LIVINGAPPS_TOKEN"`
	LivingAppsTimeout             time.Duration `mapstructure:"LIVINGAPPS_TIMEOUT"`
	AppIDDozenten                 string        `mapstructure:"APP_ID_DOZENTEN"`
	AppIDRaeume                   string        `mapstructure:"APP_ID_RAEUME"`
	AppIDTeilnehmer               string        `mapstructure:"APP_ID_TEILNEHMER"`
	AppIDKurse                    string        `mapstructure:"APP_ID_KURSE"`
	AppIDAnmeldungen              string        `mapstructure:"APP_ID_ANMELDUNGEN"`
	CSRFSecret                    string        `mapstructure:"CSRF_SECRET"`
	DiscordBotToken               string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string        `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
}

var boundKeys = []string{
	"LIVINGAPPS_TOKEN",
	"APP_ID_DOZENTEN",
	"APP_ID_RAEUME",
	"APP_ID_TEILNEHMER",
	"APP_ID_KURSE",
	"APP_ID_ANMELDUNGEN",
	"CSRF_SECRET",
	"DISCORD_BOT_TOKEN",
	"DISCORD_NOTIFICATIONS_CHANNEL_ID",
}

func LoadConfig() *Config {
	// A missing .env is fine, the environment alone may carry everything.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Fatalf("Failed to load .env: %v", err)
		}
	}

	cfg, err := Load(viper.New())
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
	return cfg
}

// Load reads the configuration through v. Split from LoadConfig so tests can
// use a fresh viper instance.
func Load(v *viper.Viper) (*Config, error) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_PATH", "kursverwaltung.db")
	v.SetDefault("LIVINGAPPS_BASE_URL", "https://my.living-apps.de/rest")
	v.SetDefault("LIVINGAPPS_TIMEOUT", 15*time.Second)

	for _, key := range boundKeys {
		v.BindEnv(key)
	}

	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	config.LivingAppsBaseURL = strings.TrimRight(config.LivingAppsBaseURL, "/")

	return &config, nil
}

// Validate reports every missing app id at once.
func (c *Config) Validate() error {
	var missing []string
	for key, value := range map[string]string{
		"APP_ID_DOZENTEN":    c.AppIDDozenten,
		"APP_ID_RAEUME":      c.AppIDRaeume,
		"APP_ID_TEILNEHMER":  c.AppIDTeilnehmer,
		"APP_ID_KURSE":       c.AppIDKurse,
		"APP_ID_ANMELDUNGEN": c.AppIDAnmeldungen,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("missing configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
