// Package config loads racesim.cfg.json through viper and exposes typed
// views of its sections.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "racesim.cfg.json"

// RaceConfig describes the race to run.
type RaceConfig struct {
	Name   string `json:"name" mapstructure:"name"`
	Rounds int    `json:"rounds" mapstructure:"rounds"`
	// Seed 0 means seed from the clock.
	Seed uint64 `json:"seed" mapstructure:"seed"`
}

// LapTimeConfig holds the round-time formula constants.
type LapTimeConfig struct {
	Base           float64 `json:"base" mapstructure:"base"`
	Min            float64 `json:"min" mapstructure:"min"`
	PowerDivisor   float64 `json:"powerDivisor" mapstructure:"powerDivisor"`
	AeroMultiplier float64 `json:"aeroMultiplier" mapstructure:"aeroMultiplier"`
	SkillBonus     float64 `json:"skillBonus" mapstructure:"skillBonus"`
	FactorMin      float64 `json:"factorMin" mapstructure:"factorMin"`
	FactorMax      float64 `json:"factorMax" mapstructure:"factorMax"`
}

// EntrantConfig is one grid slot declared inline in the config file.
type EntrantConfig struct {
	Name         string  `json:"name" mapstructure:"name"`
	Skill        float64 `json:"skill" mapstructure:"skill"`
	Experience   int     `json:"experience" mapstructure:"experience"`
	Policy       string  `json:"policy" mapstructure:"policy"`
	Power        float64 `json:"power" mapstructure:"power"`
	Aero         float64 `json:"aero" mapstructure:"aero"`
	FuelCapacity float64 `json:"fuelCapacity" mapstructure:"fuelCapacity"`
	Tire         string  `json:"tire" mapstructure:"tire"`
}

// DBConfig holds Postgres connection settings.
type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// RosterConfig selects where the grid comes from: "config", "sqlite" or
// "postgres".
type RosterConfig struct {
	Source     string          `json:"source" mapstructure:"source"`
	SqlitePath string          `json:"sqlitePath" mapstructure:"sqlitePath"`
	Postgres   DBConfig        `json:"postgres" mapstructure:"postgres"`
	Entrants   []EntrantConfig `json:"entrants" mapstructure:"entrants"`
}

// InfluxConfig holds lap telemetry settings.
type InfluxConfig struct {
	Enabled   bool   `json:"enabled" mapstructure:"enabled"`
	Protocol  string `json:"protocol" mapstructure:"protocol"`
	Host      string `json:"host" mapstructure:"host"`
	Port      string `json:"port" mapstructure:"port"`
	Token     string `json:"token" mapstructure:"token"`
	Org       string `json:"org" mapstructure:"org"`
	Bucket    string `json:"bucket" mapstructure:"bucket"`
	BackupDir string `json:"backupDir" mapstructure:"backupDir"`
}

// StreamConfig holds the live feed settings.
type StreamConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	URL     string `json:"url" mapstructure:"url"`
	Secret  string `json:"secret" mapstructure:"secret"`
}

// OTelConfig mirrors otel.Config minus the writer.
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("race.name", "Grand Prix")
	viper.SetDefault("race.rounds", 10)
	viper.SetDefault("race.seed", 0)

	viper.SetDefault("lapTime.base", 100.0)
	viper.SetDefault("lapTime.min", 70.0)
	viper.SetDefault("lapTime.powerDivisor", 10.0)
	viper.SetDefault("lapTime.aeroMultiplier", 2.0)
	viper.SetDefault("lapTime.skillBonus", 0.5)
	viper.SetDefault("lapTime.factorMin", 0.9)
	viper.SetDefault("lapTime.factorMax", 1.1)

	viper.SetDefault("roster.source", "config")
	viper.SetDefault("roster.sqlitePath", "./roster.db")
	viper.SetDefault("roster.postgres.host", "localhost")
	viper.SetDefault("roster.postgres.port", "5432")
	viper.SetDefault("roster.postgres.username", "postgres")
	viper.SetDefault("roster.postgres.password", "postgres")
	viper.SetDefault("roster.postgres.database", "racesim")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "racesim")
	viper.SetDefault("influx.bucket", "laps")
	viper.SetDefault("influx.backupDir", "./logs")

	viper.SetDefault("stream.enabled", false)
	viper.SetDefault("stream.url", "ws://localhost:5000/api/v1/race/live")
	viper.SetDefault("stream.secret", "")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "racesim")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

func GetRaceConfig() RaceConfig {
	return RaceConfig{
		Name:   viper.GetString("race.name"),
		Rounds: viper.GetInt("race.rounds"),
		Seed:   viper.GetUint64("race.seed"),
	}
}

func GetLapTimeConfig() LapTimeConfig {
	return LapTimeConfig{
		Base:           viper.GetFloat64("lapTime.base"),
		Min:            viper.GetFloat64("lapTime.min"),
		PowerDivisor:   viper.GetFloat64("lapTime.powerDivisor"),
		AeroMultiplier: viper.GetFloat64("lapTime.aeroMultiplier"),
		SkillBonus:     viper.GetFloat64("lapTime.skillBonus"),
		FactorMin:      viper.GetFloat64("lapTime.factorMin"),
		FactorMax:      viper.GetFloat64("lapTime.factorMax"),
	}
}

// GetRosterConfig returns the roster section. Inline entrants are decoded
// with viper's mapstructure tags.
func GetRosterConfig() (RosterConfig, error) {
	cfg := RosterConfig{
		Source:     viper.GetString("roster.source"),
		SqlitePath: viper.GetString("roster.sqlitePath"),
		Postgres: DBConfig{
			Host:     viper.GetString("roster.postgres.host"),
			Port:     viper.GetString("roster.postgres.port"),
			Username: viper.GetString("roster.postgres.username"),
			Password: viper.GetString("roster.postgres.password"),
			Database: viper.GetString("roster.postgres.database"),
		},
	}
	if err := viper.UnmarshalKey("roster.entrants", &cfg.Entrants); err != nil {
		return cfg, fmt.Errorf("decode roster entrants: %w", err)
	}
	return cfg, nil
}

func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:   viper.GetBool("influx.enabled"),
		Protocol:  viper.GetString("influx.protocol"),
		Host:      viper.GetString("influx.host"),
		Port:      viper.GetString("influx.port"),
		Token:     viper.GetString("influx.token"),
		Org:       viper.GetString("influx.org"),
		Bucket:    viper.GetString("influx.bucket"),
		BackupDir: viper.GetString("influx.backupDir"),
	}
}

func GetStreamConfig() StreamConfig {
	return StreamConfig{
		Enabled: viper.GetBool("stream.enabled"),
		URL:     viper.GetString("stream.url"),
		Secret:  viper.GetString("stream.secret"),
	}
}

func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
