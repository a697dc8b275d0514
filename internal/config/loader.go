package config

import (
	"github.com/spf13/viper"

	"github.com/israelwong/zenly-studio-sub011/internal/db"
)

// Config is the full service configuration.
type Config struct {
	Environment    string
	ServerAddr     string
	MigrationsPath string
	Database       db.Config
	TelegramToken  string
	TelegramChatID int64
}

// Load reads config.yaml from configPath with environment overrides
// (ZENLY_SERVER_ADDR, ZENLY_DATABASE_HOST, ...). A missing file is fine;
// defaults plus env vars apply.
func Load(configPath string) (Config, error) {
	cfg := Config{
		Environment:    "development",
		ServerAddr:     ":8080",
		MigrationsPath: "./migrations",
		Database:       db.DefaultConfig(),
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("ZENLY")

	v.BindEnv("environment")
	v.BindEnv("server.addr")
	v.BindEnv("migrations.path")
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("telegram.token")
	v.BindEnv("telegram.chat_id")

	// Config file not found? Use defaults + env.
	_ = v.ReadInConfig()

	if v.IsSet("environment") {
		cfg.Environment = v.GetString("environment")
	}
	if v.IsSet("server.addr") {
		cfg.ServerAddr = v.GetString("server.addr")
	}
	if v.IsSet("migrations.path") {
		cfg.MigrationsPath = v.GetString("migrations.path")
	}
	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("telegram.token") {
		cfg.TelegramToken = v.GetString("telegram.token")
	}
	if v.IsSet("telegram.chat_id") {
		cfg.TelegramChatID = v.GetInt64("telegram.chat_id")
	}

	return cfg, nil
}
