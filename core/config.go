package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Conf is the global application configuration. Set once by NewConfig at
// startup; read-only afterwards.
var Conf *Config

type (
	ServerConfig struct {
		Host               string
		Addr               string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          int
		DisableTLS    bool
		MigrationsDir string
	}

	Config struct {
		Debug    bool
		TestMode bool
		Env      string
		Build    string
		AppName  string

		SecretKey        string
		FrontendBaseURL  string
		StorageBaseURL   string
		DefaultFromEmail string

		SendgridAPIKey string
		RollbarToken   string

		Server   ServerConfig
		Database DatabaseConfig
	}
)

func (c DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewConfig loads the configuration from typed defaults, an optional
// config/.env.<env> file and ENV-prefixed environment variables.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Uongozi")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "mbele-bila-woga$0f7c1d9e2a4b&8scw")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("storageBaseURL", "http://localhost:8000/static")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("sendgridAPIKey", "")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("serverDebugHost", "localhost:4000")
	v.SetDefault("shutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)

	v.SetDefault("databaseEngine", "postgres")
	v.SetDefault("databaseName", "uongozi")
	v.SetDefault("databaseUser", "")
	v.SetDefault("databasePassword", "")
	v.SetDefault("databaseAdminUser", "")
	v.SetDefault("databaseAdminPassword", "")
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", 5432)
	v.SetDefault("databaseDisableTLS", true)
	v.SetDefault("databaseMigrationsDir", filepath.Join(Getwd(), "migrations"))

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	var testMode bool
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	Conf = &Config{
		Debug:    v.GetBool("debug"),
		TestMode: testMode,
		Env:      env,
		Build:    v.GetString("build"),
		AppName:  v.GetString("appName"),

		SecretKey:        v.GetString("secretKey"),
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		StorageBaseURL:   v.GetString("storageBaseURL"),
		DefaultFromEmail: v.GetString("defaultFromEmail"),

		SendgridAPIKey: v.GetString("sendgridAPIKey"),
		RollbarToken:   v.GetString("rollbarToken"),

		Server: ServerConfig{
			Host:               v.GetString("serverHost"),
			Addr:               v.GetString("serverAddr"),
			DebugHost:          v.GetString("serverDebugHost"),
			ShutdownTimeout:    v.GetDuration("shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("databaseEngine"),
			Name:          v.GetString("databaseName"),
			User:          v.GetString("databaseUser"),
			Password:      v.GetString("databasePassword"),
			AdminUser:     v.GetString("databaseAdminUser"),
			AdminPassword: v.GetString("databaseAdminPassword"),
			Host:          v.GetString("databaseHost"),
			Port:          v.GetInt("databasePort"),
			DisableTLS:    v.GetBool("databaseDisableTLS"),
			MigrationsDir: v.GetString("databaseMigrationsDir"),
		},
	}
	return Conf
}
