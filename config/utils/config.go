// Package config provides utilities to load environment variables & set config structs, it includes app, http server, database, redis cache, message queue and scheduling settings.
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// AppConfig contains environment variables for the application, http server, database, cache, message queue, scheduling and logger
type (
	AppConfig struct {
		App        *App        `mapstructure:"app"`
		HTTP       *HTTP       `mapstructure:"http"`
		Redis      *Redis      `mapstructure:"redis"`
		Queue      *Queue      `mapstructure:"queue"`
		Scheduling *Scheduling `mapstructure:"scheduling"`
		Logger     *Logger     `mapstructure:"logger"`
		DB         *DB         `mapstructure:"db"`
	}

	// App contains all the environment variables for the application
	App struct {
		Name  string `mapstructure:"name"`
		Env   string `mapstructure:"env"`
		Owner string `mapstructure:"owner"`
	}

	// HTTP contains all the environment variables for the http server
	HTTP struct {
		Addr string `mapstructure:"addr"`
		// RateLimit caps allocation requests per client per minute
		RateLimit int `mapstructure:"rateLimit"`
	}

	// Redis contains all the environment variables for the cache service
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		// GoalTTL bounds how long a cached goal may serve allocations
		GoalTTL time.Duration `mapstructure:"goalTTL"`
	}

	// Queue contains all the environment variables for the message broker
	Queue struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
	}

	// Scheduling contains the knobs of the reminder daemon
	Scheduling struct {
		ReminderInterval time.Duration `mapstructure:"reminderInterval"`
		ReminderLead     time.Duration `mapstructure:"reminderLead"`
	}

	// DB contains all the environment variables for the database
	DB struct {
		Connection string `mapstructure:"connection"`
		Host       string `mapstructure:"host"`
		Port       string `mapstructure:"port"`
		User       string `mapstructure:"user"`
		Password   string `mapstructure:"password"`
		Name       string `mapstructure:"name"`
		MaxConns   int    `mapstructure:"maxConns"`
	}

	// Logger contains all the environment variables for the logger
	Logger struct {
		Level             string                `mapstructure:"level"`
		Development       bool                  `mapstructure:"development"`
		DisableStacktrace bool                  `mapstructure:"disableStacktrace"`
		Encoding          string                `mapstructure:"encoding"`
		EncoderConfig     zapcore.EncoderConfig `mapstructure:"encoderConfig"`
	}
)

// URL assembles the AMQP connection string
func (q *Queue) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", q.User, q.Password, q.Host, q.Port)
}

// addZapEncoderConfig fills encoder config with zapcore types
func addZapEncoderConfig(cfg *zapcore.EncoderConfig) {
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.SecondsDurationEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	cfg.EncodeName = func(s string, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString("[" + s + "]")
	}
}

// New creates a new AppConfig instance
func New() *AppConfig {
	// Set up viper to read the config.yaml file
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/secrets/")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("env")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("http.addr", ":8080")
	viper.SetDefault("http.rateLimit", 30)
	viper.SetDefault("redis.goalTTL", "5m")
	viper.SetDefault("scheduling.reminderInterval", "1m")
	viper.SetDefault("scheduling.reminderLead", "24h")
	viper.SetDefault("db.maxConns", 4)

	// Read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Fatalf("config file not found: %v", err)
		} else {
			log.Fatalf("error reading config file: %v", err)
		}
	}

	// Bind the app.name key to the APP_NAME environment variable
	if err := viper.BindEnv("app.name", "APP_NAME"); err != nil {
		log.Fatalf("error finding APP_NAME env variable")
	}

	// Bind HTTP variables
	viper.BindEnv("http.addr", "HTTP_ADDR")

	// Bind DB variables
	viper.BindEnv("db.host", "PG_HOST")
	viper.BindEnv("db.port", "PG_PORT")
	viper.BindEnv("db.user", "PG_USER")
	viper.BindEnv("db.password", "PG_PASS")
	viper.BindEnv("db.name", "PG_DB")

	// Bind Redis variables
	viper.BindEnv("redis.addr", "REDIS_ADDR")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Bind message queue variables
	viper.BindEnv("queue.host", "MQ_HOST")
	viper.BindEnv("queue.port", "MQ_PORT")
	viper.BindEnv("queue.user", "MQ_USER")
	viper.BindEnv("queue.password", "MQ_PASS")

	// Create an instance of AppConfig
	var config *AppConfig
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("unable to decode into struct: %v", err)
	}
	addZapEncoderConfig(&config.Logger.EncoderConfig)

	return config
}
