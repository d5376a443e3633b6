package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	MQTT      MQTTConfig
	Sensor    SensorConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string

	// TrustedProxies may set X-Forwarded-For. Empty means the socket peer
	// address is the client address, which device IP fallback relies on.
	TrustedProxies  []string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

// JWTConfig holds the shared secret of the identity provider that signs
// operator tokens for the admin API.
type JWTConfig struct {
	Secret string
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type MQTTConfig struct {
	Enabled        bool
	Broker         string
	ClientID       string
	Username       string
	Password       string
	SensorTopic    string
	QoS            byte
	KeepAlive      int
	ConnectTimeout int
}

// SensorConfig tunes the sensor ingestion pipeline.
type SensorConfig struct {
	// Timezone is the operating calendar of all facilities. Either an IANA
	// name or a fixed offset such as "+09:00".
	Timezone           string
	ProcessTimeout     time.Duration
	LogTimeout         time.Duration
	MaxParallelWrites  int
	MaxPayloadBytes    int64
	AutoRegister       bool
	RequireDeviceToken bool

	// LogRetention bounds the raw transmission log; zero keeps it forever.
	LogRetention         time.Duration
	LogRetentionInterval time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:            viper.GetString("SERVER_PORT"),
			Host:            viper.GetString("SERVER_HOST"),
			Environment:     viper.GetString("ENVIRONMENT"),
			TrustedProxies:  viper.GetStringSlice("SERVER_TRUSTED_PROXIES"),
			ShutdownTimeout: viper.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASSWORD"),
			DBName:      viper.GetString("DB_NAME"),
			SSLMode:     viper.GetString("DB_SSLMODE"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   viper.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: viper.GetInt("RATE_LIMIT_GENERAL_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   viper.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           viper.GetInt("CORS_MAX_AGE"),
		},
		MQTT: MQTTConfig{
			Enabled:        viper.GetBool("MQTT_ENABLED"),
			Broker:         viper.GetString("MQTT_BROKER"),
			ClientID:       viper.GetString("MQTT_CLIENT_ID"),
			Username:       viper.GetString("MQTT_USERNAME"),
			Password:       viper.GetString("MQTT_PASSWORD"),
			SensorTopic:    viper.GetString("MQTT_SENSOR_TOPIC"),
			QoS:            byte(viper.GetUint("MQTT_QOS")),
			KeepAlive:      viper.GetInt("MQTT_KEEP_ALIVE"),
			ConnectTimeout: viper.GetInt("MQTT_CONNECT_TIMEOUT"),
		},
		Sensor: SensorConfig{
			Timezone:             viper.GetString("SENSOR_TIMEZONE"),
			ProcessTimeout:       viper.GetDuration("SENSOR_PROCESS_TIMEOUT"),
			LogTimeout:           viper.GetDuration("SENSOR_LOG_TIMEOUT"),
			MaxParallelWrites:    viper.GetInt("SENSOR_MAX_PARALLEL_WRITES"),
			MaxPayloadBytes:      viper.GetInt64("SENSOR_MAX_PAYLOAD_BYTES"),
			AutoRegister:         viper.GetBool("SENSOR_AUTO_REGISTER"),
			RequireDeviceToken:   viper.GetBool("SENSOR_REQUIRE_DEVICE_TOKEN"),
			LogRetention:         viper.GetDuration("SENSOR_LOG_RETENTION"),
			LogRetentionInterval: viper.GetDuration("SENSOR_LOG_RETENTION_INTERVAL"),
		},
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("RATE_LIMIT_GENERAL_RPS", 20)
	viper.SetDefault("RATE_LIMIT_GENERAL_BURST", 40)
	viper.SetDefault("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Authorization"})
	viper.SetDefault("MQTT_CLIENT_ID", "lab-quality-monitor")
	viper.SetDefault("MQTT_SENSOR_TOPIC", "sensors/+/readings")
	viper.SetDefault("MQTT_QOS", 1)
	viper.SetDefault("MQTT_KEEP_ALIVE", 30)
	viper.SetDefault("MQTT_CONNECT_TIMEOUT", 10)
	viper.SetDefault("SENSOR_TIMEZONE", "+09:00")
	viper.SetDefault("SENSOR_PROCESS_TIMEOUT", 10*time.Second)
	viper.SetDefault("SENSOR_LOG_TIMEOUT", 5*time.Second)
	viper.SetDefault("SENSOR_MAX_PARALLEL_WRITES", 4)
	viper.SetDefault("SENSOR_MAX_PAYLOAD_BYTES", 64<<10)
	viper.SetDefault("SENSOR_LOG_RETENTION", 90*24*time.Hour)
	viper.SetDefault("SENSOR_LOG_RETENTION_INTERVAL", time.Hour)
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
