package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lab-quality-monitor/internal/config"
	"lab-quality-monitor/internal/infrastructure/database/postgres"
	"lab-quality-monitor/internal/ingestion"
	"lab-quality-monitor/internal/logger"
	"lab-quality-monitor/internal/routes"
	pkgmqtt "lab-quality-monitor/pkg/mqtt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
	)

	if cfg.Database.Host == "" || cfg.Database.DBName == "" {
		logger.Fatal("Database configuration is missing. Please set DB_HOST and DB_NAME environment variables.")
	}
	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT secret is missing. Please set JWT_SECRET environment variable.")
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(context.Background(), db); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	calendar, err := ingestion.NewCalendar(cfg.Sensor.Timezone)
	if err != nil {
		logger.Fatal("Invalid SENSOR_TIMEZONE", zap.String("timezone", cfg.Sensor.Timezone), zap.Error(err))
	}

	processor, err := ingestion.NewProcessor(
		ingestion.NewRepositories(db),
		ingestion.Config{
			ProcessTimeout:    cfg.Sensor.ProcessTimeout,
			LogTimeout:        cfg.Sensor.LogTimeout,
			MaxParallelWrites: cfg.Sensor.MaxParallelWrites,
			RequireToken:      cfg.Sensor.RequireDeviceToken,
			AutoRegister:      cfg.Sensor.AutoRegister,
			Calendar:          calendar,
		},
		ingestion.NewCollectors(prometheus.DefaultRegisterer),
	)
	if err != nil {
		logger.Fatal("Failed to build ingestion pipeline", zap.Error(err))
	}

	var mqttClient *ingestion.MQTTIngestionClient
	if cfg.MQTT.Enabled {
		mqttClient, err = ingestion.NewMQTTIngestionClient(&ingestion.MQTTIngestionConfig{
			ClientConfig: &pkgmqtt.Config{
				Broker:               cfg.MQTT.Broker,
				ClientID:             cfg.MQTT.ClientID,
				Username:             cfg.MQTT.Username,
				Password:             cfg.MQTT.Password,
				KeepAlive:            cfg.MQTT.KeepAlive,
				ConnectTimeout:       cfg.MQTT.ConnectTimeout,
				AutoReconnect:        true,
				MaxReconnectInterval: time.Minute,
			},
			SensorTopic: cfg.MQTT.SensorTopic,
			QoS:         cfg.MQTT.QoS,
		}, processor)
		if err != nil {
			logger.Fatal("Invalid MQTT configuration", zap.Error(err))
		}
		if err := mqttClient.Start(); err != nil {
			logger.Fatal("Failed to start MQTT ingestion", zap.Error(err))
		}
		logger.Info("MQTT ingestion started",
			zap.String("broker", cfg.MQTT.Broker),
			zap.String("topic", cfg.MQTT.SensorTopic),
		)
	}

	retentionCtx, stopRetention := context.WithCancel(context.Background())
	defer stopRetention()
	go ingestion.StartRetentionJob(
		retentionCtx,
		postgres.NewTransmissionPruner(db),
		cfg.Sensor.LogRetention,
		cfg.Sensor.LogRetentionInterval,
	)

	router := routes.SetupRoutes(&routes.Dependencies{
		Config:    cfg,
		DB:        db,
		Processor: processor,
		Gatherer:  prometheus.DefaultGatherer,
	})

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.Sensor.ProcessTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	if mqttClient != nil {
		mqttClient.Stop()
	}
	stopRetention()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
	}

	// Pending last-seen updates finish before the pool closes.
	processor.Wait()

	logger.Info("Server exited properly")
}
