package infra

import (
	"context"
	"errors"
	"log"

	"github.com/notaproblemtosolve/upload-gateway/config"
	"github.com/notaproblemtosolve/upload-gateway/infra/produce"
)

type Infra struct {
	Redis                *RedisClient
	Postgres             *PostgresClient
	Logger               *LoggerClient
	Telemetry            *TelemetryClient
	RabbitMQ             *RabbitMQClient
	AuthorizationService *AuthorizationService
	Produce              *produce.Produce
	Storage              ObjectStorage
}

var infraInstance *Infra

func InitInfra(cfg *config.Config) *Infra {
	if infraInstance != nil {
		return infraInstance
	}

	logger := InitLoggerClient(cfg.EnvConfig)
	if logger == nil {
		panic("Failed to initialize Logger service")
	}

	telemetry := InitTelemetryClient(cfg.EnvConfig)

	redis := InitRedisClient(cfg.EnvConfig)
	if redis == nil {
		panic("Failed to initialize Redis service")
	}

	postgres := InitPostgresClient(cfg.EnvConfig)
	if postgres == nil {
		panic("Failed to initialize Postgres service")
	}

	authorizationService := InitAuthorizationService(cfg.EnvConfig)
	if authorizationService == nil {
		panic("Failed to initialize Authorization service")
	}

	storage := InitObjectStorage(cfg.EnvConfig)
	if storage == nil {
		panic("Failed to initialize Storage service")
	}

	var rabbitMQ *RabbitMQClient
	var produceService *produce.Produce
	if cfg.EnvConfig.RabbitMQ.Enabled {
		rabbitMQ = InitRabbitMQClient(cfg.EnvConfig)
		if rabbitMQ != nil {
			produceService = produce.InitProduce(rabbitMQ.Channel)
		} else {
			log.Println("Warning: RabbitMQ unavailable, upload events will not be published")
		}
	}

	infraInstance = &Infra{
		Redis:                redis,
		Postgres:             postgres,
		Logger:               logger,
		Telemetry:            telemetry,
		RabbitMQ:             rabbitMQ,
		AuthorizationService: authorizationService,
		Produce:              produceService,
		Storage:              storage,
	}

	return infraInstance
}

// Close flushes telemetry and closes every connection, in reverse start order.
func (i *Infra) Close(ctx context.Context) error {
	var errs []error
	if i.RabbitMQ != nil {
		errs = append(errs, i.RabbitMQ.Close())
	}
	errs = append(errs,
		i.Postgres.Close(),
		i.Redis.Close(),
		i.Telemetry.Shutdown(ctx),
		i.Logger.Shutdown(ctx),
	)
	return errors.Join(errs...)
}
