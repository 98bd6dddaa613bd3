package tasks

import (
	"context"

	"purchase-orders-backend/config"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt builds the asynq connection from REDIS_ADDRESS and REDIS_PASSWORD.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.GetEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
		Password: config.GetEnv("REDIS_PASSWORD"),
	}
}

// NewServer returns a worker for the report queue and its handler mux.
func NewServer(opt asynq.RedisClientOpt, concurrency int, reports *ReportHandler) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueReports: 1,
		},
		Logger: config.Logger.Sugar(),
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			config.Logger.Error("Task failed", zap.String("type", task.Type()), zap.Error(err))
		}),
	})

	mux := asynq.NewServeMux()
	mux.Handle(TypeImportFailureReport, reports)

	config.Logger.Info("Task worker configured", zap.Int("concurrency", concurrency))
	return srv, mux
}
