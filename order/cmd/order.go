package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/infra"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/server"
	"github.com/Alturino/storefront/order/internal/controller"
	"github.com/Alturino/storefront/order/internal/otel"
	"github.com/Alturino/storefront/order/internal/service"
	"github.com/Alturino/storefront/order/pkg/normalize"
)

const eventQueueSize = 256

func RunOrderService(c context.Context) {
	c, span := otel.Tracer.Start(c, "RunOrderService")
	defer span.End()

	cfg := config.InitConfig(c, constants.AppOrderService)

	logger := log.InitLogger(filepath.Join("/var/log", constants.AppOrderService+".log"), cfg.Application.Env).
		With().
		Str(log.KeyAppName, constants.AppOrderService).
		Str(log.KeyTag, "main RunOrderService").
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	shutdownFuncs, err := inOtel.InitOtelSdk(c, constants.AppOrderService, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	db := infra.NewDatabaseClient(c, cfg.Database)
	defer db.Close()
	queries := repository.New(db)
	logger.Info().Msg("initialized database")

	logger = logger.With().Str(log.KeyProcess, "initializing broker").Logger()
	logger.Info().Msg("initializing broker")
	b, err := infra.NewBroker(c, cfg)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer closeBroker(logger, b.Close)
	logger.Info().Msg("initialized broker")

	logger = logger.With().Str(log.KeyProcess, "starting event worker").Logger()
	logger.Info().Msg("starting event worker")
	worker := NewEventWorker(b, eventQueueSize)
	var wg sync.WaitGroup
	wg.Add(1)
	go worker.StartWorker(c, &wg)
	defer wg.Wait()
	logger.Info().Msg("started event worker")

	logger = logger.With().Str(log.KeyProcess, "initializing order controller").Logger()
	logger.Info().Msg("initializing order controller")
	router := server.NewRouter(constants.AppOrderService)
	orderService := service.NewOrderService(db, queries, worker, normalize.DefaultNumberGenerator())
	controller.AttachOrderController(router, orderService, cfg.Application.SecretKey)
	logger.Info().Msg("initialized order controller")

	c = logger.WithContext(c)
	if err = server.Run(c, constants.AppOrderService, cfg.Application, router, shutdownFuncs); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
}

func closeBroker(logger zerolog.Logger, closeFn func() error) {
	logger = logger.With().Str(log.KeyProcess, "closing broker").Logger()
	logger.Info().Msg("closing broker")
	if err := closeFn(); err != nil {
		err = fmt.Errorf("failed closing broker with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("closed broker")
}
