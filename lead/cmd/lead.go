package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/infra"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/server"
	"github.com/Alturino/storefront/lead/internal/controller"
	"github.com/Alturino/storefront/lead/internal/otel"
	"github.com/Alturino/storefront/lead/internal/service"
)

func RunLeadService(c context.Context) {
	c, span := otel.Tracer.Start(c, "RunLeadService")
	defer span.End()

	cfg := config.InitConfig(c, constants.AppLeadService)

	logger := log.InitLogger(filepath.Join("/var/log", constants.AppLeadService+".log"), cfg.Application.Env).
		With().
		Str(log.KeyAppName, constants.AppLeadService).
		Str(log.KeyTag, "main RunLeadService").
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	shutdownFuncs, err := inOtel.InitOtelSdk(c, constants.AppLeadService, cfg.Otel)
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
	logger.Info().Msg("initialized database")

	logger = logger.With().Str(log.KeyProcess, "initializing broker").Logger()
	logger.Info().Msg("initializing broker")
	b, err := infra.NewBroker(c, cfg)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Error().Err(err).Msgf("failed closing broker with error=%s", err.Error())
		}
	}()
	logger.Info().Msg("initialized broker")

	logger = logger.With().Str(log.KeyProcess, "initializing lead controller").Logger()
	logger.Info().Msg("initializing lead controller")
	router := server.NewRouter(constants.AppLeadService)
	leadService := service.NewLeadService(repository.NewStore(db), b)
	controller.AttachLeadController(router, leadService, cfg.Application.SecretKey)
	logger.Info().Msg("initialized lead controller")

	c = logger.WithContext(c)
	if err = server.Run(c, constants.AppLeadService, cfg.Application, router, shutdownFuncs); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
}
