package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Alturino/storefront/catalog/internal/controller"
	"github.com/Alturino/storefront/catalog/internal/otel"
	"github.com/Alturino/storefront/catalog/internal/service"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/infra"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/server"
)

func RunCatalogService(c context.Context) {
	c, span := otel.Tracer.Start(c, "RunCatalogService")
	defer span.End()

	cfg := config.InitConfig(c, constants.AppCatalogService)

	logger := log.InitLogger(filepath.Join("/var/log", constants.AppCatalogService+".log"), cfg.Application.Env).
		With().
		Str(log.KeyAppName, constants.AppCatalogService).
		Str(log.KeyTag, "main RunCatalogService").
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	shutdownFuncs, err := inOtel.InitOtelSdk(c, constants.AppCatalogService, cfg.Otel)
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

	logger = logger.With().Str(log.KeyProcess, "initializing catalog controller").Logger()
	logger.Info().Msg("initializing catalog controller")
	router := server.NewRouter(constants.AppCatalogService)
	catalogService := service.NewCatalogService(repository.NewStore(db))
	controller.AttachCatalogController(router, catalogService, cfg.Application.SecretKey)
	logger.Info().Msg("initialized catalog controller")

	c = logger.WithContext(c)
	if err = server.Run(c, constants.AppCatalogService, cfg.Application, router, shutdownFuncs); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
}
