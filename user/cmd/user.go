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
	"github.com/Alturino/storefront/user/internal/controller"
	"github.com/Alturino/storefront/user/internal/otel"
	"github.com/Alturino/storefront/user/internal/service"
	"github.com/Alturino/storefront/user/pkg/request"
)

func RunUserService(c context.Context) {
	c, span := otel.Tracer.Start(c, "RunUserService")
	defer span.End()

	cfg := config.InitConfig(c, constants.AppUserService)

	logger := log.InitLogger(filepath.Join("/var/log", constants.AppUserService+".log"), cfg.Application.Env).
		With().
		Str(log.KeyAppName, constants.AppUserService).
		Str(log.KeyTag, "main RunUserService").
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	shutdownFuncs, err := inOtel.InitOtelSdk(c, constants.AppUserService, cfg.Otel)
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

	logger = logger.With().Str(log.KeyProcess, "initializing user controller").Logger()
	logger.Info().Msg("initializing user controller")
	router := server.NewRouter(constants.AppUserService)
	userService := service.NewUserService(repository.New(db), cfg.Application.SecretKey)
	controller.AttachUserController(router, userService)
	logger.Info().Msg("initialized user controller")

	c = logger.WithContext(c)
	if err = server.Run(c, constants.AppUserService, cfg.Application, router, shutdownFuncs); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
}

// CreateUser stores a staff account using the user service configuration.
func CreateUser(c context.Context, email string, password string) error {
	cfg := config.InitConfig(c, constants.AppUserService)

	logger := log.InitLogger(filepath.Join("/var/log", constants.AppUserService+".log"), cfg.Application.Env).
		With().
		Str(log.KeyAppName, constants.AppUserService).
		Str(log.KeyTag, "main CreateUser").
		Str(log.KeyEmail, email).
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "initializing database").Logger()
	db := infra.NewDatabaseClient(c, cfg.Database)
	defer db.Close()

	logger = logger.With().Str(log.KeyProcess, "creating user").Logger()
	c = logger.WithContext(c)
	user, err := service.NewUserService(repository.New(db), cfg.Application.SecretKey).
		CreateUser(c, request.CreateUser{Email: email, Password: password})
	if err != nil {
		return err
	}
	logger.Info().Str(log.KeyUserID, user.ID.String()).Msg("created user")
	return nil
}
