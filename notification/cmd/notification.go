package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/Alturino/storefront/internal/broker"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/infra"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/server"
	"github.com/Alturino/storefront/notification/internal/mail"
	"github.com/Alturino/storefront/notification/internal/otel"
	"github.com/Alturino/storefront/notification/internal/service"
)

func RunNotificationService(c context.Context) {
	c, span := otel.Tracer.Start(c, "RunNotificationService")
	defer span.End()

	cfg := config.InitConfig(c, constants.AppNotificationService)

	logger := log.InitLogger(filepath.Join("/var/log", constants.AppNotificationService+".log"), cfg.Application.Env).
		With().
		Str(log.KeyAppName, constants.AppNotificationService).
		Str(log.KeyTag, "main RunNotificationService").
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	shutdownFuncs, err := inOtel.InitOtelSdk(c, constants.AppNotificationService, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("initialized otel sdk")

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

	logger = logger.With().Str(log.KeyProcess, "initializing mail sender").Logger()
	sender := mail.NewSender(cfg.Mail)
	notificationService := service.NewNotificationService(sender, cfg.Mail.AdminEmail)
	logger.Info().Type("sender", sender).Msg("initialized mail sender")

	c = logger.WithContext(c)
	g, gc := errgroup.WithContext(c)
	subscribe := func(topic string, handler broker.Handler) {
		g.Go(func() error {
			logger.Info().Str(log.KeyTopic, topic).Msg("subscribing")
			if err := b.Subscribe(gc, topic, handler); err != nil {
				return fmt.Errorf("failed subscribing topic=%s with error=%w", topic, err)
			}
			return nil
		})
	}
	subscribe(constants.TopicLeadCreated, notificationService.HandleLeadCreated)
	subscribe(constants.TopicOrderCreated, notificationService.HandleOrderCreated)
	g.Go(func() error {
		return server.Run(gc, constants.AppNotificationService, cfg.Application, server.NewRouter(constants.AppNotificationService), shutdownFuncs)
	})

	if err = g.Wait(); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
}
