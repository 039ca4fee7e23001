package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"form-gateway/internal/api"
	"form-gateway/internal/captcha"
	awsx "form-gateway/internal/common/aws"
	"form-gateway/internal/common/config"
	"form-gateway/internal/common/logger"
	"form-gateway/internal/common/observability"
	"form-gateway/internal/dispatch"
	"form-gateway/internal/mail"
	"form-gateway/internal/notify"
	"form-gateway/internal/origin"
	"form-gateway/internal/render"
	"form-gateway/pkg/registry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewStructured("info", "json").WithError(err).Error("failed to load configuration", nil)
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting form gateway", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Registry and renderer are validated against each other before the
	// service accepts traffic: unknown template keys fail here, not at
	// request time.
	reg, err := loadRegistry(cfg)
	if err != nil {
		log.WithError(err).Error("failed to load form registry", nil)
		os.Exit(1)
	}

	renderer, err := render.NewRenderer()
	if err != nil {
		log.WithError(err).Error("failed to build renderer", nil)
		os.Exit(1)
	}
	if err := reg.ValidateTemplates(renderer.Supports); err != nil {
		log.WithError(err).Error("registry references unknown template", nil)
		os.Exit(1)
	}

	for _, form := range reg.List() {
		log.Info("registered form", map[string]interface{}{
			"formId": form.ID,
			"name":   form.Name,
		})
	}

	authorizer := origin.NewAuthorizer(cfg.Security.AllowedDomains, cfg.Security.AllowAll, log)

	verifier := captcha.NewVerifier(&captcha.Config{
		TurnstileSecret: cfg.Security.Captcha.TurnstileSecret,
		RecaptchaSecret: cfg.Security.Captcha.RecaptchaSecret,
		Timeout:         config.GetDuration(cfg.Security.Captcha.Timeout),
	}, log)

	sender, err := buildSender(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Error("failed to build mail sender", nil)
		os.Exit(1)
	}

	var alerts *notify.Notifier
	if cfg.Alerts.SMS.Enabled {
		snsClient, err := awsx.NewSNSClient(ctx, cfg.Alerts.AWS.Region)
		if err != nil {
			log.WithError(err).Error("failed to create SNS client", nil)
			os.Exit(1)
		}
		alerts = notify.NewNotifier(snsClient, &notify.Config{
			PhoneNumber:       cfg.Alerts.SMS.PhoneNumber,
			PriorityThreshold: cfg.Alerts.SMS.PriorityThreshold,
		}, log)
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	dispatcher := dispatch.NewDispatcher(dispatch.Dependencies{
		Registry:      reg,
		Origins:       authorizer,
		Captcha:       verifier,
		Renderer:      renderer,
		Sender:        sender,
		Alerts:        alerts,
		Observability: obs,
		Logger:        log,
	})

	handlers := api.NewHandlers(cfg.App.Name, reg, dispatcher, log)
	server := api.NewServer(cfg.Server, handlers)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", map[string]interface{}{
			"addr": cfg.Server.Addr(),
		})
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutting down", map[string]interface{}{"signal": sig.String()})
	case err := <-errCh:
		log.WithError(err).Error("http server stopped", nil)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed", nil)
	}
}

func loadRegistry(cfg *config.Config) (*registry.Registry, error) {
	if cfg.Registry.Path == "" {
		return registry.Default(), nil
	}
	return registry.Load(cfg.Registry.Path)
}

func buildSender(ctx context.Context, cfg *config.Config, log logger.Logger) (mail.Sender, error) {
	switch cfg.Mail.Provider {
	case "ses":
		return mail.NewSESSender(ctx, cfg.Mail.SES.Region, cfg.Mail.From, log)
	default:
		return mail.NewSMTPSender(&mail.SMTPConfig{
			Host:     cfg.Mail.SMTP.Host,
			Port:     cfg.Mail.SMTP.Port,
			Username: cfg.Mail.SMTP.Username,
			Password: cfg.Mail.SMTP.Password,
			UseTLS:   cfg.Mail.SMTP.UseTLS,
			From:     cfg.Mail.From,
			Timeout:  config.GetDuration(cfg.Mail.Timeout),
		}, log)
	}
}
