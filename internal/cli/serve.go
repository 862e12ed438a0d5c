package cli

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"yamdb/internal/config"
	"yamdb/internal/mail"
	"yamdb/internal/server"
	"yamdb/internal/services"
	"yamdb/pkg/rabbitmq"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, db, err := openDatabase()
	if err != nil {
		return err
	}

	// --- Mail delivery ---
	mailer := newMailer(cfg)
	var sender services.ConfirmationSender = &mail.DirectSender{Mailer: mailer, From: cfg.MailFrom}
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.MailQueue})
		if err != nil {
			return err
		}
		defer mqClient.Close()

		log.Printf("Starting RabbitMQ consumer for %s...", mqClient.Queue())
		if err := mqClient.Consume(mail.DeliveryHandler(mailer, cfg.MailFrom), false); err != nil {
			return err
		}
		sender = &mail.QueueSender{Publisher: mqClient}
	}

	app := server.New(db, server.Options{
		Auth: services.AuthConfig{
			Secret:            cfg.JWTSecret,
			AccessTTL:         cfg.AccessTokenTTL,
			RefreshTTL:        cfg.RefreshTokenTTL,
			CodeTTL:           cfg.ConfirmationCodeTTL,
			ReservedUsernames: cfg.ReservedUsernames,
		},
		Sender:     sender,
		RequestLog: true,
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Fiber.Listen(cfg.AppPort)
	}()

	select {
	case err := <-listenErr:
		return err
	case <-quit:
	}
	log.Println("Shutting down server...")

	if err := app.Fiber.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
	return nil
}

func newMailer(cfg *config.Config) mail.Mailer {
	if cfg.MailBackend == "smtp" {
		return mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
		})
	}
	return mail.LogMailer{}
}
