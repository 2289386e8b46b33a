package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aliskhannn/kakaenen/internal/app"
	"github.com/aliskhannn/kakaenen/internal/config"
	"github.com/aliskhannn/kakaenen/internal/delivery/telegram"
	"github.com/aliskhannn/kakaenen/internal/delivery/terminal"
	"github.com/aliskhannn/kakaenen/internal/delivery/web"
	"github.com/aliskhannn/kakaenen/internal/logger"
)

var configDir string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kakaenen",
		Short:         "Amis vocabulary cards and quiz",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configDir, "config-dir", "./config", "directory holding config.yaml")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "run the web app",
			Args:  cobra.NoArgs,
			RunE:  withApp(runServe),
		},
		&cobra.Command{
			Use:   "bot",
			Short: "run the Telegram bot",
			Args:  cobra.NoArgs,
			RunE:  withApp(runBot),
		},
		&cobra.Command{
			Use:   "play",
			Short: "take the quiz in the terminal",
			Args:  cobra.NoArgs,
			RunE:  withApp(runPlay),
		},
		&cobra.Command{
			Use:   "validate",
			Short: "load the lesson content and audio index, then exit",
			Args:  cobra.NoArgs,
			RunE:  withApp(runValidate),
		},
	)

	return root
}

// withApp loads config, builds the app and cancels ctx on SIGINT/SIGTERM.
func withApp(run func(ctx context.Context, a *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadFrom(configDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		log, err := logger.New(cfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg, log, afero.NewOsFs())
		if err != nil {
			log.Error("failed to initialize app", zap.Error(err))
			return err
		}
		defer a.Close()

		return run(ctx, a)
	}
}

func runServe(ctx context.Context, a *app.App) error {
	a.StartJanitor(ctx)

	h, err := web.NewHandler(a.Quiz, a.Lesson, a.Audio, a.Logger)
	if err != nil {
		return fmt.Errorf("init web handler: %w", err)
	}

	return web.ListenAndServe(ctx, web.ServerConfig{
		Addr:         a.Config.HTTP.Addr,
		ReadTimeout:  a.Config.HTTP.ReadTimeout,
		WriteTimeout: a.Config.HTTP.WriteTimeout,
	}, web.NewRouter(h, a.Logger), a.Logger)
}

func runBot(ctx context.Context, a *app.App) error {
	if err := a.Config.RequireTelegram(); err != nil {
		return err
	}

	bot, err := tgbotapi.NewBotAPI(a.Config.TelegramAPIToken)
	if err != nil {
		return fmt.Errorf("connect telegram: %w", err)
	}
	bot.Debug = a.Config.Env != "production"

	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "開始學習"},
		{Command: "vocab", Description: "單字卡"},
		{Command: "sentences", Description: "句型"},
		{Command: "quiz", Description: "隨堂測驗"},
		{Command: "help", Description: "說明"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		a.Logger.Warn("failed to set bot commands", zap.Error(err))
	}

	a.Logger.Info("authorized on telegram", zap.String("username", bot.Self.UserName))

	a.StartJanitor(ctx)

	err = telegram.NewHandler(bot, a.Logger, a.Quiz, a.Lesson, a.Audio).Run(ctx)
	bot.StopReceivingUpdates()
	if errors.Is(err, context.Canceled) {
		a.Logger.Info("shutdown signal received")
		return nil
	}
	return err
}

func runPlay(ctx context.Context, a *app.App) error {
	m, err := terminal.NewModel(ctx, a.Quiz, a.Content.Unit())
	if err != nil {
		return fmt.Errorf("start quiz: %w", err)
	}
	return terminal.Run(ctx, m)
}

func runValidate(_ context.Context, a *app.App) error {
	return a.WriteSummary(os.Stdout)
}
