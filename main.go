package main

import (
	"SmartBus/bot"
	"SmartBus/impl/core"
	"SmartBus/internal/config"
	"SmartBus/internal/database"
	"SmartBus/internal/database/memory"
	"SmartBus/internal/http-server/api"
	"SmartBus/internal/lib/logger"
	"SmartBus/internal/lib/sl"
	"SmartBus/internal/service/auth"
	"SmartBus/internal/storage/uploads"
	"context"
	"flag"
	"github.com/joho/godotenv"
	"log/slog"
	"time"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	// values from .env become environment overrides for the config
	envErr := godotenv.Load()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	lg.Info("starting smartbus", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")
	if envErr != nil {
		lg.Debug("no .env file loaded", sl.Err(envErr))
	}

	handler := core.New(lg)

	authService := auth.NewAuthService(auth.Options{
		Secret:     conf.Jwt.Secret,
		Issuer:     conf.Jwt.Issuer,
		AdminTTL:   conf.Jwt.AdminTTL,
		UserTTL:    conf.Jwt.UserTTL,
		BcryptCost: conf.BcryptCost,
	}, lg)
	handler.SetAuthService(authService)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if conf.Mongo.Enabled {
		db, err := repository.NewMongoClient(ctx, conf, lg)
		if err != nil {
			lg.Error("mongo client", sl.Err(err))
			return
		}
		defer func() {
			_ = db.Close(context.Background())
		}()
		if err = db.EnsureIndexes(ctx); err != nil {
			lg.Error("mongo indexes", sl.Err(err))
			return
		}
		handler.SetRepository(db)
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	} else {
		handler.SetRepository(memory.New())
		lg.Warn("mongo disabled, records are kept in memory only")
	}

	files, err := uploads.New(conf.Uploads.Dir, conf.Uploads.MaxSize, lg)
	if err != nil {
		lg.Error("uploads store", sl.Err(err))
		return
	}
	handler.SetFileStore(files)

	if conf.Telegram.Enabled {
		tgBot, err := bot.NewTgBot(conf.Telegram.BotName, conf.Telegram.ApiKey, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
		} else {
			handler.SetNotifier(tgBot)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")

			go func() {
				if err := tgBot.Start(); err != nil {
					lg.Error("telegram bot error", sl.Err(err))
				}
			}()
		}
	}

	if err = handler.EnsureAdmin(ctx, conf.Admin.Username, conf.Admin.Email, conf.Admin.Password); err != nil {
		lg.Error("admin bootstrap", sl.Err(err))
		return
	}
	cancel()

	// *** blocking start with http server ***
	err = api.New(conf, lg, handler)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
