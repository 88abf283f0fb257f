package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"edumov/impl/auth"
	"edumov/impl/core"
	"edumov/internal/config"
	"edumov/internal/database/memdb"
	"edumov/internal/database/mongodb"
	"edumov/internal/database/mysqldb"
	"edumov/internal/http-server/api"
	"edumov/lib/logger"
	"edumov/lib/sl"
)

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	log := logger.SetupLogger(conf.Env, *logPath)
	log.Info("starting edumov", slog.String("config", *configPath), slog.String("env", conf.Env))

	var db core.Database
	var dbName string
	switch {
	case conf.Mongo.Enabled:
		store := mongodb.New(conf)
		if err := store.EnsureIndexes(); err != nil {
			log.Error("mongodb index setup", sl.Err(err))
			os.Exit(1)
		}
		db = store
		dbName = "mongodb"
	case conf.MySql.Enabled:
		store, err := mysqldb.New(conf)
		if err != nil {
			log.Error("mysql connection", sl.Err(err))
			os.Exit(1)
		}
		defer store.Close()
		db = store
		dbName = "mysql"
	default:
		log.Warn("no database configured, state is kept in memory")
		db = memdb.New()
		dbName = "memory"
	}
	log.Info("database ready", slog.String("db", dbName))

	tokenTTL := time.Duration(conf.Auth.TokenTTLHours) * time.Hour
	authService, err := auth.New(db, conf.Auth.Secret, tokenTTL)
	if err != nil {
		log.Error("auth setup", sl.Err(err))
		os.Exit(1)
	}

	handler := core.New(db, authService, log)

	if err = api.Serve(conf, log, handler, dbName); err != nil {
		log.Error("api server stopped", sl.Err(err))
		os.Exit(1)
	}
}
