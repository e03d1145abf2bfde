package main

import (
	"time"

	"vidjot/internal/config"
	"vidjot/internal/db"
	clog "vidjot/internal/log"
	"vidjot/internal/mailer"
	"vidjot/internal/server"
	"vidjot/internal/service"
	"vidjot/internal/session"
	"vidjot/internal/store"
	"vidjot/internal/ws"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	clog.Init(cfg.Env)
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	gdb, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	users := store.NewUserStore(gdb)
	groups := store.NewGroupStore(gdb)

	sessions := session.NewManager(session.NewStore(gdb), time.Duration(cfg.SessionTTLMinutes)*time.Minute)
	sessions.StartSweeper(time.Duration(cfg.SessionSweepMinutes) * time.Minute)
	defer sessions.StopSweeper()

	userSvc := service.NewUserService(users)
	resetSvc := service.NewResetService(users, mailer.LogMailer{}, cfg.ServerSecret, cfg.BaseURL,
		time.Duration(cfg.ResetTokenTTLMinutes)*time.Minute)

	hub := ws.NewHub(groups)
	go hub.Run()

	h := server.NewHandler(userSvc, resetSvc, sessions)
	r := server.SetupRouter(cfg, h, sessions, hub, "web/templates/*.html")
	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server run")
	}
}
