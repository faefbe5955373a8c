package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	responderx "triagebot/agent/agents/responder"
	contractx "triagebot/agent/contract"
	llmx "triagebot/agent/llm"
	routerx "triagebot/agent/router"
	sessionx "triagebot/agent/session"
	transcriptx "triagebot/agent/transcript"
	configx "triagebot/pkg/config"
	logx "triagebot/pkg/logger"
)

type AppConfig struct {
	UserName    string `envconfig:"USER_NAME" split_words:"true" default:"Omer"`
	PremiumUser bool   `envconfig:"PREMIUM_USER" split_words:"true" default:"true"`
}

func main() {
	logCfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*logCfg)

	appCfg := configx.MustNew[AppConfig]("BOT")

	// GEMINI_API_KEY is required; a missing credential fails here, before
	// the loop ever starts.
	llmCfg := configx.MustNew[llmx.Config]("GEMINI")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	registry, err := responderx.NewRegistry(ctx, *llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build responder registry")
	}

	var transcripts transcriptx.Store = transcriptx.Noop{}
	transcriptCfg := configx.MustNew[transcriptx.Config]("TRANSCRIPT")
	if transcriptCfg.Enabled() {
		pg, err := transcriptx.NewPostgres(*transcriptCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init transcript store")
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure transcript schema")
		}
		transcripts = pg
	}

	sessionID := uuid.NewString()
	router, err := routerx.New(registry, transcripts, sessionID)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	user := &contractx.UserContext{
		Name:          appCfg.UserName,
		IsPremiumUser: appCfg.PremiumUser,
	}

	loop, err := sessionx.New(router, user, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build session loop")
	}

	log.Info().
		Str("session_id", sessionID).
		Str("user", user.Name).
		Bool("premium", user.IsPremiumUser).
		Bool("transcript", transcriptCfg.Enabled()).
		Msg("session started")

	if err := loop.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("session loop failed")
	}
}
