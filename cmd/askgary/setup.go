package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/garyyong/askgary/internal/config"
	"github.com/garyyong/askgary/internal/providers/llm"
	"github.com/garyyong/askgary/internal/service/analytics"
	"github.com/garyyong/askgary/internal/service/chat"
	"github.com/garyyong/askgary/internal/service/prompt"
	"github.com/garyyong/askgary/internal/service/retrieval"
	"github.com/garyyong/askgary/internal/service/session"
	"github.com/garyyong/askgary/internal/storage/index"
	"github.com/garyyong/askgary/internal/storage/sessionfile"
	"github.com/garyyong/askgary/internal/transport/httpapi"
	"github.com/garyyong/askgary/pkg/log"
	"github.com/garyyong/askgary/pkg/srv"
)

// How many entries the admin report keeps per ranking.
const analyticsTopN = 5

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	if err := initEnv(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	openaiCfg := config.NewOpenAIConfig(ctx)
	serverCfg := config.NewServerConfig(ctx)

	// 2. Chunk index (read-only output of the offline indexer)
	db, err := index.NewDB(ctx, appCfg.GetIndexPath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open chunk index")
	}
	services = append(services, srv.NewCleanup(db.Close))

	chunks, err := index.NewChunkRepo(db).LoadAll(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load chunk index")
	}
	if len(chunks) == 0 {
		logger.Warn().Msg("chunk index is empty, answers will have no retrieved context")
	}

	// 3. Durable session storage
	store, err := sessionfile.NewStore(appCfg.GetSessionsPath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init session storage")
	}

	// 4. Provider
	provider := llm.NewOpenAI(openaiCfg)

	// 5. Core services
	sessions := session.NewManager(store, appCfg.SessionTTL, nil)
	services = append(services, session.NewSweeper(sessions, appCfg.SweepInterval))

	engine := retrieval.NewEngine(provider, chunks, appCfg.TopKResults)
	builder := prompt.NewBuilder(appCfg.MaxHistoryTurns, appCfg.ContextTokenBudget)

	chatSvc := chat.NewService(
		sessions,
		engine,
		builder,
		provider,
		openaiCfg.Temperature,
		openaiCfg.MaxTokens,
		appCfg.MaxHistoryTurns,
	)

	aggregator := analytics.NewAggregator(store, analyticsTopN)

	// 6. Transport
	services = append(services, httpapi.NewServer(ctx, serverCfg, chatSvc, sessions, aggregator))

	return services
}

// initEnv loads .env from the working directory. A missing file is fine;
// a real read error is not.
func initEnv(ctx context.Context) error {
	envFile := ".env"
	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(envFile); err != nil {
		return err
	}
	log.FromCtx(ctx).Debug().Str("path", envFile).Msg("loaded env file")
	return nil
}
