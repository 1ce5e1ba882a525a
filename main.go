package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nattavee/Fathom-Deep-Research-Agent/agent/agents/researcher"
	llmx "github.com/nattavee/Fathom-Deep-Research-Agent/agent/llm"
	promptx "github.com/nattavee/Fathom-Deep-Research-Agent/agent/prompt"
	statex "github.com/nattavee/Fathom-Deep-Research-Agent/agent/state"
	toolx "github.com/nattavee/Fathom-Deep-Research-Agent/agent/tool"
	configx "github.com/nattavee/Fathom-Deep-Research-Agent/pkg/config"
	_ "github.com/nattavee/Fathom-Deep-Research-Agent/pkg/logger/autoload"
)

type AppConfig struct {
	PromptsDir    string `envconfig:"PROMPTS_DIR" default:"prompts"`
	ResearchTopic string `envconfig:"RESEARCH_TOPIC" required:"true"`
	MaxIterations int    `envconfig:"MAX_RESEARCH_ITERATIONS" default:"6"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("")

	prompts, err := promptx.NewStore(appCfg.PromptsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load prompt store")
	}

	searchCfg := configx.MustNew[toolx.SearchConfig]("TAVILY")
	search, err := toolx.NewSearchClient(*searchCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build search client")
	}

	dispatcher, err := toolx.NewResearchDispatcher(search)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build tool dispatcher")
	}

	ctx := context.Background()

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	models, err := llmx.NewModelSet(ctx, *llmCfg, dispatcher.Infos())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build model set")
	}

	archive := buildArchive(ctx)

	agent, err := researcher.New(prompts, models, dispatcher, archive, researcher.Config{
		MaxIterations: appCfg.MaxIterations,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build researcher")
	}

	sessionID := uuid.NewString()
	log.Info().Str("session_id", sessionID).Str("topic", appCfg.ResearchTopic).
		Msg("starting research session")

	report, err := agent.Research(ctx, sessionID, appCfg.ResearchTopic)
	if err != nil {
		log.Fatal().Err(err).Str("session_id", sessionID).Msg("research session failed")
	}

	fmt.Println("=== Compressed Research ===")
	fmt.Println(report.CompressedResearch)
	fmt.Println()
	fmt.Println("=== QA Report ===")
	fmt.Println(report.QAReport)
	log.Info().Str("session_id", sessionID).Int("iterations", report.Iterations).
		Msg("research session complete")
}

// buildArchive picks a session archive backend from the environment: Upstash
// Redis when configured, else Postgres, else none.
func buildArchive(ctx context.Context) statex.Store {
	redisCfg := configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS")
	if strings.TrimSpace(redisCfg.URL) != "" {
		store, err := statex.NewUpstashRedisStore(*redisCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build redis archive store")
		}
		return store
	}

	pgCfg := configx.MustNew[statex.PostgresConfig]("POSTGRES")
	if strings.TrimSpace(pgCfg.DSN) != "" {
		store, err := statex.NewPostgresStore(*pgCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build postgres archive store")
		}
		if err := store.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to prepare postgres archive schema")
		}
		return store
	}

	log.Info().Msg("no archive store configured, sessions will not be persisted")
	return nil
}
