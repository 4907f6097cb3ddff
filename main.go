package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	turnx "github.com/jadetp/ecommerce-voicebot-agent/agent/agents/turn"
	auditx "github.com/jadetp/ecommerce-voicebot-agent/agent/audit"
	catalogx "github.com/jadetp/ecommerce-voicebot-agent/agent/catalog"
	contractx "github.com/jadetp/ecommerce-voicebot-agent/agent/contract"
	executorx "github.com/jadetp/ecommerce-voicebot-agent/agent/executor"
	graphsearchx "github.com/jadetp/ecommerce-voicebot-agent/agent/graphsearch"
	llmx "github.com/jadetp/ecommerce-voicebot-agent/agent/llm"
	ragx "github.com/jadetp/ecommerce-voicebot-agent/agent/rag"
	sessionx "github.com/jadetp/ecommerce-voicebot-agent/agent/session"
	toolx "github.com/jadetp/ecommerce-voicebot-agent/agent/tool"
	configx "github.com/jadetp/ecommerce-voicebot-agent/pkg/config"
	_ "github.com/jadetp/ecommerce-voicebot-agent/pkg/logger/autoload"
	openrouterx "github.com/jadetp/ecommerce-voicebot-agent/pkg/openrouter"
)

type AppConfig struct {
	ListenAddr  string `envconfig:"LISTEN_ADDR" default:":8080"`
	PostgresDSN string `envconfig:"POSTGRES_DSN"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("")

	openRouterCfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
	if openrouterx.NewClient(*openRouterCfg) == nil {
		log.Fatal().Msg("openrouter credentials missing")
	}
	chatModel, err := openRouterCfg.New(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("init chat model")
	}
	generator, err := llmx.NewGenerator(chatModel)
	if err != nil {
		log.Fatal().Err(err).Msg("init generator")
	}

	tools, err := toolx.NewClient(*configx.MustNew[toolx.Config]("TOOL"))
	if err != nil {
		log.Fatal().Err(err).Msg("init tool client")
	}

	var retriever contractx.Retriever
	if ragCfg, err := configx.New[ragx.Config]("RAG"); err == nil {
		if c, err := ragx.NewClient(*ragCfg); err == nil {
			retriever = c
		} else {
			log.Warn().Err(err).Msg("rag client disabled")
		}
	} else {
		log.Warn().Err(err).Msg("rag client disabled")
	}

	var graphSearcher contractx.GraphSearcher
	if graphCfg, err := configx.New[graphsearchx.Config]("GRAPH"); err == nil {
		if c, err := graphsearchx.NewClient(*graphCfg); err == nil {
			graphSearcher = c
		} else {
			log.Warn().Err(err).Msg("graph search client disabled")
		}
	} else {
		log.Warn().Err(err).Msg("graph search client disabled")
	}

	sessions := buildSessionStore()
	catalogStore, auditSink := buildPostgres(appCfg.PostgresDSN)

	exec, err := executorx.New(executorx.Deps{
		Tools:     tools,
		Retriever: retriever,
		Graph:     graphSearcher,
		Generator: generator,
		Sessions:  sessions,
		Catalog:   catalogStore,
		Audit:     auditSink,
		Log:       log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init executor")
	}

	service, err := turnx.New(exec, sessions, auditSink, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("init turn service")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /agent/handle", handleTurn(service))

	server := &http.Server{
		Addr:              appCfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", appCfg.ListenAddr).Msg("agent server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// buildSessionStore prefers Upstash Redis and falls back to the in-process
// store when no REST credentials are configured.
func buildSessionStore() sessionx.Store {
	cfg, err := configx.New[sessionx.UpstashRedisConfig]("UPSTASH_REDIS")
	if err != nil {
		log.Warn().Err(err).Msg("upstash not configured, using in-memory sessions")
		return sessionx.NewMemStore()
	}
	store, err := sessionx.NewUpstashRedisStore(*cfg)
	if err != nil {
		log.Warn().Err(err).Msg("upstash init failed, using in-memory sessions")
		return sessionx.NewMemStore()
	}
	return store
}

// buildPostgres wires the catalog store and audit sink off one bun handle.
// Without a DSN the catalog is empty and audit records go to the log.
func buildPostgres(dsn string) (catalogx.Store, contractx.AuditSink) {
	if dsn == "" {
		log.Warn().Msg("postgres dsn not set, audit records go to log only")
		return catalogx.NewMemStore(), auditx.NewLogSink(log.Logger)
	}

	db, err := catalogx.NewDB(dsn)
	if err != nil {
		log.Warn().Err(err).Msg("postgres init failed, audit records go to log only")
		return catalogx.NewMemStore(), auditx.NewLogSink(log.Logger)
	}

	store, err := catalogx.NewPostgresStore(db, *configx.MustNew[catalogx.PostgresConfig]("CATALOG"))
	if err != nil {
		log.Fatal().Err(err).Msg("init catalog store")
	}
	sink, err := auditx.NewPostgresSink(db, *configx.MustNew[auditx.PostgresConfig]("AUDIT"))
	if err != nil {
		log.Fatal().Err(err).Msg("init audit sink")
	}
	return store, sink
}

func handleTurn(service *turnx.Service) http.HandlerFunc {
	type request struct {
		Transcript  string `json:"transcript"`
		SessionID   string `json:"session_id"`
		GroundTruth string `json:"ground_truth,omitempty"`
		RunID       string `json:"run_id,omitempty"`
	}
	type response struct {
		Reply      string                     `json:"reply"`
		Sources    []contractx.Source         `json:"sources,omitempty"`
		Actions    []contractx.ExecutionResult `json:"actions,omitempty"`
		Evaluation *contractx.Score           `json:"evaluation,omitempty"`
		RunID      string                     `json:"run_id,omitempty"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		result, err := service.HandleTurn(r.Context(), contractx.TurnRequest{
			Transcript:  req.Transcript,
			SessionID:   req.SessionID,
			GroundTruth: req.GroundTruth,
			RunID:       req.RunID,
		})
		if err != nil {
			switch {
			case errors.Is(err, turnx.ErrEmptyTranscript), errors.Is(err, turnx.ErrInvalidSession):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				log.Error().Err(err).Msg("turn failed")
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response{
			Reply:      result.Reply,
			Sources:    result.Sources,
			Actions:    result.Actions,
			Evaluation: result.Evaluation,
			RunID:      req.RunID,
		})
	}
}
