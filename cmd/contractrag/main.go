package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"contractrag/internal/answer"
	"contractrag/internal/config"
	"contractrag/internal/domain"
	"contractrag/internal/embedding"
	"contractrag/internal/server"
	"contractrag/internal/service"
	"contractrag/internal/tui"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: contractrag [--config=config.yaml] <command> [args]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  build [data-path]   build the knowledge base from .txt contract files")
	fmt.Fprintln(os.Stderr, "  ask <question>      answer a single question from the knowledge base")
	fmt.Fprintln(os.Stderr, "  chat                interactive question-answering session")
	fmt.Fprintln(os.Stderr, "  serve               run the HTTP API")
	os.Exit(1)
}

func main() {
	// .env carries API keys for the openai embedder/QA variants.
	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "Path to config YAML")
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Error("loading config", "error", err)
		os.Exit(1)
	}

	svc, err := assemble(cfg)
	if err != nil {
		logger.Error("assembling pipeline", "error", err)
		os.Exit(1)
	}

	switch args[0] {
	case "build":
		dataPath := cfg.DataPath
		if len(args) > 1 {
			dataPath = args[1]
		}
		if err := svc.BuildKnowledgeBase(dataPath); err != nil {
			logger.Error("build failed", "error", err)
			os.Exit(1)
		}
		logger.Info("knowledge base built", "chunks", svc.ChunkCount(),
			"index", cfg.Storage.IndexPath, "metadata", cfg.Storage.MetadataPath)

	case "ask":
		if len(args) < 2 {
			usage()
		}
		question := strings.Join(args[1:], " ")
		if err := svc.LoadKnowledgeBase(); err != nil {
			logger.Error("loading knowledge base (run 'contractrag build' first)", "error", err)
			os.Exit(1)
		}
		result, err := svc.AnswerQuestion(question, 0)
		if err != nil {
			logger.Error("answering failed", "error", err)
			os.Exit(1)
		}
		printAnswer(question, result)

	case "chat":
		if err := svc.LoadKnowledgeBase(); err != nil {
			logger.Error("loading knowledge base (run 'contractrag build' first)", "error", err)
			os.Exit(1)
		}
		if _, err := tea.NewProgram(tui.New(svc), tea.WithAltScreen()).Run(); err != nil {
			logger.Error("tui failed", "error", err)
			os.Exit(1)
		}

	case "serve":
		if err := svc.LoadKnowledgeBase(); err != nil {
			logger.Warn("no knowledge base yet; upload documents to build one", "error", err)
		}
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		srv := server.New(server.Config{Host: cfg.Server.Host, Port: cfg.Server.Port}, svc, logger)
		if err := srv.Start(ctx); err != nil {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}

	default:
		usage()
	}
}

// assemble picks the embedder and QA model implementations from config
// and wires the orchestrator.
func assemble(cfg *config.AppConfig) (*service.Service, error) {
	var embedder domain.Embedder
	var err error
	switch cfg.Embedding.Type {
	case "hash", "":
		embedder, err = embedding.NewHashEmbedder(cfg.Embedding.Dimension)
	case "openai":
		embedder, err = embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			Model:     cfg.Embedding.Model,
			APIKeyEnv: cfg.Embedding.APIKeyEnv,
			BaseURL:   cfg.Embedding.BaseURL,
			Timeout:   time.Duration(cfg.Embedding.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("%w: unknown embedder %q", domain.ErrInvalidConfig, cfg.Embedding.Type)
	}
	if err != nil {
		return nil, err
	}

	var qa domain.QAModel
	switch cfg.QA.Type {
	case "extractive", "":
		qa = answer.NewExtractiveQA()
	case "openai":
		qa, err = answer.NewOpenAIQA(answer.OpenAIQAConfig{
			Model:     cfg.QA.Model,
			APIKeyEnv: cfg.QA.APIKeyEnv,
			BaseURL:   cfg.QA.BaseURL,
			Timeout:   time.Duration(cfg.QA.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown qa model %q", domain.ErrInvalidConfig, cfg.QA.Type)
	}

	return service.New(cfg, embedder, qa)
}

func printAnswer(question string, result domain.AnswerResult) {
	fmt.Printf("Question: %s\n\n", question)
	fmt.Printf("Answer: %s\n", result.Answer)
	fmt.Printf("Confidence: %.1f%%\n", result.Confidence*100)
	if len(result.Sources) > 0 {
		fmt.Printf("Sources: %s\n", strings.Join(result.Sources, ", "))
	}
	if len(result.Context) > 0 {
		fmt.Println("\nRelevant excerpts:")
		for i, snippet := range result.Context {
			fmt.Printf("\n%d. %s (similarity: %.1f%%)\n   %s\n", i+1, snippet.Source, snippet.Similarity*100, snippet.Text)
		}
	}
}
