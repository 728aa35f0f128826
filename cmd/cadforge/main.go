// Command cadforge runs the CadQuery generation pipeline once for a single
// free-text task description and appends the result to the notebook.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/joho/godotenv/autoload"
	"github.com/pkg/errors"

	"github.com/cadforge/cadforge/llm"
	"github.com/cadforge/cadforge/llm/gemini"
	"github.com/cadforge/cadforge/llm/openai"
	"github.com/cadforge/cadforge/metrics"
	"github.com/cadforge/cadforge/rag"
	"github.com/cadforge/cadforge/vectorstore"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the pipeline config file")
	query := flag.String("q", "", "task description (alternative to positional arguments)")
	flag.Parse()

	queryText := *query
	if queryText == "" {
		queryText = strings.Join(flag.Args(), " ")
	}
	if strings.TrimSpace(queryText) == "" {
		fmt.Fprintln(os.Stderr, "usage: cadforge [-config config.json] [-q] <task description>")
		os.Exit(2)
	}

	config, err := rag.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if config.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(config.MetricsAddr); err != nil {
				log.Printf("metrics listener: %v", err)
			}
		}()
	}

	ctx := context.Background()

	searcher, err := buildSearcher(ctx, config)
	if err != nil {
		log.Fatalf("set up retrieval: %v", err)
	}

	factory, err := buildProviderFactory(ctx, config)
	if err != nil {
		log.Fatalf("set up LLM provider: %v", err)
	}

	flow, err := rag.NewPipeline(config, factory, searcher)
	if err != nil {
		log.Fatalf("build pipeline: %v", err)
	}

	if _, err := rag.Run(ctx, flow, queryText); err != nil {
		os.Exit(1)
	}
}

func buildSearcher(ctx context.Context, config *rag.Config) (vectorstore.Searcher, error) {
	if config.Retrieval.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	pool, err := vectorstore.NewPool(ctx, config.Retrieval.DatabaseURL)
	if err != nil {
		return nil, err
	}

	var embedder vectorstore.Embedder
	embedder, err = vectorstore.NewOpenAIEmbedder(os.Getenv("OPENAI_API_KEY"), config.Retrieval.EmbeddingModel)
	if err != nil {
		return nil, err
	}

	if config.Retrieval.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: config.Retrieval.RedisAddr})
		embedder = vectorstore.NewCachedEmbedder(embedder, client, 24*time.Hour)
	}

	return vectorstore.NewPgStore(pool, embedder), nil
}

func buildProviderFactory(ctx context.Context, config *rag.Config) (rag.ProviderFactory, error) {
	switch config.LLM.Provider {
	case "openai":
		base, err := openai.NewConfigFromEnv()
		if err != nil {
			return nil, err
		}
		if config.LLM.Model != "" {
			base.Model = config.LLM.Model
		}
		return func(temperature float32) (llm.LLMProvider, error) {
			return openai.NewOpenAIClient(base.WithTemperature(temperature))
		}, nil
	case "gemini":
		base, err := gemini.NewConfigFromEnv()
		if err != nil {
			return nil, err
		}
		if config.LLM.Model != "" {
			base.Model = config.LLM.Model
		}
		return func(temperature float32) (llm.LLMProvider, error) {
			return gemini.NewGeminiClient(ctx, base.WithTemperature(temperature))
		}, nil
	default:
		return nil, errors.Errorf("unknown LLM provider %q", config.LLM.Provider)
	}
}
