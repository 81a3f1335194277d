package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"quizgen/internal/bank"
	"quizgen/internal/config"
	"quizgen/internal/embedding"
	"quizgen/internal/extractor"
	"quizgen/internal/generator"
	"quizgen/internal/llmservice"
	"quizgen/internal/models"
	"quizgen/internal/pipeline"
	"quizgen/internal/retrieval"
	"quizgen/internal/store"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	filePath := flag.String("file", "", "Path to the source document")
	numQuestions := flag.Int("questions", 10, "Number of questions to generate (1-50)")
	types := flag.String("types", "mcq,trueFalse,shortAnswer", "Comma-separated question types")
	includeAnswers := flag.Bool("answers", false, "Include answers in generated questions")
	saveRun := flag.Bool("store", false, "Persist the run and its questions to the database")
	indexBank := flag.Bool("bank", false, "Index generated questions into the question bank")
	search := flag.String("search", "", "Search the question bank instead of generating")
	flag.Parse()

	cfg, err := config.LoadConfig(configFilePath)
	if err != nil {
		log.Warn().Err(err).Msg("Could not load config, using defaults")
		cfg = config.Default()
	}

	ctx := context.Background()

	client := llmservice.NewClient(cfg.Ollama.BaseURL)
	breaker := embedding.NewBreaker()
	embedder := embedding.NewEmbedder(client, cfg.Ollama.EmbeddingModel, breaker)

	if *search != "" {
		searchBank(ctx, cfg, embedder, *search)
		return
	}

	if *filePath == "" {
		log.Fatal().Msg("Please provide a document using the -file flag, or a query using the -search flag")
	}

	selector := retrieval.NewSelector(embedder)
	batch := generator.NewBatch(client, cfg.Ollama.GenerateModel, llmservice.GenerateOptions{
		Temperature: cfg.Generation.Temperature,
		TopP:        cfg.Generation.TopP,
		NumPredict:  cfg.Generation.NumPredict,
	}, time.Duration(cfg.Generation.TimeoutSeconds)*time.Second)

	gen := pipeline.NewGenerator(client, selector, batch, cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap, cfg.RAG.TopK)

	result, err := gen.Generate(ctx, func() (string, error) {
		return extractor.ExtractText(*filePath)
	}, pipeline.Options{
		NumQuestions:   *numQuestions,
		Types:          *types,
		IncludeAnswers: *includeAnswers,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Question generation failed")
	}

	fmt.Printf("%s\n\n", result.Render())
	log.Info().
		Int("count", len(result.Questions)).
		Interface("types", result.TypesAttempted).
		Interface("types_with_errors", result.TypesWithErrors).
		Msg("Generation complete")

	runID := ""
	if *saveRun {
		runID = persistRun(ctx, cfg, *filePath, result, *numQuestions)
	}

	if *indexBank {
		b, err := bank.NewBank(cfg.Bank, embedder)
		if err != nil {
			log.Fatal().Err(err).Msg("Error opening question bank")
		}
		if runID == "" {
			runID = fmt.Sprintf("run-%d", time.Now().Unix())
		}
		if err := b.AddQuestions(ctx, runID, result.Questions); err != nil {
			log.Error().Err(err).Msg("Error indexing questions in bank")
		} else if cfg.Bank.EncryptionKey != "" {
			if err := b.Export(ctx); err != nil {
				log.Error().Err(err).Msg("Error exporting question bank")
			}
		}
	}
}

func persistRun(ctx context.Context, cfg *config.Config, filePath string, result *models.PipelineResult, numRequested int) string {
	sqldb, err := store.ConnectDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	db := store.NewDB(sqldb, cfg.Database.Debug)
	defer db.Close()

	if err := store.InitDB(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
	}

	runID, err := store.SaveRun(ctx, db, filePath, *result, numRequested)
	if err != nil {
		log.Fatal().Err(err).Msg("Error storing generation run")
	}
	log.Info().Str("run_id", runID).Msg("Stored generation run")
	return runID
}

func searchBank(ctx context.Context, cfg *config.Config, embedder *embedding.Embedder, query string) {
	b, err := bank.NewBank(cfg.Bank, embedder)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening question bank")
	}

	results, err := b.Search(ctx, query, cfg.RAG.TopK)
	if err != nil {
		log.Fatal().Err(err).Msg("Error searching question bank")
	}
	if len(results) == 0 {
		fmt.Println("No stored questions match the query.")
		return
	}

	for i, r := range results {
		fmt.Printf("%d. (%.3f) %s\n\n", i+1, r.Similarity, r.Content)
	}
}
