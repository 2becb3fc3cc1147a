// Package app wires configuration into a ready set of services.
package app

import (
	"context"
	"errors"
	"fmt"

	"spendlog/internal/ai"
	"spendlog/internal/archive"
	"spendlog/internal/config"
	"spendlog/internal/database"
	"spendlog/internal/extract"
	"spendlog/internal/logger"
	"spendlog/internal/metrics"
	"spendlog/internal/nlp"
	"spendlog/internal/ocr"
	"spendlog/internal/ocr/tesseract"
	"spendlog/internal/query"
	"spendlog/internal/services"
	"spendlog/internal/store"
	"spendlog/internal/validator"
)

// App holds the wired services. Close releases the database and archive
// clients.
type App struct {
	Config   *config.Config
	Metrics  *metrics.Metrics
	Pipeline *extract.Pipeline
	Expenses services.ExpenseServicer
	Receipts services.ReceiptServicer
	Reports  services.ReportServicer
	Messages services.MessageServicer

	closers []func() error
}

// New builds every service from cfg. The database schema is migrated on
// startup.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.Get()

	if !validator.ValidCurrency(cfg.DefaultCurrency) {
		return nil, fmt.Errorf("invalid DEFAULT_CURRENCY %q", cfg.DefaultCurrency)
	}

	a := &App{Config: cfg, Metrics: metrics.New()}
	ok := false
	defer func() {
		if !ok {
			_ = a.Close()
		}
	}()

	st, err := a.openStore(cfg)
	if err != nil {
		return nil, err
	}

	pipeline, err := NewPipeline(cfg)
	if err != nil {
		return nil, err
	}
	a.Pipeline = pipeline

	llm, err := newCompleter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var (
		classifier services.IntentClassifier
		summarizer services.Summarizer
	)
	if llm != nil {
		llm = ai.WithTimeout(llm, cfg.LLMTimeout)
		classifier = ai.NewIntentClassifier(llm, cfg.OpenAIQueryModel)
		summarizer = ai.NewSummarizer(llm, cfg.OpenAISummaryModel)
	} else {
		log.Warnw("no language model configured, spending questions are disabled", "provider", cfg.LLMProvider)
	}
	categorizer := ai.NewCategorizer(llm, cfg.OpenAICategorizeModel, cfg.CategorizeTimeout)

	archiver, err := a.newArchiver(ctx, cfg)
	if err != nil {
		return nil, err
	}
	reader := ocr.NewReader(tesseract.New(cfg.OCRLanguages...))

	loc := cfg.Location()
	a.Expenses = services.NewExpenseService(st, pipeline, categorizer, cfg.DefaultCurrency, a.Metrics)
	a.Receipts = services.NewReceiptService(reader, archiver, pipeline, cfg.DefaultCurrency, a.Metrics)
	a.Reports = services.NewReportService(st, classifier, summarizer, query.NewCompiler(query.WithLocation(loc)), loc, cfg.DefaultCurrency, a.Metrics)
	a.Messages = services.NewMessageService(a.Expenses, a.Reports)

	ok = true
	return a, nil
}

// Close releases held clients in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openStore(cfg *config.Config) (store.Store, error) {
	if cfg.StoreDriver == config.StoreMemory {
		logger.Get().Warn("using the in-memory store, transactions are lost on exit")
		return store.NewMemoryStore(), nil
	}

	manager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	a.closers = append(a.closers, manager.Close)

	if err := manager.RunMigrations(); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	return store.NewSQLStore(manager.DB()), nil
}

func (a *App) newArchiver(ctx context.Context, cfg *config.Config) (archive.Archiver, error) {
	if cfg.ReceiptBucket == "" {
		return archive.Nop{}, nil
	}
	gcs, err := archive.NewGCS(ctx, cfg.ReceiptBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to open receipt bucket: %w", err)
	}
	a.closers = append(a.closers, gcs.Close)
	return gcs, nil
}

// NewPipeline builds the extraction pipeline from the vocabulary and NER settings.
func NewPipeline(cfg *config.Config) (*extract.Pipeline, error) {
	vocab := extract.DefaultVocabulary()
	if cfg.VocabularyPath != "" {
		var err error
		if vocab, err = extract.LoadVocabulary(cfg.VocabularyPath); err != nil {
			return nil, err
		}
	}

	var opts []extract.KeywordOption
	if cfg.NEREnabled {
		opts = append(opts, extract.WithEntityRecognizer(nlp.NewProseRecognizer()))
	}
	return extract.NewPipeline(extract.NewKeywordExtractor(vocab, opts...)), nil
}

// newCompleter returns nil when no provider is usable.
func newCompleter(ctx context.Context, cfg *config.Config) (ai.Completer, error) {
	switch cfg.LLMProvider {
	case config.LLMOpenAI:
		if cfg.OpenAIAPIKey == "" {
			logger.Get().Warn("OPENAI_API_KEY is not set")
			return nil, nil
		}
		return ai.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIQueryModel), nil
	case config.LLMGemini:
		if cfg.GeminiAPIKey == "" {
			logger.Get().Warn("GEMINI_API_KEY is not set")
			return nil, nil
		}
		gemini, err := ai.NewGeminiCompleter(ctx, cfg.GeminiAPIKey, "", cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return gemini, nil
	default:
		return nil, nil
	}
}
