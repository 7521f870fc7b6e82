package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/hiring-agent/internal/config"
	"alfredoptarigan/hiring-agent/internal/logger"
	"alfredoptarigan/hiring-agent/internal/services"
)

// Ingests every job description in a directory into Qdrant. The file name
// (without extension, underscores as spaces) becomes the job title.
func main() {
	dir := flag.String("dir", "./reference_docs/jobs", "directory of job descriptions (.pdf, .txt, .md)")
	docType := flag.String("type", services.DocTypeJobDescription, "document type stored with each chunk")
	flag.Parse()

	cfg := config.Load()

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	if err := run(context.Background(), cfg, log, *dir, *docType); err != nil {
		log.Fatal("ingestion failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, dir, docType string) error {
	gemini, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:     cfg.Gemini.APIKey,
		EmbedModel: cfg.Gemini.EmbedModel,
	}, log)
	if err != nil {
		return err
	}

	store, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, log)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitCollection(ctx); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}

	parser := services.NewPDFParserService(log)
	ingester := services.NewJobIngester(gemini, store, log)

	var ingested, failed int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))

		var text string
		switch ext {
		case ".pdf":
			content, err := parser.ExtractTextWithMetaData(ctx, path)
			if err != nil {
				log.Warn("failed to extract pdf", zap.String("file", path), zap.Error(err))
				failed++
				continue
			}
			text = content.Text
		case ".txt", ".md":
			raw, err := os.ReadFile(path)
			if err != nil {
				log.Warn("failed to read file", zap.String("file", path), zap.Error(err))
				failed++
				continue
			}
			text = string(raw)
		default:
			continue
		}

		_, err := ingester.Ingest(ctx, services.IngestDocument{
			DocID:   base,
			DocType: docType,
			Title:   strings.ReplaceAll(base, "_", " "),
			Text:    services.CleanText(text),
		})
		if err != nil {
			log.Warn("failed to ingest document", zap.String("file", path), zap.Error(err))
			failed++
			continue
		}
		ingested++
	}

	log.Info("ingestion summary", zap.Int("ingested", ingested), zap.Int("failed", failed))

	if failed > 0 {
		return fmt.Errorf("%d documents failed to ingest", failed)
	}
	return nil
}
