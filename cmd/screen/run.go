package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/hiring-agent/internal/config"
	"alfredoptarigan/hiring-agent/internal/logger"
	"alfredoptarigan/hiring-agent/internal/screening"
	"alfredoptarigan/hiring-agent/internal/services"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Screen a single resume against a job description",
	RunE: func(cmd *cobra.Command, _ []string) error {
		resume, _ := cmd.Flags().GetString("resume")
		job, _ := cmd.Flags().GetString("job")
		return runSingle(cmd.Context(), cmd.OutOrStdout(), resume, job)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("resume", "r", "", "resume file (.pdf or plain text)")
	runCmd.Flags().StringP("job", "J", "", "job description file (.pdf or plain text)")
	_ = runCmd.MarkFlagRequired("resume")
	_ = runCmd.MarkFlagRequired("job")
}

// session bundles what every screening command needs.
type session struct {
	cfg      *config.Config
	log      *zap.Logger
	parser   services.PDFParserService
	screener *screening.Screener
}

func newSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	reasoning, err := services.NewReasoningService(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	log = logger.WithProvider(log, reasoning.Provider(), reasoning.Model())

	parser := services.NewPDFParserService(log)
	screener, err := services.NewScreener(cfg, reasoning, parser, log)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, log: log, parser: parser, screener: screener}, nil
}

// readSource returns the text of a PDF or plain text file.
func (s *session) readSource(ctx context.Context, path string) (string, error) {
	if isPDF(path) {
		content, err := s.parser.ExtractTextWithMetaData(ctx, path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		return content.Text, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(raw), nil
}

func (s *session) screen(ctx context.Context, resumePath, jobDescription string) (*screening.State, error) {
	if isPDF(resumePath) {
		return s.screener.ScreenDocument(ctx, resumePath, jobDescription)
	}

	raw, err := os.ReadFile(resumePath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", resumePath, err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return nil, fmt.Errorf("%s: %w", resumePath, services.ErrNoResumeText)
	}
	return s.screener.ScreenText(ctx, string(raw), jobDescription)
}

func runSingle(ctx context.Context, out io.Writer, resumePath, jobPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer s.log.Sync() //nolint:errcheck

	jobDescription, err := s.readSource(ctx, jobPath)
	if err != nil {
		return err
	}
	if strings.TrimSpace(jobDescription) == "" {
		return errors.New("job description is empty")
	}

	state, err := s.screen(ctx, resumePath, jobDescription)
	if err != nil {
		s.log.Error("screening failed", zap.String("resume", resumePath), zap.Error(err))
		return err
	}

	return writeJSON(out, services.ResultFromState(state))
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
