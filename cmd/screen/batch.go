package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/hiring-agent/internal/models"
	"alfredoptarigan/hiring-agent/internal/services"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Screen every resume in a directory against one job description",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		job, _ := cmd.Flags().GetString("job")
		parallel, _ := cmd.Flags().GetInt("parallel")
		return runBatch(cmd.Context(), cmd.OutOrStdout(), dir, job, parallel)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("dir", "", "directory of resumes (.pdf, .txt, .md)")
	batchCmd.Flags().StringP("job", "J", "", "job description file (.pdf or plain text)")
	batchCmd.Flags().IntP("parallel", "p", 4, "number of resumes screened at once")
	_ = batchCmd.MarkFlagRequired("dir")
	_ = batchCmd.MarkFlagRequired("job")
}

type batchResult struct {
	File   string                `json:"file"`
	Result *models.ScreeningData `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
}

func runBatch(ctx context.Context, out io.Writer, dir, jobPath string, parallel int) error {
	if ctx == nil {
		ctx = context.Background()
	}

	files, err := listResumes(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no resumes found in %s", dir)
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

	results := screenAll(ctx, files, parallel, func(ctx context.Context, file string) (*models.ScreeningData, error) {
		state, err := s.screen(ctx, file, jobDescription)
		if err != nil {
			return nil, err
		}
		return services.ResultFromState(state), nil
	}, s.log)

	return writeJSON(out, results)
}

// screenAll runs screen over files with at most parallel calls in flight.
// One failing resume does not stop the others.
func screenAll(
	ctx context.Context,
	files []string,
	parallel int,
	screen func(context.Context, string) (*models.ScreeningData, error),
	log *zap.Logger,
) []batchResult {
	if parallel <= 0 {
		parallel = 1
	}

	results := make([]batchResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, file := range files {
		g.Go(func() error {
			results[i].File = filepath.Base(file)

			data, err := screen(gctx, file)
			if err != nil {
				log.Warn("resume failed", zap.String("file", file), zap.Error(err))
				results[i].Error = err.Error()
				return nil
			}
			results[i].Result = data
			return nil
		})
	}

	_ = g.Wait()
	return results
}

func listResumes(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading resume directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".pdf", ".txt", ".md":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}
