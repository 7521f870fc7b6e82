package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/hiring-agent/internal/config"
	"alfredoptarigan/hiring-agent/internal/models"
)

func TestScreenAllKeepsOrderAndIsolatesFailures(t *testing.T) {
	files := []string{"/in/a.txt", "/in/b.txt", "/in/c.pdf"}

	var inFlight, peak int32
	results := screenAll(context.Background(), files, 2, func(_ context.Context, file string) (*models.ScreeningData, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)

		if filepath.Base(file) == "b.txt" {
			return nil, errors.New("reasoning service unavailable")
		}
		return &models.ScreeningData{FinalDecision: "schedule_interview"}, nil
	}, zap.NewNop())

	require.Len(t, results, 3)
	assert.Equal(t, "a.txt", results[0].File)
	assert.Equal(t, "schedule_interview", results[0].Result.FinalDecision)
	assert.Equal(t, "b.txt", results[1].File)
	assert.Nil(t, results[1].Result)
	assert.Equal(t, "reasoning service unavailable", results[1].Error)
	assert.Equal(t, "c.pdf", results[2].File)
	assert.NotNil(t, results[2].Result)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestListResumes(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.txt", "notes.md", "photo.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755))

	files, err := listResumes(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "notes.md"),
	}, files)

	_, err = listResumes(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	v := viper.New()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("provider", "", "")
	flags.Duration("timeout", 0, "")
	flags.Int("max-reflections", 0, "")
	flags.Bool("no-summary", false, "")
	flags.Bool("lenient", false, "")
	require.NoError(t, v.BindPFlags(flags))
	require.NoError(t, flags.Parse([]string{"--provider=Ollama", "--timeout=5s", "--no-summary"}))

	cfg := &config.Config{
		Reasoning: config.ReasoningConfig{Provider: "gemini", Timeout: time.Minute},
		Screening: config.ScreeningConfig{MaxReflectionAttempts: 3, Summarize: true, StrictPolicy: true},
	}
	applyOverrides(cfg, v)

	assert.Equal(t, "ollama", cfg.Reasoning.Provider)
	assert.Equal(t, 5*time.Second, cfg.Reasoning.Timeout)
	assert.Equal(t, 3, cfg.Screening.MaxReflectionAttempts)
	assert.False(t, cfg.Screening.Summarize)
	assert.True(t, cfg.Screening.StrictPolicy)
}

func TestIsPDF(t *testing.T) {
	assert.True(t, isPDF("resume.PDF"))
	assert.False(t, isPDF("resume.txt"))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "screen version: unknown\n", out.String())
}
