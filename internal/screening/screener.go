// Package screening runs a candidate through the hiring workflow graph:
// experience classification, skill match, optional deep analysis, a hiring
// decision and a bounded reflection/confidence loop.
package screening

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"alfredoptarigan/hiring-agent/internal/logger"
)

const (
	DefaultCallTimeout = 60 * time.Second

	stageSummarize      = "summarize"
	defaultMaxLogLength = 200
	haltConfidenceScore = 0.0
	fixedStagesPerRun   = 4
	stagesPerReflection = 2
)

var (
	// ErrReasoningTimeout marks a reasoning call that did not answer within the per-call timeout.
	ErrReasoningTimeout = errors.New("reasoning call timed out")
	// ErrNoExtractor is returned by ScreenDocument when no PageExtractor was configured.
	ErrNoExtractor = errors.New("no document extractor configured")
)

// Completer is the reasoning service: a synchronous text-to-text capability.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// PageExtractor returns the text of every page of a source document, in order.
type PageExtractor interface {
	ExtractPages(ctx context.Context, source string) ([]string, error)
}

// Screener prepares the evaluation state and drives the compiled graph.
type Screener struct {
	completer    Completer
	extractor    PageExtractor
	prompts      *PromptBuilder
	graph        *Graph
	logger       *zap.Logger
	maxAttempts  int
	threshold    float64
	callTimeout  time.Duration
	summarize    bool
	strictPolicy bool
	maxLogLen    int
}

type Option func(*Screener)

func WithLogger(l *zap.Logger) Option {
	return func(s *Screener) { s.logger = logger.OrNop(l) }
}

func WithExtractor(e PageExtractor) Option {
	return func(s *Screener) { s.extractor = e }
}

// WithMaxReflectionAttempts sets the reflection ceiling. Values below 1 are ignored.
func WithMaxReflectionAttempts(n int) Option {
	return func(s *Screener) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func WithConfidenceThreshold(v float64) Option {
	return func(s *Screener) { s.threshold = v }
}

// WithCallTimeout bounds every reasoning call. Zero disables the bound.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Screener) { s.callTimeout = d }
}

// WithSummary toggles the summarization pre-pass of ScreenText.
func WithSummary(enabled bool) Option {
	return func(s *Screener) { s.summarize = enabled }
}

// WithStrictPolicy toggles the engine-side rule that a skill mismatch always
// ends in reject_application.
func WithStrictPolicy(enabled bool) Option {
	return func(s *Screener) { s.strictPolicy = enabled }
}

func WithMaxLogLength(n int) Option {
	return func(s *Screener) {
		if n > 0 {
			s.maxLogLen = n
		}
	}
}

// NewScreener compiles the workflow graph once; the returned Screener can
// serve concurrent requests.
func NewScreener(completer Completer, opts ...Option) (*Screener, error) {
	if completer == nil {
		return nil, errors.New("completer is required")
	}

	s := &Screener{
		completer:    completer,
		prompts:      NewPromptBuilder(),
		logger:       zap.NewNop(),
		maxAttempts:  DefaultMaxReflectionAttempts,
		threshold:    DefaultConfidenceThreshold,
		callTimeout:  DefaultCallTimeout,
		summarize:    true,
		strictPolicy: true,
		maxLogLen:    defaultMaxLogLength,
	}
	for _, opt := range opts {
		opt(s)
	}

	graph, err := s.buildGraph()
	if err != nil {
		return nil, err
	}
	s.graph = graph

	return s, nil
}

func (s *Screener) buildGraph() (*Graph, error) {
	return NewGraphBuilder().
		AddNode(StageClassifyExperience, s.classifyExperience).
		AddNode(StageAssessSkillMatch, s.assessSkillMatch).
		AddNode(StageDeepAnalysis, s.deepProfileAnalysis).
		AddNode(StageHiringDecision, s.hiringDecision).
		AddNode(StageReflection, s.reflect).
		AddNode(StageConfidence, s.scoreConfidence).
		SetEntryPoint(StageClassifyExperience).
		AddEdge(StageClassifyExperience, StageAssessSkillMatch).
		AddConditionalEdges(StageAssessSkillMatch, AfterSkillCheck, map[string]string{
			StageDeepAnalysis:   StageDeepAnalysis,
			StageHiringDecision: StageHiringDecision,
		}).
		AddConditionalEdges(StageDeepAnalysis, AfterDeepAnalysis, map[string]string{
			StageHiringDecision: StageHiringDecision,
		}).
		AddConditionalEdges(StageHiringDecision, AfterDecision, map[string]string{
			StageReflection: StageReflection,
		}).
		AddEdge(StageReflection, StageConfidence).
		AddConditionalEdges(StageConfidence, AfterConfidence(s.maxAttempts, s.threshold), map[string]string{
			StageReflection: StageReflection,
			End:             End,
		}).
		SetStepLimit(fixedStagesPerRun + stagesPerReflection*s.maxAttempts).
		Compile()
}

// ScreenText condenses the resume (when summarization is on), seeds the state
// and runs the graph to completion.
func (s *Screener) ScreenText(ctx context.Context, resumeText, jobDescription string) (*State, error) {
	seed := State{
		Application:    resumeText,
		JobDescription: jobDescription,
	}

	if s.summarize {
		summary, err := s.ask(ctx, stageSummarize, s.prompts.BuildSummaryPrompt(resumeText))
		if err != nil {
			if errors.Is(err, ErrReasoningTimeout) {
				return s.halt(seed, err), nil
			}
			return nil, err
		}
		seed.Application = strings.TrimSpace(summary)
		seed.FullApplication = resumeText
	}

	return s.Run(ctx, seed)
}

// ScreenDocument extracts the source document page by page, joins the pages
// that carry text with newlines and screens the result.
func (s *Screener) ScreenDocument(ctx context.Context, source, jobDescription string) (*State, error) {
	if s.extractor == nil {
		return nil, ErrNoExtractor
	}

	pages, err := s.extractor.ExtractPages(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to extract document: %w", err)
	}

	text := JoinPages(pages)
	if text == "" {
		s.logger.Warn("document yielded no text", zap.String("source", source), zap.Int("pages", len(pages)))
	}

	return s.ScreenText(ctx, text, jobDescription)
}

// Run executes the graph on a prepared state.
func (s *Screener) Run(ctx context.Context, initial State) (*State, error) {
	started := time.Now()

	final, err := s.graph.Run(ctx, initial, s.observe)
	if err != nil {
		if errors.Is(err, ErrReasoningTimeout) {
			return s.halt(final, err), nil
		}
		return nil, fmt.Errorf("screening failed: %w", err)
	}

	fields := []zap.Field{
		zap.String("final_decision", string(final.FinalDecision)),
		zap.Int("reflection_attempts", final.ReflectionAttempts),
		zap.Strings("path", final.Path),
		zap.Duration("elapsed", time.Since(started)),
	}
	if final.ConfidenceScore != nil {
		fields = append(fields, zap.Float64("confidence_score", *final.ConfidenceScore))
	}
	s.logger.Info("screening completed", fields...)

	return &final, nil
}

// JoinPages joins the pages that carry text with newline separators.
func JoinPages(pages []string) string {
	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		if strings.TrimSpace(page) == "" {
			continue
		}
		parts = append(parts, page)
	}
	return strings.Join(parts, "\n")
}

// halt turns a timed-out run into a terminal rejection with zero confidence.
func (s *Screener) halt(state State, cause error) *State {
	s.logger.Warn("reasoning call timed out, rejecting",
		zap.Error(cause),
		zap.Strings("path", state.Path),
		zap.Duration("call_timeout", s.callTimeout),
	)

	state.FinalDecision = DecisionRejectApplication
	state.ConfidenceScore = floatPtr(haltConfidenceScore)
	state.HaltReason = HaltReasonTimeout
	return &state
}

func (s *Screener) observe(stage, next string, state State) {
	s.logger.Debug("stage completed",
		zap.String("stage", stage),
		zap.String("next", next),
		zap.Int("reflection_attempts", state.ReflectionAttempts),
	)
}

type completion struct {
	text string
	err  error
}

// ask sends one prompt under the per-call timeout. The call runs in its own
// goroutine so a completer that ignores its context still cannot block the run.
func (s *Screener) ask(ctx context.Context, stage, prompt string) (string, error) {
	callCtx := ctx
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}

	s.logger.Debug("reasoning request",
		zap.String("stage", stage),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)),
	)

	done := make(chan completion, 1)
	go func() {
		text, err := s.completer.Complete(callCtx, prompt)
		done <- completion{text: text, err: err}
	}()

	var res completion
	select {
	case res = <-done:
	case <-callCtx.Done():
		res = completion{err: callCtx.Err()}
	}

	if res.err != nil {
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%s: %w", stage, ErrReasoningTimeout)
		}
		return "", fmt.Errorf("%s: reasoning call failed: %w", stage, res.err)
	}

	s.logger.Debug("reasoning response",
		zap.String("stage", stage),
		zap.Int("response_length", utf8.RuneCountInString(res.text)),
		zap.String("response_preview", logger.TruncateForLog(res.text, s.maxLogLen)),
	)

	return res.text, nil
}
