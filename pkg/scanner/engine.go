package scanner

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/promptgate/promptgate/pkg/classify"
	"github.com/promptgate/promptgate/pkg/matcher"
	"github.com/promptgate/promptgate/pkg/rule"
	"github.com/promptgate/promptgate/pkg/types"
	"github.com/promptgate/promptgate/pkg/validator"
)

// Engine validates prompt documents: single strings, single files, or whole
// directory trees. Construct with New and release with Close.
type Engine struct {
	config   Config
	matcher  matcher.Matcher
	registry *validator.Registry
}

// New creates an engine from config. Nil Rules or Placeholders load the
// builtin sets.
func New(cfg Config) (*Engine, error) {
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	loader := rule.NewLoader()
	if cfg.Rules == nil {
		rules, err := loader.LoadBuiltinRules()
		if err != nil {
			return nil, fmt.Errorf("failed to load builtin rules: %w", err)
		}
		cfg.Rules = rules
	}
	if cfg.Placeholders == nil {
		placeholders, err := loader.LoadBuiltinPlaceholders()
		if err != nil {
			return nil, fmt.Errorf("failed to load builtin placeholders: %w", err)
		}
		cfg.Placeholders = placeholders
	}

	m, err := matcher.New(matcher.Config{
		Rules:        cfg.Rules,
		Placeholders: cfg.Placeholders,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create matcher: %w", err)
	}

	registry := validator.NewRegistry(
		validator.NewTaggedSectionValidator(),
		validator.NewCommandValidator(),
		validator.NewSecurityScanner(m),
		validator.NewQualityScorer(),
	)

	return &Engine{
		config:   cfg,
		matcher:  m,
		registry: registry,
	}, nil
}

// Close releases matcher resources. The engine must not be used afterwards.
func (e *Engine) Close() error {
	return e.matcher.Close()
}

// ValidateContent validates an in-memory document. The path is used for
// classification and reporting only; no file is read.
func (e *Engine) ValidateContent(path, content string) *types.ValidationResult {
	doc := classify.Document(path, content)
	res := types.NewValidationResult(doc.Path, doc.Category)
	for _, d := range e.registry.Descriptors() {
		if !d.AppliesTo(doc) {
			continue
		}
		partial := validator.RunSafely(d, doc)
		partial.MergeInto(res)
	}
	return res.Seal()
}

// ValidateFile reads and validates a single file. A read failure does not
// abort a corpus run: it is reported as an invalid result for that path.
func (e *Engine) ValidateFile(path string) *types.ValidationResult {
	content, err := os.ReadFile(path)
	if err != nil {
		res := types.NewValidationResult(path, types.CategoryGeneral)
		res.Errors = append(res.Errors, fmt.Sprintf("IOError: failed to read file: %v", err))
		res.QualityScore = 0
		return res.Seal()
	}
	return e.ValidateContent(path, string(content))
}

// ValidateDirectory walks root and validates every eligible file in
// parallel. The returned stats are complete on success and partial when ctx
// is cancelled mid-run; the context error is returned alongside them.
func (e *Engine) ValidateDirectory(ctx context.Context, root string) (*types.AggregateStats, error) {
	start := time.Now()
	agg := types.NewAggregateStats()

	info, err := os.Stat(root)
	if err != nil {
		return agg, fmt.Errorf("failed to access %s: %w", root, err)
	}
	if !info.IsDir() {
		return agg, fmt.Errorf("%s is not a directory", root)
	}

	files, err := collectFiles(ctx, root, e.config)
	if err != nil {
		return agg, err
	}

	origCtx := ctx
	g, ctx := errgroup.WithContext(ctx)
	pathsCh := make(chan string, e.config.Workers*2)

	g.Go(func() error {
		defer close(pathsCh)
		for _, f := range files {
			select {
			case pathsCh <- f:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < e.config.Workers; i++ {
		g.Go(func() error {
			for f := range pathsCh {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				res := e.ValidateFile(f)
				agg.Merge(res)
				if e.config.OnResult != nil {
					e.config.OnResult(res)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return agg, err
	}
	if origCtx.Err() != nil {
		return agg, origCtx.Err()
	}

	e.checkExpectedCount(agg)

	if e.config.SlowThreshold > 0 {
		if elapsed := time.Since(start); elapsed > e.config.SlowThreshold {
			agg.AddWarning(fmt.Sprintf("validation run took %s, exceeding threshold %s",
				elapsed.Round(time.Millisecond), e.config.SlowThreshold))
		}
	}

	return agg, nil
}

// checkExpectedCount compares the validated document count against the
// configured expectation. Mismatches warn, or fail the run in strict mode.
func (e *Engine) checkExpectedCount(agg *types.AggregateStats) {
	if e.config.ExpectedCount <= 0 {
		return
	}
	total := agg.Summary().TotalFiles
	if total == e.config.ExpectedCount {
		return
	}
	msg := fmt.Sprintf("expected %d documents, found %d", e.config.ExpectedCount, total)
	if e.config.StrictCount {
		agg.AddError(msg)
	} else {
		agg.AddWarning(msg)
	}
}
