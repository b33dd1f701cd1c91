package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driving"
	"github.com/custodia-labs/chpl-search/internal/logger"
)

// Ensure CorpusLoader implements the interface.
var _ driving.CorpusService = (*CorpusLoader)(nil)

// InvalidPathMessage is reported when the corpus folder does not exist.
const InvalidPathMessage = "Invalid input path. Please provide a valid folder path."

// CorpusLoader reads a folder of leaflets, runs each one through
// normalisation, segmentation and cleaning, and fills a document store.
type CorpusLoader struct {
	normalizer *Normalizer
	segmenter  *Segmenter
	cleaner    *FieldCleaner
	settings   domain.CorpusSettings
	extractors map[string]driven.PageExtractor
}

// NewCorpusLoader creates a loader. Extractors are keyed by the extensions
// they report; only extensions listed in settings are read.
func NewCorpusLoader(
	normalizer *Normalizer,
	segmenter *Segmenter,
	cleaner *FieldCleaner,
	settings domain.CorpusSettings,
	extractors ...driven.PageExtractor,
) *CorpusLoader {
	byExt := make(map[string]driven.PageExtractor)
	for _, ex := range extractors {
		for _, ext := range ex.Extensions() {
			byExt[normaliseExt(ext)] = ex
		}
	}
	return &CorpusLoader{
		normalizer: normalizer,
		segmenter:  segmenter,
		cleaner:    cleaner,
		settings:   settings,
		extractors: byExt,
	}
}

// Load implements driving.CorpusService.
func (l *CorpusLoader) Load(ctx context.Context, dir string, store driven.DocumentStore) (*domain.ProcessingReport, error) {
	logger.Section("Corpus Load")
	defer logger.Elapsed("corpus load", time.Now())

	report := &domain.ProcessingReport{
		RunID:  uuid.New().String(),
		Source: dir,
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		logger.Warn("%s (%s)", InvalidPathMessage, dir)
		report.InvalidPath = true
		store.Freeze()
		return report, nil
	}

	files, err := l.listFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	logger.Debug("Run %s: %d candidate files in %s", report.RunID, len(files), dir)

	docs := make([]*domain.CleanedDocument, len(files))
	outcomes := make([]domain.Outcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers())

	for i, name := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, outcome, err := l.processFile(gctx, filepath.Join(dir, name), name)
			if err != nil {
				return err
			}
			docs[i] = doc
			outcomes[i] = outcome
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return report, fmt.Errorf("load %s: %w", dir, err)
	}

	for i, outcome := range outcomes {
		report.Add(outcome)
		if docs[i] == nil {
			continue
		}
		if err := store.Add(*docs[i]); err != nil {
			return report, fmt.Errorf("add %s: %w", outcome.Filename, err)
		}
	}
	store.Freeze()

	logger.Info("Loaded %d documents, skipped %d files and %d pages",
		report.Loaded(), report.Skipped(), report.SkippedPages())
	return report, nil
}

// processFile turns document problems into a skipped outcome. Only an
// unreachable analyzer is returned as an error: it would fail every file.
func (l *CorpusLoader) processFile(
	ctx context.Context, path, name string,
) (*domain.CleanedDocument, domain.Outcome, error) {
	outcome := domain.Outcome{Filename: name, Status: domain.OutcomeSkipped}

	raw, err := l.readPages(ctx, path, name, &outcome)
	if err != nil {
		outcome.Reason = err.Error()
		logger.Warn("Skipping %s: %v", name, err)
		return nil, outcome, nil
	}

	normalised := l.normalizer.Normalize(raw.PageText)
	segmented := l.segmenter.Segment(name, normalised)
	cleaned, err := l.cleaner.CleanDocument(ctx, segmented)
	if errors.Is(err, domain.ErrAnalyzerUnavailable) {
		return nil, outcome, err
	}
	if err != nil {
		outcome.Reason = err.Error()
		logger.Warn("Skipping %s: %v", name, err)
		return nil, outcome, nil
	}

	outcome.Status = domain.OutcomeOK
	logger.Debug("Loaded %s (%d pages, %d skipped)", name, outcome.Pages, len(outcome.SkippedPages))
	return &cleaned, outcome, nil
}

// readPages joins the text of the first MaxPages pages. Pages that fail are
// recorded on the outcome and left out.
func (l *CorpusLoader) readPages(
	ctx context.Context, path, name string, outcome *domain.Outcome,
) (domain.RawDocument, error) {
	ex, ok := l.extractors[normaliseExt(filepath.Ext(name))]
	if !ok {
		return domain.RawDocument{}, fmt.Errorf("%s: %w", name, domain.ErrExtractorUnavailable)
	}

	src, err := ex.Open(ctx, path)
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = src.Close() }()

	pages := src.PageCount()
	if l.settings.MaxPages > 0 && pages > l.settings.MaxPages {
		pages = l.settings.MaxPages
	}
	outcome.Pages = pages

	var b strings.Builder
	for page := 1; page <= pages; page++ {
		text, err := src.PageText(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return domain.RawDocument{}, ctx.Err()
			}
			logger.Warn("Skipping page %d of %s: %v", page, name, err)
			outcome.SkippedPages = append(outcome.SkippedPages, domain.PageSkip{Page: page, Reason: err.Error()})
			continue
		}
		b.WriteString(text)
		b.WriteString(" ")
	}

	text := strings.NewReplacer("\n", "", "\r", "").Replace(b.String())
	return domain.RawDocument{Filename: name, PageText: text}, nil
}

// listFiles returns the regular files in dir whose extension is enabled,
// sorted by name.
func (l *CorpusLoader) listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	enabled := make(map[string]bool, len(l.settings.Extensions))
	for _, ext := range l.settings.Extensions {
		enabled[normaliseExt(ext)] = true
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := normaliseExt(filepath.Ext(e.Name()))
		if len(enabled) > 0 && !enabled[ext] {
			continue
		}
		if len(enabled) == 0 {
			if _, ok := l.extractors[ext]; !ok {
				continue
			}
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

func (l *CorpusLoader) workers() int {
	if l.settings.Workers > 0 {
		return l.settings.Workers
	}
	return 1
}

// normaliseExt lower-cases an extension and strips its leading dot.
func normaliseExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
