// Package pipeline orchestrates the per-file translation loop: discover
// CSVs, assemble documents, write JSON, optionally publish records.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/metar-translator/internal/domain"
	"github.com/couchcryptid/metar-translator/internal/observability"
)

// TableSource discovers and reads input tables.
type TableSource interface {
	Discover(root, pattern string) ([]string, error)
	ReadTable(path string) (domain.Table, error)
}

// DocumentWriter persists one assembled document beside its source CSV and
// returns the output path.
type DocumentWriter interface {
	WriteFor(csvPath string, doc domain.Document) (string, error)
}

// RecordPublisher forwards a document's records to an external sink.
type RecordPublisher interface {
	PublishDocument(ctx context.Context, doc domain.Document) error
}

// Summary reports what one batch run did.
type Summary struct {
	FilesProcessed int
	FilesFailed    int
	RowsProcessed  int
}

// Pipeline runs the translation batch. Files are fully independent, so they
// are processed by a bounded worker pool; rows within a file stay in file
// order.
type Pipeline struct {
	source    TableSource
	writer    DocumentWriter
	publisher RecordPublisher // nil when the Kafka sink is disabled
	logger    *slog.Logger
	metrics   *observability.Metrics
	pattern   string
	workers   int
	ready     atomic.Bool
}

// New creates a Pipeline. publisher may be nil.
func New(source TableSource, writer DocumentWriter, publisher RecordPublisher,
	logger *slog.Logger, metrics *observability.Metrics, pattern string, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		source:    source,
		writer:    writer,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		pattern:   pattern,
		workers:   workers,
	}
}

// CheckReadiness returns nil once at least one file has been translated.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no files processed yet")
	}
	return nil
}

// Run translates every matching CSV under root. Per-file failures are
// logged, counted, and absorbed; only a failed discovery walk or context
// cancellation is returned as an error.
func (p *Pipeline) Run(ctx context.Context, root string) (Summary, error) {
	p.metrics.TranslatorRunning.Set(1)
	defer p.metrics.TranslatorRunning.Set(0)

	paths, err := p.source.Discover(root, p.pattern)
	if err != nil {
		return Summary{}, err
	}
	p.logger.Info("discovered input files", "root", root, "pattern", p.pattern, "count", len(paths))

	var processed, failed, rows atomic.Int64

	g := &errgroup.Group{}
	g.SetLimit(p.workers)
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			n, err := p.processFile(ctx, path)
			if err != nil {
				// One bad input must not stop its siblings.
				p.logger.Error("file failed", "file", path, "error", err)
				p.metrics.FilesFailed.Inc()
				failed.Add(1)
				return nil
			}
			processed.Add(1)
			rows.Add(int64(n))
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers always return nil

	summary := Summary{
		FilesProcessed: int(processed.Load()),
		FilesFailed:    int(failed.Load()),
		RowsProcessed:  int(rows.Load()),
	}
	return summary, ctx.Err()
}

// processFile runs one read-assemble-write(-publish) cycle and returns the
// number of rows translated.
func (p *Pipeline) processFile(ctx context.Context, path string) (int, error) {
	start := time.Now()

	table, err := p.source.ReadTable(path)
	if err != nil {
		return 0, err
	}

	doc := domain.AssembleDocument(table.Path, table.Columns, table.Rows)
	p.observeDocument(doc)

	outPath, err := p.writer.WriteFor(path, doc)
	if err != nil {
		return 0, err
	}

	if p.publisher != nil {
		if err := p.publisher.PublishDocument(ctx, doc); err != nil {
			return 0, err
		}
		p.metrics.RecordsPublished.Add(float64(len(doc.Records)))
	}

	p.metrics.FilesProcessed.Inc()
	p.metrics.RowsProcessed.Add(float64(doc.NRows))
	p.metrics.FileDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)

	p.logger.Info("file translated", "file", path, "output", outPath,
		"rows", doc.NRows, "duration", time.Since(start))
	return doc.NRows, nil
}

// observeDocument derives normalization and extraction metrics from an
// assembled document without re-parsing the input.
func (p *Pipeline) observeDocument(doc domain.Document) {
	for _, rec := range doc.Records {
		for _, spec := range domain.NumericSchema {
			raw, ok := rec[spec.Name+"_raw"].(string)
			if !ok {
				continue
			}
			if trace, _ := rec[spec.Name+"_is_trace"].(bool); trace {
				p.metrics.TraceFields.Inc()
				continue
			}
			if rec[spec.Name+"_v"] == nil && !domain.IsMissing(raw) {
				p.metrics.MalformedNumerics.Inc()
			}
		}

		parsed, ok := rec["metar_parsed"].(domain.ParsedReport)
		if !ok {
			continue
		}
		for key, category := range map[string]string{
			"wind_dir":       "wind",
			"visibility_raw": "visibility",
			"altimeter_A":    "altimeter",
			"clouds":         "clouds",
			"wx_codes":       "wx_codes",
		} {
			if _, matched := parsed[key]; matched {
				p.metrics.ReportMatches.WithLabelValues(category).Inc()
			}
		}
	}
}
