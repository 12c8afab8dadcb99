// Package parser turns raw NPS/IAS log bytes into ordered RawEvent
// sequences. Large sources are split at record-safe boundaries and parsed
// by parallel workers; chunk outputs are merged back in byte order, so the
// result is identical for every worker count.
package parser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/logging"
	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/model"
)

// cancelCheckInterval is the record granularity at which workers observe
// cancellation.
const cancelCheckInterval = 256

// Result is the outcome of parsing one source. Records always equals
// len(Events) + len(Errors): every record boundary is accounted for.
type Result struct {
	Events  []*model.RawEvent
	Errors  []model.ParseError
	Records int
	Format  Format
}

// chunkResult is one worker's output for one chunk, in input order.
type chunkResult struct {
	events  []*model.RawEvent
	errors  []model.ParseError
	records int
}

// Parser parses log sources with a bounded worker pool. Workers share no
// mutable state; each writes only its own chunk slot.
type Parser struct {
	workers int
	log     *logging.Logger
}

// New creates a Parser that splits sources into at most workers chunks.
func New(workers int, log *logging.Logger) *Parser {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logging.Default()
	}
	return &Parser{workers: workers, log: log.With(logging.Component("parser"))}
}

// ParseFile parses a single log file. The returned error is non-nil only
// when the source itself cannot be read or the parse was cancelled;
// malformed records are reported inside the Result.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Result, error) {
	data, err := readSource(path)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", path, err)
	}
	format := SniffFormat(data)
	chunks := splitChunks(data, format, p.workers)

	p.log.Debug("parsing source",
		logging.Source(path),
		logging.Workers(p.workers),
		slog.String("format", format.String()),
		slog.Int("chunks", len(chunks)),
		slog.Int("bytes", len(data)),
	)

	// Fan-out: one worker per chunk, results collected into fixed slots so
	// the merge preserves byte order regardless of completion order.
	results := make([]chunkResult, len(chunks))
	var wg sync.WaitGroup
	for i, ch := range chunks {
		wg.Add(1)
		go func(i int, ch chunk) {
			defer wg.Done()
			if format == FormatXML {
				results[i] = parseXMLChunk(ctx, ch, path)
			} else {
				results[i] = parseIASChunk(ctx, ch, path)
			}
		}(i, ch)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Format: format}
	for _, cr := range results {
		res.Events = append(res.Events, cr.events...)
		res.Errors = append(res.Errors, cr.errors...)
		res.Records += cr.records
	}
	for i, ev := range res.Events {
		ev.Seq = i
	}
	return res, nil
}
