// Package engine is the facade the presentation layer talks to: it owns
// the ingest pipeline (parse, correlate, index, publish) and the lifecycle
// of the current collection, and narrows reads to the query API.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/config"
	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/correlator"
	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/exporter"
	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/logging"
	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/metrics"
	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/parser"
	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/queryengine"
	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/store"
	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/model"
)

// ErrNoSources is returned when a folder source contains no readable log
// files at all.
var ErrNoSources = errors.New("no readable log sources")

// Engine wires the pipeline components around one shared store.
type Engine struct {
	cfg        *config.Config
	log        *logging.Logger
	parser     *parser.Parser
	correlator *correlator.Correlator
	store      *store.Store
	query      *queryengine.Engine

	// mu guards the in-flight ingest handle. Opening a new source cancels
	// a prior in-flight ingest cooperatively; the loser never publishes.
	mu       sync.Mutex
	inflight context.CancelFunc
}

// New builds an engine from configuration.
func New(cfg *config.Config, log *logging.Logger) *Engine {
	if log == nil {
		log = logging.Default()
	}
	st := store.New()
	return &Engine{
		cfg:    cfg,
		log:    log.With(logging.Component("engine")),
		parser: parser.New(cfg.Parser.EffectiveWorkers(), log),
		correlator: correlator.New(correlator.Config{
			InactivityGap:   cfg.Correlator.InactivityGap(),
			SyntheticBucket: cfg.Correlator.SyntheticBucket(),
		}, log),
		store: st,
		query: queryengine.New(st, log),
	}
}

// OpenSource ingests a log file or folder, replacing the current
// collection wholesale on success. A failure leaves the previous
// collection active.
func (e *Engine) OpenSource(ctx context.Context, path string) (*model.IngestSummary, error) {
	return e.ingest(ctx, path, false)
}

// Append ingests an additional source into the open collection.
// Correlation re-runs only over the prior residual events plus the new
// events; resolved sessions are never re-scanned.
func (e *Engine) Append(ctx context.Context, path string) (*model.IngestSummary, error) {
	return e.ingest(ctx, path, true)
}

// Evaluate runs a filter spec against the published collection.
func (e *Engine) Evaluate(spec model.FilterSpec) *model.ResultSet {
	return e.query.Evaluate(spec)
}

// DimensionValues enumerates known values for a dimension.
func (e *Engine) DimensionValues(d model.Dimension) ([]string, error) {
	return e.query.DimensionValues(d)
}

// Export writes a result set to path; the format follows the extension
// (.xlsx or .csv).
func (e *Engine) Export(rs *model.ResultSet, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return exporter.WriteXLSX(rs, path)
	case ".csv":
		return exporter.WriteCSV(rs, path)
	default:
		return fmt.Errorf("unsupported export format %q (want .xlsx or .csv)", filepath.Ext(path))
	}
}

func (e *Engine) ingest(ctx context.Context, path string, appendMode bool) (*model.IngestSummary, error) {
	mode := "open"
	if appendMode {
		mode = "append"
	}
	started := time.Now()

	ictx, cancel := e.begin(ctx)
	defer e.end(cancel)

	summary := &model.IngestSummary{
		RunID:  uuid.NewString(),
		Append: appendMode,
	}
	log := e.log.With(logging.RunID(summary.RunID))

	sources, err := resolveSources(path)
	if err != nil {
		metrics.IngestsTotal.WithLabelValues(mode, "error").Inc()
		return nil, err
	}

	var (
		newEvents []*model.RawEvent
		newErrors []model.ParseError
	)
	for _, src := range sources {
		res, perr := e.parser.ParseFile(ictx, src)
		if perr != nil {
			if ictx.Err() != nil {
				metrics.IngestsTotal.WithLabelValues(mode, "cancelled").Inc()
				return nil, ictx.Err()
			}
			// SourceUnavailable: report once, keep ingesting the rest.
			log.Warn("source unavailable", logging.Source(src), logging.Err(perr))
			summary.SourceErrors = append(summary.SourceErrors, model.SourceError{Path: src, Reason: perr.Error()})
			continue
		}
		newEvents = append(newEvents, res.Events...)
		newErrors = append(newErrors, res.Errors...)
		summary.Sources = append(summary.Sources, src)
	}
	if len(summary.Sources) == 0 && len(sources) > 0 {
		metrics.IngestsTotal.WithLabelValues(mode, "error").Inc()
		return nil, fmt.Errorf("%w under %s", ErrNoSources, path)
	}

	metrics.RecordsParsedTotal.Add(float64(len(newEvents)))
	metrics.ParseErrorsTotal.Add(float64(len(newErrors)))

	var (
		sessions    []*model.Session
		events      []*model.RawEvent
		parseErrors []model.ParseError
	)
	if appendMode {
		prev := e.store.Snapshot()
		base := len(prev.Events())
		for i, ev := range newEvents {
			ev.Seq = base + i
		}
		res := e.correlator.Correlate(append(append([]*model.RawEvent{}, prev.Residual()...), newEvents...))
		sessions = mergeSessions(prev.Sessions(), res.Sessions)
		events = append(append([]*model.RawEvent{}, prev.Events()...), newEvents...)
		parseErrors = append(append([]model.ParseError{}, prev.ParseErrors()...), newErrors...)
		summary.ResidualCount = len(res.Residual)
		if coll, berr := store.Build(sessions, events, parseErrors, res.Residual); berr == nil {
			return e.publish(ictx, coll, summary, newErrors, mode, started, log)
		} else {
			err = berr
		}
	} else {
		// Each source numbers its events from zero; renumber across the
		// merged order so the tiebreak for tied timestamps stays stable.
		for i, ev := range newEvents {
			ev.Seq = i
		}
		res := e.correlator.Correlate(newEvents)
		summary.ResidualCount = len(res.Residual)
		if coll, berr := store.Build(res.Sessions, newEvents, newErrors, res.Residual); berr == nil {
			return e.publish(ictx, coll, summary, newErrors, mode, started, log)
		} else {
			err = berr
		}
	}

	// IngestFailure: nothing was published, the previous collection stays.
	metrics.IngestsTotal.WithLabelValues(mode, "error").Inc()
	return nil, fmt.Errorf("index build failed: %w", err)
}

func (e *Engine) publish(ictx context.Context, coll *store.Collection, summary *model.IngestSummary, newErrors []model.ParseError, mode string, started time.Time, log *logging.Logger) (*model.IngestSummary, error) {
	// A newer open may have cancelled this ingest while correlation and
	// index build were running; it must not publish over the winner.
	if err := ictx.Err(); err != nil {
		metrics.IngestsTotal.WithLabelValues(mode, "cancelled").Inc()
		return nil, err
	}
	e.store.Publish(coll)

	summary.EventCount = len(coll.Events())
	summary.SessionCount = coll.Len()
	summary.ErrorCount = len(newErrors)
	if max := e.cfg.Ingest.MaxDiagnostics; len(newErrors) > max {
		summary.Diagnostics = newErrors[:max]
	} else {
		summary.Diagnostics = newErrors
	}
	summary.Duration = time.Since(started)

	metrics.IngestsTotal.WithLabelValues(mode, "ok").Inc()
	metrics.IngestDuration.Observe(summary.Duration.Seconds())
	metrics.EventsLoaded.Set(float64(summary.EventCount))
	metrics.SessionsLoaded.Set(float64(summary.SessionCount))

	log.Info("collection published",
		logging.Events(summary.EventCount),
		logging.Sessions(summary.SessionCount),
		logging.Residual(summary.ResidualCount),
		logging.Errors(summary.ErrorCount),
		logging.Duration(summary.Duration),
	)
	return summary, nil
}

// begin cancels any in-flight ingest and registers this one.
func (e *Engine) begin(ctx context.Context) (context.Context, context.CancelFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inflight != nil {
		e.inflight()
	}
	ictx, cancel := context.WithCancel(ctx)
	e.inflight = cancel
	return ictx, cancel
}

func (e *Engine) end(cancel context.CancelFunc) {
	cancel()
	e.mu.Lock()
	e.inflight = nil
	e.mu.Unlock()
}

// resolveSources expands a path into the ordered list of log files to
// ingest. Folders are read sorted so merged collections are deterministic.
func resolveSources(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open source %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read folder %s: %w", path, err)
	}
	var sources []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !isLogName(entry.Name()) {
			continue
		}
		sources = append(sources, filepath.Join(path, entry.Name()))
	}
	sort.Strings(sources)
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoSources, path)
	}
	return sources, nil
}

func isLogName(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, ".log") || strings.HasSuffix(n, ".txt") ||
		strings.HasSuffix(n, ".log.gz") || strings.HasSuffix(n, ".txt.gz") ||
		strings.HasSuffix(n, ".xml")
}

// mergeSessions combines resolved sessions with newly correlated ones,
// keeping chronological order with a stable merge.
func mergeSessions(a, b []*model.Session) []*model.Session {
	out := make([]*model.Session, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if !b[j].Start.Before(a[i].Start) {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
