// Package report drives one inventory run: every catalog query in order,
// one sheet per query, one workbook written at the very end. A run that
// fails anywhere leaves no file behind.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/IBM/SVCheck/internal/excel"
	"github.com/IBM/SVCheck/internal/exitcode"
	"github.com/IBM/SVCheck/internal/svapi"
	"go.uber.org/zap"
)

// TimestampLayout names the run's artifacts; the log file shares it
const TimestampLayout = "2006-01-02_15-04-05"

// State tracks where a run is in its lifecycle
type State int

const (
	StateIdle State = iota
	StateAuthenticating
	StateRunning
	StateFinalizing
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAuthenticating:
		return "authenticating"
	case StateRunning:
		return "running"
	case StateFinalizing:
		return "finalizing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Config configures one report run
type Config struct {
	OutputRoot string    // reports land under <root>/<target>/
	Timestamp  time.Time // stamp shared by the run's artifacts
	Catalog    []Query   // nil means the builtin catalog
}

// Orchestrator runs the catalog against one target and writes the workbook
type Orchestrator struct {
	client  *svapi.Client
	logger  *zap.Logger
	catalog []Query
	root    string
	stamp   time.Time

	state      State
	queryIndex int
}

// New creates an orchestrator for one run
func New(client *svapi.Client, logger *zap.Logger, cfg Config) *Orchestrator {
	queries := cfg.Catalog
	if queries == nil {
		queries = Catalog()
	}
	stamp := cfg.Timestamp
	if stamp.IsZero() {
		stamp = time.Now()
	}
	return &Orchestrator{
		client:  client,
		logger:  logger,
		catalog: queries,
		root:    cfg.OutputRoot,
		stamp:   stamp,
		state:   StateIdle,
	}
}

// State returns the run's current lifecycle state
func (o *Orchestrator) State() State {
	return o.state
}

// Run executes the whole catalog and returns the path of the written
// workbook. Queries run strictly in catalog order, one at a time; the
// first failure aborts the run after a best-effort session close, and no
// file is written on any failure path.
func (o *Orchestrator) Run(ctx context.Context, target, username, password string) (string, error) {
	o.state = StateAuthenticating
	session, err := o.client.Authenticate(ctx, target, username, password)
	if err != nil {
		return "", o.fail(err)
	}

	workbook, err := excel.NewWorkbook()
	if err != nil {
		o.client.Close(ctx, session)
		return "", o.fail(err)
	}

	o.state = StateRunning
	for i, query := range o.catalog {
		o.queryIndex = i

		records, err := o.fetch(ctx, session, query)
		if err != nil {
			o.client.Close(ctx, session)
			return "", o.fail(fmt.Errorf("catalog entry %s: %w", query.Name, err))
		}
		if err := workbook.AddSheet(query.Name, records); err != nil {
			o.client.Close(ctx, session)
			return "", o.fail(err)
		}

		o.logger.Info("Sheet complete",
			zap.String("sheet", query.Name),
			zap.String("command", query.Command),
			zap.Int("records", len(records)))
	}

	o.state = StateFinalizing
	o.client.Close(ctx, session)

	path, err := o.outputPath(target)
	if err != nil {
		return "", o.fail(err)
	}
	if err := workbook.Save(path); err != nil {
		return "", o.fail(err)
	}

	o.state = StateDone
	o.logger.Info("Successfully generated report", zap.String("path", path))
	return path, nil
}

// fetch runs one catalog query. The system sheet goes through the summary
// transform; everything else is the raw record list.
func (o *Orchestrator) fetch(ctx context.Context, session *svapi.Session, query Query) ([]svapi.Record, error) {
	if query.Command == "lssystem" {
		return systemSummary(ctx, o.client, session)
	}
	return o.client.Query(ctx, session, query.Command)
}

// outputPath creates the per-target directory and returns the workbook path
func (o *Orchestrator) outputPath(target string) (string, error) {
	dir := filepath.Join(o.root, target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("cannot create %s: %v: %w", dir, err, exitcode.ErrExcelWrite)
	}
	name := fmt.Sprintf("SVCheck_%s_%s.xlsx", target, o.stamp.Format(TimestampLayout))
	return filepath.Join(dir, name), nil
}

func (o *Orchestrator) fail(err error) error {
	o.state = StateFailed
	return err
}
