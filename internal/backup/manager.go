package backup

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/oggyb/swipe-core/internal/app"
	"github.com/oggyb/swipe-core/internal/logger"
)

const (
	filePrefix = "swipe_backup_"
	fileSuffix = ".json.gz"
	stampFmt   = "20060102_150405"

	DefaultMinInterval = 23 * time.Hour
	DefaultKeep        = 3
)

// Reporter observes backup outcomes; metrics.Collector implements it.
type Reporter interface {
	BackupFinished(result string)
}

type nopReporter struct{}

func (nopReporter) BackupFinished(string) {}

// Result describes one Run.
type Result struct {
	Written bool
	Name    string
	Deleted []string
}

// Manager takes snapshots and rotates old ones.
type Manager struct {
	appCtx      *app.AppContext
	sink        Sink
	minInterval time.Duration
	keep        int
	reporter    Reporter
	log         *slog.Logger
}

// Option customizes a Manager.
type Option func(*Manager)

func WithMinInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.minInterval = d
		}
	}
}

func WithKeep(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.keep = n
		}
	}
}

func WithReporter(r Reporter) Option {
	return func(m *Manager) {
		if r != nil {
			m.reporter = r
		}
	}
}

func NewManager(appCtx *app.AppContext, sink Sink, opts ...Option) *Manager {
	m := &Manager{
		appCtx:      appCtx,
		sink:        sink,
		minInterval: DefaultMinInterval,
		keep:        DefaultKeep,
		reporter:    nopReporter{},
		log:         appCtx.Logger.With("component", "backup"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name is the object name of a backup taken at t.
func Name(t time.Time) string {
	return filePrefix + t.UTC().Format(stampFmt) + fileSuffix
}

// parseName returns the timestamp of a backup object name.
func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
	t, err := time.ParseInLocation(stampFmt, stamp, time.UTC)
	return t, err == nil
}

// Run takes a snapshot unless the newest backup is younger than the
// minimum interval, then deletes all but the newest keep backups.
//
// Behavior:
//   - Objects in the sink that do not look like backups are ignored.
//   - Rotation runs after a skipped snapshot too.
func (m *Manager) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	now := m.appCtx.Now()

	backups, err := m.list(ctx)
	if err != nil {
		m.reporter.BackupFinished("failed")
		return Result{}, fmt.Errorf("list backups: %w", err)
	}

	var res Result
	if len(backups) > 0 && now.Sub(backups[0].at) < m.minInterval {
		m.log.Debug("backup skipped", "latest", backups[0].name)
		m.reporter.BackupFinished("skipped")
	} else {
		name, err := m.write(ctx, now)
		if err != nil {
			m.reporter.BackupFinished("failed")
			m.log.Error("backup failed", "err", err)
			return Result{}, err
		}
		res.Written, res.Name = true, name
		backups = append([]entry{{name: name, at: now}}, backups...)
		m.reporter.BackupFinished("written")
		m.log.Info("backup written", "name", name, logger.Since(start))
	}

	for _, old := range backups[min(m.keep, len(backups)):] {
		if err := m.sink.Delete(ctx, old.name); err != nil {
			m.log.Warn("delete old backup failed", "name", old.name, "err", err)
			continue
		}
		res.Deleted = append(res.Deleted, old.name)
	}
	if len(res.Deleted) > 0 {
		m.log.Info("old backups removed", "count", len(res.Deleted))
	}
	return res, nil
}

type entry struct {
	name string
	at   time.Time
}

// list returns backups newest first.
func (m *Manager) list(ctx context.Context) ([]entry, error) {
	names, err := m.sink.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []entry
	for _, n := range names {
		if at, ok := parseName(n); ok {
			out = append(out, entry{name: n, at: at})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].at.After(out[j].at) })
	return out, nil
}

func (m *Manager) write(ctx context.Context, now time.Time) (string, error) {
	snap, err := Capture(ctx, m.appCtx.DB, now)
	if err != nil {
		return "", fmt.Errorf("capture: %w", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, snap); err != nil {
		return "", err
	}
	name := Name(now)
	if err := m.sink.Put(ctx, name, &buf, int64(buf.Len())); err != nil {
		return "", fmt.Errorf("store %s: %w", name, err)
	}
	return name, nil
}
