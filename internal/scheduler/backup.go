package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/logger"
)

// Snapshotter copies the current document to a file.
type Snapshotter interface {
	Snapshot(ctx context.Context, dst string) error
}

// Backup writes one document snapshot per day into dir and keeps the
// newest keep files. keep <= 0 keeps everything.
type Backup struct {
	store         Snapshotter
	dir           string
	keep          int
	logger        logger.Logger
	interval      time.Duration
	now           func() time.Time
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}

	mu      sync.RWMutex
	lastRun time.Time
	lastErr error
}

// NewBackup creates a backup scheduler. manualTrigger may be nil.
func NewBackup(
	store Snapshotter,
	dir string,
	keep int,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *Backup {
	return &Backup{
		store:         store,
		dir:           dir,
		keep:          keep,
		logger:        log.With(logger.String("component", "backup"), logger.String("dir", dir)),
		interval:      interval,
		now:           time.Now,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start creates the backup directory, takes a first snapshot and then
// snapshots on every tick or manual trigger until Stop or ctx is done.
func (b *Backup) Start(ctx context.Context) error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup dir: %w", err)
	}

	if err := b.Run(ctx); err != nil {
		b.logger.Warn("initial backup failed", logger.Error(err))
	}

	ticker := time.NewTicker(b.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := b.Run(ctx); err != nil {
					b.logger.Error("backup failed", logger.Error(err))
				}
			case <-b.manualTrigger:
				b.logger.Info("manual backup triggered")
				if err := b.Run(ctx); err != nil {
					b.logger.Error("backup failed", logger.Error(err))
				}
			case <-b.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the scheduler. Safe to call more than once.
func (b *Backup) Stop() {
	b.stopOnce.Do(func() { close(b.stopCh) })
}

// Run takes one snapshot and prunes old ones.
func (b *Backup) Run(ctx context.Context) error {
	now := b.now()
	dst := filepath.Join(b.dir, domain.BackupFilename(now))

	err := b.store.Snapshot(ctx, dst)

	b.mu.Lock()
	b.lastRun = now
	b.lastErr = err
	b.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to snapshot document: %w", err)
	}
	b.logger.Info("document backed up", logger.String("file", filepath.Base(dst)))

	removed, err := b.prune()
	if err != nil {
		return fmt.Errorf("failed to prune backups: %w", err)
	}
	if removed > 0 {
		b.logger.Info("old backups pruned", logger.Int("removed", removed))
	}
	return nil
}

// LastRun returns the time and outcome of the latest snapshot attempt.
// A zero time means no attempt yet.
func (b *Backup) LastRun() (time.Time, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastRun, b.lastErr
}

// prune removes the oldest backup files beyond keep. File names embed the
// date, so lexical order is chronological.
func (b *Backup) prune() (int, error) {
	if b.keep <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return 0, err
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.Type().IsRegular() && strings.HasPrefix(name, domain.BackupPrefix) && strings.HasSuffix(name, domain.BackupExt) {
			names = append(names, name)
		}
	}
	if len(names) <= b.keep {
		return 0, nil
	}

	sort.Strings(names)
	stale := names[:len(names)-b.keep]
	for _, name := range stale {
		if err := os.Remove(filepath.Join(b.dir, name)); err != nil {
			return 0, err
		}
	}
	return len(stale), nil
}
