// Package gateway persists snapshots in two tiers: a durable local commit that is always
// attempted first, and a best-effort mirror to the remote blob store whose failures only
// raise a pending-sync flag.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/meltforce/threehundred/internal/ledger"
	"github.com/meltforce/threehundred/internal/metrics"
	"github.com/meltforce/threehundred/internal/remote"
	"github.com/meltforce/threehundred/internal/storage"
)

// Source says where a loaded snapshot came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
	SourceEmpty  Source = "empty"
)

// Status is the sync state shown to the user.
type Status struct {
	RemoteEnabled bool       `json:"remote_enabled"`
	BinID         string     `json:"bin_id,omitempty"`
	Pending       bool       `json:"pending"`
	Online        bool       `json:"online"`
	LastError     string     `json:"last_error,omitempty"`
	LastSyncAt    *time.Time `json:"last_sync_at,omitempty"`
	LoadedFrom    Source     `json:"loaded_from,omitempty"`
}

// Gateway is safe for concurrent use. Remote writes are serialised and always send the
// latest local snapshot.
type Gateway struct {
	store   storage.Store
	remote  *remote.Client
	metrics *metrics.Manager
	log     *slog.Logger

	pushMu sync.Mutex

	mu          sync.Mutex
	binID       string
	generation  uint64
	pending     bool
	unreachable bool
	lastErr     string
	lastSync    time.Time
	loadedFrom  Source
}

// New creates a gateway. binID, when set, overrides the bin ID remembered in the store.
func New(store storage.Store, rc *remote.Client, binID string, m *metrics.Manager, log *slog.Logger) *Gateway {
	return &Gateway{store: store, remote: rc, binID: binID, metrics: m, log: log}
}

// Load returns the best available snapshot: the remote copy when it can be fetched (also
// written to the local store), otherwise the local copy, otherwise an empty snapshot.
// While the local store holds changes the remote never received, the local copy wins and
// the gateway starts out pending.
func (g *Gateway) Load(ctx context.Context) (ledger.Snapshot, Source) {
	if g.remote.Enabled() && g.storedPending(ctx) {
		g.log.Info("local changes not yet mirrored, skipping remote load")
		g.mu.Lock()
		g.pending = true
		g.mu.Unlock()
		g.metrics.GaugePendingSync.Set(1)
	} else if snap, ok := g.loadRemote(ctx); ok {
		g.setLoaded(SourceRemote)
		return snap, SourceRemote
	}

	data, err := g.store.LoadSnapshot(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			g.log.Error("loading local snapshot", "error", err)
		}
		g.setLoaded(SourceEmpty)
		return ledger.EmptySnapshot(), SourceEmpty
	}
	snap, err := ledger.DecodeSnapshot(data)
	if err != nil {
		g.log.Error("decoding local snapshot", "error", err)
		g.setLoaded(SourceEmpty)
		return ledger.EmptySnapshot(), SourceEmpty
	}
	g.setLoaded(SourceLocal)
	return snap, SourceLocal
}

func (g *Gateway) loadRemote(ctx context.Context) (ledger.Snapshot, bool) {
	if !g.remote.Enabled() {
		return ledger.Snapshot{}, false
	}
	binID, err := g.currentBinID(ctx)
	if err != nil || binID == "" {
		return ledger.Snapshot{}, false
	}

	start := time.Now()
	data, err := g.remote.Latest(ctx, binID)
	if err == nil {
		var snap ledger.Snapshot
		if snap, err = ledger.DecodeSnapshot(data); err == nil {
			g.record(ctx, storage.SyncPull, len(data), time.Since(start), nil)
			if err := g.store.SaveSnapshot(ctx, data); err != nil {
				g.log.Error("caching remote snapshot locally", "error", err)
			}
			g.log.Info("loaded snapshot from remote", "bin_id", binID, "bytes", len(data))
			return snap, true
		}
	}
	g.record(ctx, storage.SyncPull, 0, time.Since(start), err)
	g.log.Warn("remote unavailable, using local snapshot", "error", err)
	g.mu.Lock()
	g.unreachable = true
	g.lastErr = err.Error()
	g.mu.Unlock()
	return ledger.Snapshot{}, false
}

// Save commits snap locally and then mirrors the local snapshot to the remote store. err is
// non-nil only when the local commit fails. synced reports whether the remote copy was
// written; a remote failure marks the gateway pending and is otherwise swallowed.
func (g *Gateway) Save(ctx context.Context, snap ledger.Snapshot) (synced bool, err error) {
	if err := g.Commit(ctx, snap); err != nil {
		return false, err
	}
	return g.Mirror(ctx), nil
}

// Commit writes snap to the local store. With a remote configured the store is also
// marked pending until a later Mirror uploads it.
func (g *Gateway) Commit(ctx context.Context, snap ledger.Snapshot) error {
	data, err := ledger.EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := g.store.SaveSnapshot(ctx, data); err != nil {
		return fmt.Errorf("local commit: %w", err)
	}
	if g.remote.Enabled() {
		g.mu.Lock()
		g.generation++
		g.mu.Unlock()
		g.setStoredPending(ctx, true)
	}
	return nil
}

// Mirror uploads the current local snapshot and reports whether the remote copy was
// written. It returns false without a remote.
func (g *Gateway) Mirror(ctx context.Context) bool {
	if !g.remote.Enabled() {
		return false
	}
	synced, err := g.mirrorLocal(ctx)
	if err != nil {
		g.fail(err)
		return false
	}
	return synced
}

// Retry pushes the locally stored snapshot to the remote store.
func (g *Gateway) Retry(ctx context.Context) (bool, error) {
	if !g.remote.Enabled() {
		return false, remote.ErrNotConfigured
	}
	return g.mirrorLocal(ctx)
}

func (g *Gateway) mirrorLocal(ctx context.Context) (bool, error) {
	g.pushMu.Lock()
	defer g.pushMu.Unlock()

	// Read the generation before the snapshot: a commit landing in between leaves the
	// store pending for the next mirror.
	g.mu.Lock()
	gen := g.generation
	g.mu.Unlock()

	data, err := g.store.LoadSnapshot(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		data, err = ledger.EncodeSnapshot(ledger.EmptySnapshot())
	}
	if err != nil {
		return false, fmt.Errorf("reading local snapshot: %w", err)
	}
	if !g.push(ctx, data) {
		return false, nil
	}

	g.mu.Lock()
	current := g.generation == gen
	g.mu.Unlock()
	if current {
		g.setStoredPending(ctx, false)
	}
	return true, nil
}

func (g *Gateway) push(ctx context.Context, data []byte) bool {
	if !g.remote.Enabled() {
		return false
	}
	binID, err := g.currentBinID(ctx)
	if err != nil {
		g.fail(err)
		return false
	}

	start := time.Now()
	direction := storage.SyncPush
	if binID == "" {
		direction = storage.SyncCreate
		binID, err = g.remote.Create(ctx, data)
		if err == nil {
			g.rememberBinID(ctx, binID)
		}
	} else {
		err = g.remote.Update(ctx, binID, data)
	}
	g.record(ctx, direction, len(data), time.Since(start), err)

	if err != nil {
		g.fail(err)
		return false
	}
	g.mu.Lock()
	g.pending = false
	g.unreachable = false
	g.lastErr = ""
	g.lastSync = time.Now()
	g.mu.Unlock()
	g.metrics.GaugePendingSync.Set(0)
	return true
}

func (g *Gateway) fail(err error) {
	g.log.Warn("remote sync failed, changes kept locally", "error", err)
	g.mu.Lock()
	g.pending = true
	g.lastErr = err.Error()
	g.mu.Unlock()
	g.metrics.GaugePendingSync.Set(1)
}

func (g *Gateway) storedPending(ctx context.Context) bool {
	v, err := g.store.Setting(ctx, storage.SettingPending)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		g.log.Error("reading pending flag", "error", err)
	}
	return v == "1"
}

// setStoredPending outlives ctx cancellation so an aborted request still leaves the flag.
func (g *Gateway) setStoredPending(ctx context.Context, pending bool) {
	v := "0"
	if pending {
		v = "1"
	}
	if err := g.store.SetSetting(context.WithoutCancel(ctx), storage.SettingPending, v); err != nil {
		g.log.Error("writing pending flag", "pending", pending, "error", err)
	}
}

// currentBinID returns the configured bin ID, else the one remembered in the store, else "".
func (g *Gateway) currentBinID(ctx context.Context) (string, error) {
	g.mu.Lock()
	id := g.binID
	g.mu.Unlock()
	if id != "" {
		return id, nil
	}
	id, err := g.store.Setting(ctx, storage.SettingBinID)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading bin id: %w", err)
	}
	g.mu.Lock()
	g.binID = id
	g.mu.Unlock()
	return id, nil
}

func (g *Gateway) rememberBinID(ctx context.Context, id string) {
	g.mu.Lock()
	g.binID = id
	g.mu.Unlock()
	if err := g.store.SetSetting(ctx, storage.SettingBinID, id); err != nil {
		g.log.Error("saving bin id", "bin_id", id, "error", err)
	}
	g.log.Info("created remote bin", "bin_id", id)
}

// record writes the sync log and metrics for one exchange. Failures to log are not fatal.
func (g *Gateway) record(ctx context.Context, direction string, n int, took time.Duration, err error) {
	entry := storage.NewSyncLog(direction, n, took, err)
	g.metrics.CounterSync.WithLabelValues(direction, entry.Status).Inc()
	g.metrics.HistSyncDuration.WithLabelValues(direction).Observe(took.Seconds())
	if err := g.store.InsertSyncLog(ctx, entry); err != nil {
		g.log.Error("writing sync log", "error", err)
	}
}

func (g *Gateway) setLoaded(s Source) {
	g.mu.Lock()
	g.loadedFrom = s
	g.mu.Unlock()
}

// Status reports the current sync state. Online is false while changes are pending or the
// remote could not be read; it is always true when no remote is configured.
func (g *Gateway) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := Status{
		RemoteEnabled: g.remote.Enabled(),
		BinID:         g.binID,
		Pending:       g.pending,
		Online:        !g.remote.Enabled() || !(g.pending || g.unreachable),
		LastError:     g.lastErr,
		LoadedFrom:    g.loadedFrom,
	}
	if !g.lastSync.IsZero() {
		t := g.lastSync
		s.LastSyncAt = &t
	}
	return s
}

// SyncLogs returns recent remote exchanges, newest first.
func (g *Gateway) SyncLogs(ctx context.Context, limit int) ([]storage.SyncLog, error) {
	return g.store.QuerySyncLogs(ctx, limit)
}

// Stats describes the local store.
func (g *Gateway) Stats(ctx context.Context) (*storage.Stats, error) {
	return g.store.GetStats(ctx)
}
