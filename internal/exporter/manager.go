// Package exporter runs export jobs that copy a user's times to object storage.
package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"track-times/internal/domain"
	"track-times/internal/service"
	"track-times/internal/storage"
)

var errNotStarted = errors.New("export manager not started")

// Manager coordinates export jobs, their concurrency and upload lifecycle.
type Manager interface {
	Start(ctx context.Context) error
	Shutdown()
	Enqueue(ctx context.Context, exportID int64) error
	Resume(ctx context.Context) error
	Cancel(ctx context.Context, exportID int64) error
}

type Config struct {
	MaxConcurrent int
	KeyPrefix     string
	UploadOptions storage.UploadOptions
	Logger        *logrus.Logger
}

type manager struct {
	cfg     Config
	exports service.ExportService
	storage storage.Service

	sem    chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	active map[int64]*jobHandle
}

type jobHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func NewManager(cfg Config, exports service.ExportService, store storage.Service) Manager {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 2
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.UploadOptions.ContentType == "" {
		cfg.UploadOptions.ContentType = "application/json"
	}
	return &manager{
		cfg:     cfg,
		exports: exports,
		storage: store,
		sem:     make(chan struct{}, cfg.MaxConcurrent),
		active:  make(map[int64]*jobHandle),
	}
}

func (m *manager) Start(ctx context.Context) error {
	if m.storage == nil {
		return errors.New("export manager requires object storage")
	}
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.cfg.Logger.Infof("export manager started, bucket: %s, workers: %d", m.cfg.UploadOptions.Bucket, m.cfg.MaxConcurrent)
	return nil
}

func (m *manager) Shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	m.cfg.Logger.Info("export manager stopped")
}

func (m *manager) Enqueue(ctx context.Context, exportID int64) error {
	if m.ctx == nil {
		return errNotStarted
	}
	export, err := m.exports.GetExport(ctx, exportID)
	if err != nil {
		return err
	}
	m.spawn(*export)
	return nil
}

// Resume re-queues jobs left pending or running by a previous process.
func (m *manager) Resume(ctx context.Context) error {
	if m.ctx == nil {
		return errNotStarted
	}
	exports, err := m.exports.ListByStatuses(ctx,
		domain.ExportStatusPending,
		domain.ExportStatusRunning,
	)
	if err != nil {
		return err
	}

	for i := range exports {
		m.spawn(exports[i])
	}
	if len(exports) > 0 {
		m.cfg.Logger.Infof("resumed %d export(s)", len(exports))
	}
	return nil
}

func (m *manager) spawn(export domain.Export) {
	if export.Status == domain.ExportStatusCompleted || export.Status == domain.ExportStatusFailed {
		m.cfg.Logger.WithField("export_id", export.ID).Debugf("export already %s, skipping", export.Status)
		return
	}

	jobCtx, cancel := context.WithCancel(m.ctx)
	handle := &jobHandle{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	if !m.register(export.ID, handle) {
		cancel()
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer func() {
			cancel()
			m.unregister(export.ID)
			close(handle.done)
		}()
		select {
		case <-m.ctx.Done():
			return
		case <-jobCtx.Done():
			if m.ctx.Err() == nil {
				m.failExport(jobCtx, export.ID, errors.New("export cancelled"))
			}
			return
		case m.sem <- struct{}{}:
			defer func() { <-m.sem }()
			m.handleExport(jobCtx, &export)
		}
	}()
}

// register reports false when the job is already queued or running.
func (m *manager) register(id int64, handle *jobHandle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.active[id]; exists {
		return false
	}
	m.active[id] = handle
	return true
}

func (m *manager) unregister(id int64) {
	m.mu.Lock()
	delete(m.active, id)
	m.mu.Unlock()
}

func (m *manager) handle(id int64) (*jobHandle, bool) {
	m.mu.Lock()
	handle, ok := m.active[id]
	m.mu.Unlock()
	return handle, ok
}

// Cancel stops a queued or running job and waits for it to exit. Unknown ids are a no-op.
func (m *manager) Cancel(ctx context.Context, exportID int64) error {
	handle, ok := m.handle(exportID)
	if !ok {
		return nil
	}

	handle.cancel()

	select {
	case <-handle.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *manager) handleExport(ctx context.Context, export *domain.Export) {
	logger := m.cfg.Logger.WithField("export_id", export.ID)

	if err := m.exports.UpdateStatus(ctx, export.ID, domain.ExportStatusRunning, nil); err != nil {
		m.abort(ctx, export.ID, fmt.Errorf("mark running: %w", err))
		return
	}
	export.Status = domain.ExportStatusRunning

	doc, err := m.exports.BuildDocument(ctx, export)
	if err != nil {
		m.abort(ctx, export.ID, fmt.Errorf("build document: %w", err))
		return
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		m.abort(ctx, export.ID, fmt.Errorf("encode document: %w", err))
		return
	}

	key := ObjectKey(m.cfg.KeyPrefix, doc.UserID, export.ID)
	opts := m.cfg.UploadOptions
	opts.ProgressCallback = newUploadProgressLogger(logger)

	logger.Infof("upload started: %d record(s), %s", len(doc.Times), formatBytes(int64(len(payload))))

	location, err := m.storage.PutObject(ctx, key, bytes.NewReader(payload), int64(len(payload)), opts)
	if err != nil {
		m.abort(ctx, export.ID, fmt.Errorf("upload: %w", err))
		return
	}

	if err := m.exports.MarkCompleted(ctx, export.ID, location, len(doc.Times)); err != nil {
		logger.Errorf("mark completed: %v", err)
		return
	}
	export.Status = domain.ExportStatusCompleted

	logger.Infof("export completed and uploaded to %s", location)
}

// abort leaves the job running on shutdown so Resume picks it up again.
func (m *manager) abort(ctx context.Context, exportID int64, cause error) {
	if ctx.Err() != nil {
		if m.ctx.Err() != nil {
			m.cfg.Logger.WithField("export_id", exportID).Info("export interrupted by shutdown")
			return
		}
		cause = errors.New("export cancelled")
	}
	m.failExport(ctx, exportID, cause)
}

func (m *manager) failExport(ctx context.Context, exportID int64, failErr error) {
	msg := failErr.Error()
	if err := m.exports.UpdateStatus(context.WithoutCancel(ctx), exportID, domain.ExportStatusFailed, &msg); err != nil {
		m.cfg.Logger.WithField("export_id", exportID).Errorf("persist failure status: %v", err)
	}
	m.cfg.Logger.WithField("export_id", exportID).Error(msg)
}

// UserPrefix is the key prefix under which all of a user's exports live.
func UserPrefix(keyPrefix, userID string) string {
	prefix := strings.Trim(keyPrefix, "/")
	if prefix == "" {
		return userID + "/"
	}
	return prefix + "/" + userID + "/"
}

func ObjectKey(keyPrefix, userID string, exportID int64) string {
	return fmt.Sprintf("%sexport-%d.json", UserPrefix(keyPrefix, userID), exportID)
}

func newUploadProgressLogger(logger *logrus.Entry) func(done, total int64) {
	var lastLog time.Time
	return func(done, total int64) {
		now := time.Now()
		if now.Sub(lastLog) < 500*time.Millisecond && done != total {
			return
		}
		lastLog = now
		if total <= 0 {
			logger.Infof("upload progress: %s uploaded", formatBytes(done))
			return
		}
		percent := float64(done) / float64(total) * 100
		logger.Infof("upload progress: %.1f%% (%s/%s)", percent, formatBytes(done), formatBytes(total))
	}
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%dB", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB",
		float64(b)/float64(div),
		"KMGTPE"[exp],
	)
}

var _ Manager = (*manager)(nil)
