package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Cursor is the persisted load position.
type Cursor struct {
	FileIndex      int       `json:"file_index"`
	RowOffset      int       `json:"row_offset"`
	TotalProcessed int       `json:"total_processed"`
	TotalFailed    int       `json:"total_failed"`
	Done           bool      `json:"done"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// cursorTracker persists the cursor as JSON next to the data, every saveEvery rows.
// Workers finish batches out of order, so a resume may repeat a few batches;
// recipe upserts are idempotent.
type cursorTracker struct {
	mu        sync.Mutex
	cursor    Cursor
	path      string
	saveEvery int
	sinceSave int
	dirty     bool
	logger    *zap.Logger
}

func newCursorTracker(dataDir string, saveEvery int, logger *zap.Logger) (*cursorTracker, error) {
	if saveEvery <= 0 {
		saveEvery = 1
	}
	ct := &cursorTracker{
		path:      filepath.Join(filepath.Clean(dataDir), "cursor.json"),
		saveEvery: saveEvery,
		logger:    logger,
	}

	data, err := os.ReadFile(ct.path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &ct.cursor); err != nil {
			return nil, fmt.Errorf("parse cursor %s: %w", ct.path, err)
		}
		logger.Info("Resuming from cursor",
			zap.Int("file_index", ct.cursor.FileIndex),
			zap.Int("row_offset", ct.cursor.RowOffset),
			zap.Int("processed", ct.cursor.TotalProcessed),
			zap.Bool("done", ct.cursor.Done),
		)
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("read cursor %s: %w", ct.path, err)
	}

	return ct, nil
}

// Get returns a copy of the current cursor.
func (ct *cursorTracker) Get() Cursor {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	return ct.cursor
}

// Advance moves the cursor past a finished batch.
func (ct *cursorTracker) Advance(next rowPos, processed, failed int) {
	ct.mu.Lock()
	if next.fileIndex > ct.cursor.FileIndex ||
		(next.fileIndex == ct.cursor.FileIndex && next.rowOffset > ct.cursor.RowOffset) {
		ct.cursor.FileIndex = next.fileIndex
		ct.cursor.RowOffset = next.rowOffset
	}
	ct.cursor.TotalProcessed += processed
	ct.cursor.TotalFailed += failed
	ct.cursor.UpdatedAt = time.Now()
	ct.dirty = true
	ct.sinceSave += processed + failed
	shouldSave := ct.sinceSave >= ct.saveEvery
	if shouldSave {
		ct.sinceSave = 0
	}
	ct.mu.Unlock()

	if shouldSave {
		ct.forceSave()
	}
}

// Done marks the load complete and saves.
func (ct *cursorTracker) Done() {
	ct.mu.Lock()
	ct.cursor.Done = true
	ct.cursor.UpdatedAt = time.Now()
	ct.dirty = true
	ct.mu.Unlock()
	ct.forceSave()
}

// Reset clears the cursor to start from scratch.
func (ct *cursorTracker) Reset() {
	ct.mu.Lock()
	ct.cursor = Cursor{}
	ct.sinceSave = 0
	ct.dirty = true
	ct.mu.Unlock()
	ct.forceSave()
}

// Flush saves pending progress.
func (ct *cursorTracker) Flush() { ct.forceSave() }

// forceSave writes the cursor through a temp file and rename.
func (ct *cursorTracker) forceSave() {
	ct.mu.Lock()
	if !ct.dirty {
		ct.mu.Unlock()
		return
	}
	data, err := json.MarshalIndent(ct.cursor, "", "  ")
	if err != nil {
		ct.mu.Unlock()
		ct.logger.Error("Cursor marshal failed", zap.Error(err))
		return
	}
	ct.dirty = false
	ct.mu.Unlock()

	tmp := ct.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		ct.logger.Error("Cursor write failed", zap.Error(err))
		ct.markDirty()
		return
	}
	if err := os.Rename(tmp, ct.path); err != nil {
		ct.logger.Error("Cursor rename failed", zap.Error(err))
		ct.markDirty()
	}
}

func (ct *cursorTracker) markDirty() {
	ct.mu.Lock()
	ct.dirty = true
	ct.mu.Unlock()
}
