package main

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	recipedex "github.com/kailas-cloud/recipedex/pkg/sdk"
)

// upserter is the slice of the SDK the loader writes through.
type upserter interface {
	Upsert(ctx context.Context, r recipedex.Recipe) (bool, error)
}

// ingester fans rows out to a pool of upsert workers:
// reader -> chan batchItem -> N workers -> Upsert.
type ingester struct {
	recipes   upserter
	workers   int
	batchSize int
	metrics   *loaderMetrics
	cursor    *cursorTracker
	logger    *zap.Logger
}

type batchItem struct {
	rows []recipeRow
	next rowPos // position right after the last row of the batch
}

type ingestResult struct {
	Created  int64
	Updated  int64
	Failed   int64
	Duration time.Duration
}

// Processed returns the number of rows written.
func (r ingestResult) Processed() int64 { return r.Created + r.Updated }

type counters struct {
	created, updated, failed atomic.Int64
}

// Run loads rows from the cursor position until the reader is exhausted,
// maxRows is reached or ctx is done.
func (ing *ingester) Run(ctx context.Context, reader *parquetReader, maxRows int) (ingestResult, error) {
	cur := ing.cursor.Get()
	batches := make(chan batchItem, ing.workers*2)

	var (
		wg    sync.WaitGroup
		total counters
	)
	start := time.Now()

	for i := range ing.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range batches {
				ing.processBatch(ctx, i, batch, &total)
			}
		}()
	}

	readErr := ing.produce(ctx, reader, rowPos{fileIndex: cur.FileIndex, rowOffset: cur.RowOffset}, maxRows, batches)
	close(batches)
	wg.Wait()
	ing.cursor.Flush()

	return ingestResult{
		Created:  total.created.Load(),
		Updated:  total.updated.Load(),
		Failed:   total.failed.Load(),
		Duration: time.Since(start),
	}, readErr
}

func (ing *ingester) produce(
	ctx context.Context, reader *parquetReader, from rowPos, maxRows int, out chan<- batchItem,
) error {
	batch := make([]recipeRow, 0, ing.batchSize)

	send := func(next rowPos) bool {
		select {
		case out <- batchItem{rows: batch, next: next}:
			batch = make([]recipeRow, 0, ing.batchSize)
			return true
		case <-ctx.Done():
			return false
		}
	}

	var last rowPos
	err := reader.Read(ctx, from, maxRows, func(row *recipeRow, pos rowPos) bool {
		batch = append(batch, *row)
		last = rowPos{fileIndex: pos.fileIndex, rowOffset: pos.rowOffset + 1}
		if len(batch) >= ing.batchSize {
			return send(last)
		}
		return true
	})

	if len(batch) > 0 && ctx.Err() == nil {
		send(last)
	}
	return err
}

func (ing *ingester) processBatch(ctx context.Context, worker int, batch batchItem, total *counters) {
	start := time.Now()
	var created, updated, failed int

	for i := range batch.rows {
		row := &batch.rows[i]
		isNew, err := ing.recipes.Upsert(ctx, recipedex.Recipe{
			ID:     row.ID,
			Title:  row.Title,
			Type:   row.Type,
			Region: row.Region,
		})
		if err != nil {
			failed++
			reason := "upsert_error"
			if errors.Is(err, recipedex.ErrInvalidRecipe) {
				reason = "invalid"
			}
			ing.metrics.rowsFailed.WithLabelValues(reason).Inc()
			if failed == 1 {
				ing.logger.Warn("Row failed",
					zap.Int("worker", worker),
					zap.String("id", row.ID),
					zap.String("reason", reason),
					zap.Error(err),
				)
			}
			continue
		}
		if isNew {
			created++
		} else {
			updated++
		}
	}

	ing.metrics.batchDuration.Observe(time.Since(start).Seconds())
	ing.metrics.batchesTotal.Inc()
	ing.metrics.rowsProcessed.WithLabelValues("created").Add(float64(created))
	ing.metrics.rowsProcessed.WithLabelValues("updated").Add(float64(updated))

	total.created.Add(int64(created))
	total.updated.Add(int64(updated))
	total.failed.Add(int64(failed))

	ing.cursor.Advance(batch.next, created+updated, failed)
	c := ing.cursor.Get()
	ing.metrics.cursorPosition.Set(float64(c.TotalProcessed + c.TotalFailed))
}
