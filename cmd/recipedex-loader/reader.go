package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/parquet-go/parquet-go"
	"go.uber.org/zap"
)

const readBatch = 1000

// recipeRow is one Parquet row. id and title are required columns.
type recipeRow struct {
	ID     string `parquet:"id"`
	Title  string `parquet:"title"`
	Type   string `parquet:"type,optional"`
	Region string `parquet:"region,optional"`
}

// rowPos locates a row for resume: the file index and the row offset inside it.
type rowPos struct {
	fileIndex int
	rowOffset int
}

// readCallback receives each row with its position. Returning false stops the read.
type readCallback func(row *recipeRow, pos rowPos) bool

// parquetReader streams recipe rows from the *.parquet files of a directory,
// in file name order.
type parquetReader struct {
	files  []string
	logger *zap.Logger
}

func newParquetReader(dataDir string, logger *zap.Logger) (*parquetReader, error) {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.parquet"))
	if err != nil {
		return nil, fmt.Errorf("glob parquet files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no parquet files found in %s", dataDir)
	}
	sort.Strings(files)
	logger.Info("Found parquet files", zap.Int("count", len(files)), zap.String("dir", dataDir))
	return &parquetReader{files: files, logger: logger}, nil
}

// Read streams rows starting at from. maxRows=0 means no limit.
func (r *parquetReader) Read(ctx context.Context, from rowPos, maxRows int, cb readCallback) error {
	remaining := maxRows
	for fi := from.fileIndex; fi < len(r.files); fi++ {
		skip := 0
		if fi == from.fileIndex {
			skip = from.rowOffset
		}

		n, stopped, err := r.readFile(ctx, fi, skip, remaining, cb)
		if err != nil {
			return fmt.Errorf("read %s: %w", filepath.Base(r.files[fi]), err)
		}
		if stopped {
			return nil
		}
		if maxRows > 0 {
			remaining -= n
			if remaining <= 0 {
				return nil
			}
		}
	}
	return nil
}

func (r *parquetReader) readFile(
	ctx context.Context, fileIndex, skip, maxRows int, cb readCallback,
) (read int, stopped bool, err error) {
	h, err := openParquet(r.files[fileIndex])
	if err != nil {
		return 0, false, err
	}
	defer h.Close()

	if err := checkColumns(h.pf.Schema()); err != nil {
		return 0, false, err
	}

	reader := parquet.NewGenericReader[recipeRow](h.pf)
	defer func() { _ = reader.Close() }()

	if skip > 0 {
		if int64(skip) >= reader.NumRows() {
			return 0, false, nil
		}
		if err := reader.SeekToRow(int64(skip)); err != nil {
			return 0, false, fmt.Errorf("seek to row %d: %w", skip, err)
		}
	}

	buf := make([]recipeRow, readBatch)
	offset := skip
	for {
		if err := ctx.Err(); err != nil {
			return read, true, nil
		}

		n, readErr := reader.Read(buf)
		for i := range n {
			if !cb(&buf[i], rowPos{fileIndex: fileIndex, rowOffset: offset}) {
				return read, true, nil
			}
			offset++
			read++
			if maxRows > 0 && read >= maxRows {
				return read, false, nil
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return read, false, nil
			}
			return read, false, fmt.Errorf("read rows: %w", readErr)
		}
	}
}

func checkColumns(schema *parquet.Schema) error {
	for _, col := range []string{"id", "title"} {
		if _, ok := schema.Lookup(col); !ok {
			return fmt.Errorf("%s column not found in parquet schema", col)
		}
	}
	return nil
}

// parquetHandle wraps parquet.File and the underlying os.File for cleanup.
type parquetHandle struct {
	pf   *parquet.File
	file *os.File
}

func (h *parquetHandle) Close() {
	_ = h.file.Close()
}

func openParquet(path string) (*parquetHandle, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	return &parquetHandle{pf: pf, file: f}, nil
}
