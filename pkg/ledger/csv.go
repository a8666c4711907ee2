package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/intakesync/intakesync/pkg/constants"
	pkgerrors "github.com/intakesync/intakesync/pkg/errors"
)

// fileData is the in-memory model of one category file.
type fileData struct {
	header  []string
	rows    []*Record
	skipped int // malformed lines dropped during the read
}

// readFile loads a category file. A missing file yields empty data and
// no error. Rows are normalized to the header width; lines the CSV
// parser rejects are counted and skipped.
func readFile(path string) (*fileData, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &fileData{}, nil
		}
		return nil, pkgerrors.WrapIO("open", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	data := &fileData{}
	for {
		cells, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				data.skipped++
				continue
			}
			return nil, pkgerrors.WrapIO("read", path, err)
		}
		if data.header == nil {
			data.header = cells
			continue
		}
		data.rows = append(data.rows, fromRow(data.header, cells))
	}
	return data, nil
}

// writeFile replaces the file with the given header and rows. Rewrites
// are whole-file and in place, matching the append-only files' size.
func writeFile(path string, header []string, rows []*Record) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return pkgerrors.WrapIO("write", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return pkgerrors.WrapIO("write", path, err)
	}
	for _, rec := range rows {
		if err := w.Write(rec.row(header)); err != nil {
			f.Close()
			return pkgerrors.WrapIO("write", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return pkgerrors.WrapIO("write", path, err)
	}
	if err := f.Close(); err != nil {
		return pkgerrors.WrapIO("write", path, err)
	}
	return nil
}

// appendRow appends a single row conforming to header. When fresh is
// true the file is created (or truncated) and the header is written
// before the row.
func appendRow(path string, header []string, rec *Record, fresh bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_APPEND
	if fresh {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, constants.FilePermissions)
	if err != nil {
		return pkgerrors.WrapIO("append", path, err)
	}

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(header); err != nil {
			f.Close()
			return pkgerrors.WrapIO("append", path, err)
		}
	}
	if err := w.Write(rec.row(header)); err != nil {
		f.Close()
		return pkgerrors.WrapIO("append", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return pkgerrors.WrapIO("append", path, err)
	}
	if err := f.Close(); err != nil {
		return pkgerrors.WrapIO("append", path, err)
	}
	return nil
}

// ensureDir creates the directory holding category files.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return fmt.Errorf("creating ledger directory: %w", err)
	}
	return nil
}
