package storage

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"totvs_automation/domain/entities"
)

const (
	csvDelimiter = '|'
	utf8BOM      = "\ufeff"
)

// CSVStore writes pipe-delimited UTF-8 files with a BOM, the format the
// spreadsheet users of the export open directly
type CSVStore struct{}

func NewCSVStore() *CSVStore {
	return &CSVStore{}
}

func (s *CSVStore) Extension() string { return ".csv" }

// WriteRecords writes the BOM and header when the file is created or
// truncated, or when an append finds the file missing or empty
func (s *CSVStore) WriteRecords(path string, records []entities.Record, mode entities.WriteMode) error {
	flags := os.O_CREATE | os.O_WRONLY
	if mode == entities.WriteCreate {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	buf := bufio.NewWriter(f)
	w := csv.NewWriter(buf)
	w.Comma = csvDelimiter
	w.UseCRLF = true

	if info.Size() == 0 {
		if _, err := buf.WriteString(utf8BOM); err != nil {
			return err
		}
		if err := w.Write(entities.CSVHeader); err != nil {
			return err
		}
	}
	for _, r := range records {
		if err := w.Write(r.Row()); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	return f.Sync()
}

// ReadRecords reads a file written by WriteRecords; header rows are skipped
func (s *CSVStore) ReadRecords(path string) ([]entities.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte(utf8BOM))

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = csvDelimiter
	r.FieldsPerRecord = len(entities.CSVHeader)

	var out []entities.Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if isHeader(row) {
			continue
		}
		out = append(out, entities.Record{
			Code:           row[0],
			Name:           row[1],
			TaxRate:        row[2],
			HiddenFromMenu: entities.ParseHiddenFlag(row[3]),
		})
	}
	return out, nil
}

func isHeader(row []string) bool {
	for i, h := range entities.CSVHeader {
		if row[i] != h {
			return false
		}
	}
	return true
}
