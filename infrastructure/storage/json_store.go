package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"totvs_automation/domain/entities"
)

type jsonRecord struct {
	Code       string `json:"codigo"`
	Name       string `json:"nome"`
	TaxRate    string `json:"aliquota"`
	HiddenFlag string `json:"nao_exibir_no_cardapio"`
}

// JSONStore writes the export as one indented JSON array
type JSONStore struct{}

func NewJSONStore() *JSONStore {
	return &JSONStore{}
}

func (s *JSONStore) Extension() string { return ".json" }

// WriteRecords rewrites the whole array; WriteAppend keeps the records already in path
func (s *JSONStore) WriteRecords(path string, records []entities.Record, mode entities.WriteMode) error {
	all := records
	if mode == entities.WriteAppend {
		previous, err := s.ReadRecords(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		all = append(previous, records...)
	}

	out := make([]jsonRecord, 0, len(all))
	for _, r := range all {
		out = append(out, jsonRecord{Code: r.Code, Name: r.Name, TaxRate: r.TaxRate, HiddenFlag: r.HiddenFlag()})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func (s *JSONStore) ReadRecords(path string) ([]entities.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var in []jsonRecord
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	out := make([]entities.Record, 0, len(in))
	for _, r := range in {
		out = append(out, entities.Record{
			Code:           r.Code,
			Name:           r.Name,
			TaxRate:        r.TaxRate,
			HiddenFromMenu: entities.ParseHiddenFlag(r.HiddenFlag),
		})
	}
	return out, nil
}
