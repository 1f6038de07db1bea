package interfaces

import "totvs_automation/domain/entities"

// RecordStore persists extracted records to one file format
type RecordStore interface {
	// Extension is the file suffix this store writes, dot included
	Extension() string

	// WriteRecords writes records to path; WriteCreate truncates and writes a header
	WriteRecords(path string, records []entities.Record, mode entities.WriteMode) error

	// ReadRecords loads every record stored at path
	ReadRecords(path string) ([]entities.Record, error)
}

// RunJournal keeps the summary of the most recent run
type RunJournal interface {
	SaveRun(summary entities.RunSummary) error
	LastRun() (*entities.RunSummary, error)
}
