package domain

import "time"

// RawRecord is one CSV row on its way from the loader to the store.
type RawRecord struct {
	ID       string            `json:"id"`
	Source   string            `json:"source"`
	Line     int               `json:"line"`
	Columns  map[string]string `json:"columns"`
	LoadedAt time.Time         `json:"loaded_at"`
}

// RecordSource names the tabular source a raw record came from.
type RecordSource string

const (
	SourceListing RecordSource = "lagou"
	SourcePosting RecordSource = "job"
)
