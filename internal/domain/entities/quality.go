package entities

import "time"

// Quality flag names recorded during import.
const (
	// FlagMissingTurnOne marks a fact series that has values from turn 2
	// onward but none for turn 1. Whether this is a parser omission, a
	// zero-filtering rule in the exporter, or a genuine absence in the
	// source is unresolved; the gap is surfaced, never backfilled.
	FlagMissingTurnOne = "missing_turn_one"
	// FlagExtractionGap marks a record family that failed to extract from
	// an otherwise imported archive.
	FlagExtractionGap = "extraction_gap"
)

// QualityFlag is a data-quality signal attached to a match.
type QualityFlag struct {
	MatchID int64  `json:"match_id"`
	Flag    string `json:"flag"`
	Detail  string `json:"detail,omitempty"`
}

// ImportRun is the bookkeeping row for one batch import invocation.
type ImportRun struct {
	ID         string     `json:"id"` // uuid
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Scanned    int        `json:"scanned"`
	Imported   int        `json:"imported"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
}
