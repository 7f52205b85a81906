package models

// SchemaVersion is stamped into every persisted record body so that future
// layout changes can be migrated.
const SchemaVersion = 1

// EmissionEntry is one logged commute converted to grams of CO2.
// Entries are immutable once appended; the position within the record is the
// insertion order and the only implicit index.
type EmissionEntry struct {
	ID     string `json:"id"`
	User   string `json:"user"`
	Amount int64  `json:"amount"`
	Date   string `json:"date"`
}

// EmissionRecord is the body of the "emissions" document: the append-only
// ledger of all logged emissions.
type EmissionRecord struct {
	Schema  int             `json:"schema"`
	Entries []EmissionEntry `json:"entries"`
}
