package model

// Preferences is the per-user subject document: an ordered list of
// unique lowercase subject names and a subject-to-color map. Colors
// are unique across subjects. Stored as a single document per user,
// not as relational rows.
type Preferences struct {
	Subjects []string          `json:"subjects"`
	Colors   map[string]string `json:"colors"`
}

// StudyRecord is one accumulated ledger row: hours studied for a
// subject on a calendar date. Writes for the same (date, subject) key
// add up.
type StudyRecord struct {
	Date    string  `json:"date"`
	Subject string  `json:"subject"`
	Hours   float64 `json:"hours"`
}
