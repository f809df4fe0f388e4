package types

// ParsedRecord is one attendance line after parsing, before it has an identity.
type ParsedRecord struct {
	FirstName string
	LastName  string
	GradYear  uint16
	Badge     bool // true when the line came from a badge scanner
}

// Record is the persisted form of an attendance entry. The JSON field names
// match the export artifact format.
type Record struct {
	ID           string `json:"ID"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	GradYear     int64  `json:"grad_year"`
	Badge        bool   `json:"badge"`
	CreationDate string `json:"creation_date"` // day/month/year, no zero padding
}
