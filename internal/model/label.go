// Package model defines the shared types passed between the classifier,
// the field parsers, the tool surface, and the invocation store.
package model

// Label is the semantic type assigned to a column.
type Label string

const (
	LabelPhoneNumber Label = "PhoneNumber"
	LabelDate        Label = "Date"
	LabelCountry     Label = "Country"
	LabelCompanyName Label = "CompanyName"
	LabelOther       Label = "Other"
)

// Labels lists the scored labels in tie-break order. Other is never scored.
var Labels = []Label{LabelPhoneNumber, LabelDate, LabelCountry, LabelCompanyName}

// Valid reports whether l is one of the known labels.
func (l Label) Valid() bool {
	switch l {
	case LabelPhoneNumber, LabelDate, LabelCountry, LabelCompanyName, LabelOther:
		return true
	}
	return false
}

func (l Label) String() string { return string(l) }

// ColumnScores holds one score per scored label, each in [0, 1].
type ColumnScores struct {
	Phone   float64 `json:"phone" yaml:"phone"`
	Date    float64 `json:"date" yaml:"date"`
	Country float64 `json:"country" yaml:"country"`
	Company float64 `json:"company" yaml:"company"`
}

// Get returns the score for label, or 0 for Other and unknown labels.
func (s ColumnScores) Get(label Label) float64 {
	switch label {
	case LabelPhoneNumber:
		return s.Phone
	case LabelDate:
		return s.Date
	case LabelCountry:
		return s.Country
	case LabelCompanyName:
		return s.Company
	}
	return 0
}

// Decision is the outcome of classifying a single column.
type Decision struct {
	Label  Label        `json:"label" yaml:"label"`
	Scores ColumnScores `json:"scores" yaml:"scores"`
}

// Candidate is a (column, type, score) tuple considered by the best-column
// selector. Only PhoneNumber and CompanyName candidates are produced.
type Candidate struct {
	Column string  `json:"column" yaml:"column"`
	Label  Label   `json:"type" yaml:"type"`
	Score  float64 `json:"score" yaml:"score"`
}

// Parseable reports whether the candidate should drive field parsing.
func (c Candidate) Parseable() bool {
	return c.Score > 0 && (c.Label == LabelPhoneNumber || c.Label == LabelCompanyName)
}
