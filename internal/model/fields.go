package model

// ParsedPhone is a phone number split into a dial-code country and the
// remaining subscriber digits.
type ParsedPhone struct {
	Country string `json:"country"`
	Number  string `json:"number"`
}

// ParsedCompany is a company string split into its base name and legal suffix.
type ParsedCompany struct {
	Name  string `json:"name"`
	Legal string `json:"legal"`
}

// Derived column names appended by the parsers.
const (
	ColumnCountry = "Country"
	ColumnNumber  = "Number"
	ColumnName    = "Name"
	ColumnLegal   = "Legal"
)
