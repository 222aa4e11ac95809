package fields

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/coltype/internal/model"
	"github.com/sells-group/coltype/internal/resource"
	"github.com/sells-group/coltype/internal/table"
)

// Parser applies the phone and company parsers to whole columns.
type Parser struct {
	res   *resource.Set
	codes DialCodes
}

// NewParser creates a Parser. Nil arguments fall back to an empty resource
// set and the default dial-code table.
func NewParser(res *resource.Set, codes DialCodes) *Parser {
	if res == nil {
		res = resource.Empty()
	}
	if len(codes) == 0 {
		codes = DefaultDialCodes()
	}
	return &Parser{res: res, codes: codes}
}

// Phone parses one phone value.
func (p *Parser) Phone(raw string) model.ParsedPhone {
	return ParsePhoneNumber(raw, p.codes)
}

// Company parses one company value.
func (p *Parser) Company(raw string) model.ParsedCompany {
	return ParseCompanyName(raw, p.res)
}

// Augment parses the candidate column of t and returns a new table with two
// derived columns appended: Country and Number for phones, Name and Legal for
// companies. When the candidate is not parseable t is returned as is and the
// bool result is false.
func (p *Parser) Augment(t *table.Table, cand model.Candidate) (*table.Table, bool, error) {
	if !cand.Parseable() {
		return t, false, nil
	}

	values, ok := t.Values(cand.Column)
	if !ok {
		return nil, false, eris.Errorf("fields: column %q not found", cand.Column)
	}

	first := make([]string, len(values))
	second := make([]string, len(values))
	var names [2]string

	switch cand.Label {
	case model.LabelPhoneNumber:
		names = [2]string{model.ColumnCountry, model.ColumnNumber}
		for i, v := range values {
			ph := p.Phone(v)
			first[i], second[i] = ph.Country, ph.Number
		}
	case model.LabelCompanyName:
		names = [2]string{model.ColumnName, model.ColumnLegal}
		for i, v := range values {
			co := p.Company(v)
			first[i], second[i] = co.Name, co.Legal
		}
	}

	out, err := t.WithColumns(
		table.Column{Name: names[0], Values: first},
		table.Column{Name: names[1], Values: second},
	)
	if err != nil {
		return nil, false, eris.Wrap(err, "fields: append parsed columns")
	}
	return out, true, nil
}
