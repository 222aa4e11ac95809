package scorer

import (
	"github.com/sells-group/coltype/internal/model"
	"github.com/sells-group/coltype/internal/resource"
	"github.com/sells-group/coltype/internal/table"
)

// Classifier applies the scorers and the decision policy against one
// resource set. It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	res *resource.Set
	th  Thresholds
}

// New creates a Classifier. A nil resource set behaves as an empty one.
func New(res *resource.Set, th Thresholds) *Classifier {
	if res == nil {
		res = resource.Empty()
	}
	return &Classifier{res: res, th: th}
}

// Resources returns the resource set the classifier scores against.
func (c *Classifier) Resources() *resource.Set { return c.res }

// Scores computes all four type scores for one column.
func (c *Classifier) Scores(values []string) model.ColumnScores {
	return model.ColumnScores{
		Phone:   ScorePhoneRange(values, c.th.PhoneMinDigits, c.th.PhoneMaxDigits),
		Date:    ScoreDate(values),
		Country: ScoreCountry(values, c.res),
		Company: ScoreCompany(values, c.res),
	}
}

// Classify assigns a single label to a column of values.
func (c *Classifier) Classify(values []string) model.Decision {
	scores := c.Scores(values)
	return model.Decision{Label: c.Decide(scores), Scores: scores}
}

// Decide applies the policy to precomputed scores. Strong phone, date, or
// country evidence wins outright in that order; otherwise the highest score
// wins, with ties going to the label listed first in model.Labels. A winning
// score below MinScore yields Other.
func (c *Classifier) Decide(s model.ColumnScores) model.Label {
	switch {
	case s.Phone >= c.th.PhoneOverride:
		return model.LabelPhoneNumber
	case s.Date >= c.th.DateOverride:
		return model.LabelDate
	case s.Country >= c.th.CountryOverride:
		return model.LabelCountry
	}

	best := model.Labels[0]
	for _, l := range model.Labels[1:] {
		if s.Get(l) > s.Get(best) {
			best = l
		}
	}
	if s.Get(best) < c.th.MinScore {
		return model.LabelOther
	}
	return best
}

// Candidates scores every column of t as PhoneNumber and as CompanyName, in
// column order, phone first.
func (c *Classifier) Candidates(t *table.Table) []model.Candidate {
	out := make([]model.Candidate, 0, 2*t.NumColumns())
	for _, col := range t.Columns() {
		out = append(out,
			model.Candidate{
				Column: col.Name,
				Label:  model.LabelPhoneNumber,
				Score:  ScorePhoneRange(col.Values, c.th.PhoneMinDigits, c.th.PhoneMaxDigits),
			},
			model.Candidate{
				Column: col.Name,
				Label:  model.LabelCompanyName,
				Score:  ScoreCompany(col.Values, c.res),
			},
		)
	}
	return out
}

// SelectBest picks the single highest-scoring parseable candidate in t. Ties
// go to the earliest column, and to PhoneNumber within a column. A table with
// no columns yields a zero-score candidate.
func (c *Classifier) SelectBest(t *table.Table) model.Candidate {
	return Best(c.Candidates(t))
}

// Best returns the first candidate holding the maximum score.
func Best(cands []model.Candidate) model.Candidate {
	var best model.Candidate
	for i, cand := range cands {
		if i == 0 || cand.Score > best.Score {
			best = cand
		}
	}
	return best
}
