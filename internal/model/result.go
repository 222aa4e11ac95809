package model

// ListFilesResult is returned by the list_files tool.
type ListFilesResult struct {
	Files []string `json:"files" yaml:"files"`
}

// ListToolsResult is returned by the list_tools tool.
type ListToolsResult struct {
	Tools []string `json:"tools" yaml:"tools"`
}

// PredictionResult is returned by the column_prediction tool.
type PredictionResult struct {
	File   string       `json:"file" yaml:"file"`
	Column string       `json:"column" yaml:"column"`
	Label  Label        `json:"label" yaml:"label"`
	Scores ColumnScores `json:"scores" yaml:"scores"`
}

// ParseResult is returned by the parse_file tool.
type ParseResult struct {
	Input  string  `json:"input" yaml:"input"`
	Output string  `json:"output" yaml:"output"`
	Column string  `json:"column" yaml:"column"`
	Type   Label   `json:"type" yaml:"type"`
	Score  float64 `json:"score" yaml:"score"`
	Parsed bool    `json:"parsed" yaml:"parsed"`
	Rows   int     `json:"rows" yaml:"rows"`
	Log    string  `json:"log" yaml:"log"`
}

// ColumnProfile is the classification of one column inside a ProfileResult.
type ColumnProfile struct {
	Column string       `json:"column" yaml:"column"`
	Label  Label        `json:"label" yaml:"label"`
	Scores ColumnScores `json:"scores" yaml:"scores"`
}

// ProfileResult is returned by the profile_file tool.
type ProfileResult struct {
	File    string          `json:"file" yaml:"file"`
	Rows    int             `json:"rows" yaml:"rows"`
	Columns []ColumnProfile `json:"columns" yaml:"columns"`
	Best    Candidate       `json:"best" yaml:"best"`
}
