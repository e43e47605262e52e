package domain

// Intent is a labeled dataset entry: a tag, example sentences, canned responses.
type Intent struct {
	Tag       string   `json:"tag"`
	Patterns  []string `json:"patterns"`
	Responses []string `json:"responses"`
}

// Dataset is one ordered dataset source.
type Dataset struct {
	Source  string
	Intents []Intent
}

// Prediction is the decoded classifier output for a single sentence.
type Prediction struct {
	Tag        string
	Responses  []string
	Confidence float64
}
