package entities

// By is a lookup strategy for finding an element
type By string

const (
	ByID    By = "id"
	ByName  By = "name"
	ByCSS   By = "css"
	ByXPath By = "xpath"
	ByTag   By = "tag"
	ByClass By = "class"
)

// Locator is a lookup strategy plus one or more selector candidates
type Locator struct {
	By         By       `json:"by"`
	Value      string   `json:"value"`
	Candidates []string `json:"candidates,omitempty"`
}

// Selectors returns every candidate, primary value first
func (l Locator) Selectors() []string {
	out := make([]string, 0, len(l.Candidates)+1)
	if l.Value != "" {
		out = append(out, l.Value)
	}
	for _, c := range l.Candidates {
		if c != "" && c != l.Value {
			out = append(out, c)
		}
	}
	return out
}

// IsZero reports whether the locator has nothing to look up
func (l Locator) IsZero() bool {
	return len(l.Selectors()) == 0
}
