package sparql

// Term is one bound value in a result row.
type Term struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

// Binding maps a projected variable name to its value in one row.
// Unbound variables are absent.
type Binding map[string]Term

// Value returns the lexical value of name, or a ParseError when the row
// does not bind it.
func (b Binding) Value(name string) (string, error) {
	t, ok := b[name]
	if !ok {
		return "", &ParseError{Field: name, Reason: "variable not bound in result row"}
	}
	return t.Value, nil
}

type Head struct {
	Vars []string `json:"vars"`
}

type Results struct {
	Bindings []Binding `json:"bindings"`
}

// Response is the application/sparql-results+json document.
type Response struct {
	Head    Head    `json:"head"`
	Results Results `json:"results"`
}

// Rows is a shorthand for r.Results.Bindings that tolerates a nil response.
func (r *Response) Rows() []Binding {
	if r == nil {
		return nil
	}
	return r.Results.Bindings
}
