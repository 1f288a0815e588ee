package discovery

import (
	"context"
	"sync"

	"github.com/agenthands/wikigraph/internal/core/model"
	"github.com/agenthands/wikigraph/internal/sparql"
)

// fakeQuerier answers known query strings; anything else gets an empty result.
type fakeQuerier struct {
	mu        sync.Mutex
	responses map[string]*sparql.Response
	errs      map[string]error
	calls     map[string]int
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{
		responses: make(map[string]*sparql.Response),
		errs:      make(map[string]error),
		calls:     make(map[string]int),
	}
}

func (f *fakeQuerier) Query(ctx context.Context, query string) (*sparql.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[query]++
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	if resp, ok := f.responses[query]; ok {
		return resp, nil
	}
	return &sparql.Response{}, nil
}

func (f *fakeQuerier) direct(src, dst model.EntityID, rels ...string) {
	var rows []sparql.Binding
	for _, r := range rels {
		rows = append(rows, sparql.Binding{"a": uri(r)})
	}
	f.responses[sparql.DirectLinkQuery(src, dst)] = result(rows...)
}

type bridgeRow struct {
	via   model.EntityID
	label string
	in    string
	out   string
}

func (f *fakeQuerier) bridged(src, dst model.EntityID, rows ...bridgeRow) {
	var bs []sparql.Binding
	for _, r := range rows {
		bs = append(bs, sparql.Binding{
			"a":      uri(r.in),
			"b":      uri(r.via.IRI()),
			"bLabel": literal(r.label, "en"),
			"c":      uri(r.out),
		})
	}
	f.responses[sparql.BridgedLinkQuery(src, dst)] = result(bs...)
}

func (f *fakeQuerier) label(id model.EntityID, labels ...string) {
	var rows []sparql.Binding
	for _, l := range labels {
		rows = append(rows, sparql.Binding{"label": literal(l, "en")})
	}
	f.responses[sparql.LabelQuery(id)] = result(rows...)
}

func result(rows ...sparql.Binding) *sparql.Response {
	return &sparql.Response{Results: sparql.Results{Bindings: rows}}
}

func uri(v string) sparql.Term {
	return sparql.Term{Type: "uri", Value: v}
}

func literal(v, lang string) sparql.Term {
	return sparql.Term{Type: "literal", Value: v, Lang: lang}
}

func prop(code string) string {
	return model.DirectPropertyIRIPrefix + code
}
