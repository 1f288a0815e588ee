package sparql

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/wikigraph/internal/core/model"
)

func TestParseEntityRef(t *testing.T) {
	id, err := ParseEntityRef("http://www.wikidata.org/entity/Q42")
	require.NoError(t, err)
	assert.Equal(t, model.EntityID(42), id)

	id, err = ParseEntityRef(model.EntityID(1234567).IRI())
	require.NoError(t, err)
	assert.Equal(t, model.EntityID(1234567), id)
}

func TestParseEntityRef_Malformed(t *testing.T) {
	refs := []string{
		"",
		"Q42",
		"http://www.wikidata.org/entity/P31",
		"http://www.wikidata.org/entity/L7",
		"http://www.wikidata.org/entity/Q",
		"http://www.wikidata.org/entity/Q42-abc",
		"http://www.wikidata.org/entity/Q0",
		"http://www.wikidata.org/entity/Q99999999999999999999999",
		"http://www.wikidata.org/entity/statement/Q42-1234",
	}
	for _, ref := range refs {
		t.Run(ref, func(t *testing.T) {
			_, err := ParseEntityRef(ref)
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "expected ParseError, got %v", err)
			assert.Equal(t, ref, pe.Ref)
		})
	}
}

func TestParseRelationRef(t *testing.T) {
	r, err := ParseRelationRef("http://www.wikidata.org/prop/direct/P69")
	require.NoError(t, err)
	assert.Equal(t, "P69", r.Code())

	_, err = ParseRelationRef("")
	assert.Error(t, err)
}

func TestBinding_Value(t *testing.T) {
	b := Binding{"a": {Type: "uri", Value: "http://www.wikidata.org/prop/direct/P31"}}

	v, err := b.Value("a")
	require.NoError(t, err)
	assert.Equal(t, "http://www.wikidata.org/prop/direct/P31", v)

	_, err = b.Value("b")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "b", pe.Field)
}

func TestQueries(t *testing.T) {
	assert.Equal(t, "SELECT ?a WHERE { wd:Q1 ?a wd:Q2. }", DirectLinkQuery(1, 2))
	assert.Contains(t, BridgedLinkQuery(1, 3), "wd:Q1 ?a ?b.")
	assert.Contains(t, BridgedLinkQuery(1, 3), "?b ?c wd:Q3.")
	assert.Contains(t, BridgedLinkQuery(1, 3), `STRSTARTS(STR(?b), "http://www.wikidata.org/entity/Q")`)
	assert.Contains(t, LabelQuery(42), "wd:Q42 rdfs:label ?label.")
	assert.Contains(t, LabelQuery(42), `LANGMATCHES(LANG(?label), "EN")`)
}
