package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/wikigraph/internal/core/model"
	"github.com/agenthands/wikigraph/internal/sparql"
)

const emptyResult = `{"head":{"vars":[]},"results":{"bindings":[]}}`

// fakeEndpoint knows that Q42 was born in Q350 and nothing else.
func fakeEndpoint(t *testing.T) *httptest.Server {
	t.Helper()
	answers := map[string]string{
		sparql.DirectLinkQuery(42, 350): `{"head":{"vars":["a"]},"results":{"bindings":[
			{"a":{"type":"uri","value":"http://www.wikidata.org/prop/direct/P19"}}]}}`,
		sparql.LabelQuery(42): `{"head":{"vars":["label"]},"results":{"bindings":[
			{"label":{"type":"literal","value":"Douglas Adams","xml:lang":"en"}}]}}`,
		sparql.LabelQuery(350): `{"head":{"vars":["label"]},"results":{"bindings":[
			{"label":{"type":"literal","value":"Cambridge","xml:lang":"en"}}]}}`,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/sparql-results+json")
		if body, ok := answers[r.URL.Query().Get("query")]; ok {
			w.Write([]byte(body))
			return
		}
		w.Write([]byte(emptyResult))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoot_DOT(t *testing.T) {
	srv := fakeEndpoint(t)
	t.Setenv("WIKIGRAPH_ENDPOINT", srv.URL)

	dir := t.TempDir()
	output := filepath.Join(dir, "adams.gv")

	stdout, err := execute(t,
		"--config", filepath.Join(dir, "missing.toml"),
		"--format", "dot",
		"-n", "42", "350",
		"-o", output,
	)
	require.NoError(t, err)
	assert.Equal(t, output, strings.TrimSpace(stdout))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	dot := string(data)
	assert.Contains(t, dot, `label="Douglas Adams"`)
	assert.Contains(t, dot, `label="Cambridge"`)
	assert.Contains(t, dot, `"42" -> "350" [label="P19", href="https://www.wikidata.org/wiki/Property:P19"]`)
}

func TestRoot_JSON(t *testing.T) {
	srv := fakeEndpoint(t)
	t.Setenv("WIKIGRAPH_ENDPOINT", srv.URL)

	dir := t.TempDir()
	output := filepath.Join(dir, "adams.gv")

	stdout, err := execute(t,
		"--config", filepath.Join(dir, "missing.toml"),
		"--format", "json",
		"--workers", "1",
		"-n", "42,350",
		"-o", output,
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, output+".json")

	data, err := os.ReadFile(output + ".json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id"`)
	assert.Contains(t, string(data), "Douglas Adams")
}

func TestRoot_RequiresFlags(t *testing.T) {
	_, err := execute(t, "-n", "42")
	assert.ErrorContains(t, err, "output")

	_, err = execute(t, "-o", "out.gv")
	assert.ErrorContains(t, err, "nodes")
}

func TestRoot_InvalidFormat(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t,
		"--config", filepath.Join(dir, "missing.toml"),
		"--format", "gif",
		"-n", "1", "-o", filepath.Join(dir, "out.gv"),
	)
	assert.ErrorContains(t, err, "unsupported render.format")
}

func TestSeedIDs(t *testing.T) {
	ids, err := seedIDs([]int{42}, []string{"350", "1"})
	require.NoError(t, err)
	assert.Equal(t, []model.EntityID{42, 350, 1}, ids)

	_, err = seedIDs([]int{0}, nil)
	assert.ErrorContains(t, err, "positive")

	_, err = seedIDs([]int{-5}, nil)
	assert.ErrorContains(t, err, "positive")

	_, err = seedIDs([]int{1}, []string{"Q42"})
	assert.ErrorContains(t, err, `"Q42"`)
}
