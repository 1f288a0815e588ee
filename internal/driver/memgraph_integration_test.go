//go:build integration

package driver

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/wikigraph/internal/core/model"
)

func TestMemgraphExportRoundTrip(t *testing.T) {
	_ = godotenv.Load("../../.env")

	uri := os.Getenv("MEMGRAPH_URI")
	if uri == "" {
		t.Skip("Skipping integration test: MEMGRAPH_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	d, err := NewMemgraphDriver(ctx, uri, os.Getenv("MEMGRAPH_USER"), os.Getenv("MEMGRAPH_PASSWORD"), nil)
	require.NoError(t, err)
	defer d.Close(ctx)
	require.NoError(t, d.BuildIndices(ctx))

	g := &model.Graph{
		RunID: uuid.New().String(),
		Seeds: []model.SeedNode{{ID: 42, Label: "Douglas Adams"}, {ID: 350, Label: "Cambridge"}},
		Edges: []model.Edge{{Source: 42, Target: 350, Relation: model.Relation(model.DirectPropertyIRIPrefix + "P19")}},
	}

	e := NewExporter(d, "https://www.wikidata.org/", nil)
	require.NoError(t, e.Export(ctx, g))

	edges, err := e.RunRelations(ctx, g.RunID)
	require.NoError(t, err)
	assert.Equal(t, g.Edges, edges)

	// Exporting again under a new run merges onto the same nodes and relations.
	g.RunID = uuid.New().String()
	require.NoError(t, e.Export(ctx, g))

	res, err := d.ExecuteQuery(ctx, "MATCH (n:Entity {qid: $qid}) RETURN count(n) AS c", map[string]interface{}{"qid": "Q42"})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	c, _ := res.Records[0].Get("c")
	assert.EqualValues(t, 1, c)
}
