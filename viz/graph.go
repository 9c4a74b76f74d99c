// ABOUTME: Graphviz graph generation for pipelines and relationship history
// ABOUTME: Renders DOT source from the store using go-graphviz
package viz

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// GraphGenerator renders graphs from the database.
type GraphGenerator struct {
	db *sql.DB
}

func NewGraphGenerator(db *sql.DB) *GraphGenerator {
	return &GraphGenerator{db: db}
}

// render builds a graph with build and returns its DOT source.
func render(ctx context.Context, label string, build func(graph *cgraph.Graph) error) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer func() { _ = gv.Close() }()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() { _ = graph.Close() }()

	if label != "" {
		graph.SetLabel(label)
	}

	if err := build(graph); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}

var statusColors = map[string]string{
	"Partner":  "lightblue",
	"Friend":   "lightgreen",
	"Family":   "lightpink",
	"Mentor":   "lightyellow",
	"Disciple": "lavender",
}

func statusColor(status string) string {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return "white"
}
