package viz

import (
	"context"
	"fmt"

	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/careo/db"
	"github.com/harperreed/careo/models"
)

// GeneratePipelineGraph draws each pipeline as a chain of stages with the
// people currently in each stage hanging off it. An empty name draws every
// pipeline.
func (g *GraphGenerator) GeneratePipelineGraph(ctx context.Context, name string) (string, error) {
	pipelines := models.Pipelines
	if name != "" {
		p := models.FindPipeline(name)
		if p == nil {
			return "", fmt.Errorf("unknown pipeline %q", name)
		}
		pipelines = []models.Pipeline{*p}
	}

	people, err := db.ListPeople(g.db)
	if err != nil {
		return "", fmt.Errorf("failed to fetch people: %w", err)
	}

	return render(ctx, "Pipelines", func(graph *cgraph.Graph) error {
		graph.SetRankDir(cgraph.LRRank)

		for pi := range pipelines {
			pipeline := &pipelines[pi]

			var prev *cgraph.Node
			for si, column := range models.BuildBoard(pipeline, people) {
				stageNode, err := graph.CreateNodeByName(fmt.Sprintf("stage_%d_%d", pi, si))
				if err != nil {
					return fmt.Errorf("failed to create stage node: %w", err)
				}
				stageNode.SetLabel(fmt.Sprintf("%s\n%s (%d)", pipeline.Name, column.Stage, len(column.People)))
				stageNode.SetShape("box")
				stageNode.SetStyle("filled")
				stageNode.SetFillColor("lightgrey")

				if prev != nil {
					if _, err := graph.CreateEdgeByName("next", prev, stageNode); err != nil {
						return fmt.Errorf("failed to create edge: %w", err)
					}
				}
				prev = stageNode

				for _, person := range column.People {
					personNode, err := graph.CreateNodeByName(fmt.Sprintf("person_%d", person.ID))
					if err != nil {
						return fmt.Errorf("failed to create person node: %w", err)
					}
					personNode.SetLabel(person.Name)
					personNode.SetShape("ellipse")
					personNode.SetStyle("filled")
					personNode.SetFillColor(statusColor(string(person.Status)))

					edge, err := graph.CreateEdgeByName("in_stage", stageNode, personNode)
					if err != nil {
						return fmt.Errorf("failed to create edge: %w", err)
					}
					edge.SetStyle("dashed")
				}
			}
		}
		return nil
	})
}
