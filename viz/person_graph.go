package viz

import (
	"context"
	"fmt"

	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/careo/db"
	"github.com/harperreed/careo/models"
)

// GeneratePersonGraph draws one person with their interactions and tasks.
func (g *GraphGenerator) GeneratePersonGraph(ctx context.Context, personID int64) (string, error) {
	person, err := db.GetPerson(g.db, personID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch person: %w", err)
	}
	if person == nil {
		return "", fmt.Errorf("person not found: %d", personID)
	}

	interactions, err := db.ListInteractions(g.db, personID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch interactions: %w", err)
	}

	tasks, err := db.ListTasksForPerson(g.db, personID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch tasks: %w", err)
	}

	return render(ctx, person.Name, func(graph *cgraph.Graph) error {
		graph.SetLayout("neato")

		center, err := graph.CreateNodeByName(fmt.Sprintf("person_%d", person.ID))
		if err != nil {
			return fmt.Errorf("failed to create person node: %w", err)
		}
		center.SetLabel(fmt.Sprintf("%s\n(%s)", person.Name, person.Status))
		center.SetShape("doublecircle")
		center.SetStyle("filled")
		center.SetFillColor(statusColor(string(person.Status)))

		for _, in := range interactions {
			node, err := graph.CreateNodeByName(fmt.Sprintf("interaction_%d", in.ID))
			if err != nil {
				return fmt.Errorf("failed to create interaction node: %w", err)
			}
			node.SetLabel(fmt.Sprintf("%s\n%s", in.Type, models.FormatDate(in.Date.Local())))
			node.SetShape("ellipse")

			edge, err := graph.CreateEdgeByName("interaction", center, node)
			if err != nil {
				return fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetDir("none")
		}

		for _, t := range tasks {
			node, err := graph.CreateNodeByName(fmt.Sprintf("task_%d", t.ID))
			if err != nil {
				return fmt.Errorf("failed to create task node: %w", err)
			}
			node.SetLabel(fmt.Sprintf("%s\ndue %s", t.Title, models.FormatDate(t.DueDate)))
			node.SetShape("note")
			node.SetStyle("filled")
			if t.IsCompleted {
				node.SetFillColor("palegreen")
			} else {
				node.SetFillColor("lightyellow")
			}

			edge, err := graph.CreateEdgeByName("task", center, node)
			if err != nil {
				return fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetStyle("dotted")
		}
		return nil
	})
}
