// ABOUTME: Pipeline CLI commands
// ABOUTME: Prints pipeline boards and moves people between stages
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"strings"

	"github.com/harperreed/careo/db"
	"github.com/harperreed/careo/models"
)

// PipelineCommand prints the board for one pipeline, or all of them.
func PipelineCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("pipeline", flag.ExitOnError)
	name := fs.String("name", "", "Pipeline to show (default: all)")
	_ = fs.Parse(args)

	pipelines := models.Pipelines
	if *name != "" {
		p := models.FindPipeline(*name)
		if p == nil {
			return fmt.Errorf("unknown pipeline %q", *name)
		}
		pipelines = []models.Pipeline{*p}
	}

	people, err := db.ListPeople(database)
	if err != nil {
		return fmt.Errorf("failed to list people: %w", err)
	}

	for i := range pipelines {
		p := &pipelines[i]
		fmt.Printf("%s\n%s\n", strings.ToUpper(p.Name), strings.Repeat("━", 40))
		for _, column := range models.BuildBoard(p, people) {
			names := make([]string, len(column.People))
			for j, person := range column.People {
				names[j] = person.Name
			}
			fmt.Printf("  %-12s %2d  %s\n", column.Stage, len(column.People), strings.Join(names, ", "))
		}
		fmt.Println()
	}
	return nil
}

// MoveStageCommand puts a person into a pipeline stage.
func MoveStageCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("move-stage", flag.ExitOnError)
	pipeline := fs.String("pipeline", "", "Pipeline (default: the person's current one)")
	stage := fs.String("stage", "", "Target stage (required)")
	_ = fs.Parse(args)

	id, err := parseID(fs, "person")
	if err != nil {
		return err
	}
	if *stage == "" {
		return fmt.Errorf("--stage is required")
	}

	person, err := db.GetPerson(database, id)
	if err != nil {
		return fmt.Errorf("failed to get person: %w", err)
	}
	if person == nil {
		return fmt.Errorf("person not found: %d", id)
	}

	if *pipeline != "" {
		person.PipelineType = *pipeline
	}
	if person.PipelineType == "" {
		return fmt.Errorf("%s is not in a pipeline; pass --pipeline", person.Name)
	}
	person.PipelineStage = *stage
	if err := models.ValidateStage(person.PipelineType, person.PipelineStage); err != nil {
		return err
	}

	if err := db.UpdatePerson(database, person); err != nil {
		return fmt.Errorf("failed to update person: %w", err)
	}

	fmt.Printf("✓ %s moved to %s / %s\n", person.Name, person.PipelineType, person.PipelineStage)
	return nil
}
