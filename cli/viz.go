// ABOUTME: Visualization CLI commands
// ABOUTME: Handles the dashboard and graph generation commands
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/harperreed/careo/viz"
)

// VizPipelineCommand prints DOT source for the pipeline boards.
func VizPipelineCommand(db *sql.DB, args []string) error {
	fs := flag.NewFlagSet("viz pipeline", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	name := fs.String("name", "", "Pipeline to draw (default: all)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	generator := viz.NewGraphGenerator(db)
	dot, err := generator.GeneratePipelineGraph(context.Background(), *name)
	if err != nil {
		return err
	}

	return writeDOT(*output, dot)
}

// VizPersonCommand prints DOT source for one person's history.
func VizPersonCommand(db *sql.DB, args []string) error {
	fs := flag.NewFlagSet("viz person", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("person ID required")
	}
	personID, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid person ID: %w", err)
	}

	generator := viz.NewGraphGenerator(db)
	dot, err := generator.GeneratePersonGraph(context.Background(), personID)
	if err != nil {
		return err
	}

	return writeDOT(*output, dot)
}

func writeDOT(output, dot string) error {
	if output != "" {
		return os.WriteFile(output, []byte(dot), 0644)
	}
	fmt.Println(dot)
	return nil
}

// DashboardCommand prints the terminal dashboard.
func DashboardCommand(database *sql.DB, args []string) error {
	stats, err := viz.GenerateDashboardStats(database, time.Now())
	if err != nil {
		return fmt.Errorf("failed to generate dashboard stats: %w", err)
	}

	fmt.Print(viz.RenderDashboard(stats))
	return nil
}
