// ABOUTME: Entry point for the careo relationship tracker
// ABOUTME: Loads config, opens the store and routes to CLI, TUI, viz or MCP commands
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/careo/cli"
	"github.com/harperreed/careo/config"
	"github.com/harperreed/careo/db"
	"github.com/harperreed/careo/tui"
)

const version = "0.2.0"

type command func(database *sql.DB, args []string) error

var commands = map[string]command{
	"add-person":         cli.AddPersonCommand,
	"list-people":        cli.ListPeopleCommand,
	"show-person":        cli.ShowPersonCommand,
	"update-person":      cli.UpdatePersonCommand,
	"delete-person":      cli.DeletePersonCommand,
	"log-interaction":    cli.LogInteractionCommand,
	"list-interactions":  cli.ListInteractionsCommand,
	"update-interaction": cli.UpdateInteractionCommand,
	"delete-interaction": cli.DeleteInteractionCommand,
	"add-task":           cli.AddTaskCommand,
	"agenda":             cli.AgendaCommand,
	"complete-task":      cli.CompleteTaskCommand,
	"reopen-task":        cli.ReopenTaskCommand,
	"birthdays":          cli.BirthdaysCommand,
	"pipeline":           cli.PipelineCommand,
	"move-stage":         cli.MoveStageCommand,
	"dashboard":          cli.DashboardCommand,
}

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/careo/careo.db)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")

	// Parse global flags; everything after the command belongs to it
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("careo version %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", "err", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	logger := newLogger(cfg.LogLevel)

	args := flag.Args()
	if len(args) == 0 && !*initOnly {
		printUsage()
		os.Exit(0)
	}

	database, err := db.Open(cfg.DBPath, db.Options{Driver: cfg.Driver, Logger: logger})
	if err != nil {
		logger.Fatal("Failed to open database", "path", cfg.DBPath, "err", err)
	}

	if err := run(database, logger, args, *initOnly); err != nil {
		_ = database.Close()
		logger.Fatal("Error", "err", err)
	}
	_ = database.Close()
}

func run(database *sql.DB, logger *log.Logger, args []string, initOnly bool) error {
	if initOnly {
		logger.Info("Database initialized successfully")
		return nil
	}

	name, commandArgs := args[0], args[1:]

	switch name {
	case "mcp":
		return cli.MCPCommand(database, logger, version)

	case "tui":
		return tui.Run(database)

	case "viz":
		if len(commandArgs) == 0 {
			printUsage()
			return fmt.Errorf("viz requires a subcommand (pipeline or person)")
		}
		switch commandArgs[0] {
		case "pipeline":
			return cli.VizPipelineCommand(database, commandArgs[1:])
		case "person":
			return cli.VizPersonCommand(database, commandArgs[1:])
		default:
			printUsage()
			return fmt.Errorf("unknown viz command: %s", commandArgs[0])
		}
	}

	cmd, ok := commands[name]
	if !ok {
		printUsage()
		return fmt.Errorf("unknown command: %s", name)
	}
	return cmd(database, commandArgs)
}

// newLogger writes to stderr so stdout stays free for command output and MCP
func newLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "careo",
	})

	parsed, err := log.ParseLevel(level)
	if err != nil {
		logger.Warn("Unknown log level, using info", "level", level)
		parsed = log.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

func printUsage() {
	fmt.Printf(`careo v%s - Relationship care tracker

USAGE:
  careo [global flags] <command> [flags] [args]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/careo/careo.db)
  --init                 Initialize database and exit

CONFIGURATION:
  ~/.config/careo/config.yaml   db_path, driver (sqlite3 or sqlite), log_level
  .env / environment            CAREO_DB_PATH, CAREO_DRIVER, CAREO_LOG_LEVEL

PEOPLE:
  careo add-person               Add a person
    --name <name>                  Name (required)
    --status <status>              Partner, Friend, Family, Mentor or Disciple (default: Friend)
    --pipeline <name>              Evangelism or Support Raising
    --stage <stage>                Stage within the pipeline
    --email, --phone, --address    Contact details
    --birthday <YYYY-MM-DD>        Birthday
    --spouse, --children           Family
    --interests, --prayer, --notes Free text

  careo list-people              List people
    --status <status>              Filter by status
    --pipeline <name>              Filter by pipeline

  careo show-person <id>         Show a person with interactions and tasks
  careo update-person [flags] <id>  Update only the given fields
    Note: flags must come before the ID
  careo delete-person <id>       Delete a person and their interactions

INTERACTIONS:
  careo log-interaction          Record an interaction
    --person <id>                  Person ID (required)
    --type <type>                  Call, Coffee, Prayer, Meeting, Text or Email (default: Call)
    --notes <text>                 Notes
    --date <RFC3339|YYYY-MM-DD>    When it happened (default: now)

  careo list-interactions <person-id>   Newest first
    --limit <n>                    Max results (default: all)
  careo update-interaction [flags] <id>
  careo delete-interaction <id>

TASKS:
  careo add-task                 Add a task
    --title <title>                Title (required)
    --due <YYYY-MM-DD>             Due date (default: today)
    --person <id>                  Related person
    --description <text>           Description

  careo agenda                   Tasks due today plus open overdue tasks
    --date <YYYY-MM-DD>            Reference day (default: today)
    --no-birthdays                 Skip creating birthday reminders

  careo complete-task <id>       Mark a task done
  careo reopen-task <id>         Mark a task not done
  careo birthdays                Create birthday reminders for a day
    --date <YYYY-MM-DD>            Day (default: today)

PIPELINES:
  careo pipeline                 Show pipeline boards
    --name <name>                  Only this pipeline
  careo move-stage [flags] <id>  Move a person to a stage
    --pipeline <name>              Pipeline (default: the person's current one)
    --stage <stage>                Stage (required)

VIEWS:
  careo dashboard                Summary of people, pipelines and the agenda
  careo tui                      Interactive terminal interface
  careo viz pipeline             GraphViz DOT of a pipeline board
    --name <name>                  Pipeline (default: all)
    --output <file>                Output file (default: stdout)
  careo viz person <id>          GraphViz DOT of a person's history
    --output <file>                Output file (default: stdout)

MCP SERVER:
  careo mcp                      Start MCP server on stdio

EXAMPLES:
  careo add-person --name "Alice" --status Partner --pipeline "Support Raising" --stage Ask
  careo log-interaction --person 1 --type Coffee --notes "Talked about the trip"
  careo add-task --title "Follow up with Alice" --due 2025-06-01 --person 1
  careo agenda

`, version)
}
