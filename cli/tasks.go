// ABOUTME: Task and agenda CLI commands
// ABOUTME: Adds tasks, shows the daily agenda and toggles completion
package cli

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/harperreed/careo/db"
	"github.com/harperreed/careo/models"
)

// AddTaskCommand creates a task, optionally linked to a person.
func AddTaskCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-task", flag.ExitOnError)
	title := fs.String("title", "", "Task title (required)")
	description := fs.String("description", "", "Details")
	due := fs.String("due", "", "Due date (YYYY-MM-DD, default: today)")
	personID := fs.Int64("person", 0, "Related person ID")
	_ = fs.Parse(args)

	if *title == "" {
		return fmt.Errorf("--title is required")
	}

	dueDate, err := parseDay(*due)
	if err != nil {
		return err
	}

	task := &models.Task{
		Title:       *title,
		Description: *description,
		DueDate:     dueDate,
		Type:        models.TaskManual,
	}
	if *personID != 0 {
		task.RelatedPersonID = personID
	}

	if _, err := db.CreateTask(database, task); err != nil {
		if errors.Is(err, db.ErrDanglingReference) {
			return fmt.Errorf("person not found: %d", *personID)
		}
		return fmt.Errorf("failed to create task: %w", err)
	}

	fmt.Printf("✓ Task added: %s due %s (ID: %d)\n", task.Title, models.FormatDate(task.DueDate), task.ID)
	return nil
}

// AgendaCommand prints the tasks for a day: everything due that day plus
// anything overdue and still open. Birthday reminders for the day are
// generated first.
func AgendaCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("agenda", flag.ExitOnError)
	date := fs.String("date", "", "Day to show (YYYY-MM-DD, default: today)")
	skipBirthdays := fs.Bool("no-birthdays", false, "Do not generate birthday reminders")
	_ = fs.Parse(args)

	day, err := parseDay(*date)
	if err != nil {
		return err
	}

	if !*skipBirthdays {
		if _, err := db.GenerateBirthdayTasks(database, day); err != nil {
			return fmt.Errorf("failed to generate birthday tasks: %w", err)
		}
	}

	tasks, err := db.ListDueTasks(database, day)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	fmt.Printf("AGENDA for %s\n\n", day.Format("Monday, January 2, 2006"))
	if len(tasks) == 0 {
		fmt.Println("Nothing due. Enjoy the day!")
		return nil
	}

	return printTasks(database, tasks, day)
}

func printTasks(database *sql.DB, tasks []models.Task, day time.Time) error {
	names := make(map[int64]string)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDONE\tDUE\tTITLE\tPERSON")
	_, _ = fmt.Fprintln(w, "--\t----\t---\t-----\t------")
	today := models.FormatDate(day)
	for _, t := range tasks {
		due := models.FormatDate(t.DueDate)
		if due < today {
			due += " (overdue)"
		}

		person := "-"
		if t.RelatedPersonID != nil {
			id := *t.RelatedPersonID
			name, ok := names[id]
			if !ok {
				p, err := db.GetPerson(database, id)
				if err != nil {
					return fmt.Errorf("failed to get person: %w", err)
				}
				if p != nil {
					name = p.Name
				}
				names[id] = name
			}
			person = orDash(name)
		}

		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, checkbox(t.IsCompleted), due, t.Title, person)
	}
	return w.Flush()
}

// CompleteTaskCommand marks a task done.
func CompleteTaskCommand(database *sql.DB, args []string) error {
	return setTaskCompletion(database, "complete-task", args, true)
}

// ReopenTaskCommand marks a task not done.
func ReopenTaskCommand(database *sql.DB, args []string) error {
	return setTaskCompletion(database, "reopen-task", args, false)
}

func setTaskCompletion(database *sql.DB, name string, args []string, done bool) error {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := parseID(fs, "task")
	if err != nil {
		return err
	}

	task, err := db.GetTask(database, id)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return fmt.Errorf("task not found: %d", id)
	}

	if err := db.ToggleTask(database, id, done); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	state := "reopened"
	if done {
		state = "completed"
	}
	fmt.Printf("✓ Task %s: %s (ID: %d)\n", state, task.Title, id)
	return nil
}

// BirthdaysCommand generates birthday reminder tasks for a day.
func BirthdaysCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("birthdays", flag.ExitOnError)
	date := fs.String("date", "", "Day to generate for (YYYY-MM-DD, default: today)")
	_ = fs.Parse(args)

	day, err := parseDay(*date)
	if err != nil {
		return err
	}

	created, err := db.GenerateBirthdayTasks(database, day)
	if err != nil {
		return fmt.Errorf("failed to generate birthday tasks: %w", err)
	}

	if len(created) == 0 {
		fmt.Printf("No new birthday reminders for %s\n", models.FormatDate(day))
		return nil
	}
	for _, t := range created {
		fmt.Printf("✓ %s (ID: %d)\n", t.Title, t.ID)
	}
	return nil
}
