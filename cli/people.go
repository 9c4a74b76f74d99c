// ABOUTME: Person CLI commands
// ABOUTME: Human-friendly commands for adding, browsing, editing and removing people
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/careo/db"
	"github.com/harperreed/careo/models"
)

type personFlags struct {
	name, status, notes                 *string
	pipeline, stage                     *string
	email, phone, address, birthday     *string
	spouse, children, prayer, interests *string
}

func addPersonFlags(fs *flag.FlagSet) personFlags {
	return personFlags{
		name:      fs.String("name", "", "Full name"),
		status:    fs.String("status", "", "Friend, Partner, Family, Mentor or Disciple"),
		notes:     fs.String("notes", "", "Private notes"),
		pipeline:  fs.String("pipeline", "", "Pipeline (Evangelism or \"Support Raising\")"),
		stage:     fs.String("stage", "", "Pipeline stage"),
		email:     fs.String("email", "", "Email address"),
		phone:     fs.String("phone", "", "Phone number"),
		address:   fs.String("address", "", "Postal address"),
		birthday:  fs.String("birthday", "", "Birthday (YYYY-MM-DD)"),
		spouse:    fs.String("spouse", "", "Spouse name"),
		children:  fs.String("children", "", "Children names, comma separated"),
		prayer:    fs.String("prayer", "", "Prayer requests"),
		interests: fs.String("interests", "", "Interests"),
	}
}

// apply copies flag values onto person. Only flags in set are applied, so
// unset flags leave the existing value alone.
func (f personFlags) apply(person *models.Person, set map[string]bool) error {
	strs := map[string]struct {
		value *string
		dest  *string
	}{
		"name":      {f.name, &person.Name},
		"notes":     {f.notes, &person.PrivateNotes},
		"pipeline":  {f.pipeline, &person.PipelineType},
		"stage":     {f.stage, &person.PipelineStage},
		"email":     {f.email, &person.Email},
		"phone":     {f.phone, &person.Phone},
		"address":   {f.address, &person.Address},
		"spouse":    {f.spouse, &person.SpouseName},
		"children":  {f.children, &person.ChildrenNames},
		"prayer":    {f.prayer, &person.PrayerRequests},
		"interests": {f.interests, &person.Interests},
	}
	for name, field := range strs {
		if set[name] {
			*field.dest = *field.value
		}
	}

	if set["status"] {
		person.Status = models.Status(*f.status)
	}
	if set["birthday"] {
		bd, err := parseBirthday(*f.birthday)
		if err != nil {
			return err
		}
		person.Birthday = bd
	}
	// Leaving a pipeline clears the stage too.
	if set["pipeline"] && person.PipelineType == "" && !set["stage"] {
		person.PipelineStage = ""
	}
	return nil
}

func validatePersonInput(person *models.Person) error {
	if err := checkStatus(person.Status); err != nil {
		return err
	}
	return models.ValidateStage(person.PipelineType, person.PipelineStage)
}

// AddPersonCommand adds a new person.
func AddPersonCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-person", flag.ExitOnError)
	flags := addPersonFlags(fs)
	_ = fs.Parse(args)

	if *flags.name == "" {
		return fmt.Errorf("--name is required")
	}

	person := &models.Person{Status: models.StatusFriend}
	if err := flags.apply(person, setFlags(fs)); err != nil {
		return err
	}
	if err := validatePersonInput(person); err != nil {
		return err
	}

	if _, err := db.CreatePerson(database, person); err != nil {
		return fmt.Errorf("failed to create person: %w", err)
	}

	fmt.Printf("✓ Person added: %s (ID: %d)\n", person.Name, person.ID)
	fmt.Printf("  Status: %s\n", person.Status)
	if person.PipelineType != "" {
		fmt.Printf("  Pipeline: %s / %s\n", person.PipelineType, orDash(person.PipelineStage))
	}
	return nil
}

// ListPeopleCommand lists everyone, optionally filtered by status or pipeline.
func ListPeopleCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-people", flag.ExitOnError)
	status := fs.String("status", "", "Only show this status")
	pipeline := fs.String("pipeline", "", "Only show people in this pipeline")
	_ = fs.Parse(args)

	people, err := db.ListPeople(database)
	if err != nil {
		return fmt.Errorf("failed to list people: %w", err)
	}

	var filtered []models.Person
	for _, p := range people {
		if *status != "" && string(p.Status) != *status {
			continue
		}
		if *pipeline != "" && p.PipelineType != *pipeline {
			continue
		}
		filtered = append(filtered, p)
	}

	if len(filtered) == 0 {
		fmt.Println("No people found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tSTATUS\tPIPELINE\tSTAGE\tPHONE")
	_, _ = fmt.Fprintln(w, "--\t----\t------\t--------\t-----\t-----")
	for _, p := range filtered {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, p.Status, orDash(p.PipelineType), orDash(p.PipelineStage), orDash(p.Phone))
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d person(s)\n", len(filtered))
	return nil
}

// ShowPersonCommand prints one person with their history and tasks.
func ShowPersonCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("show-person", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := parseID(fs, "person")
	if err != nil {
		return err
	}

	person, err := db.GetPerson(database, id)
	if err != nil {
		return fmt.Errorf("failed to get person: %w", err)
	}
	if person == nil {
		return fmt.Errorf("person not found: %d", id)
	}

	fmt.Printf("%s (ID: %d)\n", person.Name, person.ID)
	fmt.Printf("  Status:    %s\n", person.Status)
	if person.PipelineType != "" {
		fmt.Printf("  Pipeline:  %s / %s\n", person.PipelineType, orDash(person.PipelineStage))
	}
	printField("Email", person.Email)
	printField("Phone", person.Phone)
	printField("Address", person.Address)
	if person.Birthday != nil {
		printField("Birthday", models.FormatDate(*person.Birthday))
	}
	printField("Spouse", person.SpouseName)
	printField("Children", person.ChildrenNames)
	printField("Prayer", person.PrayerRequests)
	printField("Interests", person.Interests)
	printField("Notes", person.PrivateNotes)

	interactions, err := db.ListInteractions(database, id)
	if err != nil {
		return fmt.Errorf("failed to list interactions: %w", err)
	}
	fmt.Printf("\nINTERACTIONS (%d)\n", len(interactions))
	for _, in := range interactions {
		fmt.Printf("  %s  %-8s %s\n", in.Date.Local().Format("2006-01-02 15:04"), in.Type, in.Notes)
	}

	tasks, err := db.ListTasksForPerson(database, id)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	fmt.Printf("\nTASKS (%d)\n", len(tasks))
	for _, t := range tasks {
		fmt.Printf("  %s %s  %s (ID: %d)\n", checkbox(t.IsCompleted), models.FormatDate(t.DueDate), t.Title, t.ID)
	}

	return nil
}

func printField(label, value string) {
	if value != "" {
		fmt.Printf("  %-10s %s\n", label+":", value)
	}
}

// UpdatePersonCommand edits a person. Only flags that are given change;
// pass an empty value (--email "") to clear a field.
func UpdatePersonCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("update-person", flag.ExitOnError)
	flags := addPersonFlags(fs)
	_ = fs.Parse(args)

	id, err := parseID(fs, "person")
	if err != nil {
		return err
	}

	existing, err := db.GetPerson(database, id)
	if err != nil {
		return fmt.Errorf("failed to get person: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("person not found: %d", id)
	}

	set := setFlags(fs)
	if len(set) == 0 {
		return fmt.Errorf("nothing to update")
	}
	if err := flags.apply(existing, set); err != nil {
		return err
	}
	if existing.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if err := validatePersonInput(existing); err != nil {
		return err
	}

	if err := db.UpdatePerson(database, existing); err != nil {
		return fmt.Errorf("failed to update person: %w", err)
	}

	fmt.Printf("✓ Person updated: %s (ID: %d)\n", existing.Name, existing.ID)
	return nil
}

// DeletePersonCommand removes a person and their interactions. Their tasks
// are kept but unlinked.
func DeletePersonCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("delete-person", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := parseID(fs, "person")
	if err != nil {
		return err
	}

	person, err := db.GetPerson(database, id)
	if err != nil {
		return fmt.Errorf("failed to get person: %w", err)
	}
	if person == nil {
		return fmt.Errorf("person not found: %d", id)
	}

	if err := db.DeletePerson(database, id); err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}

	fmt.Printf("✓ Person deleted: %s (ID: %d)\n", person.Name, id)
	return nil
}
