// ABOUTME: Interaction CLI commands
// ABOUTME: Logs, lists, edits and removes interactions with a person
package cli

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/careo/db"
	"github.com/harperreed/careo/models"
)

// LogInteractionCommand records an interaction with a person.
func LogInteractionCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("log-interaction", flag.ExitOnError)
	personID := fs.Int64("person", 0, "Person ID (required)")
	kind := fs.String("type", string(models.InteractionCall), "Call, Coffee, Prayer, Meeting, Text or Email")
	notes := fs.String("notes", "", "What happened")
	when := fs.String("date", "", "When it happened (YYYY-MM-DD or RFC 3339, default: now)")
	_ = fs.Parse(args)

	if *personID == 0 {
		return fmt.Errorf("--person is required")
	}

	interactionType := models.InteractionType(*kind)
	if err := checkInteractionType(interactionType); err != nil {
		return err
	}

	date, err := parseWhen(*when)
	if err != nil {
		return err
	}

	interaction := &models.Interaction{
		PersonID: *personID,
		Type:     interactionType,
		Notes:    *notes,
		Date:     date,
	}
	if _, err := db.CreateInteraction(database, interaction); err != nil {
		if errors.Is(err, db.ErrDanglingReference) {
			return fmt.Errorf("person not found: %d", *personID)
		}
		return fmt.Errorf("failed to log interaction: %w", err)
	}

	fmt.Printf("✓ Interaction logged: %s on %s (ID: %d)\n",
		interaction.Type, interaction.Date.Local().Format("2006-01-02 15:04"), interaction.ID)
	return nil
}

// ListInteractionsCommand lists a person's interactions, newest first.
func ListInteractionsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-interactions", flag.ExitOnError)
	limit := fs.Int("limit", 0, "Maximum results (0 for all)")
	_ = fs.Parse(args)

	personID, err := parseID(fs, "person")
	if err != nil {
		return err
	}

	interactions, err := db.ListInteractions(database, personID)
	if err != nil {
		return fmt.Errorf("failed to list interactions: %w", err)
	}
	if *limit > 0 && len(interactions) > *limit {
		interactions = interactions[:*limit]
	}

	if len(interactions) == 0 {
		fmt.Println("No interactions found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDATE\tTYPE\tNOTES")
	_, _ = fmt.Fprintln(w, "--\t----\t----\t-----")
	for _, in := range interactions {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			in.ID, in.Date.Local().Format("2006-01-02 15:04"), in.Type, orDash(in.Notes))
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d interaction(s)\n", len(interactions))
	return nil
}

// UpdateInteractionCommand edits the date, type or notes of an interaction.
func UpdateInteractionCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("update-interaction", flag.ExitOnError)
	kind := fs.String("type", "", "Interaction type")
	notes := fs.String("notes", "", "Notes")
	when := fs.String("date", "", "When it happened")
	_ = fs.Parse(args)

	id, err := parseID(fs, "interaction")
	if err != nil {
		return err
	}

	existing, err := db.GetInteraction(database, id)
	if err != nil {
		return fmt.Errorf("failed to get interaction: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("interaction not found: %d", id)
	}

	set := setFlags(fs)
	if set["type"] {
		existing.Type = models.InteractionType(*kind)
		if err := checkInteractionType(existing.Type); err != nil {
			return err
		}
	}
	if set["notes"] {
		existing.Notes = *notes
	}
	if set["date"] {
		date, err := parseWhen(*when)
		if err != nil {
			return err
		}
		existing.Date = date
	}

	if err := db.UpdateInteraction(database, existing); err != nil {
		return fmt.Errorf("failed to update interaction: %w", err)
	}

	fmt.Printf("✓ Interaction updated (ID: %d)\n", id)
	return nil
}

// DeleteInteractionCommand removes an interaction.
func DeleteInteractionCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("delete-interaction", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := parseID(fs, "interaction")
	if err != nil {
		return err
	}

	if err := db.DeleteInteraction(database, id); err != nil {
		return fmt.Errorf("failed to delete interaction: %w", err)
	}

	fmt.Printf("✓ Interaction deleted (ID: %d)\n", id)
	return nil
}
