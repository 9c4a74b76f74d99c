// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Summarises people, pipelines, the agenda and who needs attention
package viz

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/careo/db"
	"github.com/harperreed/careo/models"
)

// StaleAfterDays is how long without an interaction before someone needs attention.
const StaleAfterDays = 30

type DashboardStats struct {
	TotalPeople    int
	PeopleByStatus map[models.Status]int

	// Pipeline name to its stage counts, in stage order.
	Pipelines map[string][]StageCount

	DueToday int
	Overdue  int

	UpcomingBirthdays []UpcomingBirthday
	StalePeople       []StalePerson
}

type StageCount struct {
	Stage string
	Count int
}

type UpcomingBirthday struct {
	Name   string
	Date   time.Time
	InDays int
}

type StalePerson struct {
	Name string
	// DaysSince is -1 for people never contacted.
	DaysSince int
}

// GenerateDashboardStats computes the dashboard for the day of now.
func GenerateDashboardStats(database *sql.DB, now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{
		PeopleByStatus: make(map[models.Status]int),
		Pipelines:      make(map[string][]StageCount),
	}

	people, err := db.ListPeople(database)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch people: %w", err)
	}
	stats.TotalPeople = len(people)

	for i := range models.Pipelines {
		p := &models.Pipelines[i]
		var counts []StageCount
		for _, column := range models.BuildBoard(p, people) {
			counts = append(counts, StageCount{Stage: column.Stage, Count: len(column.People)})
		}
		stats.Pipelines[p.Name] = counts
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for _, person := range people {
		stats.PeopleByStatus[person.Status]++

		if person.Birthday != nil {
			if next, days := nextBirthday(*person.Birthday, today); days <= 14 {
				stats.UpcomingBirthdays = append(stats.UpcomingBirthdays, UpcomingBirthday{
					Name: person.Name, Date: next, InDays: days,
				})
			}
		}

		interactions, err := db.ListInteractions(database, person.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch interactions: %w", err)
		}
		if len(interactions) == 0 {
			stats.StalePeople = append(stats.StalePeople, StalePerson{Name: person.Name, DaysSince: -1})
			continue
		}
		// Newest first.
		daysSince := int(now.Sub(interactions[0].Date).Hours() / 24)
		if daysSince > StaleAfterDays {
			stats.StalePeople = append(stats.StalePeople, StalePerson{Name: person.Name, DaysSince: daysSince})
		}
	}

	sort.SliceStable(stats.UpcomingBirthdays, func(i, j int) bool {
		return stats.UpcomingBirthdays[i].InDays < stats.UpcomingBirthdays[j].InDays
	})

	tasks, err := db.ListDueTasks(database, now)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	todayStr := models.FormatDate(now)
	for _, t := range tasks {
		if models.FormatDate(t.DueDate) == todayStr {
			stats.DueToday++
		} else {
			stats.Overdue++
		}
	}

	return stats, nil
}

// nextBirthday returns the next celebration on or after today and how many
// days away it is. Leap day birthdays fall on Feb 28 in common years.
func nextBirthday(birthday, today time.Time) (time.Time, int) {
	for year := today.Year(); ; year++ {
		day := birthday.Day()
		if birthday.Month() == time.February && day == 29 && !isLeap(year) {
			day = 28
		}
		next := time.Date(year, birthday.Month(), day, 0, 0, 0, 0, today.Location())
		if !next.Before(today) {
			return next, int(next.Sub(today).Hours()/24 + 0.5)
		}
	}
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  CAREO DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("PEOPLE\n")
	out.WriteString(fmt.Sprintf("  %d total", stats.TotalPeople))
	for _, status := range models.Statuses {
		if n := stats.PeopleByStatus[status]; n > 0 {
			out.WriteString(fmt.Sprintf("  %s %d", status, n))
		}
	}
	out.WriteString("\n\n")

	out.WriteString("AGENDA\n")
	out.WriteString(fmt.Sprintf("  📋 %d due today  ⏰ %d overdue\n\n", stats.DueToday, stats.Overdue))

	for _, p := range models.Pipelines {
		out.WriteString(strings.ToUpper(p.Name) + "\n")
		renderPipeline(&out, stats.Pipelines[p.Name])
		out.WriteString("\n")
	}

	if len(stats.UpcomingBirthdays) > 0 {
		out.WriteString("UPCOMING BIRTHDAYS\n")
		for _, b := range stats.UpcomingBirthdays {
			when := "today"
			if b.InDays == 1 {
				when = "tomorrow"
			} else if b.InDays > 1 {
				when = fmt.Sprintf("in %d days", b.InDays)
			}
			out.WriteString(fmt.Sprintf("  🎂 %s %s (%s)\n", b.Name, when, b.Date.Format("Jan 2")))
		}
		out.WriteString("\n")
	}

	if len(stats.StalePeople) > 0 {
		out.WriteString("NEEDS ATTENTION\n")
		out.WriteString(fmt.Sprintf("  ⚠️  %d people - no contact in %d+ days\n", len(stats.StalePeople), StaleAfterDays))
	}

	return out.String()
}

func renderPipeline(out *strings.Builder, stages []StageCount) {
	maxCount := 0
	for _, s := range stages {
		if s.Count > maxCount {
			maxCount = s.Count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, s := range stages {
		barLength := (s.Count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
		out.WriteString(fmt.Sprintf("  %-12s %s  %2d\n", s.Stage, bar, s.Count))
	}
}
