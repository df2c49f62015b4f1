// Package validation reports problems in a user's template and task
// history. Nothing here blocks a write; the report feeds `validate` and
// `doctor`.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/trackpro/internal/models"
	"github.com/julianstephens/trackpro/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateActivityName ConflictType = "duplicate_activity_name"
	ConflictUnknownCategory       ConflictType = "unknown_category"
	ConflictNegativePoints        ConflictType = "negative_points"
	ConflictInvalidColor          ConflictType = "invalid_color"
	ConflictInvalidDate           ConflictType = "invalid_date"
	ConflictDuplicateDailyTask    ConflictType = "duplicate_daily_task"
	ConflictOrphanedTask          ConflictType = "orphaned_task"
)

// Severity separates real problems from allowed-but-notable states.
type Severity string

const (
	SeverityError Severity = "error"
	SeverityInfo  Severity = "info"
)

// Conflict is one finding.
type Conflict struct {
	Type        ConflictType
	Severity    Severity
	Description string
	Date        string   // YYYY-MM-DD (if applicable)
	IDs         []string // records involved
}

// Result holds every finding of a run
type Result struct {
	Conflicts []Conflict
}

// HasErrors reports whether any finding has error severity
func (r *Result) HasErrors() bool {
	for _, c := range r.Conflicts {
		if c.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasConflicts returns true if there are any findings at all
func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// FormatReport returns a human-readable report
func (r *Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No problems detected."
	}

	var b strings.Builder
	b.WriteString("Problems detected:\n")
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "- [%s] %s\n", c.Severity, c.Description)
	}
	return b.String()
}

func (r *Result) add(c Conflict) {
	r.Conflicts = append(r.Conflicts, c)
}

// Validator checks templates and task history
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateTemplate checks categories and activities. categories must
// include the built-in ones.
func (v *Validator) ValidateTemplate(categories []models.Category, activities []models.Activity) Result {
	result := Result{Conflicts: []Conflict{}}

	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = true
		if !isHexColor(c.Color) {
			result.add(Conflict{
				Type:        ConflictInvalidColor,
				Severity:    SeverityError,
				Description: fmt.Sprintf("Category %q has invalid color %q", c.Name, c.Color),
				IDs:         []string{c.ID},
			})
		}
	}

	names := make(map[string][]string)
	for _, a := range activities {
		key := strings.ToLower(strings.TrimSpace(a.Name))
		if key != "" {
			names[key] = append(names[key], a.ID)
		}

		if !known[a.CategoryID] {
			result.add(Conflict{
				Type:        ConflictUnknownCategory,
				Severity:    SeverityError,
				Description: fmt.Sprintf("Activity %q belongs to unknown category %q", a.Name, a.CategoryID),
				IDs:         []string{a.ID},
			})
		}
		if a.Points < 0 {
			result.add(Conflict{
				Type:        ConflictNegativePoints,
				Severity:    SeverityError,
				Description: fmt.Sprintf("Activity %q is worth %d points", a.Name, a.Points),
				IDs:         []string{a.ID},
			})
		}
	}

	for _, name := range sortedKeys(names) {
		if ids := names[name]; len(ids) > 1 {
			result.add(Conflict{
				Type:        ConflictDuplicateActivityName,
				Severity:    SeverityInfo,
				Description: fmt.Sprintf("Activity name %q is used %d times; refer to these by id", name, len(ids)),
				IDs:         ids,
			})
		}
	}

	return result
}

// ValidateHistory checks persisted tasks. Repeated activities on a day and
// tasks of deleted activities are allowed and reported as info.
func (v *Validator) ValidateHistory(tasks []models.DailyTask, activities []models.Activity) Result {
	result := Result{Conflicts: []Conflict{}}

	exists := make(map[string]bool, len(activities))
	for _, a := range activities {
		exists[a.ID] = true
	}

	type key struct{ date, activity string }
	perDay := make(map[key][]string)
	orphans := make(map[string][]string)
	for _, t := range tasks {
		if !utils.ValidateDate(t.Date) {
			result.add(Conflict{
				Type:        ConflictInvalidDate,
				Severity:    SeverityError,
				Description: fmt.Sprintf("Task %s has invalid date %q", t.ID, t.Date),
				IDs:         []string{t.ID},
			})
			continue
		}
		k := key{t.Date, t.ActivityID}
		perDay[k] = append(perDay[k], t.ID)
		if !exists[t.ActivityID] {
			orphans[t.ActivityID] = append(orphans[t.ActivityID], t.ID)
		}
	}

	keys := make([]key, 0, len(perDay))
	for k := range perDay {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].date != keys[j].date {
			return keys[i].date < keys[j].date
		}
		return keys[i].activity < keys[j].activity
	})
	for _, k := range keys {
		if ids := perDay[k]; len(ids) > 1 {
			result.add(Conflict{
				Type:        ConflictDuplicateDailyTask,
				Severity:    SeverityInfo,
				Description: fmt.Sprintf("Activity %s appears %d times on %s", k.activity, len(ids), k.date),
				Date:        k.date,
				IDs:         ids,
			})
		}
	}

	for _, activityID := range sortedKeys(orphans) {
		ids := orphans[activityID]
		result.add(Conflict{
			Type:        ConflictOrphanedTask,
			Severity:    SeverityInfo,
			Description: fmt.Sprintf("%d task(s) belong to deleted activity %s", len(ids), activityID),
			IDs:         ids,
		})
	}

	return result
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range strings.ToLower(s[1:]) {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
