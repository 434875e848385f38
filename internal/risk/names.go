package risk

import (
	"sort"
	"strings"

	"github.com/davideferri/interro-risk-api/internal/models"
)

// Initials derives up to two uppercase initials from a display name.
func Initials(name string) string {
	var b strings.Builder
	taken := 0
	for _, word := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(string([]rune(word)[0])))
		taken++
		if taken == 2 {
			break
		}
	}
	return b.String()
}

// Surname extracts the last word of a display name, used for sorting and
// teacher display.
func Surname(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "—"
	}
	return fields[len(fields)-1]
}

// SortBySurname returns the students ordered by surname then first name,
// case-insensitive. Students without split name fields fall back to the
// last word of the full name. The input slice is not modified.
func SortBySurname(students []models.Student) []models.Student {
	sorted := make([]models.Student, len(students))
	copy(sorted, students)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, fi := sortKeys(sorted[i])
		sj, fj := sortKeys(sorted[j])
		if si != sj {
			return si < sj
		}
		return fi < fj
	})
	return sorted
}

func sortKeys(s models.Student) (surname, firstName string) {
	if s.LastName != "" {
		return strings.ToLower(s.LastName), strings.ToLower(s.FirstName)
	}
	return strings.ToLower(Surname(s.FullName)), ""
}
