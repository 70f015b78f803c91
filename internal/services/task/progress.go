package task

import (
	"math"

	"github.com/thenoetrevino/tablo/internal/models"
)

// ChecklistProgress returns the percentage of done items, rounded to the
// nearest integer. An empty checklist is 0.
func ChecklistProgress(items []models.ChecklistItem) int {
	if len(items) == 0 {
		return 0
	}
	done := 0
	for _, item := range items {
		if item.Done {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(items)) * 100))
}
