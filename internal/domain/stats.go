package domain

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SpamLabel is the prediction label counted as spam.
const SpamLabel = "spam"

// Stats summarizes a history snapshot.
type Stats struct {
	Total       int     `json:"total"       example:"3"`
	Spam        int     `json:"spam"        example:"1"`
	Ham         int     `json:"ham"         example:"2"`
	SpamPercent float64 `json:"spamPercent" example:"33.33"`
	HamPercent  float64 `json:"hamPercent"  example:"66.67"`
}

// Summarize partitions records into spam and ham and computes percentage
// shares. A record is spam when its prediction lower-cases to "spam";
// everything else, including records without a prediction, is ham.
// An empty snapshot yields all zeros.
func Summarize(records []HistoryRecord) Stats {
	total := len(records)
	if total == 0 {
		return Stats{}
	}

	// Plain lower-casing: "ſpam" (long s) stays ham. Casers are stateful; one per call.
	lower := cases.Lower(language.Und)

	spam := 0
	for _, r := range records {
		if lower.String(r.Label()) == SpamLabel {
			spam++
		}
	}
	ham := total - spam

	return Stats{
		Total:       total,
		Spam:        spam,
		Ham:         ham,
		SpamPercent: float64(spam) / float64(total) * 100,
		HamPercent:  float64(ham) / float64(total) * 100,
	}
}
