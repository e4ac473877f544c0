// Package export renders collected annotations as CSV for downstream ML
// training.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jshaha/cognitive-load-annotation/internal/models"
)

var header = []string{
	"annotation_id", "article_id", "article_title", "user_id", "username",
	"mental_effort_score", "background_knowledge_score", "emotional_drain_score",
	"clarity_score", "optional_comments", "time_spent_seconds", "active_time_seconds",
	"scroll_depth_percent", "scroll_back_count", "pause_count", "mouse_activity_score",
	"timestamp_submitted", "difficult_passages",
}

// passageExport is the compact per-passage shape embedded in the CSV.
type passageExport struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// WriteAnnotations streams all annotations as CSV. Difficult passages are
// embedded as a JSON array string in the last column; annotations without
// passages leave it empty.
func WriteAnnotations(w io.Writer, annotations []models.Annotation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, a := range annotations {
		passagesJSON := ""
		if len(a.DifficultPassages) > 0 {
			passages := make([]passageExport, len(a.DifficultPassages))
			for i, p := range a.DifficultPassages {
				passages[i] = passageExport{Text: p.TextContent, Start: p.StartOffset, End: p.EndOffset}
			}
			encoded, err := json.Marshal(passages)
			if err != nil {
				return fmt.Errorf("encode passages for annotation %d: %w", a.ID, err)
			}
			passagesJSON = string(encoded)
		}

		row := []string{
			strconv.FormatUint(uint64(a.ID), 10),
			strconv.FormatUint(uint64(a.ArticleID), 10),
			a.Article.Title,
			strconv.FormatUint(uint64(a.UserID), 10),
			a.User.Username,
			strconv.Itoa(a.MentalEffortScore),
			strconv.Itoa(a.BackgroundKnowledgeScore),
			strconv.Itoa(a.EmotionalDrainScore),
			strconv.Itoa(a.ClarityScore),
			a.OptionalComments,
			formatFloat(a.TimeSpentSeconds),
			formatFloat(a.ActiveTimeSeconds),
			formatFloat(a.ScrollDepthPercent),
			strconv.Itoa(a.ScrollBackCount),
			strconv.Itoa(a.PauseCount),
			formatFloat(a.MouseActivityScore),
			a.TimestampSubmitted.UTC().Format("2006-01-02T15:04:05Z07:00"),
			passagesJSON,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
