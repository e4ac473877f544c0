package tracking

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPayloadUnmarshalCollectsScoreKeys(t *testing.T) {
	body := `{
		"mental_effort_score": 7,
		"background_knowledge_score": 4,
		"emotional_drain_score": 2,
		"clarity_score": 9,
		"optional_comments": "long but clear",
		"time_spent_seconds": 93.5,
		"active_time_seconds": 81.2,
		"scroll_depth_percent": 100,
		"scroll_back_count": 3,
		"pause_count": 2,
		"mouse_activity_score": 14.25,
		"difficult_passages": [
			{"text_content": "quantum annealing", "start_offset": 120, "end_offset": 137}
		]
	}`

	var p SubmissionPayload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(p.Scores) != 4 {
		t.Fatalf("scores = %+v, want exactly the four rating keys", p.Scores)
	}
	if p.Scores["mental_effort_score"] != 7 || p.Scores["clarity_score"] != 9 {
		t.Fatalf("scores = %+v", p.Scores)
	}
	// mouse_activity_score ends in _score but is a metric, not a rating.
	if _, ok := p.Scores["mouse_activity_score"]; ok {
		t.Fatalf("mouse_activity_score captured as a rating score")
	}
	if p.Metrics.MouseActivityScore != 14.25 || p.Metrics.PauseCount != 2 {
		t.Fatalf("metrics = %+v", p.Metrics)
	}
	if len(p.DifficultPassages) != 1 || p.DifficultPassages[0].StartOffset != 120 {
		t.Fatalf("passages = %+v", p.DifficultPassages)
	}
	if p.OptionalComments != "long but clear" {
		t.Fatalf("comment = %q", p.OptionalComments)
	}
}

func TestPayloadMarshalIsFlatWithEmptyPassageList(t *testing.T) {
	p := SubmissionPayload{
		Scores:           map[string]int{"clarity_score": 5},
		OptionalComments: "",
		Metrics:          ReadingMetrics{TimeSpentSeconds: 10},
	}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, `"clarity_score":5`) {
		t.Fatalf("score not a flat top-level key: %s", out)
	}
	if !strings.Contains(out, `"difficult_passages":[]`) {
		t.Fatalf("nil passage list not serialized as []: %s", out)
	}
	if strings.Contains(out, "interaction_trace") {
		t.Fatalf("empty trace serialized: %s", out)
	}
}
