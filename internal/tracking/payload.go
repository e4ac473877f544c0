package tracking

import (
	"encoding/json"
	"strings"
)

// SubmissionPayload is the single JSON object sent once per rating attempt:
// the explicit rating scores, an optional comment, the metrics snapshot, the
// marked passages and, optionally, the raw interaction trace the server can
// replay to recompute the metrics itself.
//
// On the wire the scores and metrics are flat top-level keys, e.g.
//
//	{"mental_effort_score": 7, ..., "time_spent_seconds": 93.2,
//	 "difficult_passages": [...], "optional_comments": ""}
type SubmissionPayload struct {
	Scores            map[string]int
	OptionalComments  string
	Metrics           ReadingMetrics
	DifficultPassages []Passage
	Trace             []TraceEvent
}

func (p SubmissionPayload) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Scores)+9)
	for key, value := range p.Scores {
		out[key] = value
	}
	out["optional_comments"] = p.OptionalComments
	out["time_spent_seconds"] = p.Metrics.TimeSpentSeconds
	out["active_time_seconds"] = p.Metrics.ActiveTimeSeconds
	out["scroll_depth_percent"] = p.Metrics.ScrollDepthPercent
	out["scroll_back_count"] = p.Metrics.ScrollBackCount
	out["pause_count"] = p.Metrics.PauseCount
	out["mouse_activity_score"] = p.Metrics.MouseActivityScore

	passages := p.DifficultPassages
	if passages == nil {
		passages = []Passage{}
	}
	out["difficult_passages"] = passages

	if len(p.Trace) > 0 {
		out["interaction_trace"] = p.Trace
	}
	return json.Marshal(out)
}

func (p *SubmissionPayload) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Scores = make(map[string]int)
	for key, value := range raw {
		switch key {
		case "optional_comments":
			if err := json.Unmarshal(value, &p.OptionalComments); err != nil {
				return err
			}
		case "time_spent_seconds":
			if err := json.Unmarshal(value, &p.Metrics.TimeSpentSeconds); err != nil {
				return err
			}
		case "active_time_seconds":
			if err := json.Unmarshal(value, &p.Metrics.ActiveTimeSeconds); err != nil {
				return err
			}
		case "scroll_depth_percent":
			if err := json.Unmarshal(value, &p.Metrics.ScrollDepthPercent); err != nil {
				return err
			}
		case "scroll_back_count":
			if err := json.Unmarshal(value, &p.Metrics.ScrollBackCount); err != nil {
				return err
			}
		case "pause_count":
			if err := json.Unmarshal(value, &p.Metrics.PauseCount); err != nil {
				return err
			}
		case "mouse_activity_score":
			if err := json.Unmarshal(value, &p.Metrics.MouseActivityScore); err != nil {
				return err
			}
		case "difficult_passages":
			if err := json.Unmarshal(value, &p.DifficultPassages); err != nil {
				return err
			}
		case "interaction_trace":
			if err := json.Unmarshal(value, &p.Trace); err != nil {
				return err
			}
		default:
			// Any remaining *_score key is a rating control value.
			if strings.HasSuffix(key, "_score") {
				var score int
				if err := json.Unmarshal(value, &score); err != nil {
					return err
				}
				p.Scores[key] = score
			}
		}
	}
	return nil
}
