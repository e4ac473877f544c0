package tracking

import "context"

// SubmitResult is the server's answer to a submission: a success flag plus
// either a redirect target or an error message.
type SubmitResult struct {
	Success  bool   `json:"success"`
	Redirect string `json:"redirect,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Submitter performs the one network call of a rating attempt.
type Submitter interface {
	Submit(ctx context.Context, payload SubmissionPayload) (SubmitResult, error)
}

// FormUI is the feedback surface the coordinator drives: submit control
// state, the not-ready hint, progress and error display, and navigation
// after a successful submit.
type FormUI interface {
	SetSubmitEnabled(enabled bool)
	ShowHint(msg string)
	ShowProgress()
	ShowError(msg string)
	NavigateTo(target string)
}

// MetricsSource yields the metrics snapshot at submit time.
type MetricsSource interface {
	Snapshot() ReadingMetrics
}

// PassageSource yields the marked passages at submit time.
type PassageSource interface {
	Passages() []Passage
}

const (
	notReadyHint     = "Move every rating slider at least once before submitting."
	genericSubmitErr = "Could not save your rating. Please try again."
)

// Form gates and executes submission. Every rating control must have been
// changed at least once before Submit does anything; while a submission is in
// flight further Submit calls are ignored.
type Form struct {
	controls  []string
	touched   map[string]bool
	values    map[string]int
	comment   string
	tracker   MetricsSource
	marker    PassageSource
	submitter Submitter
	ui        FormUI
	inFlight  bool
}

func NewForm(controls []string, tracker MetricsSource, marker PassageSource, submitter Submitter, ui FormUI) *Form {
	f := &Form{
		controls:  controls,
		touched:   make(map[string]bool, len(controls)),
		values:    make(map[string]int, len(controls)),
		tracker:   tracker,
		marker:    marker,
		submitter: submitter,
		ui:        ui,
	}
	ui.SetSubmitEnabled(false)
	ui.ShowHint(notReadyHint)
	return f
}

// HandleChange records the control's current value and marks it touched.
// Only the first change of each distinct control moves the form towards
// readiness; changing one control repeatedly does not.
func (f *Form) HandleChange(control string, value int) {
	if !f.knows(control) {
		return
	}
	f.values[control] = value
	f.touched[control] = true
	if f.Ready() && !f.inFlight {
		f.ui.SetSubmitEnabled(true)
		f.ui.ShowHint("")
	}
}

// HandleComment records the free-text comment.
func (f *Form) HandleComment(text string) {
	f.comment = text
}

// Ready reports whether every rating control has been touched.
func (f *Form) Ready() bool {
	return len(f.touched) == len(f.controls)
}

// Submit assembles the payload from the current control values, the tracker
// snapshot and the passage list, and performs the one network call. On any
// failure the error is surfaced and the submit control re-enabled for a
// manual retry; there is no automatic retry. After a success the form stays
// locked, since each attempt submits exactly once and the page is already
// navigating away.
func (f *Form) Submit(ctx context.Context) {
	if !f.Ready() || f.inFlight {
		return
	}
	f.inFlight = true
	f.ui.SetSubmitEnabled(false)
	f.ui.ShowProgress()

	payload := f.buildPayload()
	result, err := f.submitter.Submit(ctx, payload)

	if err != nil {
		f.fail(genericSubmitErr)
		return
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = genericSubmitErr
		}
		f.fail(msg)
		return
	}
	f.ui.NavigateTo(result.Redirect)
}

func (f *Form) buildPayload() SubmissionPayload {
	scores := make(map[string]int, len(f.values))
	for control, value := range f.values {
		scores[control] = value
	}
	return SubmissionPayload{
		Scores:            scores,
		OptionalComments:  f.comment,
		Metrics:           f.tracker.Snapshot(),
		DifficultPassages: f.marker.Passages(),
	}
}

func (f *Form) fail(msg string) {
	f.inFlight = false
	f.ui.ShowError(msg)
	f.ui.SetSubmitEnabled(true)
}

func (f *Form) knows(control string) bool {
	for _, c := range f.controls {
		if c == control {
			return true
		}
	}
	return false
}
