package tracking

import (
	"context"
	"errors"
	"testing"
)

var ratingControls = []string{
	"mental_effort_score",
	"background_knowledge_score",
	"emotional_drain_score",
	"clarity_score",
}

type staticMetrics struct {
	m ReadingMetrics
}

func (s staticMetrics) Snapshot() ReadingMetrics { return s.m }

type staticPassages struct {
	ps []Passage
}

func (s staticPassages) Passages() []Passage { return s.ps }

type fakeSubmitter struct {
	calls    int
	got      SubmissionPayload
	result   SubmitResult
	err      error
	reenter  *Form
	reentCtx context.Context
}

func (s *fakeSubmitter) Submit(ctx context.Context, payload SubmissionPayload) (SubmitResult, error) {
	s.calls++
	s.got = payload
	if s.reenter != nil {
		// Simulates a second submit landing while this one is in flight.
		s.reenter.Submit(s.reentCtx)
	}
	return s.result, s.err
}

type fakeUI struct {
	enabled    bool
	hint       string
	progress   int
	lastError  string
	navigated  string
	navigation int
}

func (u *fakeUI) SetSubmitEnabled(enabled bool) { u.enabled = enabled }
func (u *fakeUI) ShowHint(msg string)           { u.hint = msg }
func (u *fakeUI) ShowProgress()                 { u.progress++ }
func (u *fakeUI) ShowError(msg string)          { u.lastError = msg }
func (u *fakeUI) NavigateTo(target string) {
	u.navigated = target
	u.navigation++
}

func newTestForm(submitter Submitter, ui *fakeUI) *Form {
	return NewForm(ratingControls, staticMetrics{}, staticPassages{}, submitter, ui)
}

func touchAll(f *Form) {
	for i, control := range ratingControls {
		f.HandleChange(control, 5+i)
	}
}

func TestSubmissionGatedOnAllControlsTouched(t *testing.T) {
	submitter := &fakeSubmitter{result: SubmitResult{Success: true}}
	ui := &fakeUI{}
	f := newTestForm(submitter, ui)

	if ui.enabled || ui.hint == "" {
		t.Fatalf("form should start disabled with a hint, got %+v", ui)
	}

	// Touching one control four times must not enable submission.
	for i := 0; i < 4; i++ {
		f.HandleChange("clarity_score", i+1)
	}
	if f.Ready() || ui.enabled {
		t.Fatalf("form became ready after repeated changes to one control")
	}
	f.Submit(context.Background())
	if submitter.calls != 0 {
		t.Fatalf("submit ran while not ready")
	}

	touchAll(f)
	if !f.Ready() || !ui.enabled || ui.hint != "" {
		t.Fatalf("form not ready after touching all controls: %+v", ui)
	}

	// Changes to unknown controls are ignored.
	f.HandleChange("bogus_score", 9)
	if !f.Ready() {
		t.Fatalf("unknown control affected readiness")
	}
}

func TestSubmitAssemblesPayloadAndNavigates(t *testing.T) {
	submitter := &fakeSubmitter{result: SubmitResult{Success: true, Redirect: "/dashboard"}}
	ui := &fakeUI{}
	metrics := ReadingMetrics{TimeSpentSeconds: 42, ScrollDepthPercent: 80, PauseCount: 1}
	passages := []Passage{{TextContent: "dense part", StartOffset: 10, EndOffset: 20}}
	f := NewForm(ratingControls, staticMetrics{m: metrics}, staticPassages{ps: passages}, submitter, ui)

	touchAll(f)
	f.HandleComment("quite dense")
	f.Submit(context.Background())

	if submitter.calls != 1 {
		t.Fatalf("submitter called %d times, want 1", submitter.calls)
	}
	p := submitter.got
	if len(p.Scores) != 4 || p.Scores["clarity_score"] != 8 {
		t.Fatalf("payload scores = %+v", p.Scores)
	}
	if p.OptionalComments != "quite dense" {
		t.Fatalf("payload comment = %q", p.OptionalComments)
	}
	if p.Metrics != metrics {
		t.Fatalf("payload metrics = %+v, want %+v", p.Metrics, metrics)
	}
	if len(p.DifficultPassages) != 1 {
		t.Fatalf("payload passages = %+v", p.DifficultPassages)
	}
	if ui.navigated != "/dashboard" || ui.navigation != 1 {
		t.Fatalf("navigation = %+v", ui)
	}
}

func TestTransportFailureReenablesForRetry(t *testing.T) {
	submitter := &fakeSubmitter{err: errors.New("connection reset")}
	ui := &fakeUI{}
	f := newTestForm(submitter, ui)

	touchAll(f)
	f.Submit(context.Background())

	if ui.lastError == "" {
		t.Fatalf("transport failure not surfaced")
	}
	if !ui.enabled {
		t.Fatalf("submit control not re-enabled after failure")
	}
	if ui.navigation != 0 {
		t.Fatalf("navigated away despite failure")
	}

	// Manual retry succeeds.
	submitter.err = nil
	submitter.result = SubmitResult{Success: true, Redirect: "/dashboard"}
	f.Submit(context.Background())
	if submitter.calls != 2 || ui.navigation != 1 {
		t.Fatalf("retry did not run: calls=%d navigations=%d", submitter.calls, ui.navigation)
	}
}

func TestApplicationRejectionUsesServerMessage(t *testing.T) {
	submitter := &fakeSubmitter{result: SubmitResult{Success: false, Error: "You have already rated this article"}}
	ui := &fakeUI{}
	f := newTestForm(submitter, ui)

	touchAll(f)
	f.Submit(context.Background())

	if ui.lastError != "You have already rated this article" {
		t.Fatalf("error shown = %q", ui.lastError)
	}
	if !ui.enabled {
		t.Fatalf("submit control not re-enabled after rejection")
	}

	// A rejection without a message falls back to the generic one.
	submitter.result = SubmitResult{Success: false}
	f.Submit(context.Background())
	if ui.lastError != genericSubmitErr {
		t.Fatalf("generic error not used, got %q", ui.lastError)
	}
}

func TestFormStaysLockedAfterSuccess(t *testing.T) {
	submitter := &fakeSubmitter{result: SubmitResult{Success: true, Redirect: "/dashboard"}}
	ui := &fakeUI{}
	f := newTestForm(submitter, ui)

	touchAll(f)
	f.Submit(context.Background())
	// A second click before the navigation lands must not post again.
	f.Submit(context.Background())

	if submitter.calls != 1 {
		t.Fatalf("submitted %d times after success, want 1", submitter.calls)
	}
	if ui.navigation != 1 {
		t.Fatalf("navigated %d times, want 1", ui.navigation)
	}
}

func TestSubmitIgnoredWhileInFlight(t *testing.T) {
	submitter := &fakeSubmitter{result: SubmitResult{Success: true}}
	ui := &fakeUI{}
	f := newTestForm(submitter, ui)
	submitter.reenter = f
	submitter.reentCtx = context.Background()

	touchAll(f)
	f.Submit(context.Background())

	if submitter.calls != 1 {
		t.Fatalf("in-flight submit was not ignored: %d calls", submitter.calls)
	}
	if ui.progress != 1 {
		t.Fatalf("progress shown %d times, want 1", ui.progress)
	}
}
