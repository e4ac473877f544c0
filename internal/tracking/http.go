package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// HTTPSubmitter posts the payload as JSON to the submission endpoint,
// carrying the anti-forgery token the page context supplied. No timeout or
// retry is applied here: cancellation and deadlines belong to the caller's
// context.
type HTTPSubmitter struct {
	Client    *http.Client
	URL       string
	CSRFToken string
}

func (s *HTTPSubmitter) Submit(ctx context.Context, payload SubmissionPayload) (SubmitResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return SubmitResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CSRF-Token", s.CSRFToken)

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return SubmitResult{}, err
	}
	defer resp.Body.Close()

	var result SubmitResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return SubmitResult{}, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}
