package router

import "testing"

func TestSessionTokenUniqueAndURLSafe(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := sessionToken()
		if err != nil {
			t.Fatalf("sessionToken() error: %v", err)
		}
		if len(token) < 32 {
			t.Fatalf("token too short: %q", token)
		}
		for _, r := range token {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			default:
				t.Fatalf("token contains non-URL-safe rune %q", r)
			}
		}
		if seen[token] {
			t.Fatalf("duplicate token generated: %q", token)
		}
		seen[token] = true
	}
}
