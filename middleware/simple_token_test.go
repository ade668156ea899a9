package middleware

import "testing"

func TestIsSimpleTokenValid(t *testing.T) {
	if isSimpleTokenValid([]string{""}, "") {
		t.Error("Expected empty token to always be invalid")
	}

	if isSimpleTokenValid([]string{"FOO"}, "") {
		t.Error("Expected empty token to always be invalid")
	}

	if !isSimpleTokenValid([]string{"FOO"}, "FOO") {
		t.Error("Expected token match")
	}

	if isSimpleTokenValid([]string{"FOO"}, "BAR") {
		t.Error("Expected token mismatch")
	}

	if isSimpleTokenValid([]string{"FOO"}, "FOOBAR") {
		t.Error("Expected token mismatch")
	}
}
