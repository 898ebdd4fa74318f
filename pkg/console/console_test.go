package console

import (
	"strings"
	"testing"
)

func TestFormatErrorMessage(t *testing.T) {
	got := FormatErrorMessage("something went wrong")
	if !strings.Contains(got, "something went wrong") {
		t.Errorf("FormatErrorMessage output %q does not contain the message", got)
	}
	if !strings.Contains(got, "✗") {
		t.Errorf("FormatErrorMessage output %q missing the ✗ marker", got)
	}
}
