package testutil

import "testing"

// Given, When and Then name nested subtests after the scenario step they run.
func Given(t *testing.T, desc string, fn func(t *testing.T)) { step(t, "Given", desc, fn) }

func When(t *testing.T, desc string, fn func(t *testing.T)) { step(t, "When", desc, fn) }

func Then(t *testing.T, desc string, fn func(t *testing.T)) { step(t, "Then", desc, fn) }

func step(t *testing.T, keyword, desc string, fn func(t *testing.T)) {
	t.Helper()
	if !t.Run(keyword+" "+desc, fn) && keyword == "Given" {
		t.FailNow()
	}
}
