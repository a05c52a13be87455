package policy

import "testing"

func TestPremium(t *testing.T) {
	c := NewChecker(nil)

	if c.Premium("free", false) {
		t.Fatal("free plan must not be premium")
	}
	if !c.Premium("premium", false) {
		t.Fatal("premium plan must be premium")
	}
	// sponsorship overrides any plan
	if !c.Premium("free", true) {
		t.Fatal("sponsored account must be premium")
	}
	if c.Premium("unknown", false) {
		t.Fatal("unknown plan must not be premium")
	}
}

func TestHasWildcard(t *testing.T) {
	c := NewChecker(map[string][]string{
		"staff": {"subject:*"},
		"root":  {"*"},
	})
	if !c.Has("staff", "subject:unlimited") {
		t.Fatal("prefix wildcard should match")
	}
	if c.Has("staff", "grade:delete") {
		t.Fatal("prefix wildcard must not match other scopes")
	}
	if !c.Has("root", "anything:at-all") {
		t.Fatal("star should match everything")
	}
}
