package registry

import (
	"testing"

	"github.com/orcap/tms/internal/domain"
)

func TestDefaultAdvisorIDsUnique(t *testing.T) {
	reg := Default()

	seen := make(map[string]bool)
	for _, a := range reg.Advisors {
		if seen[a.ID] {
			t.Errorf("duplicate advisor ID %q", a.ID)
		}
		seen[a.ID] = true
	}
}

func TestActiveStandardAdvisors(t *testing.T) {
	reg := Default()

	active := reg.ActiveStandardAdvisors()
	if len(active) != 5 {
		t.Fatalf("active standard advisors = %d, want 5", len(active))
	}
	for _, a := range active {
		if a.Role != domain.RoleStandard {
			t.Errorf("advisor %s role = %s, want standard", a.ID, a.Role)
		}
	}
}

func TestOverrideRecipients(t *testing.T) {
	reg := Default()

	recipients := reg.OverrideRecipients()
	if len(recipients) != 1 {
		t.Fatalf("override recipients = %d, want 1", len(recipients))
	}
	if recipients[0].ID != "regent-consulting" {
		t.Errorf("recipient = %s, want regent-consulting", recipients[0].ID)
	}
	if !reg.IsOverrideOnly("regent-consulting") {
		t.Error("IsOverrideOnly(regent-consulting) = false, want true")
	}
	if reg.IsOverrideOnly("maks-balbaev") {
		t.Error("IsOverrideOnly(maks-balbaev) = true, want false")
	}
}

func TestPatternsAreCaseInsensitive(t *testing.T) {
	reg := Default()

	var matched bool
	for _, cp := range reg.ClientPatterns {
		if cp.Pattern.MatchString("payment from barkov alexander") {
			matched = true
			if cp.AdvisorID != "maks-balbaev" {
				t.Errorf("barkov matched advisor %s, want maks-balbaev", cp.AdvisorID)
			}
			break
		}
	}
	if !matched {
		t.Error("lowercase client name did not match any client pattern")
	}
}
