package domain

// AdvisorRole distinguishes revenue-earning advisors from override-only recipients.
type AdvisorRole string

const (
	// RoleStandard advisors earn revenue, pay expenses and participate in the
	// full waterfall.
	RoleStandard AdvisorRole = "standard"
	// RoleOverrideOnly recipients receive only the operations-override leg on
	// inherited clients. They never earn a 70% share, never pay expenses and
	// never hold a settlement balance.
	RoleOverrideOnly AdvisorRole = "override-only"
)

// OperationsOverrideID is the pseudo-advisor identity used by attribution rules
// for payments belonging to the operations-override recipient rather than to a
// revenue-earning advisor.
const OperationsOverrideID = "operations-override"

// Client is a client account owned by exactly one primary advisor.
// SharedWith is a non-owning reference to a second advisor for joint clients.
type Client struct {
	Name       string `json:"name"`
	AccountRef string `json:"accountRef"`
	SharedWith string `json:"sharedWith,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// Advisor is a member of the firm. The ID is unique and immutable.
type Advisor struct {
	ID           string      `json:"id"`
	DisplayName  string      `json:"displayName"`
	Company      string      `json:"company,omitempty"`
	Role         AdvisorRole `json:"role"`
	Active       bool        `json:"active"`
	BankPatterns []string    `json:"bankPatterns,omitempty"`
	PaymentName  string      `json:"paymentName,omitempty"`
	Clients      []Client    `json:"clients,omitempty"`
}
