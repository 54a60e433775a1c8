package payment

import "strings"

// Rule maps a card number to a decision. Exact rules match the full number,
// prefix rules match its leading digits.
type Rule struct {
	Match  string
	Status Status
	Reason string
}

// DecisionTable decides an authorization outcome from a normalized card
// number.
//
// Evaluation order: Exact, then (only for numbers of CardLength digits)
// Prefixes, then Fallback.
type DecisionTable struct {
	CardLength int
	Exact      []Rule
	Prefixes   []Rule
	Fallback   Rule
}

// Reasons reported by the default table
const (
	ReasonCardRejected  = "card rejected"
	ReasonBadCardNumber = "bad card number"
	ReasonBadAmount     = "bad amount"
)

// DefaultDecisionTable reproduces the test-mode behaviour of the app's card
// form: two test vectors, then simulated success for Visa and Mastercard
// prefixes.
var DefaultDecisionTable = DecisionTable{
	CardLength: 16,
	Exact: []Rule{
		{Match: "4242424242424242", Status: StatusApproved},
		{Match: "4000000000000002", Status: StatusDeclined, Reason: ReasonCardRejected},
	},
	Prefixes: []Rule{
		{Match: "4", Status: StatusApproved},
		{Match: "5", Status: StatusApproved},
	},
	Fallback: Rule{Status: StatusInvalid, Reason: ReasonBadCardNumber},
}

// Decide returns the status and reason for a normalized card number
func (t DecisionTable) Decide(cardNumber string) (Status, string) {
	for _, r := range t.Exact {
		if cardNumber == r.Match {
			return r.Status, r.Reason
		}
	}

	if len(cardNumber) == t.CardLength && isDigits(cardNumber) {
		for _, r := range t.Prefixes {
			if strings.HasPrefix(cardNumber, r.Match) {
				return r.Status, r.Reason
			}
		}
	}

	return t.Fallback.Status, t.Fallback.Reason
}

// NormalizeCardNumber drops the spaces and dashes the card field inserts
// between digit groups
func NormalizeCardNumber(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r == ' ' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
