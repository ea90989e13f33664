package model

// IndicatorCategory identifies the kind of intelligence extracted from
// attacker text.
type IndicatorCategory string

const (
	CategoryPaymentID     IndicatorCategory = "payment_id"
	CategoryBankAccount   IndicatorCategory = "bank_account"
	CategoryPhoneNumber   IndicatorCategory = "phone_number"
	CategoryURL           IndicatorCategory = "url"
	CategoryEmail         IndicatorCategory = "email"
	CategorySensitiveCode IndicatorCategory = "sensitive_code"
	CategoryOrganization  IndicatorCategory = "organization"
)

// Categories lists every indicator category in declaration order.
var Categories = []IndicatorCategory{
	CategoryPaymentID,
	CategoryBankAccount,
	CategoryPhoneNumber,
	CategoryURL,
	CategoryEmail,
	CategorySensitiveCode,
	CategoryOrganization,
}

// Indicator is one extracted value. Suspicion is only populated for URLs and
// never gates inclusion; it exists for downstream prioritization. Sensitive
// marks values (OTPs, CVVs, PINs) that must not be echoed into human-readable
// summaries.
type Indicator struct {
	Value     string  `json:"value"`
	Suspicion float64 `json:"suspicion,omitempty"`
	Sensitive bool    `json:"sensitive,omitempty"`
}

// IndicatorSet maps categories to extracted values. Values are append-only
// and deduplicated by exact string equality on insert.
type IndicatorSet map[IndicatorCategory][]Indicator

func NewIndicatorSet() IndicatorSet {
	return make(IndicatorSet)
}

// Add inserts an indicator, ignoring values already present in the category.
// Returns true if the value was new.
func (s IndicatorSet) Add(category IndicatorCategory, ind Indicator) bool {
	for _, existing := range s[category] {
		if existing.Value == ind.Value {
			return false
		}
	}
	s[category] = append(s[category], ind)
	return true
}

// Merge folds another set into this one, deduplicating per category.
func (s IndicatorSet) Merge(other IndicatorSet) {
	for category, indicators := range other {
		for _, ind := range indicators {
			s.Add(category, ind)
		}
	}
}

// Count returns the total number of indicators across all categories.
func (s IndicatorSet) Count() int {
	n := 0
	for _, indicators := range s {
		n += len(indicators)
	}
	return n
}

// Values returns the raw strings for a category, in insertion order.
func (s IndicatorSet) Values(category IndicatorCategory) []string {
	indicators := s[category]
	values := make([]string, len(indicators))
	for i, ind := range indicators {
		values[i] = ind.Value
	}
	return values
}
