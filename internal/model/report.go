package model

// ExtractedIntelligence is the category-keyed indicator payload of a final
// report, in the wire shape the reporting endpoint expects.
type ExtractedIntelligence struct {
	UPIIDs               []string `json:"upiIds" jsonschema_description:"Payment handles in user@provider form"`
	BankAccounts         []string `json:"bankAccounts" jsonschema_description:"Bank account numbers, digits only"`
	PhoneNumbers         []string `json:"phoneNumbers" jsonschema_description:"Validated phone numbers as provided"`
	PhishingLinks        []string `json:"phishingLinks" jsonschema_description:"Every URL seen, regardless of suspicion score"`
	Emails               []string `json:"emails" jsonschema_description:"Email addresses"`
	SensitiveCodes       []string `json:"sensitiveCodes,omitempty" jsonschema_description:"OTP/CVV/PIN-like codes; handle as sensitive"`
	ImpersonatedEntities []string `json:"impersonatedEntities,omitempty" jsonschema_description:"Institutions the sender claimed to represent"`

	// LinkSuspicion carries the computed per-URL suspicion sub-score. It is
	// informational only; links are never filtered by it.
	LinkSuspicion map[string]float64 `json:"linkSuspicion,omitempty" jsonschema_description:"Per-URL suspicion score in [0,1]"`
}

// FinalIntelligence is the session finalization payload delivered to the
// external reporting collaborator.
type FinalIntelligence struct {
	SessionID              string                `json:"sessionId" jsonschema_description:"Opaque session identifier"`
	ScamDetected           bool                  `json:"scamDetected"`
	ScamType               ScamType              `json:"scamType,omitempty"`
	TotalMessagesExchanged int                   `json:"totalMessagesExchanged"`
	ExtractedIntelligence  ExtractedIntelligence `json:"extractedIntelligence"`
	AgentNotes             string                `json:"agentNotes" jsonschema_description:"Short human-readable engagement summary"`
}

// ReportIntelligence converts an indicator set into the wire payload.
// Sensitive codes are carried in their own field; they never appear in
// AgentNotes.
func ReportIntelligence(set IndicatorSet) ExtractedIntelligence {
	intel := ExtractedIntelligence{
		UPIIDs:               set.Values(CategoryPaymentID),
		BankAccounts:         set.Values(CategoryBankAccount),
		PhoneNumbers:         set.Values(CategoryPhoneNumber),
		PhishingLinks:        set.Values(CategoryURL),
		Emails:               set.Values(CategoryEmail),
		SensitiveCodes:       set.Values(CategorySensitiveCode),
		ImpersonatedEntities: set.Values(CategoryOrganization),
	}
	for _, link := range set[CategoryURL] {
		if link.Suspicion > 0 {
			if intel.LinkSuspicion == nil {
				intel.LinkSuspicion = make(map[string]float64)
			}
			intel.LinkSuspicion[link.Value] = link.Suspicion
		}
	}
	return intel
}
