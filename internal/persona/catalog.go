// Package persona holds the static catalog of cover identities. The catalog
// is an immutable lookup table built at process start; the conversation
// engine indexes it by persona key and phase.
package persona

import "chameleon.app/honeypot/internal/model"

// Persona is one catalog entry. Display attributes are not behaviorally
// significant; Templates and DisfluencyRate are.
type Persona struct {
	Key  model.PersonaKey
	Name string
	Age  int

	// Templates maps each conversation phase to its response pool. A persona
	// missing a pool for a phase falls back to its initial pool.
	Templates map[model.Phase][]string

	// DisfluencyRate is the probability of a cosmetic typo being applied to
	// a reply, giving the persona a less polished voice.
	DisfluencyRate float64
}

var catalog = map[model.PersonaKey]Persona{
	model.PersonaElderly: {
		Key:            model.PersonaElderly,
		Name:           "Ramesh Kumar",
		Age:            68,
		DisfluencyRate: 0.2,
		Templates: map[model.Phase][]string{
			model.PhaseInitial: {
				"Hello? Who is this calling?",
				"I don't understand what you're saying",
				"Can you speak more slowly please?",
			},
			model.PhaseTrustBuilding: {
				"Oh dear, that sounds serious. What should I do?",
				"I'm worried now. Should I tell my son?",
				"This has never happened before. Is it really from the bank?",
			},
			model.PhaseExtraction: {
				"Okay, I'll do whatever you say. Just help me fix this",
				"I don't want any problems. Please guide me",
				"Should I give you my account number? Which one?",
				"Where do I send it? Can you give me the details again?",
			},
			model.PhaseVerificationPushback: {
				"Wait, I should ask my son first...",
				"Can I call you back? I need to check something",
				"Are you sure this is safe?",
			},
			model.PhaseDelay: {
				"My glasses are in the other room, give me a minute",
				"The phone is acting up again, can you repeat that?",
				"I wrote it down somewhere, let me find my notebook",
			},
			model.PhaseCompletion: {
				"Alright, I have everything written down now",
				"Thank you for being so patient with me",
			},
		},
	},
	model.PersonaStudent: {
		Key:  model.PersonaStudent,
		Name: "Priya Sharma",
		Age:  22,
		Templates: map[model.Phase][]string{
			model.PhaseInitial: {
				"Hey, what's this about?",
				"How did you get my number?",
				"This seems weird, can you prove you're legit?",
			},
			model.PhaseTrustBuilding: {
				"Okay I'm listening, what exactly is the issue?",
				"What do I need to do? I'm kinda busy rn",
				"How long will this take?",
			},
			model.PhaseExtraction: {
				"So where am I supposed to send this?",
				"Can you text me the account or the link?",
				"Wait, what's the UPI id again?",
			},
			model.PhaseVerificationPushback: {
				"I've heard about these phishing attempts...",
				"Can I verify this first? What's your employee ID?",
				"Why would the bank contact me like this?",
			},
			model.PhaseDelay: {
				"My class is starting, can this wait an hour?",
				"Network is terrible here, hang on",
				"Let me borrow my roommate's laptop first",
			},
			model.PhaseCompletion: {
				"Ok I think I've got everything",
				"Fine, I'll sort this out later today",
			},
		},
	},
	model.PersonaProfessional: {
		Key:  model.PersonaProfessional,
		Name: "Arun Mehra",
		Age:  42,
		Templates: map[model.Phase][]string{
			model.PhaseInitial: {
				"Good afternoon. What is this regarding?",
				"Could you please state your purpose?",
				"I'd like to verify your credentials first",
			},
			model.PhaseTrustBuilding: {
				"I appreciate you reaching out. What's the ticket number?",
				"Could you provide your employee ID and department?",
				"Let me check this with my relationship manager",
			},
			model.PhaseExtraction: {
				"What are the official payment coordinates?",
				"Please share the documentation for this",
				"I'll need the exact account details in writing before proceeding",
			},
			model.PhaseVerificationPushback: {
				"I'd like to call the main office to confirm this",
				"This doesn't follow standard banking procedure",
				"Please provide an official email address I can verify",
			},
			model.PhaseDelay: {
				"I'm heading into a meeting, send the details over",
				"My assistant handles transfers, I'll loop her in tomorrow",
				"Our finance team reviews these on Fridays",
			},
			model.PhaseCompletion: {
				"I have noted everything down for my records",
				"I'll take it from here, thank you",
			},
		},
	},
}

// Lookup returns the persona for the given key, defaulting to the
// professional persona for unknown keys.
func Lookup(key model.PersonaKey) Persona {
	if p, ok := catalog[key]; ok {
		return p
	}
	return catalog[model.PersonaProfessional]
}

// Keys lists every catalog key.
func Keys() []model.PersonaKey {
	keys := make([]model.PersonaKey, 0, len(catalog))
	for key := range catalog {
		keys = append(keys, key)
	}
	return keys
}
