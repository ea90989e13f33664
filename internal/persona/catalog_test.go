package persona_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"chameleon.app/honeypot/internal/model"
	"chameleon.app/honeypot/internal/persona"
)

var _ = Describe("Catalog", func() {
	It("covers all three cover identities", func() {
		Expect(persona.Keys()).To(ConsistOf(
			model.PersonaElderly,
			model.PersonaStudent,
			model.PersonaProfessional,
		))
	})

	It("gives every persona an initial pool", func() {
		for _, key := range persona.Keys() {
			p := persona.Lookup(key)
			Expect(p.Templates[model.PhaseInitial]).NotTo(BeEmpty(), string(key))
		}
	})

	It("gives every persona a non-empty pool for every phase", func() {
		phases := []model.Phase{
			model.PhaseInitial,
			model.PhaseTrustBuilding,
			model.PhaseExtraction,
			model.PhaseVerificationPushback,
			model.PhaseDelay,
			model.PhaseCompletion,
		}
		for _, key := range persona.Keys() {
			p := persona.Lookup(key)
			for _, phase := range phases {
				Expect(p.Templates[phase]).NotTo(BeEmpty(), "%s/%s", key, phase)
			}
		}
	})

	It("defaults unknown keys to the professional persona", func() {
		Expect(persona.Lookup("astronaut").Key).To(Equal(model.PersonaProfessional))
	})

	It("only the elderly persona types clumsily", func() {
		Expect(persona.Lookup(model.PersonaElderly).DisfluencyRate).To(BeNumerically(">", 0))
		Expect(persona.Lookup(model.PersonaStudent).DisfluencyRate).To(BeZero())
		Expect(persona.Lookup(model.PersonaProfessional).DisfluencyRate).To(BeZero())
	})
})
