package model_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"chameleon.app/honeypot/internal/model"
)

var _ = Describe("Session", func() {
	It("confirms exactly once", func() {
		sess := model.NewSession("session-0001", time.Now())

		sess.Confirm(model.ScamTypeBanking, model.PersonaElderly)
		sess.Confirm(model.ScamTypeLottery, model.PersonaStudent)

		Expect(sess.ScamDetected).To(BeTrue())
		Expect(sess.ScamType).To(Equal(model.ScamTypeBanking))
		Expect(sess.Persona).To(Equal(model.PersonaElderly))
	})

	It("tracks age from creation and idle from last activity", func() {
		created := time.Now()
		sess := model.NewSession("session-0001", created)
		sess.LastActivity = created.Add(2 * time.Minute)

		at := created.Add(5 * time.Minute)
		Expect(sess.Age(at)).To(Equal(5 * time.Minute))
		Expect(sess.Idle(at)).To(Equal(3 * time.Minute))
	})
})

var _ = Describe("IndicatorSet", func() {
	It("deduplicates per category, not across categories", func() {
		set := model.NewIndicatorSet()

		Expect(set.Add(model.CategoryPhoneNumber, model.Indicator{Value: "9876543210"})).To(BeTrue())
		Expect(set.Add(model.CategoryPhoneNumber, model.Indicator{Value: "9876543210"})).To(BeFalse())
		Expect(set.Add(model.CategoryBankAccount, model.Indicator{Value: "9876543210"})).To(BeTrue())

		Expect(set.Count()).To(Equal(2))
	})

	It("merges without duplicating", func() {
		a := model.NewIndicatorSet()
		a.Add(model.CategoryEmail, model.Indicator{Value: "x@fraud.com"})

		b := model.NewIndicatorSet()
		b.Add(model.CategoryEmail, model.Indicator{Value: "x@fraud.com"})
		b.Add(model.CategoryEmail, model.Indicator{Value: "y@fraud.com"})

		a.Merge(b)
		Expect(a.Values(model.CategoryEmail)).To(Equal([]string{"x@fraud.com", "y@fraud.com"}))
	})
})

var _ = Describe("ReportIntelligence", func() {
	It("carries url suspicion scores without filtering links", func() {
		set := model.NewIndicatorSet()
		set.Add(model.CategoryURL, model.Indicator{Value: "http://kyc-update.tk/verify", Suspicion: 0.55})
		set.Add(model.CategoryURL, model.Indicator{Value: "https://example.com"})

		intel := model.ReportIntelligence(set)

		Expect(intel.PhishingLinks).To(HaveLen(2))
		Expect(intel.LinkSuspicion).To(HaveKeyWithValue("http://kyc-update.tk/verify", 0.55))
		Expect(intel.LinkSuspicion).NotTo(HaveKey("https://example.com"))
	})

	It("separates sensitive codes from the rest", func() {
		set := model.NewIndicatorSet()
		set.Add(model.CategorySensitiveCode, model.Indicator{Value: "482913", Sensitive: true})

		intel := model.ReportIntelligence(set)
		Expect(intel.SensitiveCodes).To(Equal([]string{"482913"}))
	})
})
