package intel_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"chameleon.app/honeypot/internal/intel"
	"chameleon.app/honeypot/internal/model"
)

var _ = Describe("Extract", func() {
	It("returns an empty set for blank input", func() {
		Expect(intel.Extract("").Count()).To(Equal(0))
		Expect(intel.Extract("   ").Count()).To(Equal(0))
	})

	It("extracts a UPI handle", func() {
		set := intel.Extract("Send the money to ramesh123@paytm before tonight")
		Expect(set.Values(model.CategoryPaymentID)).To(Equal([]string{"ramesh123@paytm"}))
		Expect(set.Values(model.CategoryEmail)).To(BeEmpty())
	})

	It("treats dotted addresses as emails, not payment handles", func() {
		set := intel.Extract("Reply to support@fraudbank.com for the refund")
		Expect(set.Values(model.CategoryEmail)).To(Equal([]string{"support@fraudbank.com"}))
		Expect(set.Values(model.CategoryPaymentID)).To(BeEmpty())
	})

	It("extracts a valid mobile number", func() {
		set := intel.Extract("Call me back on 9876543210 immediately")
		Expect(set.Values(model.CategoryPhoneNumber)).To(ContainElement("9876543210"))
	})

	It("keeps 10-digit mobiles in the account pool as well", func() {
		// A bare 10-digit number is syntactically both; downstream triage
		// gets to decide, not the extractor.
		set := intel.Extract("Transfer to 9876543210 now")
		Expect(set.Values(model.CategoryBankAccount)).To(ContainElement("9876543210"))
	})

	It("accepts the 91 country prefix", func() {
		set := intel.Extract("My number is +91 9123456789")
		Expect(set.Values(model.CategoryPhoneNumber)).To(ContainElement("+91 9123456789"))
	})

	It("rejects numbers outside the mobile leading-digit range", func() {
		set := intel.Extract("Reference 5876543210 for your complaint")
		Expect(set.Values(model.CategoryPhoneNumber)).To(BeEmpty())
	})

	It("normalizes spaced account numbers to digits", func() {
		set := intel.Extract("Deposit into account 1234 5678 9012 today")
		Expect(set.Values(model.CategoryBankAccount)).To(ContainElement("123456789012"))
	})

	It("retains every URL regardless of suspicion", func() {
		set := intel.Extract("Details at https://example.com/page")
		Expect(set.Values(model.CategoryURL)).To(Equal([]string{"https://example.com/page"}))
		Expect(set[model.CategoryURL][0].Suspicion).To(BeZero())
	})

	It("scores abusive links without filtering them", func() {
		set := intel.Extract("Complete it here http://kyc-update.tk/verify")
		urls := set[model.CategoryURL]
		Expect(urls).To(HaveLen(1))
		Expect(urls[0].Value).To(Equal("http://kyc-update.tk/verify"))
		Expect(urls[0].Suspicion).To(BeNumerically(">", 0))
	})

	It("catches bare shortener links", func() {
		set := intel.Extract("Click bit.ly/a1b2c3 to claim")
		Expect(set.Values(model.CategoryURL)).To(ContainElement("bit.ly/a1b2c3"))
	})

	It("flags OTP-like codes as sensitive", func() {
		set := intel.Extract("Your OTP is 482913, do not share it")
		codes := set[model.CategorySensitiveCode]
		Expect(codes).To(HaveLen(1))
		Expect(codes[0].Value).To(Equal("482913"))
		Expect(codes[0].Sensitive).To(BeTrue())
	})

	It("extracts impersonated organizations", func() {
		set := intel.Extract("I am calling from SBI about your card")
		Expect(set.Values(model.CategoryOrganization)).To(ContainElement("SBI"))
	})

	It("deduplicates repeated values within a message", func() {
		set := intel.Extract("Use 9876543210, I repeat 9876543210")
		Expect(set.Values(model.CategoryPhoneNumber)).To(Equal([]string{"9876543210"}))
	})
})

var _ = Describe("URLSuspicion", func() {
	DescribeTable("scores",
		func(rawURL string, expected float64) {
			Expect(intel.URLSuspicion(rawURL)).To(BeNumerically("~", expected, 1e-9))
		},
		Entry("benign host and path", "https://example.com/page", 0.0),
		Entry("abuse TLD", "http://free-money.tk/", 0.4),
		Entry("abuse TLD with phishing path", "http://kyc-update.tk/verify", 0.55),
		Entry("shortener host", "https://bit.ly/a1b2c3", 0.3),
		Entry("stacked path keywords", "https://example.com/secure/login/verify", 0.45),
	)
})
