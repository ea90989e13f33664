package engine_test

import (
	"fmt"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"chameleon.app/honeypot/internal/engine"
	"chameleon.app/honeypot/internal/model"
	"chameleon.app/honeypot/internal/persona"
)

// stubRand pins the random source so template selection is deterministic.
type stubRand struct {
	intnFn    func(n int) int
	float64Fn func() float64
}

func (s *stubRand) Intn(n int) int {
	if s.intnFn != nil {
		return s.intnFn(n)
	}
	return 0
}

func (s *stubRand) Float64() float64 {
	if s.float64Fn != nil {
		return s.float64Fn()
	}
	return 1.0 // never roll a disfluency unless the test asks for it
}

var _ = Describe("PhaseForTurn", func() {
	DescribeTable("maps turn counts to phases",
		func(turn int, expected model.Phase) {
			Expect(engine.PhaseForTurn(turn)).To(Equal(expected))
		},
		Entry("turn 1", 1, model.PhaseInitial),
		Entry("turn 2", 2, model.PhaseInitial),
		Entry("turn 3", 3, model.PhaseTrustBuilding),
		Entry("turn 5", 5, model.PhaseTrustBuilding),
		Entry("turn 6", 6, model.PhaseExtraction),
		Entry("turn 15", 15, model.PhaseExtraction),
		Entry("turn 16", 16, model.PhaseVerificationPushback),
		Entry("turn 20", 20, model.PhaseVerificationPushback),
		Entry("turn 21", 21, model.PhaseDelay),
		Entry("turn 25", 25, model.PhaseDelay),
		Entry("turn 26", 26, model.PhaseCompletion),
	)
})

var _ = Describe("Engine", func() {
	var (
		eng  *engine.Engine
		sess *model.Session
		now  time.Time
	)

	BeforeEach(func() {
		eng = engine.New(&stubRand{}, engine.Config{})
		now = time.Now()
		sess = model.NewSession("session-0001", now)
	})

	Describe("Advance", func() {
		It("moves phases forward only", func() {
			last := -1
			for i := 0; i < 30; i++ {
				eng.Advance(sess)
				Expect(sess.Turns).To(Equal(i + 1))
				Expect(sess.Phase.Index()).To(BeNumerically(">=", last))
				last = sess.Phase.Index()
			}
		})
	})

	Describe("Reply", func() {
		It("picks from the pool for the current phase", func() {
			sess.Phase = model.PhaseExtraction
			active := persona.Lookup(model.PersonaElderly)

			reply := eng.Reply(sess, active)
			Expect(active.Templates[model.PhaseExtraction]).To(ContainElement(reply))
		})

		It("is deterministic under a pinned source", func() {
			sess.Phase = model.PhaseTrustBuilding
			active := persona.Lookup(model.PersonaStudent)

			first := eng.Reply(sess, active)
			second := eng.Reply(sess, active)
			Expect(second).To(Equal(first))
			Expect(first).To(Equal(active.Templates[model.PhaseTrustBuilding][0]))
		})

		It("falls back to the initial pool when a phase has none", func() {
			sess.Phase = model.PhaseCompletion
			sparse := persona.Persona{
				Key:  model.PersonaStudent,
				Name: "Test",
				Templates: map[model.Phase][]string{
					model.PhaseInitial: {"hello?"},
				},
			}

			Expect(eng.Reply(sess, sparse)).To(Equal("hello?"))
		})

		It("never perturbs digits or handles", func() {
			rng := &stubRand{float64Fn: func() float64 { return 0.0 }}
			eng = engine.New(rng, engine.Config{})
			sess.Phase = model.PhaseInitial

			clumsy := persona.Persona{
				Key:            model.PersonaElderly,
				Name:           "Test",
				DisfluencyRate: 1.0,
				Templates: map[model.Phase][]string{
					model.PhaseInitial: {"Transfer 9876543210 to ramesh@paytm quickly today"},
				},
			}

			reply := eng.Reply(sess, clumsy)
			Expect(reply).To(ContainSubstring("9876543210"))
			Expect(reply).To(ContainSubstring("ramesh@paytm"))
			Expect(reply).NotTo(Equal(clumsy.Templates[model.PhaseInitial][0]))
		})
	})

	Describe("ShouldContinue", func() {
		It("continues a fresh engagement", func() {
			sess.Turns = 24
			Expect(eng.ShouldContinue(sess, now)).To(BeTrue())
		})

		It("stops at the turn ceiling", func() {
			sess.Turns = 25
			Expect(eng.ShouldContinue(sess, now)).To(BeFalse())
		})

		It("stops once enough intelligence has accrued over enough turns", func() {
			sess.Turns = 8
			sess.Indicators.Add(model.CategoryPaymentID, model.Indicator{Value: "a@upi"})
			sess.Indicators.Add(model.CategoryPhoneNumber, model.Indicator{Value: "9876543210"})
			sess.Indicators.Add(model.CategoryURL, model.Indicator{Value: "http://x.tk"})

			Expect(eng.ShouldContinue(sess, now)).To(BeFalse())
		})

		It("keeps going on early intelligence", func() {
			sess.Turns = 7
			sess.Indicators.Add(model.CategoryPaymentID, model.Indicator{Value: "a@upi"})
			sess.Indicators.Add(model.CategoryPhoneNumber, model.Indicator{Value: "9876543210"})
			sess.Indicators.Add(model.CategoryURL, model.Indicator{Value: "http://x.tk"})

			Expect(eng.ShouldContinue(sess, now)).To(BeTrue())
		})

		It("stops when the session outlives its age ceiling", func() {
			sess.Turns = 3
			Expect(eng.ShouldContinue(sess, now.Add(301*time.Second))).To(BeFalse())
		})
	})
})

var _ = Describe("NewLockedRand", func() {
	It("serves concurrent sessions through one engine", func() {
		eng := engine.New(engine.NewLockedRand(1), engine.DefaultConfig())
		now := time.Now()

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(n int) {
				defer GinkgoRecover()
				defer wg.Done()

				sess := model.NewSession(fmt.Sprintf("session-%04d", n), now)
				active := persona.Lookup(model.PersonaElderly)
				for turn := 0; turn < 20; turn++ {
					eng.Advance(sess)
					Expect(eng.Reply(sess, active)).NotTo(BeEmpty())
				}
			}(i)
		}
		wg.Wait()
	})
})

var _ = Describe("ClosingLine", func() {
	It("reads as a sentence continuation", func() {
		Expect(strings.HasPrefix(engine.ClosingLine, " ")).To(BeTrue())
		Expect(engine.ClosingLine).To(HaveSuffix("Thank you."))
	})
})
