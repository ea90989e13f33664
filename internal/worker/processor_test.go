package worker_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"chameleon.app/honeypot/internal/model"
	"chameleon.app/honeypot/internal/queue"
	"chameleon.app/honeypot/internal/worker"
)

var _ = Describe("ReportProcessor", func() {
	var (
		ctx    context.Context
		client *mockReportClient
	)

	BeforeEach(func() {
		ctx = context.Background()
		client = &mockReportClient{}
	})

	It("delivers the decoded report", func() {
		processor := worker.NewReportProcessor(client, nil)

		err := processor.Process(ctx, queue.Message{
			ID:        "1-0",
			SessionID: "session-0001",
			Payload:   []byte(`{"sessionId":"session-0001","scamDetected":true,"totalMessagesExchanged":8}`),
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(client.delivered).To(HaveLen(1))
		Expect(client.delivered[0].SessionID).To(Equal("session-0001"))
		Expect(client.delivered[0].ScamDetected).To(BeTrue())
	})

	It("fails on corrupt payloads", func() {
		processor := worker.NewReportProcessor(client, nil)

		err := processor.Process(ctx, queue.Message{
			ID:        "1-0",
			SessionID: "session-0001",
			Payload:   []byte(`{not json`),
		})

		Expect(err).To(MatchError(ContainSubstring("unmarshaling report payload")))
		Expect(client.delivered).To(BeEmpty())
	})

	It("propagates delivery failures for retry handling", func() {
		client.deliverFn = func(context.Context, model.FinalIntelligence) error {
			return errors.New("endpoint down")
		}
		processor := worker.NewReportProcessor(client, nil)

		err := processor.Process(ctx, queue.Message{
			ID:        "1-0",
			SessionID: "session-0001",
			Payload:   []byte(`{"sessionId":"session-0001"}`),
		})

		Expect(err).To(MatchError(ContainSubstring("delivering report")))
	})
})
