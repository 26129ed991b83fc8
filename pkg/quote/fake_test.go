package quote

import (
	"context"
	"sync"
	"time"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

func sampleQuote() *Quote {
	return &Quote{
		ID:            "q-1",
		ApplicationID: "app-1",
		Status:        StatusDraft,
		DaysToExpire:  30,
		EffectiveDate: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		Coverages: []Coverage{
			{Type: CoverageDNO, Limit: 1000000, Retention: 10000, Selected: false, Level: LevelStandard},
			{Type: CoverageEPL, Limit: 2000000, Retention: 10000, Selected: true, Level: LevelStandard},
			{Type: CoverageFiduciary, Limit: 1000000, Selected: false},
			{Type: CoverageEO, Limit: 1000000, Retention: 2500, Selected: false, Level: LevelPlus},
		},
		TotalPayable: 4200,
	}
}

type fakeService struct {
	mu    sync.Mutex
	calls []string

	quote       *Quote
	restriction *Restriction
	requote     func(Options) (*Quote, error)
	purchase    map[string]string
}

var _ Service = (*fakeService)(nil)

func (f *fakeService) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func withStatus(q *Quote, status Status) *Quote {
	out := *q
	out.Status = status
	return &out
}

func (f *fakeService) InitialQuote(context.Context, string, string) (*Quote, error) {
	f.record("initial")
	return f.quote, nil
}

func (f *fakeService) Restriction(context.Context, string) (*Restriction, error) {
	f.record("restriction")
	return f.restriction, nil
}

func (f *fakeService) Requote(_ context.Context, _ string, opts Options) (*Quote, error) {
	f.record("requote")
	if f.requote != nil {
		return f.requote(opts)
	}
	q := *f.quote
	q.ID = "q-2"
	q.Coverages = opts.Coverages
	q.EffectiveDate = opts.EffectiveDate
	return &q, nil
}

func (f *fakeService) Sign(_ context.Context, q *Quote) (*Quote, error) {
	f.record("sign")
	return withStatus(q, StatusSigned), nil
}

func (f *fakeService) Unsign(_ context.Context, q *Quote) (*Quote, error) {
	f.record("unsign")
	return withStatus(q, StatusDraft), nil
}

func (f *fakeService) Refer(_ context.Context, q *Quote) (*Quote, error) {
	f.record("refer")
	return withStatus(q, StatusReferred), nil
}

func (f *fakeService) Draft(_ context.Context, q *Quote) (*Quote, error) {
	f.record("draft")
	return withStatus(q, StatusDraft), nil
}

func (f *fakeService) QuoteDocumentURL(context.Context, *Quote, Options) (string, error) {
	f.record("document")
	return "https://files.test/quotes/q-1.pdf", nil
}

func (f *fakeService) SignaturePacketURL(context.Context, string, string) (string, error) {
	f.record("packet")
	return "https://files.test/packets/q-1.pdf", nil
}

func (f *fakeService) RequestHigherLimits(context.Context, string, bool) error {
	f.record("higherLimits")
	return nil
}

func (f *fakeService) EditApplication(context.Context, string) error {
	f.record("edit")
	return nil
}

func (f *fakeService) Purchase(context.Context, *Quote) (map[string]string, error) {
	f.record("purchase")
	return f.purchase, nil
}
