package quote

import (
	"context"
)

// Service performs the remote quote use cases. Implementations return
// *action.Failure for domain rejections and honour ctx cancellation.
type Service interface {
	InitialQuote(ctx context.Context, applicationID, partnerCode string) (*Quote, error)
	Restriction(ctx context.Context, applicationID string) (*Restriction, error)
	Requote(ctx context.Context, applicationID string, opts Options) (*Quote, error)
	Sign(ctx context.Context, q *Quote) (*Quote, error)
	Unsign(ctx context.Context, q *Quote) (*Quote, error)
	Refer(ctx context.Context, q *Quote) (*Quote, error)
	Draft(ctx context.Context, q *Quote) (*Quote, error)
	QuoteDocumentURL(ctx context.Context, q *Quote, opts Options) (string, error)
	SignaturePacketURL(ctx context.Context, applicationID, quoteID string) (string, error)
	RequestHigherLimits(ctx context.Context, applicationID string, broker bool) error
	EditApplication(ctx context.Context, applicationID string) error
	Purchase(ctx context.Context, q *Quote) (map[string]string, error)
}
