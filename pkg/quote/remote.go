package quote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-formwizard/pkg/action"
)

// Remote operation names used by RemoteService.
const (
	OpInitialQuote        = "quote.initial"
	OpRestriction         = "quote.restriction"
	OpRequote             = "quote.requote"
	OpSign                = "quote.sign"
	OpUnsign              = "quote.unsign"
	OpRefer               = "quote.refer"
	OpDraft               = "quote.draft"
	OpQuoteDocument       = "quote.document"
	OpSignaturePacket     = "quote.signaturePacket"
	OpRequestHigherLimits = "quote.requestHigherLimits"
	OpEditApplication     = "application.edit"
	OpPurchase            = "quote.purchase"
)

// RemoteService implements Service on top of an action.Executor, typically an
// action.HTTPExecutor.
type RemoteService struct {
	exec action.Executor
}

// NewRemoteService returns a Service backed by exec.
func NewRemoteService(exec action.Executor) *RemoteService {
	return &RemoteService{exec: exec}
}

var _ Service = (*RemoteService)(nil)

func (s *RemoteService) InitialQuote(ctx context.Context, applicationID, partnerCode string) (*Quote, error) {
	return s.quote(ctx, OpInitialQuote, map[string]any{"applicationId": applicationID, "partnerCode": partnerCode})
}

func (s *RemoteService) Restriction(ctx context.Context, applicationID string) (*Restriction, error) {
	payload, err := s.exec.Execute(ctx, OpRestriction, map[string]any{"insuranceApplicationId": applicationID})
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}
	var envelope struct {
		Restriction *Restriction `json:"restriction"`
	}
	if err := decodePayload(payload, &envelope); err != nil {
		return nil, err
	}
	return envelope.Restriction, nil
}

func (s *RemoteService) Requote(ctx context.Context, applicationID string, opts Options) (*Quote, error) {
	return s.quote(ctx, OpRequote, map[string]any{"applicationId": applicationID, "espQuoteOptions": opts})
}

func (s *RemoteService) Sign(ctx context.Context, q *Quote) (*Quote, error) {
	return s.quote(ctx, OpSign, map[string]any{"quote": q})
}

func (s *RemoteService) Unsign(ctx context.Context, q *Quote) (*Quote, error) {
	return s.quote(ctx, OpUnsign, map[string]any{"quote": q})
}

func (s *RemoteService) Refer(ctx context.Context, q *Quote) (*Quote, error) {
	return s.quote(ctx, OpRefer, map[string]any{"quote": q})
}

func (s *RemoteService) Draft(ctx context.Context, q *Quote) (*Quote, error) {
	return s.quote(ctx, OpDraft, map[string]any{"quote": q})
}

func (s *RemoteService) QuoteDocumentURL(ctx context.Context, q *Quote, opts Options) (string, error) {
	return s.url(ctx, OpQuoteDocument, map[string]any{
		"applicationId":   q.ApplicationID,
		"quoteId":         q.ID,
		"espQuoteOptions": opts,
		"fileKey":         q.FileKey,
	})
}

func (s *RemoteService) SignaturePacketURL(ctx context.Context, applicationID, quoteID string) (string, error) {
	return s.url(ctx, OpSignaturePacket, map[string]any{"applicationId": applicationID, "quoteId": quoteID})
}

func (s *RemoteService) RequestHigherLimits(ctx context.Context, applicationID string, broker bool) error {
	_, err := s.exec.Execute(ctx, OpRequestHigherLimits, map[string]any{"applicationId": applicationID, "broker": broker})
	return err
}

func (s *RemoteService) EditApplication(ctx context.Context, applicationID string) error {
	_, err := s.exec.Execute(ctx, OpEditApplication, map[string]any{"applicationId": applicationID})
	return err
}

func (s *RemoteService) Purchase(ctx context.Context, q *Quote) (map[string]string, error) {
	payload, err := s.exec.Execute(ctx, OpPurchase, map[string]any{"quote": q})
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	if payload == nil {
		return out, nil
	}
	if err := decodePayload(payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RemoteService) quote(ctx context.Context, op string, args map[string]any) (*Quote, error) {
	payload, err := s.exec.Execute(ctx, op, args)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Quote *Quote `json:"quote"`
	}
	if err := decodePayload(payload, &envelope); err != nil {
		return nil, err
	}
	if envelope.Quote == nil {
		return nil, action.Fail(action.CodeInternal, fmt.Sprintf("%s: response carries no quote", op))
	}
	return envelope.Quote, nil
}

func (s *RemoteService) url(ctx context.Context, op string, args map[string]any) (string, error) {
	payload, err := s.exec.Execute(ctx, op, args)
	if err != nil {
		return "", err
	}
	var envelope struct {
		DocumentURL string `json:"documentUrl"`
	}
	if err := decodePayload(payload, &envelope); err != nil {
		return "", err
	}
	if envelope.DocumentURL == "" {
		return "", action.Fail(action.CodeInternal, fmt.Sprintf("%s: response carries no document url", op))
	}
	return envelope.DocumentURL, nil
}

// decodePayload converts the loosely typed executor payload into out.
func decodePayload(payload any, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("quote: encode payload: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("quote: decode payload: %w", err)
	}
	return nil
}
