package quote

import (
	"context"

	"github.com/goliatone/go-formwizard/pkg/action"
	"github.com/goliatone/go-formwizard/pkg/field"
)

// Action names registered on the quote wizard.
const (
	ActionUpdate                  = "update"
	ActionSign                    = "sign"
	ActionUnsign                  = "unsign"
	ActionDownloadQuote           = "downloadQuote"
	ActionDownloadSignaturePacket = "downloadSignaturePacket"
	ActionDownloadGTC             = "downloadGTC"
	ActionRequestHigherLimits     = "requestHigherLimits"
	ActionEditApplication         = "editApplication"
	ActionPurchase                = "purchase"
)

// State exposes the quote the actions operate on. It is read when an action
// runs, not when the action set is built.
type State interface {
	Quote() *Quote
	Restriction() *Restriction
}

// ActionConfig binds the quote actions to their collaborators.
type ActionConfig struct {
	Service Service
	State   State
	Roles   Roles
	Terms   Terms
}

// SignResult is the payload of the sign action.
type SignResult struct {
	Quote *Quote
}

// PurchaseResult is the payload of the purchase action.
type PurchaseResult struct {
	Params map[string]string
}

// Actions builds the action set of the quote wizard.
func Actions(cfg ActionConfig) []action.Action {
	b := binder{cfg: cfg}
	if b.cfg.Terms == (Terms{}) {
		b.cfg.Terms = DefaultTerms
	}
	return []action.Action{
		{Name: ActionUpdate, Fields: OptionFields, Run: b.update},
		{Name: ActionSign, Fields: SignatureFields(), Run: b.sign},
		{Name: ActionUnsign, Run: b.unsign},
		{Name: ActionDownloadQuote, Fields: OptionFields, Run: b.downloadQuote},
		{Name: ActionDownloadSignaturePacket, Fields: []string{FieldStartDate}, Run: b.downloadSignaturePacket},
		{Name: ActionDownloadGTC, Fields: []string{FieldDnoLevel, FieldEplLevel, FieldEoLevel}, Run: b.downloadGTC},
		{Name: ActionRequestHigherLimits, Fields: []string{FieldStartDate}, Run: b.requestHigherLimits},
		{Name: ActionEditApplication, Fields: []string{FieldStartDate}, Run: b.editApplication},
		{Name: ActionPurchase, Run: b.purchase},
	}
}

type binder struct {
	cfg ActionConfig
}

func (b binder) current() (*Quote, error) {
	q := b.cfg.State.Quote()
	if q == nil {
		return nil, action.InvalidArgument("quote", nil)
	}
	return q, nil
}

func (b binder) update(ctx context.Context, rec field.Record) (action.Outcome, error) {
	q, err := b.current()
	if err != nil {
		return action.Outcome{}, err
	}
	restriction := b.cfg.State.Restriction()
	opts := ToOptions(rec, restriction.PartnerCodeDisabled())
	next, err := b.cfg.Service.Requote(ctx, q.ApplicationID, opts)
	if err != nil {
		return action.Outcome{}, err
	}
	baseline := InitialRecord(next, restriction, rec.String(FieldPartnerCode))
	return action.Outcome{Payload: next, Record: baseline}, nil
}

// SignatureFields lists the fields the sign action validates: every quote
// option plus the signatures. Signature validators only insist on the boxes
// the session role has to tick.
func SignatureFields() []string {
	out := append([]string(nil), OptionFields...)
	return append(out, FieldAgreementToConductSignature, FieldWarrantyAndFraudSignature, FieldBrokerSignature)
}

func (b binder) sign(ctx context.Context, _ field.Record) (action.Outcome, error) {
	q, err := b.current()
	if err != nil {
		return action.Outcome{}, err
	}
	next, err := b.cfg.Service.Sign(ctx, q)
	if err != nil {
		return action.Outcome{}, err
	}
	return action.Outcome{Payload: SignResult{Quote: next}}, nil
}

func (b binder) unsign(ctx context.Context, _ field.Record) (action.Outcome, error) {
	q, err := b.current()
	if err != nil {
		return action.Outcome{}, err
	}
	if q.Status != StatusSigned {
		return action.Outcome{Payload: SignResult{Quote: q}}, nil
	}
	next, err := b.cfg.Service.Unsign(ctx, q)
	if err != nil {
		return action.Outcome{}, err
	}
	return action.Outcome{Payload: SignResult{Quote: next}}, nil
}

func (b binder) downloadQuote(ctx context.Context, _ field.Record) (action.Outcome, error) {
	q, err := b.current()
	if err != nil {
		return action.Outcome{}, err
	}
	url, err := b.cfg.Service.QuoteDocumentURL(ctx, q, FromQuote(q))
	if err != nil {
		return action.Outcome{}, err
	}
	return action.Outcome{Payload: Document{URL: url, FileName: fileName(url)}}, nil
}

func (b binder) downloadSignaturePacket(ctx context.Context, _ field.Record) (action.Outcome, error) {
	q, err := b.current()
	if err != nil {
		return action.Outcome{}, err
	}
	url, err := b.cfg.Service.SignaturePacketURL(ctx, q.ApplicationID, q.ID)
	if err != nil {
		return action.Outcome{}, err
	}
	return action.Outcome{Payload: Document{URL: url, FileName: fileName(url)}}, nil
}

func (b binder) downloadGTC(context.Context, field.Record) (action.Outcome, error) {
	q, err := b.current()
	if err != nil {
		return action.Outcome{}, err
	}
	return action.Outcome{Payload: b.cfg.Terms.TermsDocument(q)}, nil
}

func (b binder) requestHigherLimits(ctx context.Context, _ field.Record) (action.Outcome, error) {
	q, err := b.current()
	if err != nil {
		return action.Outcome{}, err
	}
	if err := b.cfg.Service.RequestHigherLimits(ctx, q.ApplicationID, b.cfg.Roles.Broker); err != nil {
		return action.Outcome{}, err
	}
	return action.Outcome{}, nil
}

func (b binder) editApplication(ctx context.Context, _ field.Record) (action.Outcome, error) {
	q, err := b.current()
	if err != nil {
		return action.Outcome{}, err
	}
	if err := b.cfg.Service.EditApplication(ctx, q.ApplicationID); err != nil {
		return action.Outcome{}, err
	}
	return action.Outcome{}, nil
}

func (b binder) purchase(ctx context.Context, _ field.Record) (action.Outcome, error) {
	q, err := b.current()
	if err != nil {
		return action.Outcome{}, err
	}
	params, err := b.cfg.Service.Purchase(ctx, q)
	if err != nil {
		return action.Outcome{}, err
	}
	return action.Outcome{Payload: PurchaseResult{Params: params}}, nil
}
