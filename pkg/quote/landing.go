package quote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/action"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// LandingConfig configures a LandingPage.
type LandingConfig struct {
	ApplicationID string
	PartnerCode   string
	Roles         Roles
	Service       Service
	Terms         Terms
	Now           func() time.Time
	Navigate      func(Route)
	Logger        *zap.Logger
}

// LandingPage keeps a quote and the wizard that edits it in step: replacing
// the quote resets the form, quotes above the allowed limits are referred
// while still drafts, and a referred quote is drafted again as soon as the
// form is edited.
type LandingPage struct {
	cfg    LandingConfig
	logger *zap.Logger
	ctrl   *wizard.Controller

	mu                    sync.Mutex
	quote                 *Quote
	restriction           *Restriction
	higherLimitsRequested bool
}

// NewLandingPage builds the quote wizard. Call Load or SetQuote before
// dispatching actions.
func NewLandingPage(cfg LandingConfig, options ...wizard.Option) (*LandingPage, error) {
	if cfg.Service == nil {
		return nil, errors.New("quote: service is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Navigate == nil {
		cfg.Navigate = func(Route) {}
	}

	l := &LandingPage{cfg: cfg, logger: cfg.Logger}
	fields, err := Fields(Context{Roles: cfg.Roles, Now: cfg.Now})
	if err != nil {
		return nil, fmt.Errorf("quote: %w", err)
	}
	opts := append([]wizard.Option{wizard.WithLogger(cfg.Logger)}, options...)
	ctrl, err := wizard.New(wizard.Config{
		Fields:  fields,
		Pages:   Pages(),
		Actions: Actions(ActionConfig{Service: cfg.Service, State: l, Roles: cfg.Roles, Terms: cfg.Terms}),
		Initial: InitialRecord(nil, nil, cfg.PartnerCode),
		Facts:   Facts(nil, cfg.Roles),
	}, opts...)
	if err != nil {
		return nil, err
	}
	l.ctrl = ctrl
	return l, nil
}

// Controller returns the underlying wizard.
func (l *LandingPage) Controller() *wizard.Controller {
	return l.ctrl
}

// Quote returns the current quote.
func (l *LandingPage) Quote() *Quote {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.quote
}

// Restriction returns the application restriction, if loaded.
func (l *LandingPage) Restriction() *Restriction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.restriction
}

// Load fetches the restriction and the initial quote. A failed restriction
// lookup is logged and treated as unrestricted.
func (l *LandingPage) Load(ctx context.Context) error {
	restriction, err := l.cfg.Service.Restriction(ctx, l.cfg.ApplicationID)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return action.ErrCanceled
		}
		l.logger.Warn("quote restriction lookup failed",
			zap.String("applicationId", l.cfg.ApplicationID),
			zap.Error(err))
		restriction = nil
	}
	l.mu.Lock()
	l.restriction = restriction
	l.mu.Unlock()

	q, err := l.cfg.Service.InitialQuote(ctx, l.cfg.ApplicationID, l.cfg.PartnerCode)
	if err != nil {
		return fmt.Errorf("quote: load initial quote: %w", err)
	}
	return l.SetQuote(ctx, q)
}

// SetQuote replaces the quote and resets the form to its values. Any
// in-flight action is abandoned.
func (l *LandingPage) SetQuote(ctx context.Context, q *Quote) error {
	l.mu.Lock()
	l.quote = q
	restriction := l.restriction
	l.mu.Unlock()

	if err := l.ctrl.Reset(InitialRecord(q, restriction, l.cfg.PartnerCode), Facts(q, l.cfg.Roles)); err != nil {
		return err
	}
	return l.referIfNeeded(ctx)
}

// adopt swaps the quote reference without touching the form values.
func (l *LandingPage) adopt(q *Quote) error {
	if q == nil {
		return nil
	}
	l.mu.Lock()
	l.quote = q
	l.mu.Unlock()
	return l.ctrl.SetFacts(Facts(q, l.cfg.Roles))
}

func (l *LandingPage) referIfNeeded(ctx context.Context) error {
	q, restriction := l.Quote(), l.Restriction()
	if q == nil || q.Status != StatusDraft || !HasHigherLimits(q, restriction) {
		return nil
	}
	referred, err := l.cfg.Service.Refer(ctx, q)
	if err != nil {
		return fmt.Errorf("quote: refer: %w", err)
	}
	l.logger.Info("quote referred for higher limits", zap.String("quoteId", q.ID))
	return l.adopt(referred)
}

// Set updates a form field. Editing a referred quote turns it back into a
// draft so it can be requoted.
func (l *LandingPage) Set(ctx context.Context, name string, value any) error {
	setErr := l.ctrl.Set(name, value)
	if errors.Is(setErr, wizard.ErrClosed) || errors.Is(setErr, wizard.ErrUnknownField) {
		return setErr
	}
	if err := l.draftIfNeeded(ctx); err != nil {
		return err
	}
	return setErr
}

func (l *LandingPage) draftIfNeeded(ctx context.Context) error {
	q := l.Quote()
	if q == nil || q.Status != StatusReferred || l.ctrl.Status() != wizard.StatusDirty {
		return nil
	}
	drafted, err := l.cfg.Service.Draft(ctx, q)
	if err != nil {
		return fmt.Errorf("quote: draft: %w", err)
	}
	return l.adopt(drafted)
}

// Dispatch runs a wizard action and applies its effects on the quote and the
// navigation.
func (l *LandingPage) Dispatch(ctx context.Context, name string) (action.Outcome, error) {
	out, err := l.ctrl.Dispatch(ctx, name)
	if err != nil {
		return out, err
	}
	return out, l.apply(ctx, out)
}

func (l *LandingPage) apply(ctx context.Context, out action.Outcome) error {
	q := l.Quote()
	switch out.Action {
	case ActionUpdate:
		next, _ := out.Payload.(*Quote)
		if err := l.adopt(next); err != nil {
			return err
		}
		return l.referIfNeeded(ctx)
	case ActionSign, ActionUnsign:
		res, _ := out.Payload.(SignResult)
		if res.Quote == nil {
			return nil
		}
		return l.SetQuote(ctx, res.Quote)
	case ActionDownloadQuote, ActionDownloadSignaturePacket, ActionDownloadGTC:
		if doc, ok := out.Payload.(Document); ok {
			l.cfg.Navigate(open(doc))
		}
	case ActionRequestHigherLimits:
		l.mu.Lock()
		l.higherLimitsRequested = true
		l.mu.Unlock()
		if !l.cfg.Roles.Broker {
			l.cfg.Navigate(navigate(PathSummary, nil))
		}
	case ActionEditApplication:
		query := url.Values{}
		if q != nil {
			query.Set("applicationId", q.ApplicationID)
		}
		l.cfg.Navigate(navigate(PathEditApplication, query))
	case ActionPurchase:
		res, _ := out.Payload.(PurchaseResult)
		l.cfg.Navigate(purchaseRoute(q, l.cfg.Roles.Broker, res.Params))
	}
	return nil
}

// Close releases the wizard.
func (l *LandingPage) Close() {
	l.ctrl.Close()
}

// MenuItem is an entry of the quote menu.
type MenuItem struct {
	Action   string
	Disabled bool
}

// Navigation identifies the page navigation flavour to show.
type Navigation string

const (
	NavigationOnDemand         Navigation = "onDemand"
	NavigationReferred         Navigation = "referred"
	NavigationReferredOnDemand Navigation = "referredOnDemand"
)

// View summarises what the landing page shows around the form.
type View struct {
	Menu                  []MenuItem
	Navigation            Navigation
	HigherLimitsRequested bool
	PremiumVisible        bool
	ExitURL               string
}

// View derives the menu and navigation state from the quote and the form.
func (l *LandingPage) View() View {
	q := l.Quote()
	l.mu.Lock()
	requested := l.higherLimitsRequested
	l.mu.Unlock()

	dirty := l.ctrl.Status() == wizard.StatusDirty
	referred := q != nil && q.Status == StatusReferred
	bindable := Facts(q, l.cfg.Roles).Bool(FactBindable)

	gtc := MenuItem{Action: ActionDownloadGTC, Disabled: dirty}
	download := MenuItem{Action: ActionDownloadQuote, Disabled: dirty || referred}
	packet := MenuItem{Action: ActionDownloadSignaturePacket, Disabled: dirty || referred}
	edit := MenuItem{Action: ActionEditApplication}

	v := View{
		HigherLimitsRequested: requested,
		PremiumVisible:        q != nil && !referred,
		ExitURL:               PathSummary,
		Navigation:            NavigationOnDemand,
	}
	switch {
	case l.cfg.Roles.Broker && !referred:
		v.Menu = []MenuItem{gtc, packet, download, edit}
	case l.cfg.Roles.Broker:
		v.Menu = []MenuItem{gtc, edit}
	default:
		v.Menu = []MenuItem{gtc, download}
	}
	if l.cfg.Roles.Broker {
		v.ExitURL = PathBrokerDashboard
	}
	switch {
	case !bindable:
		v.Navigation = NavigationReferredOnDemand
	case referred && !dirty:
		v.Navigation = NavigationReferred
	}
	return v
}
