package quote

import (
	"github.com/goliatone/go-formwizard/pkg/page"
	"github.com/goliatone/go-formwizard/pkg/predicate"
)

// Page names.
const (
	PageCoverage  = "coverage"
	PageSignature = "signature"
)

// Fact names consulted by the page rules.
const (
	FactBindable = "bindable"
	FactBroker   = "broker"
	FactAdmin    = "admin"
	FactReferred = "referred"
)

// Pages returns the page definitions of the quote wizard. The signature page
// is only offered while the quote is bindable and asks brokers for their own
// signature instead of the customer attestations.
func Pages() []page.Definition {
	return []page.Definition{
		{
			Name:   PageCoverage,
			Title:  "Coverage",
			Fields: append([]string(nil), OptionFields...),
		},
		{
			Name:   PageSignature,
			Title:  "Signature",
			When:   FactBindable,
			Fields: []string{FieldAgreementToConductSignature, FieldWarrantyAndFraudSignature},
			Variants: []page.Variant{
				{When: FactBroker, Fields: []string{FieldBrokerSignature}},
			},
		},
	}
}

// Facts derives the business facts of q for the session roles. Expired quotes
// stay bindable for admins.
func Facts(q *Quote, roles Roles) predicate.Set {
	expired := q.Expired() && !roles.Admin
	return predicate.Set{
		FactBindable: !expired,
		FactBroker:   roles.Broker,
		FactAdmin:    roles.Admin,
		FactReferred: q != nil && q.Status == StatusReferred,
	}
}
