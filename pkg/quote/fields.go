package quote

import (
	"time"

	"github.com/goliatone/go-formwizard/pkg/field"
)

// Field names of the quote options form.
const (
	FieldCoverage                    = "coverage"
	FieldStartDate                   = "startDate"
	FieldIsDnoSelected               = "isDnoSelected"
	FieldDnoLimit                    = "dnoLimit"
	FieldDnoRetention                = "dnoRetention"
	FieldDnoLevel                    = "dnoLevel"
	FieldIsEplSelected               = "isEplSelected"
	FieldEplLimit                    = "eplLimit"
	FieldEplRetention                = "eplRetention"
	FieldEplLevel                    = "eplLevel"
	FieldIsFiduciarySelected         = "isFiduciarySelected"
	FieldFiduciaryLimit              = "fiduciaryLimit"
	FieldFiduciaryRetention          = "fiduciaryRetention"
	FieldIsEoSelected                = "isEoSelected"
	FieldEoLimit                     = "eoLimit"
	FieldEoRetention                 = "eoRetention"
	FieldEoLevel                     = "eoLevel"
	FieldPartnerCode                 = "partnerCode"
	FieldAgreementToConductSignature = "agreementToConductSignature"
	FieldWarrantyAndFraudSignature   = "warrantyAndFraudSignature"
	FieldBrokerSignature             = "brokerSignature"
)

// MaxFutureDays bounds how far ahead the effective date may be set.
const MaxFutureDays = 90

// Validation codes specific to the quote form.
const (
	CodeNoCoverageSelected = "custom.noCoverageSelected"
	CodeSignatureMissing   = "custom.signatureMissing"
)

// Messages shown for the quote specific validation codes.
const (
	MessageNoCoverage  = "Please select your coverage."
	MessageDateInPast  = "Effective date cannot be in the past."
	MessageDateTooLate = "Effective date cannot be more than ninety days in the future."
)

// coverageMarker is the placeholder value of the hidden coverage field. The
// field only exists to host the "at least one coverage" check.
const coverageMarker = "any"

// OptionFields lists the fields sent with every quote level action, in page
// order.
var OptionFields = []string{
	FieldCoverage,
	FieldStartDate,
	FieldDnoLimit,
	FieldDnoRetention,
	FieldDnoLevel,
	FieldIsDnoSelected,
	FieldEplLimit,
	FieldEplRetention,
	FieldEplLevel,
	FieldIsEplSelected,
	FieldIsFiduciarySelected,
	FieldFiduciaryLimit,
	FieldFiduciaryRetention,
	FieldIsEoSelected,
	FieldEoLimit,
	FieldEoRetention,
	FieldEoLevel,
	FieldPartnerCode,
}

// Context carries the session facts the field table depends on.
type Context struct {
	Roles Roles
	Now   func() time.Time
}

func (c Context) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

var (
	limitOptions     = []float64{1000000, 2000000, 3000000, 4000000, 5000000}
	retentionOptions = []float64{0, 2500, 5000, 10000, 25000, 50000}
	levelOptions     = []string{string(LevelStandard), string(LevelPlus)}
)

// Fields builds the field table of the quote options form.
func Fields(ctx Context) (*field.Set, error) {
	broker := ctx.Roles.Broker

	return field.NewSet(
		field.Field{
			Name: FieldCoverage,
			Kind: field.KindHidden,
			Validator: field.Chain(
				field.StringRule{Required: true},
				field.Custom(CodeNoCoverageSelected, "no coverage selected", anyCoverageSelected),
			),
			Format: field.Messages(map[string]string{CodeNoCoverageSelected: MessageNoCoverage}),
		},
		field.Field{
			Name:      FieldStartDate,
			Kind:      field.KindDate,
			Label:     "Effective date",
			Validator: field.DateRule{Required: true, AllowPast: ctx.Roles.Admin, MaxFutureDays: MaxFutureDays, Now: ctx.now},
			Format: field.Messages(map[string]string{
				field.CodeDateMin: MessageDateInPast,
				field.CodeDateMax: MessageDateTooLate,
			}),
		},
		selectionField(FieldIsDnoSelected, "Directors and Officers"),
		limitField(FieldDnoLimit, "D&O limit", limitOptions),
		limitField(FieldDnoRetention, "D&O retention", retentionOptions),
		levelField(FieldDnoLevel, "D&O level", false),
		selectionField(FieldIsEplSelected, "Employment Practices Liability"),
		limitField(FieldEplLimit, "EPL limit", limitOptions),
		limitField(FieldEplRetention, "EPL retention", retentionOptions),
		levelField(FieldEplLevel, "EPL level", false),
		selectionField(FieldIsFiduciarySelected, "Fiduciary"),
		limitField(FieldFiduciaryLimit, "Fiduciary limit", []float64{1000000}),
		limitField(FieldFiduciaryRetention, "Fiduciary retention", []float64{0}),
		selectionField(FieldIsEoSelected, "Errors and Omissions"),
		limitField(FieldEoLimit, "E&O limit", limitOptions),
		limitField(FieldEoRetention, "E&O retention", retentionOptions),
		levelField(FieldEoLevel, "E&O level", true),
		field.Field{
			Name:      FieldPartnerCode,
			Kind:      field.KindText,
			Label:     "Partner code",
			Validator: field.StringRule{AllowEmpty: true, MaxLength: 64, Sanitize: true},
		},
		signatureField(FieldAgreementToConductSignature, field.KindCheckbox,
			"I agree to conduct this transaction electronically", !broker),
		signatureField(FieldWarrantyAndFraudSignature, field.KindCheckbox,
			"I confirm the warranty and fraud statement", !broker),
		signatureField(FieldBrokerSignature, field.KindHidden,
			"I sign on behalf of the client", broker),
	)
}

func anyCoverageSelected(_ any, rec field.Record) bool {
	return rec.Bool(FieldIsDnoSelected) ||
		rec.Bool(FieldIsEplSelected) ||
		rec.Bool(FieldIsFiduciarySelected) ||
		rec.Bool(FieldIsEoSelected)
}

func selectionField(name, label string) field.Field {
	return field.Field{
		Name:      name,
		Kind:      field.KindHidden,
		Label:     label,
		Validator: field.BoolRule{Required: true},
	}
}

func limitField(name, label string, choices []float64) field.Field {
	options := make([]field.Option, len(choices))
	for i, v := range choices {
		options[i] = field.Option{Label: formatMoney(v), Value: v}
	}
	return field.Field{
		Name:      name,
		Kind:      field.KindSelect,
		Label:     label,
		Options:   options,
		Validator: field.NumberRule{Required: true},
	}
}

func levelField(name, label string, required bool) field.Field {
	options := make([]field.Option, len(levelOptions))
	for i, v := range levelOptions {
		options[i] = field.Option{Label: v, Value: v}
	}
	return field.Field{
		Name:      name,
		Kind:      field.KindRadioGroup,
		Label:     label,
		Options:   options,
		Validator: field.StringRule{Required: required, Enum: levelOptions},
	}
}

// signatureField accepts anything when the signer is not expected to sign and
// otherwise requires a checked box.
func signatureField(name string, kind field.Kind, label string, expected bool) field.Field {
	return field.Field{
		Name:  name,
		Kind:  kind,
		Label: label,
		Validator: field.Chain(
			field.BoolRule{},
			field.Custom(CodeSignatureMissing, "signature is required", func(value any, _ field.Record) bool {
				signed, _ := value.(bool)
				return !expected || signed
			}),
		),
		Format: field.Messages(map[string]string{CodeSignatureMissing: "Please sign to continue."}),
	}
}
