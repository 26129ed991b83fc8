package quote

import (
	"net/url"
	"path"
	"strconv"

	"github.com/goliatone/go-formwizard/pkg/field"
)

// Defaults applied when the quote does not carry a coverage.
const (
	DefaultLimit           = 1000000
	DefaultRetention       = 10000
	DefaultEoRetention     = 2500
	DefaultFiduciaryLimit  = 1000000
	DefaultMaxLimit        = 3000000
	defaultFiduciaryRetain = 0
)

// InitialRecord derives the form baseline from q. A nil quote yields the
// defaults. partnerCode is used when the quote has none and the restriction
// allows partner codes.
func InitialRecord(q *Quote, restriction *Restriction, partnerCode string) field.Record {
	dno, _ := q.Coverage(CoverageDNO)
	epl, _ := q.Coverage(CoverageEPL)
	eo, _ := q.Coverage(CoverageEO)
	fid, _ := q.Coverage(CoverageFiduciary)

	rec := field.Record{
		FieldCoverage:            coverageMarker,
		FieldIsDnoSelected:       dno.Selected,
		FieldDnoLimit:            orDefault(dno.Limit, DefaultLimit),
		FieldDnoRetention:        orDefault(dno.Retention, DefaultRetention),
		FieldIsEplSelected:       epl.Selected,
		FieldEplLimit:            orDefault(epl.Limit, DefaultLimit),
		FieldEplRetention:        orDefault(epl.Retention, DefaultRetention),
		FieldIsEoSelected:        eo.Selected,
		FieldEoLimit:             orDefault(eo.Limit, DefaultLimit),
		FieldEoRetention:         orDefault(eo.Retention, DefaultEoRetention),
		FieldEoLevel:             string(LevelPlus),
		FieldIsFiduciarySelected: fid.Selected,
		FieldFiduciaryLimit:      float64(DefaultFiduciaryLimit),
		FieldFiduciaryRetention:  float64(defaultFiduciaryRetain),
		FieldPartnerCode:         "",

		FieldAgreementToConductSignature: false,
		FieldWarrantyAndFraudSignature:   false,
		FieldBrokerSignature:             false,
	}
	if dno.Level != "" {
		rec[FieldDnoLevel] = string(dno.Level)
	}
	if epl.Level != "" {
		rec[FieldEplLevel] = string(epl.Level)
	}
	if eo.Level != "" {
		rec[FieldEoLevel] = string(eo.Level)
	}
	if q != nil && !q.EffectiveDate.IsZero() {
		rec[FieldStartDate] = q.EffectiveDate
	}
	if !restriction.PartnerCodeDisabled() {
		code := partnerCode
		if q != nil && q.PartnerCode != "" {
			code = q.PartnerCode
		}
		rec[FieldPartnerCode] = code
	}
	return rec
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// ToOptions converts a form record into a requote request. The fiduciary
// coverage is always offered at its fixed limit.
func ToOptions(rec field.Record, disablePartnerCode bool) Options {
	start, _ := rec.Time(FieldStartDate)
	opts := Options{
		EffectiveDate: start,
		Coverages: []Coverage{
			recordCoverage(rec, CoverageDNO, FieldIsDnoSelected, FieldDnoLimit, FieldDnoRetention, FieldDnoLevel),
			recordCoverage(rec, CoverageEPL, FieldIsEplSelected, FieldEplLimit, FieldEplRetention, FieldEplLevel),
			{
				Type:      CoverageFiduciary,
				Selected:  rec.Bool(FieldIsFiduciarySelected),
				Limit:     DefaultFiduciaryLimit,
				Retention: defaultFiduciaryRetain,
			},
			recordCoverage(rec, CoverageEO, FieldIsEoSelected, FieldEoLimit, FieldEoRetention, FieldEoLevel),
		},
	}
	if !disablePartnerCode {
		opts.PartnerCode = rec.String(FieldPartnerCode)
	}
	return opts
}

func recordCoverage(rec field.Record, t CoverageType, selected, limit, retention, level string) Coverage {
	l, _ := rec.Float(limit)
	r, _ := rec.Float(retention)
	return Coverage{
		Type:      t,
		Selected:  rec.Bool(selected),
		Limit:     l,
		Retention: r,
		Level:     Level(rec.String(level)),
	}
}

// FromQuote returns the options the quote was priced with.
func FromQuote(q *Quote) Options {
	if q == nil {
		return Options{}
	}
	return Options{
		EffectiveDate: q.EffectiveDate,
		PartnerCode:   q.PartnerCode,
		Coverages:     append([]Coverage(nil), q.Coverages...),
	}
}

// HasHigherLimits reports whether a selected coverage exceeds the limit the
// restriction allows (DefaultMaxLimit when unrestricted).
func HasHigherLimits(q *Quote, restriction *Restriction) bool {
	for _, c := range q.Selected() {
		limit, ok := restriction.MaxLimit(c.Type)
		if !ok {
			limit = DefaultMaxLimit
		}
		if c.Limit > limit {
			return true
		}
	}
	return false
}

// IsPlus reports whether any selected coverage is on the plus tier.
func IsPlus(q *Quote) bool {
	for _, c := range q.Selected() {
		if c.Level == LevelPlus {
			return true
		}
	}
	return false
}

// Terms holds the general terms and conditions document locations.
type Terms struct {
	PlusURL               string
	StandardURL           string
	PlusNewInsurerURL     string
	StandardNewInsurerURL string
}

// DefaultTerms points at the published terms documents.
var DefaultTerms = Terms{
	PlusURL:               "/documents/esp/general-terms-plus.pdf",
	StandardURL:           "/documents/esp/general-terms-standard.pdf",
	PlusNewInsurerURL:     "/documents/esp/general-terms-plus-new-insurer.pdf",
	StandardNewInsurerURL: "/documents/esp/general-terms-standard-new-insurer.pdf",
}

// Document is a downloadable file.
type Document struct {
	URL      string `json:"url" yaml:"url"`
	FileName string `json:"fileName" yaml:"fileName"`
}

// TermsDocument picks the terms document for q: plus or standard, and the new
// insurer edition when the quote was submitted after its release.
func (t Terms) TermsDocument(q *Quote) Document {
	plus := IsPlus(q)
	doc := t.StandardURL
	if plus {
		doc = t.PlusURL
	}
	if q != nil && q.Info != nil && q.Info.SubmittedAt != nil && q.Info.NewInsurerDocumentsReleaseDate != nil &&
		q.Info.SubmittedAt.After(*q.Info.NewInsurerDocumentsReleaseDate) {
		doc = t.StandardNewInsurerURL
		if plus {
			doc = t.PlusNewInsurerURL
		}
	}
	return Document{URL: doc, FileName: fileName(doc)}
}

func fileName(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(raw)
}

func formatMoney(v float64) string {
	whole := strconv.FormatFloat(v, 'f', 0, 64)
	n := len(whole)
	if n <= 3 {
		return "$" + whole
	}
	out := make([]byte, 0, n+n/3+1)
	out = append(out, '$')
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, whole[i])
	}
	return string(out)
}
