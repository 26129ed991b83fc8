package quote

import (
	"time"
)

// Status is the lifecycle state of a quote.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusReferred Status = "referred"
	StatusSigned   Status = "signed"
	StatusAccepted Status = "accepted"
)

// CoverageType identifies one coverage of the package.
type CoverageType string

const (
	CoverageDNO       CoverageType = "do"
	CoverageEPL       CoverageType = "epli"
	CoverageFiduciary CoverageType = "fiduciary"
	CoverageEO        CoverageType = "eoCyber"
)

// Restriction coverage codes as issued by the underwriting service.
const (
	RestrictionDNO       = "ShoppingCoverageCodeListDirectorsAndOfficers"
	RestrictionEPL       = "ShoppingCoverageCodeListEmploymentPractices"
	RestrictionFiduciary = "ShoppingCoverageCodeListFiduciary"
	RestrictionCyber     = "ShoppingCoverageCodeListCyber"
)

// RestrictionCode maps a coverage type onto its restriction code. Unknown
// types fall back to the cyber code.
func (c CoverageType) RestrictionCode() string {
	switch c {
	case CoverageDNO:
		return RestrictionDNO
	case CoverageEPL:
		return RestrictionEPL
	case CoverageFiduciary:
		return RestrictionFiduciary
	default:
		return RestrictionCyber
	}
}

// DisplayName returns the product name used in purchase summaries.
func (c CoverageType) DisplayName() string {
	switch c {
	case CoverageDNO:
		return "Directors and Officers"
	case CoverageEPL:
		return "Employment Practices Liability"
	case CoverageFiduciary:
		return "Fiduciary"
	case CoverageEO:
		return "Professional Liability / Errors and Omissions"
	default:
		return string(c)
	}
}

// Level is the coverage tier.
type Level string

const (
	LevelStandard Level = "standard"
	LevelPlus     Level = "plus"
)

// Coverage is one priced coverage of a quote.
type Coverage struct {
	Type      CoverageType `json:"coverageType" yaml:"coverageType"`
	Limit     float64      `json:"limit" yaml:"limit"`
	Retention float64      `json:"retention" yaml:"retention"`
	Premium   float64      `json:"premium,omitempty" yaml:"premium,omitempty"`
	Selected  bool         `json:"selected" yaml:"selected"`
	Level     Level        `json:"level,omitempty" yaml:"level,omitempty"`
}

// Info carries submission metadata used to pick the terms document.
type Info struct {
	SubmittedAt                    *time.Time `json:"submittedAt,omitempty" yaml:"submittedAt,omitempty"`
	NewInsurerDocumentsReleaseDate *time.Time `json:"newInsurerDocumentsReleaseDate,omitempty" yaml:"newInsurerDocumentsReleaseDate,omitempty"`
}

// Quote is the priced package the wizard edits.
type Quote struct {
	ID            string     `json:"id" yaml:"id"`
	ApplicationID string     `json:"applicationId" yaml:"applicationId"`
	Status        Status     `json:"status" yaml:"status"`
	DaysToExpire  int        `json:"daysToExpire" yaml:"daysToExpire"`
	EffectiveDate time.Time  `json:"effectiveDate" yaml:"effectiveDate"`
	PartnerCode   string     `json:"partnerCode,omitempty" yaml:"partnerCode,omitempty"`
	Coverages     []Coverage `json:"coverages" yaml:"coverages"`
	TotalPayable  float64    `json:"totalPayable" yaml:"totalPayable"`
	FileKey       string     `json:"fileKey,omitempty" yaml:"fileKey,omitempty"`
	Info          *Info      `json:"info,omitempty" yaml:"info,omitempty"`
}

// Coverage returns the coverage of the given type.
func (q *Quote) Coverage(t CoverageType) (Coverage, bool) {
	if q == nil {
		return Coverage{}, false
	}
	for _, c := range q.Coverages {
		if c.Type == t {
			return c, true
		}
	}
	return Coverage{}, false
}

// Expired reports whether the quote can no longer be bound.
func (q *Quote) Expired() bool {
	return q != nil && q.DaysToExpire == -1
}

// Selected returns the coverages the customer picked.
func (q *Quote) Selected() []Coverage {
	if q == nil {
		return nil
	}
	var out []Coverage
	for _, c := range q.Coverages {
		if c.Selected {
			out = append(out, c)
		}
	}
	return out
}

// CoverageRestriction caps the limit offered for one coverage.
type CoverageRestriction struct {
	CoverageType string  `json:"coverageType" yaml:"coverageType"`
	MaxLimit     float64 `json:"maxLimit" yaml:"maxLimit"`
}

// Restriction holds the underwriting restrictions of an application.
type Restriction struct {
	CoverageRestrictions []CoverageRestriction `json:"coverageRestrictions" yaml:"coverageRestrictions"`
	DisablePartnerCode   bool                  `json:"disablePartnerCode" yaml:"disablePartnerCode"`
}

// MaxLimit returns the restricted limit for a coverage type.
func (r *Restriction) MaxLimit(t CoverageType) (float64, bool) {
	if r == nil {
		return 0, false
	}
	code := t.RestrictionCode()
	for _, cr := range r.CoverageRestrictions {
		if cr.CoverageType == code && cr.MaxLimit > 0 {
			return cr.MaxLimit, true
		}
	}
	return 0, false
}

// PartnerCodeDisabled reports whether partner codes must be dropped.
func (r *Restriction) PartnerCodeDisabled() bool {
	return r != nil && r.DisablePartnerCode
}

// Options is the requote request built from the form.
type Options struct {
	EffectiveDate time.Time  `json:"effectiveDate" yaml:"effectiveDate"`
	PartnerCode   string     `json:"partnerCode" yaml:"partnerCode"`
	Coverages     []Coverage `json:"coverages" yaml:"coverages"`
}

// Roles describes the active session.
type Roles struct {
	Broker bool
	Admin  bool
}
