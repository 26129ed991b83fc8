package field

import (
	"testing"
	"time"
)

func ptr(v float64) *float64 { return &v }

func TestBoolRule(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		rule     BoolRule
		input    any
		want     any
		wantCode string
	}{
		{name: "bool", rule: BoolRule{Required: true}, input: true, want: true},
		{name: "string", rule: BoolRule{Required: true}, input: "false", want: false},
		{name: "missing required", rule: BoolRule{Required: true}, input: nil, wantCode: CodeRequired},
		{name: "missing optional", rule: BoolRule{}, input: nil, want: false},
		{name: "garbage", rule: BoolRule{}, input: "maybe", wantCode: CodeType},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := tc.rule.Validate(tc.input, nil)
			assertOutcome(t, got, err, tc.want, tc.wantCode)
		})
	}
}

func TestNumberRule(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		rule     NumberRule
		input    any
		want     any
		wantCode string
	}{
		{name: "int", rule: NumberRule{Required: true}, input: 1000000, want: float64(1000000)},
		{name: "string", rule: NumberRule{Required: true}, input: "2500", want: float64(2500)},
		{name: "below min", rule: NumberRule{Min: ptr(0)}, input: -1, wantCode: CodeMin},
		{name: "above max", rule: NumberRule{Max: ptr(10)}, input: 11, wantCode: CodeMax},
		{name: "not allowed", rule: NumberRule{Allowed: []float64{1, 2}}, input: 3, wantCode: CodeEnum},
		{name: "allowed", rule: NumberRule{Allowed: []float64{1, 2}}, input: 2, want: float64(2)},
		{name: "required", rule: NumberRule{Required: true}, input: "", wantCode: CodeRequired},
		{name: "type", rule: NumberRule{}, input: true, wantCode: CodeType},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := tc.rule.Validate(tc.input, nil)
			assertOutcome(t, got, err, tc.want, tc.wantCode)
		})
	}
}

func TestStringRule(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		rule     StringRule
		input    any
		want     any
		wantCode string
	}{
		{name: "enum ok", rule: StringRule{Enum: []string{"standard", "plus"}}, input: "plus", want: "plus"},
		{name: "enum bad", rule: StringRule{Enum: []string{"standard", "plus"}}, input: "gold", wantCode: CodeEnum},
		{name: "enum optional empty", rule: StringRule{Enum: []string{"standard", "plus"}}, input: nil, want: nil},
		{name: "enum required empty", rule: StringRule{Required: true, Enum: []string{"standard"}}, input: "", wantCode: CodeRequired},
		{name: "allow empty", rule: StringRule{Required: true, AllowEmpty: true}, input: "", want: ""},
		{name: "sanitize", rule: StringRule{Sanitize: true}, input: "<b>ACME</b> & co", want: "ACME & co"},
		{name: "too long", rule: StringRule{MaxLength: 3}, input: "abcd", wantCode: CodeLength},
		{name: "type", rule: StringRule{}, input: 12, wantCode: CodeType},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := tc.rule.Validate(tc.input, nil)
			assertOutcome(t, got, err, tc.want, tc.wantCode)
		})
	}
}

func TestDateRule(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)
	rule := DateRule{Required: true, MaxFutureDays: 90, Now: func() time.Time { return now }}

	if _, err := rule.Validate(now.Add(-2*time.Hour), nil); err != nil {
		t.Fatalf("earlier today should be accepted: %v", err)
	}
	_, err := rule.Validate(now.AddDate(0, 0, -1), nil)
	assertCode(t, err, CodeDateMin)

	_, err = rule.Validate(now.AddDate(0, 0, 91), nil)
	assertCode(t, err, CodeDateMax)

	got, err := rule.Validate("2024-06-01", nil)
	if err != nil {
		t.Fatalf("string date rejected: %v", err)
	}
	if !got.(time.Time).Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected coerced date %v", got)
	}

	_, err = rule.Validate(time.Time{}, nil)
	assertCode(t, err, CodeRequired)

	admin := DateRule{Required: true, AllowPast: true, Now: func() time.Time { return now }}
	if _, err := admin.Validate(now.AddDate(0, -1, 0), nil); err != nil {
		t.Fatalf("past date should be allowed: %v", err)
	}
}

func TestCustomAndChain(t *testing.T) {
	t.Parallel()

	anySelected := Custom("custom.noCoverageSelected", "no coverage", func(_ any, rec Record) bool {
		return rec.Bool("isDnoSelected") || rec.Bool("isEplSelected")
	})
	v := Chain(StringRule{Required: true}, anySelected)

	_, err := v.Validate("any", Record{"isDnoSelected": false})
	assertCode(t, err, "custom.noCoverageSelected")

	got, err := v.Validate("any", Record{"isEplSelected": true})
	if err != nil || got != "any" {
		t.Fatalf("expected pass, got %v %v", got, err)
	}

	_, err = v.Validate(nil, Record{"isEplSelected": true})
	assertCode(t, err, CodeRequired)
}

func assertOutcome(t *testing.T, got any, err error, want any, wantCode string) {
	t.Helper()
	if wantCode != "" {
		assertCode(t, err, wantCode)
		return
	}
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("value = %#v, want %#v", got, want)
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if got := AsValidationError(err).Code; got != code {
		t.Fatalf("code = %q, want %q", got, code)
	}
}
