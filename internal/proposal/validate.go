package proposal

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// RuleKind selects how a field value is checked.
type RuleKind int

const (
	KindText RuleKind = iota
	KindEmail
	KindNumber
	KindCheckbox
	KindSelect
)

// Rule declares the presentation constraints of one field.
type Rule struct {
	Field    FieldName
	Kind     RuleKind
	Required bool
	Min      *float64
	Options  []string
}

// Validation failure reasons.
const (
	ReasonRequired     = "required"
	ReasonInvalidEmail = "invalid_email"
	ReasonNotANumber   = "not_a_number"
	ReasonBelowMinimum = "below_minimum"
	ReasonUnknownValue = "unknown_option"
)

// FieldError describes one failing field.
type FieldError struct {
	Field  FieldName
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationErrors is the ordered set of failing fields, in schema order.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fieldErr := range v {
		parts = append(parts, fieldErr.Error())
	}
	return "proposal invalid: " + strings.Join(parts, ", ")
}

// Has reports whether field failed validation.
func (v ValidationErrors) Has(field FieldName) bool {
	return v.Reason(field) != ""
}

// Reason returns the failure reason for field, or "".
func (v ValidationErrors) Reason(field FieldName) string {
	for _, fieldErr := range v {
		if fieldErr.Field == field {
			return fieldErr.Reason
		}
	}
	return ""
}

// emailPattern is the HTML living standard "valid e-mail address" grammar,
// the same check browsers apply to type=email inputs.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

func minimum(v float64) *float64 {
	return &v
}

func feeRangeOptions() []string {
	out := make([]string, 0, len(feeRanges))
	for _, r := range feeRanges {
		out = append(out, string(r))
	}
	return out
}

// Schema is the validation schema of the proposal form in field order.
var Schema = []Rule{
	{Field: FieldOrganizerFullName, Kind: KindText, Required: true},
	{Field: FieldOrganizationName, Kind: KindText, Required: true},
	{Field: FieldOfficialEmail, Kind: KindEmail, Required: true},
	{Field: FieldContactNumber, Kind: KindText, Required: true},
	{Field: FieldDesignation, Kind: KindText, Required: true},
	{Field: FieldEventName, Kind: KindText, Required: true},
	{Field: FieldEventType, Kind: KindSelect, Options: EventTypes},
	{Field: FieldProposedDates, Kind: KindText, Required: true},
	{Field: FieldVenueLocation, Kind: KindText, Required: true},
	{Field: FieldAudienceSize, Kind: KindNumber, Required: true, Min: minimum(1)},
	{Field: FieldEstimatedBudgetKRW, Kind: KindText},
	{Field: FieldTalentFeeRange, Kind: KindSelect, Options: feeRangeOptions()},
	{Field: FieldResponsibility, Kind: KindSelect, Options: Responsibilities},
	{Field: FieldSponsorship, Kind: KindText},
	{Field: FieldEventDescription, Kind: KindText, Required: true},
	{Field: FieldGoals, Kind: KindText},
	{Field: FieldOtherArtistsBrands, Kind: KindText},
	{Field: FieldAuthAgreement, Kind: KindCheckbox, Required: true},
	{Field: FieldConfidentialityAck, Kind: KindCheckbox, Required: true},
	{Field: FieldPaymentTerms, Kind: KindCheckbox, Required: true},
	{Field: FieldConsentToContact, Kind: KindCheckbox, Required: true},
	{Field: FieldDigitalSignature, Kind: KindText, Required: true},
}

// RuleFor returns the schema rule for field.
func RuleFor(field FieldName) (Rule, bool) {
	for _, rule := range Schema {
		if rule.Field == field {
			return rule, true
		}
	}
	return Rule{}, false
}

// Validate checks fields against Schema. When the primary document must be
// attached directly (uploads disabled), hasDocument reports whether it is.
func Validate(fields Fields, documentRequired, hasDocument bool) ValidationErrors {
	var errs ValidationErrors
	for _, rule := range Schema {
		if reason := rule.check(fields[rule.Field]); reason != "" {
			errs = append(errs, FieldError{Field: rule.Field, Reason: reason})
		}
	}
	if documentRequired && !hasDocument {
		errs = append(errs, FieldError{Field: FieldOfficialProposalFile, Reason: ReasonRequired})
	}
	return errs
}

func (r Rule) check(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		if r.Required {
			return ReasonRequired
		}
		return ""
	}
	switch r.Kind {
	case KindEmail:
		if !emailPattern.MatchString(value) {
			return ReasonInvalidEmail
		}
	case KindNumber:
		number, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
			return ReasonNotANumber
		}
		if r.Min != nil && number < *r.Min {
			return ReasonBelowMinimum
		}
	case KindSelect:
		for _, option := range r.Options {
			if value == option {
				return ""
			}
		}
		return ReasonUnknownValue
	}
	return ""
}
