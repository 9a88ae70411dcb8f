package proposal

import "testing"

func validFields() Fields {
	fields := defaultFields()
	fields[FieldOrganizerFullName] = "Kim Minji"
	fields[FieldOrganizationName] = "Seoul Live"
	fields[FieldOfficialEmail] = "minji@seoul-live.example"
	fields[FieldContactNumber] = "+82 10 1234 5678"
	fields[FieldDesignation] = "Producer"
	fields[FieldEventName] = "Summer Stage"
	fields[FieldProposedDates] = "2027-07-01"
	fields[FieldVenueLocation] = "Seoul, Korea"
	fields[FieldAudienceSize] = "5000"
	fields[FieldEventDescription] = "Open air concert."
	fields[FieldAuthAgreement] = "on"
	fields[FieldConfidentialityAck] = "on"
	fields[FieldPaymentTerms] = "on"
	fields[FieldConsentToContact] = "on"
	fields[FieldDigitalSignature] = "Kim Minji"
	return fields
}

func TestValidateAcceptsCompleteForm(t *testing.T) {
	t.Parallel()

	if errs := Validate(validFields(), false, false); len(errs) != 0 {
		t.Fatalf("Validate() = %v, want no errors", errs)
	}
}

func TestValidateRejectsEachRequiredField(t *testing.T) {
	t.Parallel()

	for _, rule := range Schema {
		if !rule.Required {
			continue
		}
		fields := validFields()
		fields[rule.Field] = ""
		errs := Validate(fields, false, false)
		if got := errs.Reason(rule.Field); got != ReasonRequired {
			t.Fatalf("Reason(%s) = %q, want %q", rule.Field, got, ReasonRequired)
		}
		if len(errs) != 1 {
			t.Fatalf("Validate() without %s = %v, want exactly one error", rule.Field, errs)
		}
	}
}

func TestValidateFieldShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		field  FieldName
		value  string
		reason string
	}{
		{name: "email without at", field: FieldOfficialEmail, value: "minji.example", reason: ReasonInvalidEmail},
		{name: "email with space", field: FieldOfficialEmail, value: "min ji@example.com", reason: ReasonInvalidEmail},
		{name: "email single label domain", field: FieldOfficialEmail, value: "minji@localhost", reason: ""},
		{name: "audience not a number", field: FieldAudienceSize, value: "lots", reason: ReasonNotANumber},
		{name: "audience zero", field: FieldAudienceSize, value: "0", reason: ReasonBelowMinimum},
		{name: "audience one", field: FieldAudienceSize, value: "1", reason: ""},
		{name: "unknown event type", field: FieldEventType, value: "Rave", reason: ReasonUnknownValue},
		{name: "unknown fee range", field: FieldTalentFeeRange, value: "5m-plus", reason: ReasonUnknownValue},
		{name: "empty fee range", field: FieldTalentFeeRange, value: "", reason: ""},
		{name: "known responsibility", field: FieldResponsibility, value: "Shared", reason: ""},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fields := validFields()
			fields[tc.field] = tc.value
			errs := Validate(fields, false, false)
			if got := errs.Reason(tc.field); got != tc.reason {
				t.Fatalf("Reason(%s) = %q, want %q", tc.field, got, tc.reason)
			}
		})
	}
}

func TestValidateRequiresDocumentWhenUploadsDisabled(t *testing.T) {
	t.Parallel()

	errs := Validate(validFields(), true, false)
	if !errs.Has(FieldOfficialProposalFile) {
		t.Fatalf("Validate() = %v, want missing document error", errs)
	}
	if errs := Validate(validFields(), true, true); len(errs) != 0 {
		t.Fatalf("Validate() with document = %v, want no errors", errs)
	}
}
