package proposal

// FieldName identifies one named input of the proposal form.
type FieldName string

// Declared form fields, in the order they appear on the form.
const (
	FieldOrganizerFullName  FieldName = "organizer_full_name"
	FieldOrganizationName   FieldName = "organization_name"
	FieldOfficialEmail      FieldName = "official_email"
	FieldContactNumber      FieldName = "contact_number"
	FieldDesignation        FieldName = "designation"
	FieldEventName          FieldName = "event_name"
	FieldEventType          FieldName = "event_type"
	FieldProposedDates      FieldName = "proposed_dates"
	FieldVenueLocation      FieldName = "venue_location"
	FieldAudienceSize       FieldName = "audience_size"
	FieldEstimatedBudgetKRW FieldName = "estimated_budget_krw"
	FieldTalentFeeRange     FieldName = "talent_fee_range"
	FieldResponsibility     FieldName = "responsibility"
	FieldSponsorship        FieldName = "sponsorship"
	FieldEventDescription   FieldName = "event_description"
	FieldGoals              FieldName = "goals"
	FieldOtherArtistsBrands FieldName = "other_artists_brands"
	FieldAuthAgreement      FieldName = "auth_agreement"
	FieldConfidentialityAck FieldName = "confidentiality_ack"
	FieldPaymentTerms       FieldName = "payment_terms"
	FieldConsentToContact   FieldName = "consent_to_contact"
	FieldDigitalSignature   FieldName = "digital_signature"
)

// Derived and hidden payload fields. These are computed from session state
// and never accepted through UpdateField.
const (
	FieldEstimatedBudgetUSD     FieldName = "estimated_budget_usd"
	FieldOfficialProposalURL    FieldName = "official_proposal_url"
	FieldSupportingMaterialURLs FieldName = "supporting_material_urls"
	FieldOfficialProposalFile   FieldName = "official_proposal"
	FieldSupportingMaterials    FieldName = "supporting_materials"
	FieldFormName               FieldName = "form-name"
	FieldHoneypot               FieldName = "bot-field"
)

// FormName is the discriminator the form backend uses to route submissions.
const FormName = "artist-proposal"

// Event type options.
var EventTypes = []string{
	"Concert",
	"Fan Meeting",
	"Festival",
	"TV Appearance",
	"Conference",
	"Private Event",
	"Other",
}

// Responsibility options for travel and production.
var Responsibilities = []string{
	"Organizer",
	"HYBE",
	"Shared",
}

var declaredFields = []FieldName{
	FieldOrganizerFullName,
	FieldOrganizationName,
	FieldOfficialEmail,
	FieldContactNumber,
	FieldDesignation,
	FieldEventName,
	FieldEventType,
	FieldProposedDates,
	FieldVenueLocation,
	FieldAudienceSize,
	FieldEstimatedBudgetKRW,
	FieldTalentFeeRange,
	FieldResponsibility,
	FieldSponsorship,
	FieldEventDescription,
	FieldGoals,
	FieldOtherArtistsBrands,
	FieldAuthAgreement,
	FieldConfidentialityAck,
	FieldPaymentTerms,
	FieldConsentToContact,
	FieldDigitalSignature,
}

var fieldDefaults = map[FieldName]string{
	FieldEventType:      "Concert",
	FieldResponsibility: "Organizer",
}

// DeclaredFields returns the user-editable fields in form order.
func DeclaredFields() []FieldName {
	out := make([]FieldName, len(declaredFields))
	copy(out, declaredFields)
	return out
}

// IsDeclared reports whether name is a user-editable form field.
func IsDeclared(name FieldName) bool {
	for _, field := range declaredFields {
		if field == name {
			return true
		}
	}
	return false
}

// Fields maps declared field names to their current raw values.
type Fields map[FieldName]string

func defaultFields() Fields {
	fields := make(Fields, len(declaredFields))
	for _, name := range declaredFields {
		fields[name] = fieldDefaults[name]
	}
	return fields
}

func (f Fields) clone() Fields {
	out := make(Fields, len(f))
	for key, value := range f {
		out[key] = value
	}
	return out
}
