package proposal

import "strings"

// summaryFields is the fixed projection shown in the confirmation dialog.
var summaryFields = []FieldName{
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
	FieldEstimatedBudgetUSD,
	FieldTalentFeeRange,
	FieldResponsibility,
	FieldSponsorship,
	FieldEventDescription,
	FieldGoals,
	FieldOtherArtistsBrands,
	FieldDigitalSignature,
}

// SummaryEntry is one row of the confirmation summary.
type SummaryEntry struct {
	Field FieldName
	Label string
	Value string
}

// Summary is an immutable snapshot taken when review succeeds.
type Summary struct {
	Entries []SummaryEntry
}

// Value returns the snapshotted value for field.
func (s Summary) Value(field FieldName) (string, bool) {
	for _, entry := range s.Entries {
		if entry.Field == field {
			return entry.Value, true
		}
	}
	return "", false
}

// SummaryLabel turns a field name into its summary label.
func SummaryLabel(field FieldName) string {
	return strings.ReplaceAll(string(field), "_", " ")
}

func buildSummary(fields Fields, budget Budget, documentURL string, supportingURLs []string) Summary {
	entries := make([]SummaryEntry, 0, len(summaryFields)+2)
	for _, field := range summaryFields {
		value := fields[field]
		if field == FieldEstimatedBudgetUSD {
			value = budget.USDValue()
		}
		entries = append(entries, SummaryEntry{Field: field, Label: SummaryLabel(field), Value: value})
	}
	entries = append(entries,
		SummaryEntry{Field: FieldOfficialProposalURL, Label: SummaryLabel(FieldOfficialProposalURL), Value: documentURL},
		SummaryEntry{Field: FieldSupportingMaterialURLs, Label: SummaryLabel(FieldSupportingMaterialURLs), Value: strings.Join(supportingURLs, ", ")},
	)
	return Summary{Entries: entries}
}
