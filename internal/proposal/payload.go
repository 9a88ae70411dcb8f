package proposal

import "strings"

// PayloadField is one text part of a submission.
type PayloadField struct {
	Name  FieldName
	Value string
}

// Attachment is one raw file part of a submission.
type Attachment struct {
	Field FieldName
	File  File
}

// Payload is everything sent to the form backend for one submission.
type Payload struct {
	FormName    string
	Honeypot    string
	Fields      []PayloadField
	Attachments []Attachment
}

// Value returns the value of a text part.
func (p Payload) Value(name FieldName) (string, bool) {
	for _, field := range p.Fields {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}

var checkboxFields = map[FieldName]bool{
	FieldAuthAgreement:      true,
	FieldConfidentialityAck: true,
	FieldPaymentTerms:       true,
	FieldConsentToContact:   true,
}

// buildPayload mirrors what a browser would serialize for the form: unchecked
// boxes are omitted, the upload URL fields only appear once something was
// uploaded, and raw files always travel with the submission.
func buildPayload(fields Fields, honeypot string, budget Budget, document, supporting *slotState) Payload {
	out := make([]PayloadField, 0, len(declaredFields)+3)
	for _, name := range declaredFields {
		value := fields[name]
		if checkboxFields[name] && strings.TrimSpace(value) == "" {
			continue
		}
		out = append(out, PayloadField{Name: name, Value: value})
		switch name {
		case FieldEstimatedBudgetKRW:
			out = append(out, PayloadField{Name: FieldEstimatedBudgetUSD, Value: budget.USDValue()})
		case FieldOtherArtistsBrands:
			if len(document.urls) > 0 {
				out = append(out, PayloadField{Name: FieldOfficialProposalURL, Value: document.urls[0]})
			}
			if len(supporting.urls) > 0 {
				out = append(out, PayloadField{Name: FieldSupportingMaterialURLs, Value: strings.Join(supporting.urls, ",")})
			}
		}
	}

	var attachments []Attachment
	for _, file := range document.files {
		attachments = append(attachments, Attachment{Field: FieldOfficialProposalFile, File: file})
	}
	for _, file := range supporting.files {
		attachments = append(attachments, Attachment{Field: FieldSupportingMaterials, File: file})
	}

	return Payload{
		FormName:    FormName,
		Honeypot:    honeypot,
		Fields:      out,
		Attachments: attachments,
	}
}
