package salesforce

import (
	"fmt"
	"strings"
)

// LeadFields builds the Lead sObject field map from practice identity data.
// Salesforce requires LastName and Company on Lead; a missing contact falls
// back to the company name.
func LeadFields(company, doctor, phone, email, location, website string, services []string, score int) map[string]any {
	lastName := doctor
	if lastName == "" {
		lastName = company
	}

	fields := map[string]any{
		"Company":    company,
		"LastName":   lastName,
		"LeadSource": "Demo Pipeline",
		"Rating":     rating(score),
	}
	if phone != "" {
		fields["Phone"] = phone
	}
	if email != "" {
		fields["Email"] = email
	}
	if location != "" {
		fields["City"] = location
	}
	if website != "" {
		fields["Website"] = website
	}
	if len(services) > 0 {
		fields["Description"] = "Services: " + strings.Join(services, ", ")
	}
	return fields
}

// LeadByEmailSOQL builds the lookup query for an already synced lead, so
// repeat pipeline runs update the existing record instead of duplicating it.
func LeadByEmailSOQL(email string) string {
	escaped := strings.ReplaceAll(email, "'", `\'`)
	return fmt.Sprintf("SELECT Id FROM Lead WHERE Email = '%s' LIMIT 1", escaped)
}

// OutcomeFields builds the Lead field update written once a demo is live.
func OutcomeFields(demoURL string) map[string]any {
	fields := map[string]any{
		"Status": "Working - Contacted",
	}
	if demoURL != "" {
		fields["Description"] = "Demo: " + demoURL
	}
	return fields
}

// rating maps a numeric lead score onto the standard Lead Rating picklist.
func rating(score int) string {
	switch {
	case score >= 90:
		return "Hot"
	case score >= 75:
		return "Warm"
	default:
		return "Cold"
	}
}
