package notion

import (
	"context"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// LeadPage is the subset of practice data written to the Notion lead database.
type LeadPage struct {
	Company  string
	Doctor   string
	Phone    string
	Email    string
	Location string
	Website  string
	Services []string
	Score    int
}

// CreateLeadPage inserts a lead into the given Notion database and returns
// the created page ID and URL.
func CreateLeadPage(ctx context.Context, c Client, dbID string, lead LeadPage) (pageID, pageURL string, err error) {
	page, err := c.CreatePage(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(dbID),
		},
		Properties: LeadProperties(lead),
	})
	if err != nil {
		return "", "", eris.Wrap(err, "notion: create lead page")
	}
	return string(page.ID), page.URL, nil
}

// UpdateLeadStatus moves a lead page to the given status, recording the live
// demo URL when one exists.
func UpdateLeadStatus(ctx context.Context, c Client, pageID, status, demoURL string) error {
	props := notionapi.Properties{
		"Status": notionapi.SelectProperty{
			Select: notionapi.Option{Name: status},
		},
	}
	if demoURL != "" {
		props["Demo URL"] = notionapi.URLProperty{URL: demoURL}
	}
	if _, err := c.UpdatePage(ctx, pageID, &notionapi.PageUpdateRequest{Properties: props}); err != nil {
		return eris.Wrap(err, "notion: update lead status")
	}
	return nil
}

// LeadProperties builds the Notion property map for a lead page.
func LeadProperties(lead LeadPage) notionapi.Properties {
	props := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Title: richText(lead.Company),
		},
		"Status": notionapi.SelectProperty{
			Select: notionapi.Option{Name: "New"},
		},
		"Score": notionapi.NumberProperty{
			Number: float64(lead.Score),
		},
	}
	if lead.Website != "" {
		props["URL"] = notionapi.URLProperty{URL: lead.Website}
	}
	if lead.Doctor != "" {
		props["Contact"] = notionapi.RichTextProperty{RichText: richText(lead.Doctor)}
	}
	if lead.Phone != "" {
		props["Phone"] = notionapi.PhoneNumberProperty{PhoneNumber: lead.Phone}
	}
	if lead.Email != "" {
		props["Email"] = notionapi.EmailProperty{Email: lead.Email}
	}
	if lead.Location != "" {
		props["Location"] = notionapi.RichTextProperty{RichText: richText(lead.Location)}
	}
	if len(lead.Services) > 0 {
		props["Services"] = notionapi.RichTextProperty{RichText: richText(strings.Join(lead.Services, ", "))}
	}
	return props
}

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{
		{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}},
	}
}
