package provider

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/notion"
	"github.com/sells-group/leadgen-cli/pkg/salesforce"
)

// notionStorage writes each lead to the Notion lead database, with an
// optional secondary sync into Salesforce.
type notionStorage struct {
	notion notion.Client
	dbID   string
	sf     salesforce.Client
}

// NewNotionStorage creates a StorageProvider backed by Notion. sf may be nil;
// when present, leads are also inserted as Salesforce Lead records. A nil
// notion client produces an unconfigured provider that always reports
// unavailable.
func NewNotionStorage(nc notion.Client, dbID string, sf salesforce.Client) StorageProvider {
	return &notionStorage{notion: nc, dbID: dbID, sf: sf}
}

func (s *notionStorage) Name() string { return "notion" }

func (s *notionStorage) Store(ctx context.Context, practice *model.PracticeData) (*model.StorageRef, error) {
	if s.notion == nil {
		return nil, Unavailable(s.Name(), "no integration token configured")
	}
	if s.dbID == "" {
		return nil, Unavailable(s.Name(), "no lead database configured")
	}

	pageID, pageURL, err := notion.CreateLeadPage(ctx, s.notion, s.dbID, notion.LeadPage{
		Company:  practice.Company,
		Doctor:   practice.Doctor,
		Phone:    practice.Phone,
		Email:    practice.Email,
		Location: practice.Location,
		Website:  practice.Website,
		Services: practice.Services,
		Score:    practice.LeadScore,
	})
	if err != nil {
		return nil, WrapCall(s.Name(), err)
	}

	ref := &model.StorageRef{
		Provider: s.Name(),
		ID:       pageID,
		URL:      pageURL,
	}

	// Salesforce sync is best-effort: the Notion page is the system of
	// record, so a failed lookup or write degrades to a warning.
	if s.sf != nil {
		fields := salesforce.LeadFields(
			practice.Company, practice.Doctor, practice.Phone, practice.Email,
			practice.Location, practice.Website, practice.Services, practice.LeadScore,
		)
		if id := s.findLead(ctx, practice.Email); id != "" {
			if err := s.sf.UpdateOne(ctx, "Lead", id, fields); err != nil {
				zap.L().Warn("salesforce lead sync failed",
					zap.String("company", practice.Company),
					zap.Error(err),
				)
			} else {
				ref.SalesforceID = id
			}
		} else if sfID, err := s.sf.InsertOne(ctx, "Lead", fields); err != nil {
			zap.L().Warn("salesforce lead sync failed",
				zap.String("company", practice.Company),
				zap.Error(err),
			)
		} else {
			ref.SalesforceID = sfID
		}
	}

	return ref, nil
}

// findLead looks up a previously synced Salesforce lead by email so repeat
// runs update the existing record instead of inserting a duplicate.
func (s *notionStorage) findLead(ctx context.Context, email string) string {
	if email == "" {
		return ""
	}
	var leads []struct {
		Id string
	}
	if err := s.sf.Query(ctx, salesforce.LeadByEmailSOQL(email), &leads); err != nil {
		zap.L().Warn("salesforce lead lookup failed",
			zap.String("email", email),
			zap.Error(err),
		)
		return ""
	}
	if len(leads) == 0 {
		return ""
	}
	return leads[0].Id
}

// leadStatusLive is the Notion Status option set once a demo deploys.
const leadStatusLive = "Demo Live"

// UpdateOutcome marks the stored lead page as live and records the demo URL,
// mirroring the update onto the synced Salesforce lead when one exists.
func (s *notionStorage) UpdateOutcome(ctx context.Context, ref *model.StorageRef, deploy *model.DeployRef) error {
	if s.notion == nil {
		return Unavailable(s.Name(), "no integration token configured")
	}

	var demoURL string
	if deploy != nil {
		demoURL = deploy.URL
	}
	if err := notion.UpdateLeadStatus(ctx, s.notion, ref.ID, leadStatusLive, demoURL); err != nil {
		return WrapCall(s.Name(), err)
	}

	// Same best-effort policy as the initial sync.
	if s.sf != nil && ref.SalesforceID != "" {
		if err := s.sf.UpdateOne(ctx, "Lead", ref.SalesforceID, salesforce.OutcomeFields(demoURL)); err != nil {
			zap.L().Warn("salesforce lead update failed",
				zap.String("salesforce_id", ref.SalesforceID),
				zap.Error(err),
			)
		}
	}
	return nil
}
