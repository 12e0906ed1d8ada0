package notion

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient records the last create and update requests.
type fakeClient struct {
	lastCreate   *notionapi.PageCreateRequest
	createErr    error
	lastUpdateID string
	lastUpdate   *notionapi.PageUpdateRequest
	updateErr    error
}

func (f *fakeClient) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	f.lastCreate = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &notionapi.Page{ID: "page-123", URL: "https://notion.so/page-123"}, nil
}

func (f *fakeClient) UpdatePage(ctx context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	f.lastUpdateID = pageID
	f.lastUpdate = req
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &notionapi.Page{ID: notionapi.ObjectID(pageID)}, nil
}

func TestCreateLeadPage(t *testing.T) {
	fc := &fakeClient{}

	id, url, err := CreateLeadPage(context.Background(), fc, "db-1", LeadPage{
		Company:  "Example Clinic Clinic",
		Doctor:   "Dr. Sarah Johnson",
		Phone:    "+44 20 1234 5678",
		Email:    "info@example-clinic.com",
		Location: "London",
		Website:  "https://www.example-clinic.com",
		Services: []string{"Botox", "Fillers"},
		Score:    85,
	})
	require.NoError(t, err)
	assert.Equal(t, "page-123", id)
	assert.Equal(t, "https://notion.so/page-123", url)

	require.NotNil(t, fc.lastCreate)
	assert.Equal(t, notionapi.DatabaseID("db-1"), fc.lastCreate.Parent.DatabaseID)
}

func TestUpdateLeadStatus(t *testing.T) {
	fc := &fakeClient{}

	err := UpdateLeadStatus(context.Background(), fc, "page-123", "Demo Live",
		"https://exampleclinicclinic-demo.up.railway.app")
	require.NoError(t, err)

	assert.Equal(t, "page-123", fc.lastUpdateID)
	require.NotNil(t, fc.lastUpdate)

	status, ok := fc.lastUpdate.Properties["Status"].(notionapi.SelectProperty)
	require.True(t, ok)
	assert.Equal(t, "Demo Live", status.Select.Name)

	demo, ok := fc.lastUpdate.Properties["Demo URL"].(notionapi.URLProperty)
	require.True(t, ok)
	assert.Equal(t, "https://exampleclinicclinic-demo.up.railway.app", demo.URL)
}

func TestUpdateLeadStatusNoURL(t *testing.T) {
	fc := &fakeClient{}

	require.NoError(t, UpdateLeadStatus(context.Background(), fc, "page-123", "Demo Live", ""))
	_, hasURL := fc.lastUpdate.Properties["Demo URL"]
	assert.False(t, hasURL)
}

func TestLeadProperties(t *testing.T) {
	props := LeadProperties(LeadPage{
		Company: "Example Clinic Clinic",
		Phone:   "+44 20 1234 5678",
		Score:   92,
	})

	title, ok := props["Name"].(notionapi.TitleProperty)
	require.True(t, ok)
	require.Len(t, title.Title, 1)
	assert.Equal(t, "Example Clinic Clinic", title.Title[0].Text.Content)

	score, ok := props["Score"].(notionapi.NumberProperty)
	require.True(t, ok)
	assert.Equal(t, float64(92), score.Number)

	phone, ok := props["Phone"].(notionapi.PhoneNumberProperty)
	require.True(t, ok)
	assert.Equal(t, "+44 20 1234 5678", phone.PhoneNumber)

	// Empty optional fields are omitted entirely.
	_, hasEmail := props["Email"]
	assert.False(t, hasEmail)
	_, hasLocation := props["Location"]
	assert.False(t, hasLocation)
}
