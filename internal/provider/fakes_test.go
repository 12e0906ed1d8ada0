package provider

import (
	"context"

	"github.com/jomei/notionapi"

	"github.com/sells-group/leadgen-cli/pkg/anthropic"
	"github.com/sells-group/leadgen-cli/pkg/elevenlabs"
	"github.com/sells-group/leadgen-cli/pkg/firecrawl"
	"github.com/sells-group/leadgen-cli/pkg/github"
	"github.com/sells-group/leadgen-cli/pkg/railway"
)

type fakeFirecrawl struct {
	resp *firecrawl.ScrapeResponse
	err  error
	got  firecrawl.ScrapeRequest
}

func (f *fakeFirecrawl) Scrape(_ context.Context, req firecrawl.ScrapeRequest) (*firecrawl.ScrapeResponse, error) {
	f.got = req
	return f.resp, f.err
}

type fakeNotion struct {
	page      *notionapi.Page
	err       error
	got       *notionapi.PageCreateRequest
	updateErr error
	updatedID string
	updated   *notionapi.PageUpdateRequest
}

func (f *fakeNotion) CreatePage(_ context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	f.got = req
	return f.page, f.err
}

func (f *fakeNotion) UpdatePage(_ context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	f.updatedID = pageID
	f.updated = req
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.page, nil
}

type fakeSalesforce struct {
	queryID   string
	queryErr  error
	gotQuery  string
	insertID  string
	insertErr error
	gotObject string
	gotRecord map[string]any
	updateErr error
	updatedID string
	updated   map[string]any
}

func (f *fakeSalesforce) Query(_ context.Context, soql string, out any) error {
	f.gotQuery = soql
	if f.queryErr != nil {
		return f.queryErr
	}
	if f.queryID == "" {
		return nil
	}
	if leads, ok := out.(*[]struct{ Id string }); ok {
		*leads = append(*leads, struct{ Id string }{Id: f.queryID})
	}
	return nil
}

func (f *fakeSalesforce) InsertOne(_ context.Context, sObjectName string, record map[string]any) (string, error) {
	f.gotObject = sObjectName
	f.gotRecord = record
	return f.insertID, f.insertErr
}

func (f *fakeSalesforce) UpdateOne(_ context.Context, _ string, id string, fields map[string]any) error {
	f.updatedID = id
	f.updated = fields
	return f.updateErr
}

type fakeElevenLabs struct {
	resp *elevenlabs.CreateAgentResponse
	err  error
	got  elevenlabs.CreateAgentRequest
}

func (f *fakeElevenLabs) CreateAgent(_ context.Context, req elevenlabs.CreateAgentRequest) (*elevenlabs.CreateAgentResponse, error) {
	f.got = req
	return f.resp, f.err
}

type fakeAnthropic struct {
	resp *anthropic.MessageResponse
	err  error
}

func (f *fakeAnthropic) CreateMessage(context.Context, anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	return f.resp, f.err
}

type fakeGitHub struct {
	repo      *github.Repo
	repoErr   error
	putErr    error
	putPaths  []string
	putBodies map[string]string
}

func (f *fakeGitHub) CreateRepo(_ context.Context, req github.CreateRepoRequest) (*github.Repo, error) {
	return f.repo, f.repoErr
}

func (f *fakeGitHub) PutFile(_ context.Context, owner, repo, path string, req github.PutFileRequest) (*github.ContentResponse, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.putPaths = append(f.putPaths, path)
	if f.putBodies == nil {
		f.putBodies = map[string]string{}
	}
	f.putBodies[path] = req.Content
	return &github.ContentResponse{}, nil
}

// fakeRailway replays canned tool results keyed by tool name.
type fakeRailway struct {
	connected bool
	results   map[string]string
	errs      map[string]error
	calls     []string
	args      map[string]map[string]any
}

var _ railway.Client = (*fakeRailway)(nil)

func (f *fakeRailway) Connect(context.Context) error {
	f.connected = true
	return nil
}

func (f *fakeRailway) Connected() bool { return f.connected }

func (f *fakeRailway) Close() error {
	f.connected = false
	return nil
}

func (f *fakeRailway) CallTool(_ context.Context, name string, args map[string]any) (string, error) {
	f.calls = append(f.calls, name)
	if f.args == nil {
		f.args = map[string]map[string]any{}
	}
	f.args[name] = args
	if err, ok := f.errs[name]; ok {
		return "", err
	}
	return f.results[name], nil
}
