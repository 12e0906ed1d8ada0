package provider

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/resilience"
	"github.com/sells-group/leadgen-cli/pkg/firecrawl"
)

// firecrawlDiscovery extracts practice identity fields from the target's
// homepage via Firecrawl.
type firecrawlDiscovery struct {
	client firecrawl.Client
}

// NewFirecrawlDiscovery creates a DiscoveryProvider backed by Firecrawl.
// A nil client produces an unconfigured provider that always reports
// unavailable.
func NewFirecrawlDiscovery(client firecrawl.Client) DiscoveryProvider {
	return &firecrawlDiscovery{client: client}
}

func (d *firecrawlDiscovery) Name() string { return "firecrawl" }

func (d *firecrawlDiscovery) Discover(ctx context.Context, target string) (*model.PracticeData, error) {
	if d.client == nil {
		return nil, Unavailable(d.Name(), "no api key configured")
	}

	resp, err := d.client.Scrape(ctx, firecrawl.ScrapeRequest{
		URL:     normalizeTarget(target),
		Formats: []string{"markdown"},
	})
	if err != nil {
		var apiErr *firecrawl.APIError
		if errors.As(err, &apiErr) && resilience.IsTransientHTTPStatus(apiErr.StatusCode) {
			err = resilience.NewTransientError(err, apiErr.StatusCode)
		}
		return nil, WrapCall(d.Name(), err)
	}
	if !resp.Success {
		return nil, WrapCall(d.Name(), errors.New("scrape returned success=false"))
	}

	practice := parsePractice(target, &resp.Data)
	if practice.Company == "" {
		return nil, WrapCall(d.Name(), errors.New("no practice name found on page"))
	}

	zap.L().Debug("discovered practice",
		zap.String("target", target),
		zap.String("company", practice.Company),
		zap.Int("score", practice.LeadScore),
	)
	return practice, nil
}

// normalizeTarget ensures the target has a scheme so Firecrawl accepts it.
func normalizeTarget(target string) string {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}
	return "https://" + target
}

var (
	phonePattern   = regexp.MustCompile(`(\+?\d[\d\s().-]{7,}\d)`)
	emailPattern   = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	doctorPattern  = regexp.MustCompile(`(Dr\.?\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)
	addressPattern = regexp.MustCompile(`\d+ [\w ,.-]*(?:Street|Road|Avenue|Lane|Drive|Boulevard|Way|Plaza|Suite)\b[\w ,.-]*`)
)

// serviceKeywords are the treatment categories surfaced in the demo config.
var serviceKeywords = []string{
	"Botox", "Fillers", "Dermal Fillers", "Chiropractic", "Physiotherapy",
	"Dental Implants", "Teeth Whitening", "Invisalign", "Orthodontics",
	"Skin Rejuvenation", "Laser Treatment", "Massage Therapy", "Acupuncture",
	"Cosmetic Dentistry", "General Dentistry", "Facial Aesthetics",
}

// parsePractice pulls identity fields out of a scraped page. The lead score
// reflects completeness: more contact detail means a warmer lead.
func parsePractice(target string, page *firecrawl.PageData) *model.PracticeData {
	p := &model.PracticeData{
		Website: normalizeTarget(target),
	}

	p.Company = cleanCompany(page.Metadata.OGSiteName)
	if p.Company == "" {
		p.Company = cleanCompany(page.Metadata.Title)
	}
	if p.Company == "" {
		p.Company = cleanCompany(page.Title)
	}

	if m := doctorPattern.FindString(page.Markdown); m != "" {
		p.Doctor = strings.TrimSpace(m)
	}
	if m := phonePattern.FindString(page.Markdown); m != "" {
		p.Phone = strings.TrimSpace(m)
	}
	if m := emailPattern.FindString(page.Markdown); m != "" {
		p.Email = m
	}
	if m := addressPattern.FindString(page.Markdown); m != "" {
		p.Location = strings.TrimSpace(strings.Trim(m, ",.- "))
	}

	lower := strings.ToLower(page.Markdown)
	for _, kw := range serviceKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			p.Services = append(p.Services, kw)
		}
	}

	p.LeadScore = scorePractice(p)
	return p
}

// cleanCompany strips the tagline suffix sites append to their titles.
func cleanCompany(title string) string {
	for _, sep := range []string{" | ", " - ", " – ", " :: "} {
		if i := strings.Index(title, sep); i > 0 {
			title = title[:i]
		}
	}
	return strings.TrimSpace(title)
}

// scorePractice rates lead quality from field completeness, capped at 99 to
// match the fallback score ceiling.
func scorePractice(p *model.PracticeData) int {
	score := 60
	for _, field := range []string{p.Doctor, p.Phone, p.Email, p.Location} {
		if field != "" {
			score += 8
		}
	}
	score += min(len(p.Services), 5)
	return min(score, 99)
}
