// Package fallback resolves each pipeline phase against its real provider and
// synthesizes deterministic demo data when the provider is unavailable or its
// call fails. Every result carries a provenance tag so downstream consumers
// can tell real data from synthesized data.
package fallback

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// knownTLDs are stripped from a target hostname before deriving a practice
// name. Compound suffixes come first so ".co.uk" wins over ".uk".
var knownTLDs = []string{
	".co.uk", ".org.uk", ".ac.uk", ".com.au",
	".com", ".net", ".org", ".info", ".biz",
	".io", ".co", ".uk", ".nl", ".de", ".fr", ".eu",
	".health", ".clinic", ".dental", ".care", ".doctor",
}

var titleCaser = cases.Title(language.English)

// DerivePracticeName turns a target URL into a presentable practice name:
// scheme, path, www prefix, and known TLD are stripped, the remaining host
// words are title-cased, and "Clinic" is appended.
//
//	www.example-clinic.co.uk -> "Example Clinic Clinic"
func DerivePracticeName(target string) string {
	host := target
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	host = strings.TrimPrefix(host, "www.")

	for _, tld := range knownTLDs {
		if strings.HasSuffix(host, tld) {
			host = strings.TrimSuffix(host, tld)
			break
		}
	}

	words := strings.FieldsFunc(host, func(r rune) bool {
		return r == '-' || r == '.'
	})
	if len(words) == 0 {
		return "Clinic"
	}
	for i, w := range words {
		words[i] = titleCaser.String(w)
	}
	return strings.Join(words, " ") + " Clinic"
}

// rng returns a generator seeded from the target so synthesized data is
// stable across runs for the same target.
func rng(target string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(target))
	seed := h.Sum64()
	return rand.New(rand.NewPCG(seed, seed))
}

// hostOf extracts the bare hostname from a target for email synthesis.
func hostOf(target string) string {
	host := target
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	return strings.TrimPrefix(host, "www.")
}

// SynthesizePractice builds a complete practice record from nothing but the
// target URL and the fallback profiles. The lead score is uniform in [70,99].
func SynthesizePractice(target string, profiles *Profiles) *model.PracticeData {
	r := rng(target)
	host := hostOf(target)

	website := target
	if !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
		website = "https://" + website
	}

	return &model.PracticeData{
		Company:   DerivePracticeName(target),
		Doctor:    profiles.Doctors[r.IntN(len(profiles.Doctors))],
		Phone:     fmt.Sprintf("+44 20 7%03d %04d", r.IntN(1000), r.IntN(10000)),
		Email:     "info@" + host,
		Location:  profiles.Locations[r.IntN(len(profiles.Locations))],
		Services:  profiles.Services,
		Website:   website,
		LeadScore: 70 + r.IntN(30),
	}
}

// SynthesizeStorage stands in for a CRM record when no storage provider is
// reachable. The ID is stable per practice.
func SynthesizeStorage(practice *model.PracticeData) *model.StorageRef {
	return &model.StorageRef{
		Provider: "fallback",
		ID:       "local-" + practice.PracticeID(),
	}
}

// SynthesizeVoice stands in for a synthesized voice agent.
func SynthesizeVoice(practice *model.PracticeData) *model.VoiceRef {
	return &model.VoiceRef{
		Provider: "fallback",
		AgentID:  "demo-" + practice.PracticeID() + "-agent",
	}
}

// SynthesizeRepo points at the shared demo template instead of a personalized
// repository.
func SynthesizeRepo(practice *model.PracticeData, owner string) *model.RepoRef {
	if owner == "" {
		owner = "demo"
	}
	name := practice.PracticeID() + "-demo"
	return &model.RepoRef{
		Name:     name,
		FullName: owner + "/" + name,
		URL:      fmt.Sprintf("https://github.com/%s/%s", owner, name),
	}
}

// SynthesizeDeploy predicts the URL the demo would live at once deployed.
func SynthesizeDeploy(practice *model.PracticeData) *model.DeployRef {
	id := practice.PracticeID()
	return &model.DeployRef{
		ProjectID: "fallback-" + id,
		URL:       fmt.Sprintf("https://%s-demo.up.railway.app", id),
	}
}
