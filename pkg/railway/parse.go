package railway

import (
	"regexp"
	"strings"
)

// Tool results are prose with embedded identifiers, e.g.
//
//	Created project "exampleclinicclinic-demo" (ID: 7f2c...-...)
//	Domain: exampleclinicclinic-demo-production.up.railway.app
//
// These helpers pull the structured bits back out.

var idPattern = regexp.MustCompile(`ID:\s*([A-Za-z0-9-]+)\)`)

// ExtractID returns the first "(ID: ...)" identifier in a tool result, or ""
// when none is present.
func ExtractID(text string) string {
	m := idPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// ExtractIDs returns every "(ID: ...)" identifier in a tool result, in order.
func ExtractIDs(text string) []string {
	matches := idPattern.FindAllStringSubmatch(text, -1)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[1])
	}
	return ids
}

// ExtractDomain returns the first *.up.railway.app hostname in a tool result,
// or "" when none is present.
func ExtractDomain(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, ".up.railway.app") {
			continue
		}
		for _, field := range strings.Fields(line) {
			field = strings.Trim(field, `"'(),:`)
			field = strings.TrimPrefix(field, "https://")
			field = strings.TrimPrefix(field, "http://")
			if strings.HasSuffix(field, ".up.railway.app") {
				return field
			}
		}
	}
	return ""
}
