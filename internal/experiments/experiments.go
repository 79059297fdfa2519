// Package experiments assigns client sessions to experiment variations and
// applies feature overrides from the URL.
package experiments

import (
	"hash/fnv"
	"slices"
)

// FeatureParam is the query parameter that forces features on.
const FeatureParam = "feature"

// Experiment describes one A/B test. The first variation is the control.
type Experiment struct {
	Key              string
	Variations       []string
	PercentOfUsers   int
	LimitToLanguages []string
	LimitToVersions  []string
}

// Defaults are the experiments currently running on the site.
var Defaults = []Experiment{
	{
		Key:              "ai_search_experiment",
		Variations:       []string{"control", "treatment"},
		PercentOfUsers:   30,
		LimitToLanguages: []string{"en"},
	},
	{
		Key:             "sidebar_versions",
		Variations:      []string{"control", "treatment"},
		PercentOfUsers:  50,
		LimitToVersions: []string{"free-pro-team@latest", "enterprise-cloud@latest"},
	},
}

// Control returns the control variation.
func (x Experiment) Control() string {
	if len(x.Variations) == 0 {
		return ""
	}
	return x.Variations[0]
}

// Treatment returns the first non-control variation, or the control when
// there is none.
func (x Experiment) Treatment() string {
	if len(x.Variations) < 2 {
		return x.Control()
	}
	return x.Variations[1]
}

// HasVariation reports whether v is one of the experiment's variations.
func (x Experiment) HasVariation(v string) bool {
	return slices.Contains(x.Variations, v)
}

// Eligible reports whether a session on locale and version takes part.
func (x Experiment) Eligible(locale, version string) bool {
	if len(x.LimitToLanguages) > 0 && !slices.Contains(x.LimitToLanguages, locale) {
		return false
	}
	if len(x.LimitToVersions) > 0 && !slices.Contains(x.LimitToVersions, version) {
		return false
	}
	return true
}

// Bucket maps a session and experiment key onto [0, 100).
func Bucket(sessionID, key string) int {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	h.Write([]byte{0})
	h.Write([]byte(key))
	return int(h.Sum32() % 100)
}

// Assign picks the variation for sessionID without overrides.
func (x Experiment) Assign(sessionID string) string {
	if Bucket(sessionID, x.Key) < x.PercentOfUsers {
		return x.Treatment()
	}
	return x.Control()
}
