package media

import "strings"

// Directive is a single set of image-processing instructions applied by
// the remote store at upload time. Zero-valued fields are omitted from
// the encoded transformation.
type Directive struct {
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Crop        string `json:"crop,omitempty"`
	Gravity     string `json:"gravity,omitempty"`
	Quality     string `json:"quality,omitempty"`
	FetchFormat string `json:"fetch_format,omitempty"`
}

// Policy is an ordered sequence of directives.
type Policy []Directive

// The three built-in policies, selected from the folder classification.
var (
	// PolicyPortrait crops a fixed square around the detected face, for
	// avatars and designer portraits.
	PolicyPortrait = Policy{{
		Width:   400,
		Height:  400,
		Crop:    "fill",
		Gravity: "face",
		Quality: "auto",
	}}

	// PolicyGallery bounds both dimensions while preserving aspect ratio
	// and never upscales.
	PolicyGallery = Policy{{
		Width:   1200,
		Height:  1200,
		Crop:    "limit",
		Quality: "auto",
	}}

	// PolicyDefault leaves sizing alone and lets the store pick quality
	// and delivery format.
	PolicyDefault = Policy{{
		Quality:     "auto",
		FetchFormat: "auto",
	}}
)

// policyRule pairs a folder predicate with the policy it selects.
// Rules are evaluated in order; the first match wins.
type policyRule struct {
	matches func(folder string) bool
	policy  Policy
}

var policyRules = []policyRule{
	{
		matches: func(f string) bool {
			return strings.Contains(f, "admin-avatars") || strings.Contains(f, "designer")
		},
		policy: PolicyPortrait,
	},
	{
		matches: func(f string) bool { return strings.Contains(f, "gallery") },
		policy: PolicyGallery,
	},
}

// SelectPolicy derives the transformation policy for a folder
// classification. A non-empty override wins wholesale; no merging is
// performed. Otherwise the folder is matched against the rule list and
// the first hit is returned, falling back to PolicyDefault.
func SelectPolicy(folder string, override Policy) Policy {
	if len(override) > 0 {
		return override
	}
	for _, rule := range policyRules {
		if rule.matches(folder) {
			return rule.policy
		}
	}
	return PolicyDefault
}
