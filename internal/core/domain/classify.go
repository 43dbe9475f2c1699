package domain

import "strings"

// AdCategory tags how an ad is managed by this system.
//
// ABX ad groups carry many contents per group, ACE groups carry exactly
// one. GENERAL means the entity was created directly on the platform,
// outside the naming convention, and is excluded from both managed
// buckets.
type AdCategory string

const (
	CategoryABX     AdCategory = "ABX"
	CategoryACE     AdCategory = "ACE"
	CategoryGeneral AdCategory = "GENERAL"
)

// classificationRules is an ordered rule table: the first token found in
// any of the name fields wins. ABX is listed before ACE on purpose, so a
// name that could match both classifies as ABX. Matching is heuristic by
// nature; an unrelated substring hit will misclassify.
var classificationRules = []struct {
	Category AdCategory
	Token    string
}{
	{CategoryABX, "_ABX_"},
	{CategoryACE, "_ACE_"},
}

// ClassifyAd derives the ad category from the ad, ad group and campaign
// names. Names are upper-cased before matching so the convention is case
// insensitive. Falls back to GENERAL, never errors.
func ClassifyAd(adName, adGroupName, campaignName string) AdCategory {
	names := []string{
		strings.ToUpper(adName),
		strings.ToUpper(adGroupName),
		strings.ToUpper(campaignName),
	}
	for _, rule := range classificationRules {
		for _, name := range names {
			if strings.Contains(name, rule.Token) {
				return rule.Category
			}
		}
	}
	return CategoryGeneral
}

// styleTokens maps naming-convention tokens to content styles, checked in
// order.
var styleTokens = []struct {
	Style ContentStyle
	Token string
}{
	{StyleSale, "SALE"},
	{StyleReview, "REVIEW"},
	{StyleBranding, "BRANDING"},
	{StyleEcom, "ECOM"},
}

// ParseStyle derives the content style from an ad group name. Unrecognized
// names map to OTHER.
func ParseStyle(adGroupName string) ContentStyle {
	name := strings.ToUpper(adGroupName)
	for _, t := range styleTokens {
		if strings.Contains(name, t.Token) {
			return t.Style
		}
	}
	return StyleOther
}
