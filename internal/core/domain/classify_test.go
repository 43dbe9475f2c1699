package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyAd(t *testing.T) {
	tests := []struct {
		name     string
		ad       string
		adGroup  string
		campaign string
		want     AdCategory
	}{
		{"token in ad name", "SUMMER_ABX_V1", "group", "campaign", CategoryABX},
		{"token in group name", "ad", "Q3_ACE_GROUP", "campaign", CategoryACE},
		{"token in campaign name", "ad", "group", "BRAND_ABX_PUSH", CategoryABX},
		{"lowercase matches", "summer_abx_v1", "group", "campaign", CategoryABX},
		{"abx wins over ace", "X_ACE_Y", "Z_ABX_W", "campaign", CategoryABX},
		{"token needs underscores", "ABX PROMO", "ACE GROUP", "campaign", CategoryGeneral},
		{"no token", "Organic promo", "Spring push", "Brand awareness", CategoryGeneral},
		{"empty names", "", "", "", CategoryGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyAd(tt.ad, tt.adGroup, tt.campaign))
		})
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		name string
		want ContentStyle
	}{
		{"ABX_SALE_GROUP_1", StyleSale},
		{"abx_review_group", StyleReview},
		{"BRANDING push", StyleBranding},
		{"ECOM_Q3", StyleEcom},
		{"plain group", StyleOther},
		{"", StyleOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseStyle(tt.name), "name %q", tt.name)
	}
}
