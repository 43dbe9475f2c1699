package domain

// Platform identifies the external advertising platform an entity came from.
type Platform string

const (
	PlatformTikTok Platform = "tiktok"
)

// EntityKind names the hierarchy levels fetched from a platform.
type EntityKind string

const (
	KindCampaign EntityKind = "campaign"
	KindAdGroup  EntityKind = "adgroup"
	KindAd       EntityKind = "ad"
)

// AdStatus is the unified status of a campaign, ad group or ad.
type AdStatus string

const (
	StatusActive   AdStatus = "active"
	StatusPaused   AdStatus = "paused"
	StatusPending  AdStatus = "pending"
	StatusRejected AdStatus = "rejected"
)

// MapOperationStatus converts a platform operation_status value into an
// AdStatus. Unknown values default to active, matching how the platform
// reports freshly created entities.
func MapOperationStatus(s string) AdStatus {
	switch s {
	case "DISABLE", "disable", "pause", "suspend", "deleted":
		return StatusPaused
	case "pending", "under_review":
		return StatusPending
	case "rejected":
		return StatusRejected
	default:
		return StatusActive
	}
}

// ContentStyle groups content by creative style for budget breakdowns.
type ContentStyle string

const (
	StyleSale     ContentStyle = "SALE"
	StyleReview   ContentStyle = "REVIEW"
	StyleBranding ContentStyle = "BRANDING"
	StyleEcom     ContentStyle = "ECOM"
	StyleOther    ContentStyle = "OTHER"
)
