package domain

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed targets.yaml
var defaultTargetsYAML []byte

// ReachBucket holds the engagement-rate targets for one reach tier. Rates
// are percentages of reach; the target absolute count for a signal is
// reach * rate / 100. MaxReach of zero means the bucket is unbounded.
type ReachBucket struct {
	Name        string  `yaml:"name"`
	MaxReach    int64   `yaml:"max_reach"`
	CommentRate float64 `yaml:"comment_rate"`
	ShareRate   float64 `yaml:"share_rate"`
	SaveRate    float64 `yaml:"save_rate"`
	LikeRate    float64 `yaml:"like_rate"`
}

// TargetTable is the ordered list of reach buckets used by the scorer.
type TargetTable struct {
	Buckets []ReachBucket `yaml:"buckets"`
}

// DefaultTargetTable parses the embedded bucket table. It panics only on a
// broken embed, which is a build defect, not a runtime condition.
func DefaultTargetTable() TargetTable {
	t, err := parseTargetTable(defaultTargetsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded score targets invalid: %v", err))
	}
	return t
}

// LoadTargetTable reads a bucket table from a YAML file, falling back to
// the embedded defaults when path is empty.
func LoadTargetTable(path string) (TargetTable, error) {
	if path == "" {
		return DefaultTargetTable(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return TargetTable{}, err
	}
	return parseTargetTable(raw)
}

func parseTargetTable(raw []byte) (TargetTable, error) {
	var t TargetTable
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return TargetTable{}, err
	}
	if len(t.Buckets) == 0 {
		return TargetTable{}, fmt.Errorf("target table has no buckets")
	}
	return t, nil
}

// BucketFor returns the first bucket whose MaxReach bound covers the
// given reach. The final bucket is the unbounded catch-all.
func (t TargetTable) BucketFor(reach int64) ReachBucket {
	for _, b := range t.Buckets {
		if b.MaxReach > 0 && reach < b.MaxReach {
			return b
		}
	}
	return t.Buckets[len(t.Buckets)-1]
}

// ScoreParams are the scorer's tuning knobs. Costs are in minor currency
// units; see DefaultScoreParams for the production values.
type ScoreParams struct {
	Targets TargetTable
	// LowCostPerEngagement and HighCostPerEngagement bound the
	// cost-efficiency multiplier interpolation.
	LowCostPerEngagement  float64
	HighCostPerEngagement float64
	// SpendPenaltyTiers lists total-spend thresholds above which the
	// diminishing-returns penalty compounds when engagement per currency
	// unit stays below MinEngagementPerUnit.
	SpendPenaltyTiers    []int64
	MinEngagementPerUnit float64
	// ReferenceCTR is the click-through ratio treated as a full content
	// bonus when video duration is unknown.
	ReferenceCTR float64
	// HighQualityThreshold gates the organic bonus for zero-spend content.
	HighQualityThreshold float64
	OrganicBonusFactor   float64
}

// DefaultScoreParams returns the production scoring parameters.
func DefaultScoreParams() ScoreParams {
	return ScoreParams{
		Targets:               DefaultTargetTable(),
		LowCostPerEngagement:  100,  // 1.00 per weighted engagement
		HighCostPerEngagement: 500,  // 5.00 per weighted engagement
		SpendPenaltyTiers:     []int64{1_000_000, 5_000_000},
		MinEngagementPerUnit:  0.002,
		ReferenceCTR:          0.05,
		HighQualityThreshold:  1.0,
		OrganicBonusFactor:    1.2,
	}
}

// ScoreBreakdown records every intermediate of a score computation so the
// result can be audited later.
type ScoreBreakdown struct {
	Bucket          string  `json:"bucket"`
	NormComments    float64 `json:"norm_comments"`
	NormShares      float64 `json:"norm_shares"`
	NormSaves       float64 `json:"norm_saves"`
	NormLikes       float64 `json:"norm_likes"`
	Quality         float64 `json:"quality"`
	CostMultiplier  float64 `json:"cost_multiplier"`
	ContentBonus    float64 `json:"content_bonus"`
	OrganicBonus    bool    `json:"organic_bonus"`
	Final           float64 `json:"final"`
}

// ComputeScore derives the performance score for one content item.
//
// Quality normalizes each engagement signal against its reach-bucket
// target (uncapped, beating the benchmark is rewarded without limit) and
// weights shares 40, saves 30, comments 20, likes 10, over 100. The cost
// multiplier in [0.5, 1.5] rewards cheap engagement and throttles
// expensive or diminishing-returns spend. The content bonus in [0, 0.5]
// comes from video completion when duration is known, else click-through.
// Zero-spend content above the high-quality threshold earns the organic
// bonus factor. No ceiling on the final value.
func ComputeScore(c *Content, p ScoreParams) ScoreBreakdown {
	bd := ScoreBreakdown{CostMultiplier: 1.0}
	if c.Reach <= 0 {
		return bd
	}

	bucket := p.Targets.BucketFor(c.Reach)
	bd.Bucket = bucket.Name

	reach := float64(c.Reach)
	bd.NormComments = normalize(float64(c.Comments), reach*bucket.CommentRate/100)
	bd.NormShares = normalize(float64(c.Shares), reach*bucket.ShareRate/100)
	bd.NormSaves = normalize(float64(c.Saves), reach*bucket.SaveRate/100)
	bd.NormLikes = normalize(float64(c.Likes), reach*bucket.LikeRate/100)

	bd.Quality = (bd.NormShares*40 + bd.NormSaves*30 + bd.NormComments*20 + bd.NormLikes*10) / 100

	bd.CostMultiplier = costMultiplier(c, p)
	bd.ContentBonus = contentBonus(c, p)

	bd.Final = bd.Quality*bd.CostMultiplier + bd.ContentBonus
	if c.TotalAdSpend == 0 && bd.Quality >= p.HighQualityThreshold {
		bd.OrganicBonus = true
		bd.Final *= p.OrganicBonusFactor
	}
	return bd
}

func normalize(actual, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return actual / target
}

// weightedEngagement mirrors the quality weights so the cost multiplier
// prices the same signals the score rewards.
func weightedEngagement(c *Content) float64 {
	return float64(c.Shares)*4 + float64(c.Saves)*3 + float64(c.Comments)*2 + float64(c.Likes)
}

func costMultiplier(c *Content, p ScoreParams) float64 {
	if c.TotalAdSpend <= 0 {
		return 1.0
	}
	engagement := weightedEngagement(c)
	if engagement <= 0 {
		return 0.5
	}

	cpe := float64(c.TotalAdSpend) / engagement
	var mult float64
	switch {
	case cpe <= p.LowCostPerEngagement:
		mult = 1.5 - 0.5*(cpe/p.LowCostPerEngagement)
	case cpe >= p.HighCostPerEngagement:
		mult = 0.5
	default:
		span := p.HighCostPerEngagement - p.LowCostPerEngagement
		mult = 1.0 - 0.5*(cpe-p.LowCostPerEngagement)/span
	}

	// Diminishing-returns guard: heavy spend that keeps buying little
	// engagement compounds a penalty per exceeded tier.
	perUnit := engagement / float64(c.TotalAdSpend)
	if perUnit < p.MinEngagementPerUnit {
		for _, tier := range p.SpendPenaltyTiers {
			if c.TotalAdSpend > tier {
				mult *= 0.8
			}
		}
	}

	return clamp(mult, 0.5, 1.5)
}

func contentBonus(c *Content, p ScoreParams) float64 {
	if c.VideoDuration > 0 {
		return 0.5 * clamp(c.CompletionRate, 0, 1)
	}
	if c.ClickThroughRate > 0 && p.ReferenceCTR > 0 {
		return 0.5 * clamp(c.ClickThroughRate/p.ReferenceCTR, 0, 1)
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
