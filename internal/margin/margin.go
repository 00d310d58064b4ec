// Package margin maps a profit margin percentage to a qualitative tier.
package margin

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// TierID identifies a tier. Higher ids are better margins.
type TierID int

const (
	Catastrophic TierID = iota
	HeavyLoss
	LightLoss
	BreakEven
	Critical
	Low
	Reasonable
	CoffeeCovered
	RoomToImprove
	Good
	Excellent
	Turbo
	Ultra
	Ridiculous
	Mythic
	Overkill
)

// Severity drives coloring only.
type Severity string

const (
	SeveritySevere  Severity = "severe"
	SeverityLoss    Severity = "loss"
	SeverityNeutral Severity = "neutral"
	SeverityWarning Severity = "warning"
	SeverityCaution Severity = "caution"
	SeverityGood    Severity = "good"
	SeverityGreat   Severity = "great"
)

// Tier is one row of the classification table. LowerBound is the inclusive
// percentage at which the tier starts; it is informational for the tiers at
// or below zero, whose edges are not inclusive lower bounds. It is not
// encoded because the lowest tier starts at -Inf.
type Tier struct {
	ID         TierID   `json:"id"`
	Key        string   `json:"key"`
	LowerBound float64  `json:"-"`
	Label      string   `json:"label"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
}

const (
	epsilon   = 1e-6
	minMargin = -1000
	maxMargin = 50000
)

var tiers = [...]Tier{
	Catastrophic:  {Catastrophic, "catastrophic", math.Inf(-1), "Catastrophic loss", SeveritySevere, "Pull the brake. Review every cost."},
	HeavyLoss:     {HeavyLoss, "heavy_loss", -30, "Heavy loss", SeverityLoss, "Every piece ships in the red. Reprice now."},
	LightLoss:     {LightLoss, "light_loss", -10, "Light loss", SeverityLoss, "Recoverable. Small adjustments fix it."},
	BreakEven:     {BreakEven, "break_even", 0, "No profit", SeverityNeutral, "Break-even. Needs a small push."},
	Critical:      {Critical, "critical", 0, "Critical margin", SeverityCaution, "Almost nothing. Optimise time and supplies."},
	Low:           {Low, "low", 5, "Low margin", SeverityWarning, "Watch out: there is fat to trim."},
	Reasonable:    {Reasonable, "reasonable", 15, "Reasonable margin", SeverityGood, "Getting there."},
	CoffeeCovered: {CoffeeCovered, "coffee_covered", 25, "Coffee covered", SeverityGood, "This piece paid for the office coffee."},
	RoomToImprove: {RoomToImprove, "room_to_improve", 40, "Room to improve", SeverityGood, "Scaling nicely."},
	Good:          {Good, "good", 60, "Good margin", SeverityGood, "Healthy profit. Well done."},
	Excellent:     {Excellent, "excellent", 100, "Excellent margin", SeverityGreat, "Boosted profit. Congratulations."},
	Turbo:         {Turbo, "turbo", 200, "Turbo", SeverityGreat, "Printer in turbo mode."},
	Ultra:         {Ultra, "ultra", 400, "Ultra", SeverityGreat, "This became a margin machine."},
	Ridiculous:    {Ridiculous, "ridiculous", 700, "Ridiculous", SeverityGreat, "A margin worth dancing for."},
	Mythic:        {Mythic, "mythic", 1000, "Mythic", SeverityGreat, "Scoreboard blown."},
	Overkill:      {Overkill, "overkill", 1500, "Overkill", SeverityGreat, "Infinite mode. You hacked the margin."},
}

// Tiers returns the table ordered from worst to best.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers[:])
	return out
}

// Lookup returns the fixed record for id.
func Lookup(id TierID) (Tier, bool) {
	if id < Catastrophic || id > Overkill {
		return Tier{}, false
	}
	return tiers[id], true
}

func (id TierID) String() string {
	if t, ok := Lookup(id); ok {
		return t.Key
	}
	return "TierID(" + strconv.Itoa(int(id)) + ")"
}

// Better reports whether a is a strictly better tier than b.
func Better(a, b TierID) bool { return a > b }

// Classify maps a margin percentage to its tier.
func Classify(pct float64) Tier {
	return tiers[classify(Normalize(pct))]
}

// ClassifyString parses s with Parse and classifies the result.
func ClassifyString(s string) Tier {
	return Classify(Parse(s))
}

func classify(pct float64) TierID {
	for id := Overkill; id >= Low; id-- {
		if pct+epsilon >= tiers[id].LowerBound {
			return id
		}
	}
	switch {
	case pct > 0:
		return Critical
	case math.Abs(pct) <= epsilon:
		return BreakEven
	case pct > -10:
		return LightLoss
	case pct > -30:
		return HeavyLoss
	default:
		return Catastrophic
	}
}

// Normalize applies the ratio rule (|v| <= 1 means a fraction), clamps to
// the table range and rounds to 3 decimals. Non-finite input becomes 0.
func Normalize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if math.Abs(v) <= 1 {
		v *= 100
	}
	v = math.Max(minMargin, math.Min(maxMargin, v))
	return math.Floor(v*1000+0.5) / 1000
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// Parse reads a percentage typed by a user: "120%", " 12,5 ", "0.7".
// The longest numeric prefix is used; anything unparseable is 0.
func Parse(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.Replace(s, "%", "", 1)
	s = strings.Join(strings.Fields(s), "")
	s = strings.Replace(s, ",", ".", 1)

	m := leadingNumber.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}
