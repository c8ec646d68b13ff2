// Package directory implements the discovery view over groups: source
// partitioning and the filter predicate used by the browsing surfaces.
// Everything here is a pure function of its inputs.
package directory

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkordes/backpackers/internal/domain"
)

// Budget bracket identifiers accepted by Filters.Budget.
const (
	BudgetUnder25 = "under25"
	Budget25To40  = "25to40"
	Budget40Plus  = "40plus"
)

// Partition selects which side of the source split a listing shows.
type Partition string

const (
	PartitionAll       Partition = "all"
	PartitionCommunity Partition = "community"
	PartitionHosted    Partition = "hosted"
)

// ParsePartition maps an empty value to PartitionAll and rejects anything
// unknown.
func ParsePartition(s string) (Partition, error) {
	switch p := Partition(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PartitionAll, nil
	case PartitionAll, PartitionCommunity, PartitionHosted:
		return p, nil
	}
	return "", &domain.ValidationError{Reason: fmt.Sprintf("unknown source %q", s), Fields: []string{"source"}}
}

// Brackets holds the budget thresholds. under25 is avgBudget < LowCeiling,
// 25to40 is LowCeiling <= avgBudget <= HighFloor and 40plus is
// avgBudget > HighFloor.
type Brackets struct {
	LowCeiling float64
	HighFloor  float64
}

// DefaultBrackets are the thresholds used when none are configured.
var DefaultBrackets = Brackets{LowCeiling: 25000, HighFloor: 40000}

// Filters is the query object of the directory. Empty fields match
// everything.
type Filters struct {
	SearchTerm string
	TripType   string
	Budget     string
	Month      string
	Source     Partition
}

// Validate rejects bracket and month values no group could ever match.
func (f Filters) Validate() error {
	var fields []string
	switch f.Budget {
	case "", BudgetUnder25, Budget25To40, Budget40Plus:
	default:
		fields = append(fields, "budget")
	}
	if f.Month != "" && !isMonthName(f.Month) {
		fields = append(fields, "month")
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Reason: "unknown filter value", Fields: fields}
	}
	return nil
}

// Engine applies Filters with a fixed set of budget brackets.
type Engine struct {
	brackets Brackets
}

// NewEngine returns an Engine using the given thresholds.
func NewEngine(b Brackets) *Engine {
	return &Engine{brackets: b}
}

// Apply returns the groups that pass f, in their input order. It never
// mutates groups, so applying the same filters to its own output yields the
// same result.
func (e *Engine) Apply(groups []domain.Group, f Filters) []domain.Group {
	out := make([]domain.Group, 0, len(groups))
	for _, g := range groups {
		if e.Match(g, f) {
			out = append(out, g)
		}
	}
	return out
}

// Match reports whether g passes every non-empty filter.
func (e *Engine) Match(g domain.Group, f Filters) bool {
	if !inPartition(g, f.Source) {
		return false
	}
	if f.SearchTerm != "" {
		haystack := strings.ToLower(g.GroupName + " " + g.Destination + " " + g.CreatorID)
		if !strings.Contains(haystack, strings.ToLower(f.SearchTerm)) {
			return false
		}
	}
	if f.TripType != "" && g.TripType != f.TripType {
		return false
	}
	if f.Budget != "" && !e.inBracket(g.AvgBudget, f.Budget) {
		return false
	}
	if f.Month != "" && MonthOf(g.StartDate) != f.Month {
		return false
	}
	return true
}

func (e *Engine) inBracket(avg float64, bracket string) bool {
	switch bracket {
	case BudgetUnder25:
		return avg < e.brackets.LowCeiling
	case Budget25To40:
		return avg >= e.brackets.LowCeiling && avg <= e.brackets.HighFloor
	case Budget40Plus:
		return avg > e.brackets.HighFloor
	}
	return false
}

func inPartition(g domain.Group, p Partition) bool {
	switch p {
	case PartitionCommunity:
		return domain.SourceOf(g) == domain.SourceCommunity
	case PartitionHosted:
		return domain.SourceOf(g) == domain.SourceHosted
	}
	return true
}

// MonthOf returns the English month name of t in UTC, e.g. "November".
func MonthOf(t time.Time) string {
	return t.UTC().Month().String()
}

func isMonthName(s string) bool {
	for m := time.January; m <= time.December; m++ {
		if m.String() == s {
			return true
		}
	}
	return false
}

// Split partitions groups into community and hosted, preserving order.
func Split(groups []domain.Group) (community, hosted []domain.Group) {
	for _, g := range groups {
		if domain.SourceOf(g) == domain.SourceHosted {
			hosted = append(hosted, g)
			continue
		}
		community = append(community, g)
	}
	return community, hosted
}

// Paginate returns the slice of groups for p, or an empty slice when the
// page is past the end.
func Paginate(groups []domain.Group, p domain.PaginationParams) []domain.Group {
	start := p.Offset()
	if start < 0 || start >= len(groups) {
		return []domain.Group{}
	}
	end := start + p.Limit
	if end > len(groups) {
		end = len(groups)
	}
	return groups[start:end]
}
