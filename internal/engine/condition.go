package engine

import (
	"strconv"
	"strings"

	"github.com/SujalNimbalkar/task-management/internal/model"
)

// DefaultThreshold is the achievement percentage below which a report
// spawns an action plan.
const DefaultThreshold = 85.0

// Condition evaluates the achievement-below-threshold predicate over
// submitted report data. Fail-closed: malformed or missing numbers
// never trigger anything.
type Condition struct {
	Threshold float64
}

func NewCondition(threshold float64) Condition {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return Condition{Threshold: threshold}
}

// BelowThreshold reports whether any row's achievement percentage is
// below the threshold. Submissions without table rows fall back to the
// legacy scalar pair on the header.
func (c Condition) BelowThreshold(fd *model.FormData) bool {
	if fd == nil {
		return false
	}
	if len(fd.Rows) > 0 {
		for _, row := range fd.Rows {
			if below, ok := c.rowAchievement(row.Field("actual_production"), row.Field("target_qty")); ok && below {
				return true
			}
		}
		return false
	}
	below, ok := c.rowAchievement(fd.Get("actual_production"), fd.Get("target_qty"))
	return ok && below
}

// RowBelowThreshold evaluates a single row, used when filtering which
// rows carry over into an action plan.
func (c Condition) RowBelowThreshold(row model.Row) bool {
	below, ok := c.rowAchievement(row.Field("actual_production"), row.Field("target_qty"))
	return ok && below
}

// Achievement computes actual/target*100 for a row. ok is false when
// either value is missing, non-numeric, or target is zero.
func (c Condition) Achievement(row model.Row) (float64, bool) {
	actual, err1 := parseNumber(row.Field("actual_production"))
	target, err2 := parseNumber(row.Field("target_qty"))
	if err1 != nil || err2 != nil || target <= 0 {
		return 0, false
	}
	return actual / target * 100, true
}

func (c Condition) rowAchievement(actualStr, targetStr string) (below, ok bool) {
	actual, err1 := parseNumber(actualStr)
	target, err2 := parseNumber(targetStr)
	if err1 != nil || err2 != nil || target <= 0 {
		return false, false
	}
	return actual/target*100 < c.Threshold, true
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
