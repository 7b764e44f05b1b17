package decision

// Verdict classifies a projection as trustworthy or not.
type Verdict string

const (
	VerdictRobust  Verdict = "ROBUST"
	VerdictFragile Verdict = "FRAGILE"
)

// CriterionResult represents pass/fail for one criterion.
type CriterionResult struct {
	Name      string `json:"name"`
	Threshold string `json:"threshold"`
	Actual    string `json:"actual"`
	Pass      bool   `json:"pass"`
}

// Result contains the verdict with its criterion checklist.
type Result struct {
	Verdict  Verdict           `json:"verdict"`
	Criteria []CriterionResult `json:"criteria"`
}

// Passed returns how many criteria passed.
func (r *Result) Passed() int {
	n := 0
	for _, c := range r.Criteria {
		if c.Pass {
			n++
		}
	}
	return n
}
