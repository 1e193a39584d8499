package deck

import (
	"fmt"
	"strconv"
	"strings"
)

// Run is one (label, count) pair of a geom_kind list
type Run struct {
	Label string
	Count int
}

// RunList is the run-length encoded geom_kind list. It tracks which
// geometry kind every geometry record belongs to, in record order.
//
// Pop and DecrementFirstPositive consume the list; a RunList is not safe
// for concurrent use. Use NewPlan when batches must be derived independently.
type RunList struct {
	runs []Run
}

// ParseRunList tokenizes raw on whitespace. Each token is either "label"
// (count 1) or "count*label". A leading geom_kind keyword is ignored so the
// whole control line may be passed.
func ParseRunList(raw string) (*RunList, error) {
	tokens := strings.Fields(raw)
	if len(tokens) > 0 && tokens[0] == KeyGeometryKind {
		tokens = tokens[1:]
	}

	rl := &RunList{runs: make([]Run, 0, len(tokens))}
	for _, tok := range tokens {
		r, err := parseRun(tok)
		if err != nil {
			return nil, err
		}
		rl.runs = append(rl.runs, r)
	}
	return rl, nil
}

func parseRun(tok string) (Run, error) {
	fields := strings.Split(tok, "*")
	switch len(fields) {
	case 1:
		return Run{Label: fields[0], Count: 1}, nil
	case 2:
		if fields[1] == "" {
			return Run{}, &FormatError{Token: tok, msg: "empty label"}
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return Run{}, &FormatError{Token: tok, msg: "count is not an integer"}
		}
		if n < 0 {
			return Run{}, &FormatError{Token: tok, msg: "count is negative"}
		}
		return Run{Label: fields[1], Count: n}, nil
	default:
		return Run{}, &FormatError{Token: tok, msg: fmt.Sprintf("expected [count*]label, got %d fields", len(fields))}
	}
}

// NewRunList builds a list from runs. Negative counts are clamped to zero.
func NewRunList(runs ...Run) *RunList {
	rl := &RunList{runs: make([]Run, len(runs))}
	for i, r := range runs {
		rl.runs[i] = Run{Label: r.Label, Count: max(r.Count, 0)}
	}
	return rl
}

// Runs returns a copy of the pairs, exhausted ones included
func (rl *RunList) Runs() []Run {
	out := make([]Run, len(rl.runs))
	copy(out, rl.runs)
	return out
}

// Total returns the number of label units left
func (rl *RunList) Total() int {
	total := 0
	for _, r := range rl.runs {
		total += r.Count
	}
	return total
}

// Labels expands the remaining units into one label per geometry record
func (rl *RunList) Labels() []string {
	out := make([]string, 0, rl.Total())
	for _, r := range rl.runs {
		for i := 0; i < r.Count; i++ {
			out = append(out, r.Label)
		}
	}
	return out
}

// DecrementFirstPositive removes amount units from the first run whose
// count is still positive. Counts never go below zero: an over-decrement
// empties the run and returns ErrOverDecrement.
func (rl *RunList) DecrementFirstPositive(amount int) error {
	if amount < 0 {
		return fmt.Errorf("negative decrement %d", amount)
	}
	for i := range rl.runs {
		if rl.runs[i].Count <= 0 {
			continue
		}
		if amount > rl.runs[i].Count {
			short := amount - rl.runs[i].Count
			rl.runs[i].Count = 0
			return fmt.Errorf("%w: run %q short by %d", ErrOverDecrement, rl.runs[i].Label, short)
		}
		rl.runs[i].Count -= amount
		return nil
	}
	return ErrRunListExhausted
}

// Pop removes up to n label units from the front, in run order, and returns
// them run-length encoded. Exhausted runs are skipped. When fewer than n
// units remain, everything left is popped.
func (rl *RunList) Pop(n int) string {
	if n <= 0 {
		return ""
	}
	labels := make([]string, 0, min(n, rl.Total()))
	i := 0
	for len(labels) < n && i < len(rl.runs) {
		if rl.runs[i].Count <= 0 {
			i++
			continue
		}
		labels = append(labels, rl.runs[i].Label)
		rl.runs[i].Count--
	}
	return EncodeRuns(labels)
}

// String renders the remaining runs as a geom_kind control line, one
// count*label token per 8-column field
func (rl *RunList) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-*s", KeywordWidth, KeyGeometryKind))
	for _, r := range rl.runs {
		if r.Count > 0 {
			sb.WriteString(fmt.Sprintf("%-7s ", fmt.Sprintf("%d*%s", r.Count, r.Label)))
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

// EncodeRuns compresses adjacent equal labels into "count*label" tokens
// (bare label for a single unit) joined by single spaces
func EncodeRuns(labels []string) string {
	var tokens []string
	for i := 0; i < len(labels); {
		j := i + 1
		for j < len(labels) && labels[j] == labels[i] {
			j++
		}
		if n := j - i; n > 1 {
			tokens = append(tokens, fmt.Sprintf("%d*%s", n, labels[i]))
		} else {
			tokens = append(tokens, labels[i])
		}
		i = j
	}
	return strings.Join(tokens, " ")
}
