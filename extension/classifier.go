package extension

import (
	"sort"
)

// Candidate pairs an extension instance with the registry name it was
// discovered under. External (non-registry) extensions carry an empty name.
type Candidate struct {
	Name  string
	Value any
}

// Comparator orders two candidates. Negative means a before b, positive
// means b before a, zero leaves discovery order intact (the classifier
// sorts stably).
type Comparator func(a, b Candidate) int

// RankComparator orders candidates by declared numeric rank, ascending.
// Candidates without a rank sort last.
func RankComparator(a, b Candidate) int {
	ra, rb := RankOf(a.Value), RankOf(b.Value)
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	default:
		return 0
	}
}

// Partition holds candidates split into the three invocation tiers.
// Priority and Ordered are sorted by the classifier's comparator;
// Plain preserves discovery order.
type Partition struct {
	Priority []Candidate
	Ordered  []Candidate
	Plain    []Candidate
}

// Classifier partitions extension candidates into tiers and produces a
// stable, tie-broken ordering within a tier. The comparator is injected so
// callers can override tie-breaking; there is no implicit global comparator.
type Classifier struct {
	compare Comparator
}

// NewClassifier creates a classifier using the given comparator.
// A nil comparator falls back to RankComparator.
func NewClassifier(compare Comparator) *Classifier {
	if compare == nil {
		compare = RankComparator
	}
	return &Classifier{compare: compare}
}

// Classify partitions candidates into tiers based on their declared rank
// interfaces and sorts the Priority and Ordered tiers. Ties within a tier
// keep discovery order.
func (c *Classifier) Classify(candidates []Candidate) Partition {
	var p Partition
	for _, candidate := range candidates {
		switch TierOf(candidate.Value) {
		case TierPriority:
			p.Priority = append(p.Priority, candidate)
		case TierOrdered:
			p.Ordered = append(p.Ordered, candidate)
		default:
			p.Plain = append(p.Plain, candidate)
		}
	}
	c.Sort(p.Priority)
	c.Sort(p.Ordered)
	return p
}

// Sort orders candidates in place using the classifier's comparator.
// The sort is stable: equal candidates keep their discovery order.
func (c *Classifier) Sort(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return c.compare(candidates[i], candidates[j]) < 0
	})
}

// Flatten returns all candidates in strict tier order: Priority, then
// Ordered, then Plain.
func (p Partition) Flatten() []Candidate {
	out := make([]Candidate, 0, len(p.Priority)+len(p.Ordered)+len(p.Plain))
	out = append(out, p.Priority...)
	out = append(out, p.Ordered...)
	out = append(out, p.Plain...)
	return out
}
