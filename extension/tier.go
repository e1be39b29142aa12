// Package extension defines the ordering model for container extensions:
// numeric ranks, the three invocation tiers, and the classifier that
// partitions and sorts extension instances deterministically.
package extension

// Tier classifies extensions into invocation tiers. Members of a lower tier
// are always invoked before members of a higher tier, regardless of their
// numeric rank; rank only orders members within the Priority and Ordered
// tiers.
type Tier int

const (
	// TierPriority extensions run before everything else
	TierPriority Tier = iota
	// TierOrdered extensions run after Priority, ordered by rank
	TierOrdered
	// TierPlain extensions run last, in discovery order
	TierPlain
)

// String returns a string representation of the tier
func (t Tier) String() string {
	switch t {
	case TierPriority:
		return "priority"
	case TierOrdered:
		return "ordered"
	case TierPlain:
		return "plain"
	default:
		return "unknown"
	}
}

// DefaultRank is the rank assigned to extensions that do not declare one.
// It sorts after every explicitly ranked extension.
const DefaultRank = int(^uint(0) >> 1)

// Ranked extensions declare a numeric rank. Lower ranks are invoked earlier
// within their tier.
type Ranked interface {
	Rank() int
}

// Prioritized marks an extension for the Priority tier. The marker method is
// never called; implementing the interface is the declaration.
type Prioritized interface {
	Ranked
	Prioritized()
}

// RankOf returns the declared rank of v, or DefaultRank if v is not Ranked.
func RankOf(v any) int {
	if ranked, ok := v.(Ranked); ok {
		return ranked.Rank()
	}
	return DefaultRank
}

// TierOf returns the tier v belongs to based on its declared interfaces.
func TierOf(v any) Tier {
	if _, ok := v.(Prioritized); ok {
		return TierPriority
	}
	if _, ok := v.(Ranked); ok {
		return TierOrdered
	}
	return TierPlain
}
