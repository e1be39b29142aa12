package bootstrap

// processedSet tracks which registry-resident extensions have already been
// invoked during one orchestration run. A fresh set is created per run so
// repeated bootstraps (embedded or test harness restarts) never see stale
// state.
type processedSet struct {
	names map[string]struct{}
}

func newProcessedSet() *processedSet {
	return &processedSet{names: make(map[string]struct{})}
}

func (s *processedSet) add(name string) {
	s.names[name] = struct{}{}
}

func (s *processedSet) has(name string) bool {
	_, ok := s.names[name]
	return ok
}
