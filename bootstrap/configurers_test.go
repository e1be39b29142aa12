package bootstrap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/wirekit/definition"
	"github.com/c360/wirekit/errors"
	"github.com/c360/wirekit/extension"
)

func newConfigurerPhase() *configurerPhase {
	return &configurerPhase{
		classifier: extension.NewClassifier(nil),
		logger:     discardLogger(),
	}
}

func TestConfigurerPhase_RankOrder(t *testing.T) {
	tr := &trace{}
	r := definition.NewRegistry()

	// Rank 10 registered before rank 1; rank wins inside the Ordered tier.
	registerExtension(t, r, "c10", &testConfigurer{name: "c10", rank: 10, trace: tr},
		definition.CapabilityConfigurer, definition.CapabilityRanked)
	registerExtension(t, r, "c1", &testConfigurer{name: "c1", rank: 1, trace: tr},
		definition.CapabilityConfigurer, definition.CapabilityRanked)

	require.NoError(t, newConfigurerPhase().run(r, newProcessedSet()))

	assert.Equal(t, []string{"configure:c1", "configure:c10"}, tr.calls)
}

func TestConfigurerPhase_TierOrder(t *testing.T) {
	tr := &trace{}
	r := definition.NewRegistry()

	registerExtension(t, r, "plain", &testConfigurer{name: "plain", trace: tr},
		definition.CapabilityConfigurer)
	registerExtension(t, r, "ordered", &testConfigurer{name: "ordered", rank: 3, trace: tr},
		definition.CapabilityConfigurer, definition.CapabilityRanked)
	registerExtension(t, r, "priority", &testConfigurer{name: "priority", rank: 7, trace: tr},
		definition.CapabilityConfigurer, definition.CapabilityPriority)

	require.NoError(t, newConfigurerPhase().run(r, newProcessedSet()))

	assert.Equal(t, []string{
		"configure:priority", "configure:ordered", "configure:plain",
	}, tr.calls)
}

func TestConfigurerPhase_SkipsProcessed(t *testing.T) {
	tr := &trace{}
	r := definition.NewRegistry()

	registerExtension(t, r, "seen", &testConfigurer{name: "seen", trace: tr},
		definition.CapabilityConfigurer)
	registerExtension(t, r, "fresh", &testConfigurer{name: "fresh", trace: tr},
		definition.CapabilityConfigurer)

	processed := newProcessedSet()
	processed.add("seen")

	require.NoError(t, newConfigurerPhase().run(r, processed))

	assert.Equal(t, []string{"configure:fresh"}, tr.calls)
}

func TestConfigurerPhase_InvalidatesMergedCache(t *testing.T) {
	r := definition.NewRegistry()

	require.NoError(t, r.Register(&definition.Definition{
		Name:     "svc",
		Metadata: map[string]any{"mode": "initial"},
		Factory:  func(*definition.Registry) (any, error) { return struct{}{}, nil },
	}))

	merged, err := r.MergedDefinition("svc")
	require.NoError(t, err)
	require.Equal(t, "initial", merged.Metadata["mode"])

	tr := &trace{}
	registerExtension(t, r, "tuner", &testConfigurer{name: "tuner", trace: tr,
		onConfigure: func(reg *definition.Registry) error {
			def, err := reg.Definition("svc")
			if err != nil {
				return err
			}
			def.Metadata["mode"] = "updated"
			return nil
		}},
		definition.CapabilityConfigurer)

	require.NoError(t, newConfigurerPhase().run(r, newProcessedSet()))

	// The cache was invalidated after the phase, so the merged view picks
	// up the configurer's change.
	merged, err = r.MergedDefinition("svc")
	require.NoError(t, err)
	assert.Equal(t, "updated", merged.Metadata["mode"])
}

func TestConfigurerPhase_ErrorAbortsPhase(t *testing.T) {
	tr := &trace{}
	r := definition.NewRegistry()

	registerExtension(t, r, "boom", &testConfigurer{name: "boom", trace: tr,
		onConfigure: func(*definition.Registry) error {
			return fmt.Errorf("configuration exploded")
		}},
		definition.CapabilityConfigurer, definition.CapabilityPriority)
	registerExtension(t, r, "after", &testConfigurer{name: "after", trace: tr},
		definition.CapabilityConfigurer)

	err := newConfigurerPhase().run(r, newProcessedSet())
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
	assert.NotContains(t, tr.calls, "configure:after")
}
