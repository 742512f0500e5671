package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardbinder/cardbinder/pkg/catalog"
)

// fakeAdapter satisfies catalog.Service for selector tests; only ID matters.
type fakeAdapter struct {
	catalog.Service
	id catalog.ProviderID
}

func (f *fakeAdapter) ID() catalog.ProviderID { return f.id }

// countingFactory tracks how many adapters were constructed per provider.
type countingFactory struct {
	constructed map[catalog.ProviderID]int
}

func newCountingFactory() *countingFactory {
	return &countingFactory{constructed: make(map[catalog.ProviderID]int)}
}

func (f *countingFactory) factory(id catalog.ProviderID) (catalog.Service, error) {
	f.constructed[id]++
	return &fakeAdapter{id: id}, nil
}

// memPrefs is a minimal in-memory PreferenceStore.
type memPrefs struct {
	active catalog.ProviderID
	err    error
}

func (p *memPrefs) ActiveProvider(context.Context) (catalog.ProviderID, error) {
	return p.active, p.err
}

func (p *memPrefs) SetActiveProvider(_ context.Context, id catalog.ProviderID) error {
	if p.err != nil {
		return p.err
	}
	p.active = id
	return nil
}

func TestActiveDefaultsToPricingRichProvider(t *testing.T) {
	factory := newCountingFactory()
	s := New(&memPrefs{}, factory.factory)

	id, adapter, err := s.Active(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog.ProviderIDPTCG, id)
	assert.Equal(t, catalog.ProviderIDPTCG, adapter.ID())
}

func TestActiveLoadsPersistedPreference(t *testing.T) {
	factory := newCountingFactory()
	s := New(&memPrefs{active: catalog.ProviderIDTCGdex}, factory.factory)

	id, _, err := s.Active(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog.ProviderIDTCGdex, id)
}

func TestAdapterConstructedLazilyAndCached(t *testing.T) {
	factory := newCountingFactory()
	s := New(&memPrefs{}, factory.factory)

	assert.Empty(t, factory.constructed, "no adapter constructed before first use")

	_, first, err := s.Active(context.Background())
	require.NoError(t, err)
	_, second, err := s.Active(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, factory.constructed[catalog.ProviderIDPTCG])
}

func TestSwitchToPersistsAndSwaps(t *testing.T) {
	factory := newCountingFactory()
	prefs := &memPrefs{}
	s := New(prefs, factory.factory)

	ctx := context.Background()
	require.NoError(t, s.SwitchTo(ctx, catalog.ProviderIDTCGdex))

	id, adapter, err := s.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.ProviderIDTCGdex, id)
	assert.Equal(t, catalog.ProviderIDTCGdex, adapter.ID())
	assert.Equal(t, catalog.ProviderIDTCGdex, prefs.active, "preference persisted")
}

func TestSwitchToSameProviderIsNoOp(t *testing.T) {
	factory := newCountingFactory()
	prefs := &memPrefs{}
	s := New(prefs, factory.factory)

	ctx := context.Background()
	_, _, err := s.Active(ctx)
	require.NoError(t, err)

	require.NoError(t, s.SwitchTo(ctx, catalog.ProviderIDPTCG))
	assert.Equal(t, catalog.ProviderID(""), prefs.active, "no-op switch persists nothing")
}

func TestSwitchToUnknownProvider(t *testing.T) {
	s := New(&memPrefs{}, newCountingFactory().factory)

	err := s.SwitchTo(context.Background(), catalog.ProviderID("scryfall"))
	assert.Error(t, err)
}

func TestOldAdapterSurvivesSwitch(t *testing.T) {
	factory := newCountingFactory()
	s := New(&memPrefs{}, factory.factory)

	ctx := context.Background()
	_, old, err := s.Active(ctx)
	require.NoError(t, err)

	require.NoError(t, s.SwitchTo(ctx, catalog.ProviderIDTCGdex))

	// A caller that grabbed the old adapter before the switch keeps a
	// working reference; its in-flight work completes against ptcg.
	assert.Equal(t, catalog.ProviderIDPTCG, old.ID())
}

func TestIndependentSelectors(t *testing.T) {
	// Two selectors in one process do not share state.
	factory := newCountingFactory()
	s1 := New(&memPrefs{}, factory.factory)
	s2 := New(&memPrefs{}, factory.factory)

	ctx := context.Background()
	require.NoError(t, s1.SwitchTo(ctx, catalog.ProviderIDTCGdex))

	id2, _, err := s2.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.ProviderIDPTCG, id2)
}
