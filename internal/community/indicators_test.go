package community

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpsatlas/internal/atlas"
	"cpsatlas/internal/shared/testutil"
	"cpsatlas/pkg/contracts/domain"
)

type fakeTopicClient struct {
	responses map[string][]atlas.AreaData
	failOn    string
	calls     []string
}

func (f *fakeTopicClient) TopicInfo(ctx context.Context, slug, indicator string) ([]atlas.AreaData, error) {
	key := slug + "/" + indicator
	f.calls = append(f.calls, key)
	if f.failOn == key {
		return nil, fmt.Errorf("boom")
	}
	return f.responses[key], nil
}

func fptr(v float64) *float64 { return &v }

func TestFetchIndicators(t *testing.T) {
	client := &fakeTopicClient{
		responses: map[string][]atlas.AreaData{
			"albany-park/total-population": {{Number: fptr(51542), WeightPercent: fptr(1.9)}},
			"albany-park/hispanic-or-latino": {
				{Number: fptr(24000), WeightPercent: fptr(46.6)},
				{Number: fptr(1), WeightPercent: fptr(99.9)},
			},
			"albany-park/violent-crime": {{WeightPercent: fptr(3.1)}},
		},
	}

	areas := []domain.CommunityArea{{Slug: "albany-park", Name: "Albany Park"}}
	table, err := FetchIndicators(context.Background(), client, areas, nil)
	require.NoError(t, err)

	// total-population reads the number field
	v, ok := table.Lookup("albany-park", "total-population")
	require.True(t, ok)
	assert.Equal(t, 51542.0, v)

	// every other indicator reads weight_percent, first record only
	v, ok = table.Lookup("albany-park", "hispanic-or-latino")
	require.True(t, ok)
	assert.Equal(t, 46.6, v)

	v, ok = table.Lookup("albany-park", "violent-crime")
	require.True(t, ok)
	assert.Equal(t, 3.1, v)

	// indicators with no atlas reading stay absent
	_, ok = table.Lookup("albany-park", "non-hispanic-white")
	assert.False(t, ok)
}

func TestFetchIndicatorsRequestOrder(t *testing.T) {
	client := &fakeTopicClient{}
	areas := []domain.CommunityArea{
		{Slug: "albany-park"},
		{Slug: "avalon-park"},
	}

	_, err := FetchIndicators(context.Background(), client, areas, nil)
	require.NoError(t, err)

	// All indicators for one area before moving to the next, in list order
	require.Len(t, client.calls, 2*len(Indicators))
	for i, indicator := range Indicators {
		assert.Equal(t, "albany-park/"+indicator, client.calls[i])
		assert.Equal(t, "avalon-park/"+indicator, client.calls[len(Indicators)+i])
	}
}

func TestFetchIndicatorsFailFast(t *testing.T) {
	client := &fakeTopicClient{failOn: "albany-park/hispanic-or-latino"}
	areas := []domain.CommunityArea{
		{Slug: "albany-park"},
		{Slug: "avalon-park"},
	}

	_, err := FetchIndicators(context.Background(), client, areas, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "albany-park/hispanic-or-latino")

	// The failing request is the last one issued
	assert.Equal(t, "albany-park/hispanic-or-latino", client.calls[len(client.calls)-1])
}

func TestFetchIndicatorsNilReading(t *testing.T) {
	client := &fakeTopicClient{
		responses: map[string][]atlas.AreaData{
			// Record exists but carries no usable value
			"albany-park/total-population": {{WeightPercent: fptr(12.0)}},
			"albany-park/violent-crime":    {{Number: fptr(7)}},
		},
	}

	areas := []domain.CommunityArea{{Slug: "albany-park"}}
	table, err := FetchIndicators(context.Background(), client, areas, nil)
	require.NoError(t, err)

	_, ok := table.Lookup("albany-park", "total-population")
	assert.False(t, ok, "number missing means the cell stays absent")
	_, ok = table.Lookup("albany-park", "violent-crime")
	assert.False(t, ok, "weight_percent missing means the cell stays absent")
}

func TestMontclareOverrides(t *testing.T) {
	client := &fakeTopicClient{
		responses: map[string][]atlas.AreaData{
			// Fetched values that the patch must replace
			"montclare/total-population":  {{Number: fptr(999)}},
			"montclare/hispanic-or-latino": {{WeightPercent: fptr(1.0)}},
			// violent-crime is not patched, the fetched value must survive
			"montclare/violent-crime": {{WeightPercent: fptr(22.2)}},
		},
	}

	areas := []domain.CommunityArea{{Slug: "montclare", Name: "Montclare"}}
	table, err := FetchIndicators(context.Background(), client, areas, nil)
	require.NoError(t, err)

	expected := map[string]float64{
		"total-population":                       12992,
		"non-hispanic-african-american-or-black": 4.5,
		"non-hispanic-asian-or-pacific-islander": 4.0,
		"hispanic-or-latino":                     58.4,
		"non-hispanic-white":                     31.0,
		"single-parent-households":               9.6,
		"limited-english-proficiency":            23.9,
		"violent-crime":                          22.2,
	}
	for indicator, want := range expected {
		v, ok := table.Lookup("montclare", indicator)
		require.True(t, ok, "expected %s to be present", indicator)
		assert.Equal(t, want, v, indicator)
	}
}

func TestMontclareOverridesWithoutFetchedValues(t *testing.T) {
	// Montclare appears in the roster but the atlas returns nothing for it
	client := &fakeTopicClient{}
	areas := []domain.CommunityArea{{Slug: "montclare"}}

	table, err := FetchIndicators(context.Background(), client, areas, nil)
	require.NoError(t, err)

	v, ok := table.Lookup("montclare", "single-parent-households")
	require.True(t, ok)
	assert.Equal(t, 9.6, v)

	_, ok = table.Lookup("montclare", "violent-crime")
	assert.False(t, ok, "violent-crime has no override and no fetched value")
}

func TestFetchIndicatorsLogsSummary(t *testing.T) {
	client := &fakeTopicClient{
		responses: map[string][]atlas.AreaData{
			"albany-park/total-population": {{Number: fptr(51542)}},
			"albany-park/violent-crime":    {{WeightPercent: fptr(3.1)}},
		},
	}
	logger, rec := testutil.NewTestLogger()

	_, err := FetchIndicators(context.Background(), client, []domain.CommunityArea{{Slug: "albany-park"}}, logger)
	require.NoError(t, err)

	assert.True(t, rec.ContainsMessage("indicator fetch complete"))
	assert.True(t, rec.ContainsAttr("areas", int64(1)))
	assert.True(t, rec.ContainsAttr("cells", int64(2)))
}
