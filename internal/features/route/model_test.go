package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleRoute() *Route {
	return &Route{
		RouteID:    "RT-001",
		StartPoint: "Colombo",
		EndPoint:   "Kandy",
		Distance:   115,
		Stops:      []string{"Kegalle"},
		Prices: []SegmentPrice{
			{From: "Colombo", To: "Kegalle", Price: 250},
			{From: "Colombo", To: "Kandy", Price: 450},
			{From: "Kegalle", To: "Kandy", Price: 220},
		},
	}
}

func TestAllPoints(t *testing.T) {
	rt := sampleRoute()
	assert.Equal(t, []string{"Colombo", "Kegalle", "Kandy"}, rt.AllPoints())

	rt.Stops = nil
	assert.Equal(t, []string{"Colombo", "Kandy"}, rt.AllPoints())
}

func TestOrderedIndexes(t *testing.T) {
	rt := sampleRoute()

	from, to, ok := rt.OrderedIndexes("Colombo", "Kandy")
	assert.True(t, ok)
	assert.Equal(t, 0, from)
	assert.Equal(t, 2, to)

	_, _, ok = rt.OrderedIndexes("Kandy", "Colombo")
	assert.False(t, ok, "reversed direction must not order")

	_, _, ok = rt.OrderedIndexes("Colombo", "Galle")
	assert.False(t, ok, "unknown point must not order")

	_, _, ok = rt.OrderedIndexes("Kegalle", "Kegalle")
	assert.False(t, ok, "same point must not order")
}

func TestPriceFor(t *testing.T) {
	rt := sampleRoute()

	price, ok := rt.PriceFor("Colombo", "Kegalle")
	assert.True(t, ok)
	assert.Equal(t, 250.0, price)

	// Prices are directional.
	_, ok = rt.PriceFor("Kegalle", "Colombo")
	assert.False(t, ok)
}

func TestMissingPricePairs(t *testing.T) {
	rt := sampleRoute()

	assert.Empty(t, MissingPricePairs(rt.AllPoints(), rt.Prices))

	// Drop one segment and expect exactly that pair back.
	partial := rt.Prices[:2]
	missing := MissingPricePairs(rt.AllPoints(), partial)
	assert.Equal(t, []PricePair{{From: "Kegalle", To: "Kandy"}}, missing)

	// No prices at all: every ordered pair of the three points.
	missing = MissingPricePairs(rt.AllPoints(), nil)
	assert.Len(t, missing, 3)
}
