package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMergesDuplicates(t *testing.T) {
	c := New()
	c.Add(Line{ItemID: "1", Name: "Shawarma", Price: 20})
	c.Add(Line{ItemID: "1", Name: "Shawarma", Price: 20})

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 2, c.Count())
}

func TestSetQuantityClampsToOne(t *testing.T) {
	c := New()
	c.Add(Line{ItemID: "1", Price: 12.5})

	c.SetQuantity("1", 0)
	assert.Equal(t, 1, c.Lines()[0].Quantity)

	c.SetQuantity("1", -3)
	assert.Equal(t, 1, c.Lines()[0].Quantity)

	c.SetQuantity("1", 4)
	assert.Equal(t, 4, c.Lines()[0].Quantity)
}

func TestRemoveAndClear(t *testing.T) {
	c := New()
	c.Add(Line{ItemID: "1", Price: 10})
	c.Add(Line{ItemID: "2", Price: 15})

	c.Remove("1")
	require.Len(t, c.Lines(), 1)
	assert.Equal(t, "2", c.Lines()[0].ItemID)

	c.Remove("missing")
	assert.Len(t, c.Lines(), 1)

	c.Clear()
	assert.Empty(t, c.Lines())
	assert.Equal(t, 0, c.Count())
	assert.Zero(t, c.Total())
}

func TestTotalScenario(t *testing.T) {
	// Cart [{id:1,price:20,qty:2},{id:2,price:15,qty:1}] totals 55.00 and
	// converts to exactly 5500 fils.
	c := FromLines([]Line{
		{ItemID: "1", Price: 20, Quantity: 2},
		{ItemID: "2", Price: 15, Quantity: 1},
	})

	assert.InDelta(t, 55.00, c.Total(), 1e-9)
	assert.Equal(t, int64(5500), c.TotalFils())
	assert.Equal(t, 3, c.Count())
}

func TestFromLinesMergesAndClamps(t *testing.T) {
	c := FromLines([]Line{
		{ItemID: "1", Price: 20, Quantity: 2},
		{ItemID: "2", Price: 15, Quantity: 0},
		{ItemID: "1", Price: 20, Quantity: 1},
	})

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestLinesJSONMatchesBrowserBlob(t *testing.T) {
	blob := `[{"id":"a","name":"Falafel Wrap","category":"wraps","price":18.5,"quantity":2}]`

	var lines []Line
	require.NoError(t, json.Unmarshal([]byte(blob), &lines))

	c := FromLines(lines)
	assert.Equal(t, int64(3700), c.TotalFils())

	out, err := json.Marshal(c.Lines())
	require.NoError(t, err)
	assert.JSONEq(t, blob, string(out))
}

func TestInsertionOrderStable(t *testing.T) {
	c := New()
	for _, id := range []string{"c", "a", "b"} {
		c.Add(Line{ItemID: id, Price: 1})
	}
	c.Add(Line{ItemID: "a", Price: 1})

	var ids []string
	for _, l := range c.Lines() {
		ids = append(ids, l.ItemID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}
