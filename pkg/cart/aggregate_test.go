package cart

import (
	"strconv"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	json "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unit(id int64, name, amount string) LineItem {
	return LineItem{
		ProductID: json.RawMessage(strconv.FormatInt(id, 10)),
		Name:      name,
		Amount:    json.RawMessage(amount),
	}
}

func rawUnit(id, amount string) LineItem {
	return LineItem{ProductID: json.RawMessage(id), Name: "raw", Amount: json.RawMessage(amount)}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAggregateFoldsUnits(t *testing.T) {
	snap := Aggregate([]LineItem{
		unit(1, "Mug", "10"),
		unit(2, "Pen", "5"),
		unit(1, "Mug", "10"),
	})

	require.Len(t, snap.Entries, 2)
	assert.Equal(t, Entry{ProductID: 1, Name: "Mug", UnitAmount: dec("10"), Quantity: 2}, snap.Entries[0])
	assert.Equal(t, Entry{ProductID: 2, Name: "Pen", UnitAmount: dec("5"), Quantity: 1}, snap.Entries[1])
	assert.True(t, dec("25").Equal(snap.Total), "total was %s", snap.Total)
	assert.Equal(t, 0, snap.Skipped)
}

func TestAggregateEmpty(t *testing.T) {
	snap := Aggregate(nil)
	assert.Empty(t, snap.Entries)
	assert.True(t, snap.Total.IsZero())
	assert.True(t, snap.IsEmpty())

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"entries":[]`)

	data, err = json.Marshal(Snapshot{}.Clone())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"entries":[]`)
}

func TestAggregateSkipsMalformed(t *testing.T) {
	snap := Aggregate([]LineItem{
		unit(1, "Mug", "10"),
		rawUnit(`null`, `3`),
		rawUnit(`"abc"`, `3`),
		rawUnit(`2.5`, `3`),
		rawUnit(`0`, `3`),
		rawUnit(``, `3`),
		rawUnit(`4`, ``),
		rawUnit(`4`, `"cheap"`),
		rawUnit(`1e200000000`, `3`),
		rawUnit(`6`, `1e200000000`),
		rawUnit(`6`, `"1e-200000000"`),
		rawUnit(`"5"`, `"2.25"`),
	})

	require.Len(t, snap.Entries, 2)
	assert.Equal(t, int64(1), snap.Entries[0].ProductID)
	assert.Equal(t, int64(5), snap.Entries[1].ProductID)
	assert.Equal(t, 10, snap.Skipped)
	assert.True(t, dec("12.25").Equal(snap.Total))
}

func TestAggregateTotalSumsEachUnit(t *testing.T) {
	// the same product listed at two prices keeps the first unit price
	// but the total counts both
	snap := Aggregate([]LineItem{
		unit(1, "Mug", "10"),
		unit(1, "Mug", "12"),
	})

	require.Len(t, snap.Entries, 1)
	assert.Equal(t, 2, snap.Entries[0].Quantity)
	assert.True(t, dec("10").Equal(snap.Entries[0].UnitAmount))
	assert.True(t, dec("22").Equal(snap.Total))
}

func TestAggregateIgnoresWireQuantity(t *testing.T) {
	item := unit(1, "Mug", "10")
	item.Quantity = json.RawMessage(`4`)

	snap := Aggregate([]LineItem{item})
	assert.Equal(t, 1, snap.Entries[0].Quantity)
}

func TestAggregateProperties(t *testing.T) {
	require.NoError(t, gofakeit.Seed(1729))

	for round := 0; round < 200; round++ {
		n := gofakeit.IntRange(0, 40)
		items := make([]LineItem, 0, n)
		want := decimal.Zero
		valid := 0
		var order []int64
		seen := map[int64]bool{}

		for i := 0; i < n; i++ {
			if gofakeit.IntRange(0, 9) == 0 {
				items = append(items, rawUnit(`"`+gofakeit.Word()+`"`, `1`))
				continue
			}
			id := int64(gofakeit.IntRange(1, 8))
			amount := decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2)
			items = append(items, unit(id, gofakeit.ProductName(), amount.String()))
			want = want.Add(amount)
			valid++
			if !seen[id] {
				seen[id] = true
				order = append(order, id)
			}
		}

		snap := Aggregate(items)

		assert.Equal(t, valid, snap.Units(), "round %d: units", round)
		assert.Equal(t, n-valid, snap.Skipped, "round %d: skipped", round)
		assert.True(t, want.Equal(snap.Total), "round %d: total %s want %s", round, snap.Total, want)

		got := make([]int64, 0, len(snap.Entries))
		for _, e := range snap.Entries {
			assert.GreaterOrEqual(t, e.Quantity, 1)
			got = append(got, e.ProductID)
		}
		if len(order) == 0 {
			assert.Empty(t, got)
		} else {
			assert.Equal(t, order, got, "round %d: first-seen order", round)
		}

		assert.Equal(t, snap, Aggregate(items), "round %d: deterministic", round)
	}
}

func TestSnapshotHelpers(t *testing.T) {
	snap := Aggregate([]LineItem{unit(1, "Mug", "10"), unit(1, "Mug", "10"), unit(2, "Pen", "5")})

	assert.Equal(t, 2, snap.Quantity(1))
	assert.Equal(t, 0, snap.Quantity(9))
	assert.Equal(t, 3, snap.Units())

	clone := snap.Clone()
	clone.Entries[0].Quantity = 99
	assert.Equal(t, 2, snap.Entries[0].Quantity, "clone must not alias entries")

	added := snap.withUnit(Product{ID: 3, Name: "Cap", Amount: dec("7")})
	assert.True(t, added.Optimistic)
	assert.Equal(t, 1, added.Quantity(3))
	assert.True(t, dec("32").Equal(added.Total))
	assert.Equal(t, 0, snap.Quantity(3))

	removed := snap.without(1)
	assert.Equal(t, 0, removed.Quantity(1))
	assert.True(t, dec("5").Equal(removed.Total))
	assert.Equal(t, 2, snap.Quantity(1))

	snap.ServerTotal = decimal.NewNullDecimal(dec("30"))
	assert.True(t, snap.TotalMismatch())
	snap.ServerTotal = decimal.NewNullDecimal(dec("25"))
	assert.False(t, snap.TotalMismatch())
	snap.ServerTotal = decimal.NullDecimal{}
	assert.False(t, snap.TotalMismatch())
}

func TestLineState(t *testing.T) {
	snap := Aggregate([]LineItem{unit(1, "Mug", "10"), unit(1, "Mug", "10")})

	assert.Equal(t, "present(2)", StateOf(snap, 1).String())
	assert.True(t, StateOf(snap, 1).Present())
	assert.Equal(t, "absent", StateOf(snap, 2).String())
}
