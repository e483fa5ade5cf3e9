package cart

import (
	json "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/zfogg/socialcommerce/cli/pkg/api"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
	"github.com/zfogg/socialcommerce/cli/pkg/metrics"
)

// Aggregate folds per-unit line items into one entry per product.
//
// Entries appear in first-seen order and each valid item adds one unit.
// Total is the sum of every item's own amount, so a product listed at two
// prices contributes both. Items with a malformed productId or amount are
// skipped and counted in Skipped.
func Aggregate(items []LineItem) Snapshot {
	snap := Snapshot{Entries: []Entry{}, Total: decimal.Zero}
	index := make(map[int64]int, len(items))

	for i, item := range items {
		id, err := api.ParseNumericID(item.ProductID)
		if err != nil {
			logger.Warn("Skipping cart item with invalid productId", "index", i, "name", item.Name, "error", err)
			snap.Skipped++
			continue
		}
		amount, err := api.ParseAmount(item.Amount)
		if err != nil {
			logger.Warn("Skipping cart item with invalid amount", "index", i, "product_id", id, "error", err)
			snap.Skipped++
			continue
		}
		if len(item.Quantity) > 0 && json.Get(item.Quantity).ToInt() > 1 {
			logger.Debug("Ignoring quantity on cart unit", "product_id", id, "quantity", string(item.Quantity))
		}

		snap.Total = snap.Total.Add(amount)

		if pos, ok := index[id]; ok {
			snap.Entries[pos].Quantity++
			continue
		}
		index[id] = len(snap.Entries)
		snap.Entries = append(snap.Entries, Entry{
			ProductID:  id,
			Name:       item.Name,
			UnitAmount: amount,
			ImageURL:   item.ImageURL,
			Quantity:   1,
		})
	}

	if snap.Skipped > 0 {
		metrics.Get().CartSkippedItemsTotal.Add(float64(snap.Skipped))
	}
	return snap
}
