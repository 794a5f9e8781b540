package service

import (
	"strings"

	"go-hradmin/internal/model"
)

type mergeKey struct {
	name          string
	description   string
	justification string
	location      string
	price         float64
}

func itemMergeKey(item *model.PurchaseOrderItem) mergeKey {
	return mergeKey{
		name:          strings.ToLower(strings.TrimSpace(item.ItemName)),
		description:   strings.ToLower(strings.TrimSpace(item.ItemDescription)),
		justification: strings.ToLower(strings.TrimSpace(item.ItemJustification)),
		location:      strings.ToLower(strings.TrimSpace(item.ItemPurchaseLocation)),
		price:         item.ItemPrice,
	}
}

// MergeItems collapses semantically identical lines submitted in one request
// into a single line with summed quantity. Two lines merge when name,
// description, justification and purchase location match case-insensitively
// after trimming, and the unit price matches exactly. First-occurrence order
// and attribute values are preserved. Pure transform; no side effects.
func MergeItems(items []model.PurchaseOrderItem) []model.PurchaseOrderItem {
	if len(items) == 0 {
		return items
	}

	merged := make([]model.PurchaseOrderItem, 0, len(items))
	index := make(map[mergeKey]int, len(items))

	for i := range items {
		item := &items[i]
		key := itemMergeKey(item)

		if at, ok := index[key]; ok {
			merged[at].ItemQuantity += item.ItemQuantity
			continue
		}

		index[key] = len(merged)
		merged = append(merged, model.PurchaseOrderItem{
			ItemName:             strings.TrimSpace(item.ItemName),
			ItemDescription:      strings.TrimSpace(item.ItemDescription),
			ItemQuantity:         item.ItemQuantity,
			ItemPrice:            item.ItemPrice,
			ItemJustification:    strings.TrimSpace(item.ItemJustification),
			ItemPurchaseLocation: strings.TrimSpace(item.ItemPurchaseLocation),
			StatusID:             model.StatusPending,
			RecordVersion:        item.RecordVersion,
		})
	}

	return merged
}
