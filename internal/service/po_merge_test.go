package service

import (
	"testing"

	"go-hradmin/internal/model"

	"github.com/stretchr/testify/assert"
)

func item(name, desc string, qty int, price float64) model.PurchaseOrderItem {
	return model.PurchaseOrderItem{
		ItemName:             name,
		ItemDescription:      desc,
		ItemQuantity:         qty,
		ItemPrice:            price,
		ItemJustification:    "needed for project",
		ItemPurchaseLocation: "Staples",
	}
}

func TestMergeItemsCombinesDuplicates(t *testing.T) {
	items := []model.PurchaseOrderItem{
		item("Stapler", "Red swingline stapler", 2, 12.50),
		item("  stapler ", "RED SWINGLINE STAPLER", 3, 12.50),
	}

	merged := MergeItems(items)

	assert.Len(t, merged, 1)
	assert.Equal(t, 5, merged[0].ItemQuantity)
	assert.Equal(t, "Stapler", merged[0].ItemName)
	assert.Equal(t, "Red swingline stapler", merged[0].ItemDescription)
}

func TestMergeItemsPriceMustMatchExactly(t *testing.T) {
	items := []model.PurchaseOrderItem{
		item("Stapler", "Red swingline stapler", 2, 12.50),
		item("Stapler", "Red swingline stapler", 3, 12.51),
	}

	merged := MergeItems(items)

	assert.Len(t, merged, 2)
	assert.Equal(t, 2, merged[0].ItemQuantity)
	assert.Equal(t, 3, merged[1].ItemQuantity)
}

func TestMergeItemsPreservesFirstOccurrenceOrder(t *testing.T) {
	items := []model.PurchaseOrderItem{
		item("Monitor", "27 inch display", 1, 250),
		item("Keyboard", "Mechanical keyboard", 1, 80),
		item("Monitor", "27 inch display", 2, 250),
	}

	merged := MergeItems(items)

	assert.Len(t, merged, 2)
	assert.Equal(t, "Monitor", merged[0].ItemName)
	assert.Equal(t, 3, merged[0].ItemQuantity)
	assert.Equal(t, "Keyboard", merged[1].ItemName)
}

func TestMergeItemsIdempotent(t *testing.T) {
	items := []model.PurchaseOrderItem{
		item("Stapler", "Red swingline stapler", 2, 12.50),
		item("Stapler", "Red swingline stapler", 3, 12.50),
		item("Desk Lamp", "LED desk lamp", 1, 30),
	}

	once := MergeItems(items)
	twice := MergeItems(once)

	assert.Equal(t, once, twice)
}

func TestMergeItemsEmpty(t *testing.T) {
	assert.Empty(t, MergeItems(nil))
}

func TestMergeItemsSetsPendingStatus(t *testing.T) {
	merged := MergeItems([]model.PurchaseOrderItem{
		item("Stapler", "Red swingline stapler", 2, 12.50),
	})

	assert.Equal(t, model.StatusPending, merged[0].StatusID)
}
