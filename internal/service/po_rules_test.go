package service

import (
	"strings"
	"testing"

	"go-hradmin/internal/model"

	"github.com/stretchr/testify/assert"
)

func validItem() model.PurchaseOrderItem {
	return model.PurchaseOrderItem{
		ItemName:             "Stapler",
		ItemDescription:      "Red swingline stapler",
		ItemQuantity:         1,
		ItemPrice:            12.50,
		ItemJustification:    "needed for project",
		ItemPurchaseLocation: "Staples",
	}
}

func poWith(items ...model.PurchaseOrderItem) *model.PurchaseOrder {
	return &model.PurchaseOrder{Items: items}
}

func fieldsOf(errs []model.ValidationError) []string {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestValidatePurchaseOrderCleanPasses(t *testing.T) {
	po := poWith(validItem())

	assert.True(t, ValidatePurchaseOrder(po))
	assert.Empty(t, po.Errors)
}

func TestValidatePurchaseOrderNameBounds(t *testing.T) {
	short := validItem()
	short.ItemName = "ab"
	long := validItem()
	long.ItemName = strings.Repeat("x", 46)
	exact := validItem()
	exact.ItemName = strings.Repeat("x", 45)

	po := poWith(short)
	assert.False(t, ValidatePurchaseOrder(po))
	assert.Contains(t, fieldsOf(po.Errors), "ItemName")

	po = poWith(long)
	assert.False(t, ValidatePurchaseOrder(po))

	po = poWith(exact)
	assert.True(t, ValidatePurchaseOrder(po))
}

func TestValidatePurchaseOrderQuantityAndPrice(t *testing.T) {
	zeroQty := validItem()
	zeroQty.ItemQuantity = 0
	po := poWith(zeroQty)
	assert.False(t, ValidatePurchaseOrder(po))
	assert.Contains(t, fieldsOf(po.Errors), "ItemQuantity")

	zeroPrice := validItem()
	zeroPrice.ItemPrice = 0
	po = poWith(zeroPrice)
	assert.False(t, ValidatePurchaseOrder(po))
	assert.Contains(t, fieldsOf(po.Errors), "ItemPrice")
}

func TestValidatePurchaseOrderNoLongerNeededRelaxes(t *testing.T) {
	retired := validItem()
	retired.ItemDescription = "  No Longer Needed "
	retired.ItemQuantity = 0
	retired.ItemPrice = 0

	po := poWith(retired)
	assert.True(t, ValidatePurchaseOrder(po))
}

func TestValidatePurchaseOrderNoLongerNeededStillRejectsNegatives(t *testing.T) {
	retired := validItem()
	retired.ItemDescription = "no longer needed"
	retired.ItemQuantity = -1
	retired.ItemPrice = -0.01

	po := poWith(retired)
	assert.False(t, ValidatePurchaseOrder(po))
	fields := fieldsOf(po.Errors)
	assert.Contains(t, fields, "ItemQuantity")
	assert.Contains(t, fields, "ItemPrice")
}

func TestValidatePurchaseOrderSentinelMustMatchWholeDescription(t *testing.T) {
	partial := validItem()
	partial.ItemDescription = "printer is no longer needed"
	partial.ItemQuantity = 0

	po := poWith(partial)
	assert.False(t, ValidatePurchaseOrder(po))
	assert.Contains(t, fieldsOf(po.Errors), "ItemQuantity")
}

func TestValidatePurchaseOrderAccumulatesAllFailures(t *testing.T) {
	bad := model.PurchaseOrderItem{
		ItemName:             "ab",
		ItemDescription:      "xy",
		ItemQuantity:         0,
		ItemPrice:            0,
		ItemJustification:    "abc",
		ItemPurchaseLocation: "abcd",
	}

	po := poWith(bad)
	assert.False(t, ValidatePurchaseOrder(po))
	assert.Len(t, po.Errors, 6)
	for _, e := range po.Errors {
		assert.Equal(t, model.ErrorTypeModel, e.Type)
	}
}

func TestValidatePurchaseOrderRequiresAtLeastOneItem(t *testing.T) {
	po := poWith()

	assert.False(t, ValidatePurchaseOrder(po))
	assert.Len(t, po.Errors, 1)
	assert.Equal(t, model.ErrorTypeBusiness, po.Errors[0].Type)
	assert.Equal(t, model.MsgAtLeastOneItem, po.Errors[0].Description)
}

func TestValidatePurchaseOrderClearsStaleErrors(t *testing.T) {
	po := poWith(validItem())
	po.AddError(model.NewValidationError("stale", model.ErrorTypeModel, "ItemName"))

	assert.True(t, ValidatePurchaseOrder(po))
	assert.Empty(t, po.Errors)
}
