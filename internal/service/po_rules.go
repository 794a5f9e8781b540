package service

import (
	"strings"
	"unicode/utf8"

	"go-hradmin/internal/model"
)

// itemRule checks one structural constraint on a line item. Rules are plain
// functions in a fixed order so the rule set is statically inspectable.
type itemRule func(item *model.PurchaseOrderItem) []model.ValidationError

var itemRules = []itemRule{
	ruleItemName,
	ruleItemDescription,
	ruleItemQuantity,
	ruleItemPrice,
	ruleItemJustification,
	ruleItemPurchaseLocation,
}

// isNoLongerNeeded matches the description sentinel that relaxes the
// quantity and price requirements.
func isNoLongerNeeded(description string) bool {
	return strings.EqualFold(strings.TrimSpace(description), model.NoLongerNeeded)
}

func modelError(msg, field string) []model.ValidationError {
	return []model.ValidationError{model.NewValidationError(msg, model.ErrorTypeModel, field)}
}

func ruleItemName(item *model.PurchaseOrderItem) []model.ValidationError {
	n := utf8.RuneCountInString(item.ItemName)
	if n < 3 || n > 45 {
		return modelError(model.MsgItemNameLength, "ItemName")
	}
	return nil
}

func ruleItemDescription(item *model.PurchaseOrderItem) []model.ValidationError {
	if utf8.RuneCountInString(item.ItemDescription) < 5 {
		return modelError(model.MsgItemDescLength, "ItemDescription")
	}
	return nil
}

func ruleItemQuantity(item *model.PurchaseOrderItem) []model.ValidationError {
	if isNoLongerNeeded(item.ItemDescription) {
		if item.ItemQuantity < 0 {
			return modelError(model.MsgItemQuantityMin, "ItemQuantity")
		}
		return nil
	}
	if item.ItemQuantity < 1 {
		return modelError(model.MsgItemQuantityMin, "ItemQuantity")
	}
	return nil
}

func ruleItemPrice(item *model.PurchaseOrderItem) []model.ValidationError {
	if isNoLongerNeeded(item.ItemDescription) {
		if item.ItemPrice < 0 {
			return modelError(model.MsgItemPriceMin, "ItemPrice")
		}
		return nil
	}
	if item.ItemPrice <= 0 {
		return modelError(model.MsgItemPriceMin, "ItemPrice")
	}
	return nil
}

func ruleItemJustification(item *model.PurchaseOrderItem) []model.ValidationError {
	if utf8.RuneCountInString(item.ItemJustification) < 4 {
		return modelError(model.MsgItemJustLength, "ItemJustification")
	}
	return nil
}

func ruleItemPurchaseLocation(item *model.PurchaseOrderItem) []model.ValidationError {
	if utf8.RuneCountInString(item.ItemPurchaseLocation) < 5 {
		return modelError(model.MsgItemLocLength, "ItemPurchaseLocation")
	}
	return nil
}

// ValidatePurchaseOrder accumulates every structural failure, then applies
// the at-least-one-item business rule. Failures are attached to the
// aggregate; the return value reports whether the PO is clean.
func ValidatePurchaseOrder(po *model.PurchaseOrder) bool {
	po.ClearErrors()

	for i := range po.Items {
		for _, rule := range itemRules {
			for _, e := range rule(&po.Items[i]) {
				po.AddError(e)
			}
		}
	}

	if len(po.Items) == 0 {
		po.AddError(model.NewValidationError(model.MsgAtLeastOneItem, model.ErrorTypeBusiness, ""))
	}

	return len(po.Errors) == 0
}
