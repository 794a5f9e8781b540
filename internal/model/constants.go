package model

// Purchase orders and their items share one status table.
// 2 and 3 are only ever assigned at item level; a PO moves 1 -> 4 -> 5.
const (
	StatusPending     = 1
	StatusApproved    = 2
	StatusDenied      = 3
	StatusUnderReview = 4
	StatusClosed      = 5
)

// DefaultTaxRate is fixed system-wide at creation time.
const DefaultTaxRate = 0.15

// NoLongerNeeded is the description sentinel that relaxes the quantity and
// price requirements on a line item (compared trimmed, case-insensitive).
const NoLongerNeeded = "no longer needed"

const (
	MsgAtLeastOneItem  = "A purchase order must contain at least one item."
	MsgRecordConflict  = "The record has been updated since you last retrieved it."
	MsgRecordExists    = "%s already exists in records."
	MsgNoRecordsFound  = "No records found."
	MsgItemNameLength  = "Item name must be between 3 and 45 characters."
	MsgItemDescLength  = "Item description must be at least 5 characters."
	MsgItemJustLength  = "Item justification must be at least 4 characters."
	MsgItemLocLength   = "Item purchase location must be at least 5 characters."
	MsgItemQuantityMin = "Item quantity must be greater than zero."
	MsgItemPriceMin    = "Item price must be greater than zero."
)

// StatusName maps a status id to its display name.
func StatusName(id int) string {
	switch id {
	case StatusPending:
		return "Pending"
	case StatusApproved:
		return "Approved"
	case StatusDenied:
		return "Denied"
	case StatusUnderReview:
		return "Under Review"
	case StatusClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}
