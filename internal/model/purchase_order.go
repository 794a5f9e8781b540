package model

import (
	"fmt"
	"time"
)

// PurchaseOrder is the approval-tracked procurement request. The number is a
// store-assigned surrogate key; RecordVersion is an opaque concurrency token
// that must match the stored value on every mutation.
type PurchaseOrder struct {
	PONumber      uint      `gorm:"primaryKey;autoIncrement;column:po_number" json:"po_number"`
	EmployeeID    uint      `gorm:"not null;index" json:"employee_id"`
	CreationDate  time.Time `gorm:"not null" json:"creation_date"`
	TaxRate       float64   `gorm:"type:numeric(5,4);not null" json:"tax_rate"`
	StatusID      int       `gorm:"not null;default:1" json:"status_id"`
	RecordVersion string    `gorm:"type:varchar(36);not null" json:"record_version"`

	Items    []PurchaseOrderItem `gorm:"foreignKey:PONumber;references:PONumber" json:"items"`
	Employee *Employee           `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`

	// Validation and business failures accumulated for the caller; not persisted.
	Errors []ValidationError `gorm:"-" json:"errors,omitempty"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

type PurchaseOrderItem struct {
	ID       uint `gorm:"primaryKey;autoIncrement" json:"id"`
	PONumber uint `gorm:"not null;index;column:po_number" json:"po_number"`

	ItemName             string  `gorm:"type:varchar(45);not null" json:"item_name"`
	ItemDescription      string  `gorm:"type:varchar(255);not null" json:"item_description"`
	ItemQuantity         int     `gorm:"not null" json:"item_quantity"`
	ItemPrice            float64 `gorm:"type:numeric(12,2);not null" json:"item_price"`
	ItemJustification    string  `gorm:"type:varchar(255);not null" json:"item_justification"`
	ItemPurchaseLocation string  `gorm:"type:varchar(255);not null" json:"item_purchase_location"`

	StatusID           int    `gorm:"not null;default:1" json:"status_id"`
	DenialReason       string `gorm:"type:varchar(255)" json:"denial_reason,omitempty"`
	ModificationReason string `gorm:"type:varchar(255)" json:"modification_reason,omitempty"`
	RecordVersion      string `gorm:"type:varchar(36);not null" json:"record_version"`
}

func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// AddError appends a validation failure to the aggregate.
func (po *PurchaseOrder) AddError(err ValidationError) {
	po.Errors = append(po.Errors, err)
}

// ClearErrors resets accumulated failures before re-validation.
func (po *PurchaseOrder) ClearErrors() {
	po.Errors = nil
}

// FormattedNumber returns the PO number zero-padded to 8 digits.
func (po *PurchaseOrder) FormattedNumber() string {
	return fmt.Sprintf("%08d", po.PONumber)
}

// IsTerminal reports whether an item can no longer change status.
func (i *PurchaseOrderItem) IsTerminal() bool {
	return i.StatusID == StatusApproved || i.StatusID == StatusDenied
}

func (i *PurchaseOrderItem) Subtotal() float64 {
	return float64(i.ItemQuantity) * i.ItemPrice
}

func (po *PurchaseOrder) Subtotal() float64 {
	var total float64
	for _, item := range po.Items {
		total += item.Subtotal()
	}
	return total
}

func (po *PurchaseOrder) TaxTotal() float64 {
	return po.Subtotal() * po.TaxRate
}

func (po *PurchaseOrder) GrandTotal() float64 {
	return po.Subtotal() + po.TaxTotal()
}

// PurchaseOrderItemResponse is the API shape of a line item, with line totals.
type PurchaseOrderItemResponse struct {
	ID                   uint    `json:"id"`
	ItemName             string  `json:"item_name"`
	ItemDescription      string  `json:"item_description"`
	ItemQuantity         int     `json:"item_quantity"`
	ItemPrice            float64 `json:"item_price"`
	ItemJustification    string  `json:"item_justification"`
	ItemPurchaseLocation string  `json:"item_purchase_location"`
	ItemStatus           string  `json:"item_status"`
	DenialReason         string  `json:"denial_reason,omitempty"`
	ModificationReason   string  `json:"modification_reason,omitempty"`
	RecordVersion        string  `json:"record_version"`
	ItemSubtotal         float64 `json:"item_subtotal"`
	ItemTaxTotal         float64 `json:"item_tax_total"`
	ItemGrandTotal       float64 `json:"item_grand_total"`
}

// PurchaseOrderResponse is the detailed API shape of a purchase order.
type PurchaseOrderResponse struct {
	PONumber         string                      `json:"po_number"`
	CreationDate     time.Time                   `json:"creation_date"`
	EmployeeID       uint                        `json:"employee_id"`
	EmployeeFullName string                      `json:"employee_full_name,omitempty"`
	DepartmentName   string                      `json:"department_name,omitempty"`
	Status           string                      `json:"status"`
	TaxRate          float64                     `json:"tax_rate"`
	RecordVersion    string                      `json:"record_version"`
	Subtotal         float64                     `json:"subtotal"`
	TaxTotal         float64                     `json:"tax_total"`
	GrandTotal       float64                     `json:"grand_total"`
	Items            []PurchaseOrderItemResponse `json:"items"`
}

// ToResponse converts the aggregate to its API shape.
func (po *PurchaseOrder) ToResponse() PurchaseOrderResponse {
	resp := PurchaseOrderResponse{
		PONumber:      po.FormattedNumber(),
		CreationDate:  po.CreationDate,
		EmployeeID:    po.EmployeeID,
		Status:        StatusName(po.StatusID),
		TaxRate:       po.TaxRate,
		RecordVersion: po.RecordVersion,
		Subtotal:      po.Subtotal(),
		TaxTotal:      po.TaxTotal(),
		GrandTotal:    po.GrandTotal(),
	}

	if po.Employee != nil {
		resp.EmployeeFullName = po.Employee.FullName()
		if po.Employee.Department != nil {
			resp.DepartmentName = po.Employee.Department.Name
		}
	}

	for _, item := range po.Items {
		resp.Items = append(resp.Items, PurchaseOrderItemResponse{
			ID:                   item.ID,
			ItemName:             item.ItemName,
			ItemDescription:      item.ItemDescription,
			ItemQuantity:         item.ItemQuantity,
			ItemPrice:            item.ItemPrice,
			ItemJustification:    item.ItemJustification,
			ItemPurchaseLocation: item.ItemPurchaseLocation,
			ItemStatus:           StatusName(item.StatusID),
			DenialReason:         item.DenialReason,
			ModificationReason:   item.ModificationReason,
			RecordVersion:        item.RecordVersion,
			ItemSubtotal:         item.Subtotal(),
			ItemTaxTotal:         item.Subtotal() * po.TaxRate,
			ItemGrandTotal:       item.Subtotal() * (1 + po.TaxRate),
		})
	}

	return resp
}

// PurchaseOrderSummary is a search result row for employee-facing searches.
type PurchaseOrderSummary struct {
	PONumber     string    `json:"po_number"`
	CreationDate time.Time `json:"creation_date"`
	Status       string    `json:"status"`
	Subtotal     float64   `json:"subtotal"`
	TaxTotal     float64   `json:"tax_total"`
	GrandTotal   float64   `json:"grand_total"`
}

// SupervisorPOSummary is a search result row for supervisor searches.
type SupervisorPOSummary struct {
	PONumber         string    `json:"po_number"`
	CreationDate     time.Time `json:"creation_date"`
	EmployeeFullName string    `json:"employee_full_name"`
	Status           string    `json:"status"`
	Subtotal         float64   `json:"subtotal"`
	TaxTotal         float64   `json:"tax_total"`
	GrandTotal       float64   `json:"grand_total"`
}

// DepartmentPOSummary is a search result row for department searches.
type DepartmentPOSummary struct {
	PONumber       string    `json:"po_number"`
	CreationDate   time.Time `json:"creation_date"`
	SupervisorName string    `json:"supervisor_name"`
	Status         string    `json:"status"`
}
