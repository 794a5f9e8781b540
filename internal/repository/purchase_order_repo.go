package repository

import (
	"errors"
	"time"

	"go-hradmin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeePOSearchCriteria filters the requester's own purchase orders.
type EmployeePOSearchCriteria struct {
	EmployeeID uint
	PONumber   *uint
	StartDate  *time.Time
	EndDate    *time.Time
}

// SupervisorPOSearchCriteria filters purchase orders awaiting a supervisor.
type SupervisorPOSearchCriteria struct {
	SupervisorID uint
	PONumber     *uint
	StartDate    *time.Time
	EndDate      *time.Time
	Status       string
	EmployeeName string
}

type PurchaseOrderRepository interface {
	CreateWithItems(po *model.PurchaseOrder) error
	UpdateWithItems(po *model.PurchaseOrder, deletedItemIDs []uint) error
	ProcessItemDecision(itemID uint, statusID int, denialReason string) (isLastItem bool, err error)
	Close(poNumber uint) error
	GetEmployeeEmailForPO(poNumber uint) (string, error)
	GetDetails(poNumber uint) (*model.PurchaseOrder, error)
	SearchByEmployee(criteria EmployeePOSearchCriteria) ([]model.PurchaseOrderSummary, error)
	SearchBySupervisor(criteria SupervisorPOSearchCriteria) ([]model.SupervisorPOSummary, error)
	SearchByDepartment(departmentID uint) ([]model.DepartmentPOSummary, error)
}

type purchaseOrderRepo struct {
	db *gorm.DB
}

func NewPurchaseOrderRepo(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepo{db}
}

// newVersion mints an opaque concurrency token. Callers only ever compare
// tokens verbatim; the content is never interpreted.
func newVersion() string {
	return uuid.NewString()
}

// CreateWithItems inserts the header and every line in one transaction. The
// store assigns the number, creation date, tax rate and initial statuses.
func (r *purchaseOrderRepo) CreateWithItems(po *model.PurchaseOrder) error {
	po.PONumber = 0
	po.CreationDate = time.Now()
	po.TaxRate = model.DefaultTaxRate
	po.StatusID = model.StatusPending
	po.RecordVersion = newVersion()

	for i := range po.Items {
		po.Items[i].ID = 0
		po.Items[i].StatusID = model.StatusPending
		po.Items[i].RecordVersion = newVersion()
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(po).Error
	})
}

// UpdateWithItems applies the header version check, upserts every submitted
// item and removes the listed items as one atomic operation. A version miss
// on the header or any item rolls the whole thing back with ErrRecordConflict.
func (r *purchaseOrderRepo) UpdateWithItems(po *model.PurchaseOrder, deletedItemIDs []uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var current model.PurchaseOrder
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			First(&current, "po_number = ?", po.PONumber).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if current.StatusID == model.StatusClosed {
			return ErrAlreadyClosed
		}
		if current.RecordVersion != po.RecordVersion {
			return ErrRecordConflict
		}

		headerVersion := newVersion()
		if err := tx.Model(&model.PurchaseOrder{}).
			Where("po_number = ?", po.PONumber).
			Update("record_version", headerVersion).Error; err != nil {
			return err
		}

		for i := range po.Items {
			item := &po.Items[i]
			if item.ID == 0 {
				item.PONumber = po.PONumber
				item.StatusID = model.StatusPending
				item.RecordVersion = newVersion()
				if err := tx.Create(item).Error; err != nil {
					return err
				}
				continue
			}

			res := tx.Model(&model.PurchaseOrderItem{}).
				Where("id = ? AND po_number = ? AND record_version = ?",
					item.ID, po.PONumber, item.RecordVersion).
				Updates(map[string]interface{}{
					"item_name":              item.ItemName,
					"item_description":       item.ItemDescription,
					"item_quantity":          item.ItemQuantity,
					"item_price":             item.ItemPrice,
					"item_justification":     item.ItemJustification,
					"item_purchase_location": item.ItemPurchaseLocation,
					"modification_reason":    item.ModificationReason,
					"record_version":         newVersion(),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrRecordConflict
			}
		}

		if len(deletedItemIDs) > 0 {
			// Deleting is only legal while the item is still pending; a miss
			// (decided or foreign item) fails the whole operation.
			res := tx.Where("id IN ? AND po_number = ? AND status_id = ?",
				deletedItemIDs, po.PONumber, model.StatusPending).
				Delete(&model.PurchaseOrderItem{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != int64(len(deletedItemIDs)) {
				return ErrRecordConflict
			}
		}

		po.RecordVersion = headerVersion
		var items []model.PurchaseOrderItem
		if err := tx.Where("po_number = ?", po.PONumber).Order("id ASC").Find(&items).Error; err != nil {
			return err
		}
		po.Items = items
		po.StatusID = current.StatusID
		po.EmployeeID = current.EmployeeID
		po.CreationDate = current.CreationDate
		po.TaxRate = current.TaxRate
		return nil
	})

	return err
}

// ProcessItemDecision flips one pending item to a terminal status and reports
// whether it was the last pending item of its purchase order. The header row
// is locked first so two concurrent decisions cannot both see "not last".
func (r *purchaseOrderRepo) ProcessItemDecision(itemID uint, statusID int, denialReason string) (bool, error) {
	var isLastItem bool

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var item model.PurchaseOrderItem
		if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var po model.PurchaseOrder
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			First(&po, "po_number = ?", item.PONumber).Error; err != nil {
			return err
		}

		res := tx.Model(&model.PurchaseOrderItem{}).
			Where("id = ? AND status_id = ?", itemID, model.StatusPending).
			Updates(map[string]interface{}{
				"status_id":      statusID,
				"denial_reason":  denialReason,
				"record_version": newVersion(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrItemNotPending
		}

		// First decision of any kind moves the PO under review.
		if po.StatusID == model.StatusPending {
			if err := tx.Model(&model.PurchaseOrder{}).
				Where("po_number = ?", po.PONumber).
				Updates(map[string]interface{}{
					"status_id":      model.StatusUnderReview,
					"record_version": newVersion(),
				}).Error; err != nil {
				return err
			}
		}

		var pending int64
		if err := tx.Model(&model.PurchaseOrderItem{}).
			Where("po_number = ? AND status_id = ?", po.PONumber, model.StatusPending).
			Count(&pending).Error; err != nil {
			return err
		}
		isLastItem = pending == 0
		return nil
	})

	return isLastItem, err
}

// Close re-checks "all items terminal" under the header lock; the isLastItem
// flag returned earlier to a different request is advisory only.
func (r *purchaseOrderRepo) Close(poNumber uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var po model.PurchaseOrder
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			First(&po, "po_number = ?", poNumber).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if po.StatusID == model.StatusClosed {
			return ErrAlreadyClosed
		}

		var pending int64
		if err := tx.Model(&model.PurchaseOrderItem{}).
			Where("po_number = ? AND status_id = ?", poNumber, model.StatusPending).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return ErrPendingItemsRemain
		}

		return tx.Model(&model.PurchaseOrder{}).
			Where("po_number = ?", poNumber).
			Updates(map[string]interface{}{
				"status_id":      model.StatusClosed,
				"record_version": newVersion(),
			}).Error
	})
}

func (r *purchaseOrderRepo) GetEmployeeEmailForPO(poNumber uint) (string, error) {
	var email string
	err := r.db.Model(&model.PurchaseOrder{}).
		Select("employees.email").
		Joins("JOIN employees ON employees.id = purchase_orders.employee_id").
		Where("purchase_orders.po_number = ?", poNumber).
		Scan(&email).Error
	if err != nil {
		return "", err
	}
	if email == "" {
		return "", ErrNotFound
	}
	return email, nil
}

func (r *purchaseOrderRepo) GetDetails(poNumber uint) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Employee.Department").
		First(&po, "po_number = ?", poNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

func (r *purchaseOrderRepo) SearchByEmployee(criteria EmployeePOSearchCriteria) ([]model.PurchaseOrderSummary, error) {
	query := r.db.Preload("Items").
		Where("employee_id = ?", criteria.EmployeeID)

	if criteria.PONumber != nil {
		query = query.Where("po_number = ?", *criteria.PONumber)
	}
	if criteria.StartDate != nil {
		query = query.Where("creation_date >= ?", *criteria.StartDate)
	}
	if criteria.EndDate != nil {
		query = query.Where("creation_date <= ?", *criteria.EndDate)
	}

	var orders []model.PurchaseOrder
	if err := query.Order("creation_date DESC").Find(&orders).Error; err != nil {
		return nil, err
	}

	results := make([]model.PurchaseOrderSummary, 0, len(orders))
	for i := range orders {
		po := &orders[i]
		results = append(results, model.PurchaseOrderSummary{
			PONumber:     po.FormattedNumber(),
			CreationDate: po.CreationDate,
			Status:       model.StatusName(po.StatusID),
			Subtotal:     po.Subtotal(),
			TaxTotal:     po.TaxTotal(),
			GrandTotal:   po.GrandTotal(),
		})
	}
	return results, nil
}

func (r *purchaseOrderRepo) SearchBySupervisor(criteria SupervisorPOSearchCriteria) ([]model.SupervisorPOSummary, error) {
	query := r.db.Preload("Items").Preload("Employee").
		Joins("JOIN employees ON employees.id = purchase_orders.employee_id").
		Where("employees.supervisor_id = ?", criteria.SupervisorID)

	if criteria.PONumber != nil {
		query = query.Where("purchase_orders.po_number = ?", *criteria.PONumber)
	}
	if criteria.StartDate != nil {
		query = query.Where("purchase_orders.creation_date >= ?", *criteria.StartDate)
	}
	if criteria.EndDate != nil {
		query = query.Where("purchase_orders.creation_date <= ?", *criteria.EndDate)
	}
	if criteria.EmployeeName != "" {
		pattern := "%" + criteria.EmployeeName + "%"
		query = query.Where("employees.first_name ILIKE ? OR employees.last_name ILIKE ?", pattern, pattern)
	}

	var orders []model.PurchaseOrder
	if err := query.Order("purchase_orders.creation_date DESC").Find(&orders).Error; err != nil {
		return nil, err
	}

	results := make([]model.SupervisorPOSummary, 0, len(orders))
	for i := range orders {
		po := &orders[i]
		if criteria.Status != "" && model.StatusName(po.StatusID) != criteria.Status {
			continue
		}
		name := ""
		if po.Employee != nil {
			name = po.Employee.FullName()
		}
		results = append(results, model.SupervisorPOSummary{
			PONumber:         po.FormattedNumber(),
			CreationDate:     po.CreationDate,
			EmployeeFullName: name,
			Status:           model.StatusName(po.StatusID),
			Subtotal:         po.Subtotal(),
			TaxTotal:         po.TaxTotal(),
			GrandTotal:       po.GrandTotal(),
		})
	}
	return results, nil
}

func (r *purchaseOrderRepo) SearchByDepartment(departmentID uint) ([]model.DepartmentPOSummary, error) {
	var orders []model.PurchaseOrder
	err := r.db.Preload("Employee").
		Joins("JOIN employees ON employees.id = purchase_orders.employee_id").
		Where("employees.department_id = ?", departmentID).
		Order("purchase_orders.creation_date DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	// Resolve supervisor names in one pass.
	supIDs := make([]uint, 0, len(orders))
	for i := range orders {
		if orders[i].Employee != nil && orders[i].Employee.SupervisorID != nil {
			supIDs = append(supIDs, *orders[i].Employee.SupervisorID)
		}
	}
	supNames := map[uint]string{}
	if len(supIDs) > 0 {
		var sups []model.Employee
		if err := r.db.Where("id IN ?", supIDs).Find(&sups).Error; err != nil {
			return nil, err
		}
		for i := range sups {
			supNames[sups[i].ID] = sups[i].FullName()
		}
	}

	results := make([]model.DepartmentPOSummary, 0, len(orders))
	for i := range orders {
		po := &orders[i]
		supName := "N/A"
		if po.Employee != nil && po.Employee.SupervisorID != nil {
			if n, ok := supNames[*po.Employee.SupervisorID]; ok {
				supName = n
			}
		}
		results = append(results, model.DepartmentPOSummary{
			PONumber:       po.FormattedNumber(),
			CreationDate:   po.CreationDate,
			SupervisorName: supName,
			Status:         model.StatusName(po.StatusID),
		})
	}
	return results, nil
}
