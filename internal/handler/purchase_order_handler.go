package handler

import (
	"errors"
	"strconv"
	"time"

	"go-hradmin/internal/model"
	"go-hradmin/internal/repository"
	"go-hradmin/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PurchaseOrderHandler struct {
	poService service.PurchaseOrderService
}

func NewPurchaseOrderHandler(poService service.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{poService: poService}
}

type POItemRequest struct {
	ID                   uint    `json:"id"`
	ItemName             string  `json:"item_name"`
	ItemDescription      string  `json:"item_description"`
	ItemQuantity         int     `json:"item_quantity"`
	ItemPrice            float64 `json:"item_price"`
	ItemJustification    string  `json:"item_justification"`
	ItemPurchaseLocation string  `json:"item_purchase_location"`
	ModificationReason   string  `json:"modification_reason"`
	RecordVersion        string  `json:"record_version"`
}

type CreatePORequest struct {
	Items []POItemRequest `json:"items"`
}

type UpdatePORequest struct {
	PONumber       uint            `json:"po_number"`
	RecordVersion  string          `json:"record_version"`
	Items          []POItemRequest `json:"items"`
	DeletedItemIDs []uint          `json:"deleted_item_ids"`
}

type ItemDecisionRequest struct {
	ItemID       uint   `json:"item_id"`
	Status       string `json:"status"`
	DenialReason string `json:"denial_reason"`
}

type ClosePORequest struct {
	PONumber uint `json:"po_number"`
}

func toModelItems(items []POItemRequest) []model.PurchaseOrderItem {
	out := make([]model.PurchaseOrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, model.PurchaseOrderItem{
			ID:                   it.ID,
			ItemName:             it.ItemName,
			ItemDescription:      it.ItemDescription,
			ItemQuantity:         it.ItemQuantity,
			ItemPrice:            it.ItemPrice,
			ItemJustification:    it.ItemJustification,
			ItemPurchaseLocation: it.ItemPurchaseLocation,
			ModificationReason:   it.ModificationReason,
			RecordVersion:        it.RecordVersion,
		})
	}
	return out
}

func parsePONumber(raw string) (uint, error) {
	// Numbers arrive zero-padded from display contexts ("00000042").
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return 0, errors.New("invalid purchase order number")
	}
	return uint(n), nil
}

// Create registers a new purchase order for the authenticated employee. The
// requester identity comes from the token, never from the body.
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var req CreatePORequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	employeeID, _ := c.Locals("employee_id").(uint)
	po := &model.PurchaseOrder{
		EmployeeID: employeeID,
		Items:      toModelItems(req.Items),
	}

	po, err := h.poService.Create(po)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create purchase order",
		})
	}
	if len(po.Errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": po.Errors,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":        "Purchase order created",
		"po_number":      po.FormattedNumber(),
		"purchase_order": po.ToResponse(),
	})
}

// Update replaces the PO's item set under optimistic concurrency. A stale
// version answers 409 with the conflict attached to the error list.
func (h *PurchaseOrderHandler) Update(c *fiber.Ctx) error {
	poNumber, err := parsePONumber(c.Params("poNumber"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var req UpdatePORequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.PONumber != 0 && req.PONumber != poNumber {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "purchase order number mismatch",
		})
	}

	po := &model.PurchaseOrder{
		PONumber:      poNumber,
		RecordVersion: req.RecordVersion,
		Items:         toModelItems(req.Items),
	}

	po, err = h.poService.Update(po, req.DeletedItemIDs)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordConflict):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"errors": po.Errors,
			})
		case errors.Is(err, repository.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": model.MsgNoRecordsFound,
			})
		case errors.Is(err, repository.ErrAlreadyClosed):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "purchase order is closed",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update purchase order",
			})
		}
	}
	if len(po.Errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": po.Errors,
		})
	}

	return c.JSON(fiber.Map{
		"message":        "Purchase order updated",
		"purchase_order": po.ToResponse(),
	})
}

func (h *PurchaseOrderHandler) GetDetails(c *fiber.Ctx) error {
	poNumber, err := parsePONumber(c.Params("poNumber"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	po, err := h.poService.GetDetails(poNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": model.MsgNoRecordsFound,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch purchase order",
		})
	}

	return c.JSON(po.ToResponse())
}

func parseDateQuery(c *fiber.Ctx, key string) *time.Time {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}

func parsePOQuery(c *fiber.Ctx) *uint {
	raw := c.Query("po_number")
	if raw == "" {
		return nil
	}
	n, err := parsePONumber(raw)
	if err != nil {
		return nil
	}
	return &n
}

// Search lists the authenticated employee's own purchase orders.
func (h *PurchaseOrderHandler) Search(c *fiber.Ctx) error {
	employeeID, _ := c.Locals("employee_id").(uint)

	criteria := repository.EmployeePOSearchCriteria{
		EmployeeID: employeeID,
		PONumber:   parsePOQuery(c),
		StartDate:  parseDateQuery(c, "start_date"),
		EndDate:    parseDateQuery(c, "end_date"),
	}

	results, err := h.poService.SearchByEmployee(criteria)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to search purchase orders",
		})
	}
	return c.JSON(fiber.Map{"purchase_orders": results})
}

// SearchSupervisor lists purchase orders of the supervisor's direct reports.
func (h *PurchaseOrderHandler) SearchSupervisor(c *fiber.Ctx) error {
	supervisorID, _ := c.Locals("employee_id").(uint)

	criteria := repository.SupervisorPOSearchCriteria{
		SupervisorID: supervisorID,
		PONumber:     parsePOQuery(c),
		StartDate:    parseDateQuery(c, "start_date"),
		EndDate:      parseDateQuery(c, "end_date"),
		Status:       c.Query("status"),
		EmployeeName: c.Query("employee_name"),
	}

	results, err := h.poService.SearchBySupervisor(criteria)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to search purchase orders",
		})
	}
	return c.JSON(fiber.Map{"purchase_orders": results})
}

// SearchDepartment lists purchase orders raised within one department.
func (h *PurchaseOrderHandler) SearchDepartment(c *fiber.Ctx) error {
	departmentID, err := strconv.ParseUint(c.Query("department_id"), 10, 32)
	if err != nil || departmentID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid department id",
		})
	}

	results, err := h.poService.SearchByDepartment(uint(departmentID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": model.MsgNoRecordsFound,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to search purchase orders",
		})
	}
	return c.JSON(fiber.Map{"purchase_orders": results})
}

// ItemDecision records an approve or deny on a single pending line item.
func (h *PurchaseOrderHandler) ItemDecision(c *fiber.Ctx) error {
	var req ItemDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.ItemID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "item_id is required",
		})
	}

	var statusID int
	switch req.Status {
	case "Approved":
		statusID = model.StatusApproved
	case "Denied":
		statusID = model.StatusDenied
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "status must be Approved or Denied",
		})
	}

	if statusID == model.StatusDenied && len(req.DenialReason) < 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A denial reason of at least 5 characters is required.",
		})
	}
	if statusID == model.StatusApproved {
		req.DenialReason = ""
	}

	isLastItem, err := h.poService.ProcessItemDecision(req.ItemID, statusID, req.DenialReason)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": model.MsgNoRecordsFound,
			})
		case errors.Is(err, repository.ErrItemNotPending):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "item has already been decided",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to record item decision",
			})
		}
	}

	return c.JSON(fiber.Map{
		"message":      "Item decision recorded",
		"is_last_item": isLastItem,
	})
}

// Close transitions a fully reviewed purchase order to Closed and notifies
// the requester.
func (h *PurchaseOrderHandler) Close(c *fiber.Ctx) error {
	var req ClosePORequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.PONumber == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "po_number is required",
		})
	}

	if err := h.poService.Close(req.PONumber); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": model.MsgNoRecordsFound,
			})
		case errors.Is(err, repository.ErrPendingItemsRemain):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "purchase order still has pending items",
			})
		case errors.Is(err, repository.ErrAlreadyClosed):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "purchase order is already closed",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to close purchase order",
			})
		}
	}

	return c.JSON(fiber.Map{
		"message": "Purchase order closed",
	})
}
