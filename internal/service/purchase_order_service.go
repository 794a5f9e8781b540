package service

import (
	"errors"
	"fmt"
	"log"

	"go-hradmin/internal/mail"
	"go-hradmin/internal/model"
	"go-hradmin/internal/repository"
)

// Broadcaster pushes lifecycle events to connected dashboard clients.
// Implemented by ws.Hub.
type Broadcaster interface {
	BroadcastEvent(event string, payload map[string]interface{})
}

type PurchaseOrderService interface {
	Create(po *model.PurchaseOrder) (*model.PurchaseOrder, error)
	Update(po *model.PurchaseOrder, deletedItemIDs []uint) (*model.PurchaseOrder, error)
	ProcessItemDecision(itemID uint, statusID int, denialReason string) (bool, error)
	Close(poNumber uint) error
	GetDetails(poNumber uint) (*model.PurchaseOrder, error)
	SearchByEmployee(criteria repository.EmployeePOSearchCriteria) ([]model.PurchaseOrderSummary, error)
	SearchBySupervisor(criteria repository.SupervisorPOSearchCriteria) ([]model.SupervisorPOSummary, error)
	SearchByDepartment(departmentID uint) ([]model.DepartmentPOSummary, error)
}

type purchaseOrderService struct {
	repo           repository.PurchaseOrderRepository
	departmentRepo repository.DepartmentRepository
	sender         mail.Sender
	hub            Broadcaster
	logger         *log.Logger
}

func NewPurchaseOrderService(
	repo repository.PurchaseOrderRepository,
	departmentRepo repository.DepartmentRepository,
	sender mail.Sender,
	hub Broadcaster,
	logger *log.Logger,
) PurchaseOrderService {
	return &purchaseOrderService{
		repo:           repo,
		departmentRepo: departmentRepo,
		sender:         sender,
		hub:            hub,
		logger:         logger,
	}
}

// Create merges duplicate lines, validates, and persists. Validation and
// business failures come back attached to the returned PO with the store
// untouched; only store faults use the error channel.
func (s *purchaseOrderService) Create(po *model.PurchaseOrder) (*model.PurchaseOrder, error) {
	po.Items = MergeItems(po.Items)

	if !ValidatePurchaseOrder(po) {
		return po, nil
	}

	if err := s.repo.CreateWithItems(po); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastEvent("po_created", map[string]interface{}{
			"po_number":   po.FormattedNumber(),
			"employee_id": po.EmployeeID,
			"item_count":  len(po.Items),
		})
	}

	return po, nil
}

// Update re-validates the submitted aggregate and applies it atomically.
// A stale header or item version surfaces as a Business error on the PO and
// ErrRecordConflict so the transport layer can answer 409.
func (s *purchaseOrderService) Update(po *model.PurchaseOrder, deletedItemIDs []uint) (*model.PurchaseOrder, error) {
	if !ValidatePurchaseOrder(po) {
		return po, nil
	}

	err := s.repo.UpdateWithItems(po, deletedItemIDs)
	if err != nil {
		if errors.Is(err, repository.ErrRecordConflict) {
			po.AddError(model.NewValidationError(model.MsgRecordConflict, model.ErrorTypeBusiness, ""))
			return po, repository.ErrRecordConflict
		}
		return nil, err
	}

	return po, nil
}

// ProcessItemDecision records one supervisor decision. The denial reason is
// validated by the caller; the workflow passes it through. The returned flag
// tells the caller this was the last pending item, so it can prompt a close.
func (s *purchaseOrderService) ProcessItemDecision(itemID uint, statusID int, denialReason string) (bool, error) {
	isLastItem, err := s.repo.ProcessItemDecision(itemID, statusID, denialReason)
	if err != nil {
		return false, err
	}

	if s.hub != nil {
		s.hub.BroadcastEvent("item_decided", map[string]interface{}{
			"item_id":      itemID,
			"status":       model.StatusName(statusID),
			"is_last_item": isLastItem,
		})
	}

	return isLastItem, nil
}

// Close transitions the PO to Closed (the store re-checks that every item is
// terminal) and then notifies the requester. The notification happens after
// the transaction commits and is best-effort: a send failure is logged and
// never rolls back the close.
func (s *purchaseOrderService) Close(poNumber uint) error {
	if err := s.repo.Close(poNumber); err != nil {
		return err
	}

	email, err := s.repo.GetEmployeeEmailForPO(poNumber)
	if err != nil {
		s.logger.Printf("close notice for PO %08d: requester email lookup failed: %v", poNumber, err)
		return nil
	}

	msg := mail.Message{
		To:      []string{email},
		Subject: "Purchase Order Notification",
		Body: fmt.Sprintf(
			"All items in your purchase order #%08d have been reviewed and the PO has been closed.",
			poNumber),
	}
	if err := s.sender.Send(msg); err != nil {
		s.logger.Printf("close notice for PO %08d failed: %v", poNumber, err)
	}

	if s.hub != nil {
		s.hub.BroadcastEvent("po_closed", map[string]interface{}{
			"po_number": fmt.Sprintf("%08d", poNumber),
		})
	}

	return nil
}

func (s *purchaseOrderService) GetDetails(poNumber uint) (*model.PurchaseOrder, error) {
	return s.repo.GetDetails(poNumber)
}

func (s *purchaseOrderService) SearchByEmployee(criteria repository.EmployeePOSearchCriteria) ([]model.PurchaseOrderSummary, error) {
	return s.repo.SearchByEmployee(criteria)
}

func (s *purchaseOrderService) SearchBySupervisor(criteria repository.SupervisorPOSearchCriteria) ([]model.SupervisorPOSummary, error) {
	return s.repo.SearchBySupervisor(criteria)
}

func (s *purchaseOrderService) SearchByDepartment(departmentID uint) ([]model.DepartmentPOSummary, error) {
	exists, err := s.departmentRepo.Exists(departmentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, repository.ErrNotFound
	}
	return s.repo.SearchByDepartment(departmentID)
}
