package service

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"go-hradmin/internal/mail"
	"go-hradmin/internal/model"
	"go-hradmin/internal/repository"
	"go-hradmin/pkg/validator"
)

type ReviewService interface {
	Create(review *model.Review) (*model.Review, error)
	GetPendingEmployeesForReview(supervisorID *uint) ([]model.PendingReviewGroup, error)
	GetReviews(employeeID uint) ([]model.EmployeeReviewItem, error)
	MarkReviewAsRead(id uint) error
	SendReminder() error
}

type reviewService struct {
	repo           repository.ReviewRepository
	employeeRepo   repository.EmployeeRepository
	sender         mail.Sender
	clock          Clock
	ccDepartmentID uint
	logger         *log.Logger
}

func NewReviewService(
	repo repository.ReviewRepository,
	employeeRepo repository.EmployeeRepository,
	sender mail.Sender,
	clock Clock,
	ccDepartmentID uint,
	logger *log.Logger,
) ReviewService {
	return &reviewService{
		repo:           repo,
		employeeRepo:   employeeRepo,
		sender:         sender,
		clock:          clock,
		ccDepartmentID: ccDepartmentID,
		logger:         logger,
	}
}

func quarterBounds(year, quarter int) (time.Time, time.Time) {
	start := time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, -1)
	return start, end
}

// reviewDateInRange keeps the review date inside its year/quarter, capped at
// today for the current quarter.
func (s *reviewService) reviewDateInRange(review *model.Review) *model.ValidationError {
	if review.Quarter < 1 || review.Quarter > 4 {
		return nil // quarter failure already reported structurally
	}

	start, end := quarterBounds(review.Year, review.Quarter)
	today := s.clock.Today()
	date := review.ReviewDate

	if review.Year == today.Year() && quarterOfMonth(int(today.Month())) == review.Quarter {
		if date.After(today) {
			e := model.NewValidationError(
				"Review date cannot be in the future for the current quarter.",
				model.ErrorTypeModel, "ReviewDate")
			return &e
		}
		end = today
	}

	if date.Before(start) || date.After(end) {
		e := model.NewValidationError(
			"Review date is outside the valid date range for the specified year and quarter.",
			model.ErrorTypeModel, "ReviewDate")
		return &e
	}
	return nil
}

func quarterOfMonth(month int) int {
	return (month-1)/3 + 1
}

func (s *reviewService) Create(review *model.Review) (*model.Review, error) {
	review.Errors = nil

	for _, e := range validator.ValidateStruct(review) {
		field := e.FailedField
		if i := strings.LastIndex(field, "."); i >= 0 {
			field = field[i+1:]
		}
		review.AddError(model.NewValidationError(
			fmt.Sprintf("The %s field failed on the '%s' rule.", field, e.Tag),
			model.ErrorTypeModel, field))
	}
	if e := s.reviewDateInRange(review); e != nil {
		review.AddError(*e)
	}
	if len(review.Errors) > 0 {
		return review, nil
	}

	exists, err := s.repo.ExistsForYearAndQuarter(review)
	if err != nil {
		return nil, err
	}
	if exists {
		review.AddError(model.NewValidationError(
			fmt.Sprintf(model.MsgRecordExists, "Review"),
			model.ErrorTypeBusiness, "ReviewDate"))
		return review, nil
	}

	if err := s.repo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) GetPendingEmployeesForReview(supervisorID *uint) ([]model.PendingReviewGroup, error) {
	rows, err := s.repo.GetPendingEmployeesForReview(supervisorID, s.clock.Today())
	if err != nil {
		return nil, err
	}

	type groupKey struct{ year, quarter int }
	grouped := map[groupKey]map[uint]model.EmployeeBrief{}
	for _, row := range rows {
		key := groupKey{row.Year, row.Quarter}
		if grouped[key] == nil {
			grouped[key] = map[uint]model.EmployeeBrief{}
		}
		grouped[key][row.EmployeeID] = model.EmployeeBrief{
			ID:        row.EmployeeID,
			FirstName: row.EmployeeFirstName,
			LastName:  row.EmployeeLastName,
		}
	}

	groups := make([]model.PendingReviewGroup, 0, len(grouped))
	for key, byID := range grouped {
		employees := make([]model.EmployeeBrief, 0, len(byID))
		for _, emp := range byID {
			employees = append(employees, emp)
		}
		sort.Slice(employees, func(i, j int) bool {
			if employees[i].LastName != employees[j].LastName {
				return employees[i].LastName < employees[j].LastName
			}
			return employees[i].FirstName < employees[j].FirstName
		})
		groups = append(groups, model.PendingReviewGroup{
			Year:      key.year,
			Quarter:   key.quarter,
			Employees: employees,
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Year != groups[j].Year {
			return groups[i].Year > groups[j].Year
		}
		return groups[i].Quarter > groups[j].Quarter
	})
	return groups, nil
}

func (s *reviewService) GetReviews(employeeID uint) ([]model.EmployeeReviewItem, error) {
	return s.repo.GetReviews(employeeID)
}

func (s *reviewService) MarkReviewAsRead(id uint) error {
	return s.repo.MarkAsRead(id)
}

// isLastDayOfQuarter reports Mar 31, Jun 30, Sep 30 and Dec 31.
func isLastDayOfQuarter(day time.Time) bool {
	switch {
	case day.Month() == time.March && day.Day() == 31,
		day.Month() == time.June && day.Day() == 30,
		day.Month() == time.September && day.Day() == 30,
		day.Month() == time.December && day.Day() == 31:
		return true
	}
	return false
}

// supervisorBatch gathers one supervisor's employees awaiting review.
type supervisorBatch struct {
	supervisorID uint
	email        string
	byEmployee   map[uint]model.EmployeeBrief
}

func batchBySupervisor(rows []model.PendingReviewRow) []supervisorBatch {
	byID := map[uint]*supervisorBatch{}
	order := []uint{}
	for _, row := range rows {
		batch, ok := byID[row.SupervisorID]
		if !ok {
			batch = &supervisorBatch{
				supervisorID: row.SupervisorID,
				email:        row.SupervisorEmail,
				byEmployee:   map[uint]model.EmployeeBrief{},
			}
			byID[row.SupervisorID] = batch
			order = append(order, row.SupervisorID)
		}
		batch.byEmployee[row.EmployeeID] = model.EmployeeBrief{
			ID:        row.EmployeeID,
			FirstName: row.EmployeeFirstName,
			LastName:  row.EmployeeLastName,
		}
	}

	batches := make([]supervisorBatch, 0, len(order))
	for _, id := range order {
		batches = append(batches, *byID[id])
	}
	return batches
}

func (b *supervisorBatch) sortedEmployees() []model.EmployeeBrief {
	employees := make([]model.EmployeeBrief, 0, len(b.byEmployee))
	for _, emp := range b.byEmployee {
		employees = append(employees, emp)
	}
	sort.Slice(employees, func(i, j int) bool {
		if employees[i].LastName != employees[j].LastName {
			return employees[i].LastName < employees[j].LastName
		}
		return employees[i].FirstName < employees[j].FirstName
	})
	return employees
}

// composeReminderBody builds the email text with a builder local to the call;
// concurrent reminder runs share no state.
func composeReminderBody(intro string, employees []model.EmployeeBrief) string {
	var sb strings.Builder
	sb.WriteString("Dear Supervisor,\n\n")
	sb.WriteString(intro)
	sb.WriteString("\n\n")
	for _, emp := range employees {
		sb.WriteString(fmt.Sprintf("- %s, %s\n", emp.LastName, emp.FirstName))
	}
	return sb.String()
}

// SendReminder runs the once-per-day reminder batch: skipped on the last day
// of a quarter and when a batch already went out today. After at least one
// email is sent the day is logged so a second invocation sends nothing.
func (s *reviewService) SendReminder() error {
	today := s.clock.Today()

	if isLastDayOfQuarter(today) {
		return nil
	}

	sent, err := s.repo.HasSentReminderOn(today)
	if err != nil {
		return err
	}
	if sent {
		return nil
	}

	rows, err := s.repo.GetPendingReviewsForReminder(today)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	var pending, outstanding []model.PendingReviewRow
	for _, row := range rows {
		if row.IsOutstanding {
			outstanding = append(outstanding, row)
		} else {
			pending = append(pending, row)
		}
	}

	hasSent := false

	for _, batch := range batchBySupervisor(pending) {
		body := composeReminderBody(
			"The following employee reviews are pending for the quarter:",
			batch.sortedEmployees())
		msg := mail.Message{
			To:      []string{batch.email},
			Subject: "Reminder: Pending Employee Reviews",
			Body:    body,
		}
		if err := s.sender.Send(msg); err != nil {
			s.logger.Printf("pending review reminder to %s failed: %v", batch.email, err)
			continue
		}
		hasSent = true
	}

	// Outstanding reminders copy every employee of the configured department.
	var ccPool []string
	if len(outstanding) > 0 {
		employees, err := s.employeeRepo.FindByDepartment(s.ccDepartmentID)
		if err != nil {
			return err
		}
		for i := range employees {
			ccPool = append(ccPool, employees[i].Email)
		}
	}

	for _, batch := range batchBySupervisor(outstanding) {
		cc := make([]string, 0, len(ccPool))
		for _, email := range ccPool {
			if !strings.EqualFold(email, batch.email) {
				cc = append(cc, email)
			}
		}
		body := composeReminderBody(
			"The following employee reviews under your supervision remain outstanding:",
			batch.sortedEmployees())
		msg := mail.Message{
			To:      []string{batch.email},
			CC:      cc,
			Subject: "Reminder: Outstanding Employee Reviews",
			Body:    body,
		}
		if err := s.sender.Send(msg); err != nil {
			s.logger.Printf("outstanding review reminder to %s failed: %v", batch.email, err)
			continue
		}
		hasSent = true
	}

	if hasSent {
		return s.repo.LogReminder(today)
	}
	return nil
}
