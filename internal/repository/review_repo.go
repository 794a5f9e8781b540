package repository

import (
	"errors"
	"time"

	"go-hradmin/internal/model"

	"gorm.io/gorm"
)

// Reviews are due once per quarter for every active employee with a
// supervisor, starting from this year.
const reviewStartYear = 2024

type ReviewRepository interface {
	Create(review *model.Review) error
	ExistsForYearAndQuarter(review *model.Review) (bool, error)
	GetReviews(employeeID uint) ([]model.EmployeeReviewItem, error)
	MarkAsRead(id uint) error
	GetPendingEmployeesForReview(supervisorID *uint, asOf time.Time) ([]model.PendingReviewRow, error)
	GetPendingReviewsForReminder(asOf time.Time) ([]model.PendingReviewRow, error)
	HasSentReminderOn(day time.Time) (bool, error)
	LogReminder(day time.Time) error
}

type reviewRepo struct {
	db *gorm.DB
}

func NewReviewRepo(db *gorm.DB) ReviewRepository {
	return &reviewRepo{db}
}

func (r *reviewRepo) Create(review *model.Review) error {
	return r.db.Create(review).Error
}

func (r *reviewRepo) ExistsForYearAndQuarter(review *model.Review) (bool, error) {
	var count int64
	err := r.db.Model(&model.Review{}).
		Where("employee_id = ? AND year = ? AND quarter = ?",
			review.EmployeeID, review.Year, review.Quarter).
		Count(&count).Error
	return count > 0, err
}

func ratingName(id int) string {
	switch id {
	case 1:
		return "Unsatisfactory"
	case 2:
		return "Needs Improvement"
	case 3:
		return "Meets Expectations"
	case 4:
		return "Exceeds Expectations"
	case 5:
		return "Outstanding"
	default:
		return "Unknown"
	}
}

func (r *reviewRepo) GetReviews(employeeID uint) ([]model.EmployeeReviewItem, error) {
	var reviews []model.Review
	err := r.db.Where("employee_id = ?", employeeID).
		Order("year DESC, quarter DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}

	supNames := map[uint]string{}
	items := make([]model.EmployeeReviewItem, 0, len(reviews))
	for i := range reviews {
		rev := &reviews[i]
		name, ok := supNames[rev.SupervisorID]
		if !ok {
			var sup model.Employee
			if err := r.db.First(&sup, "id = ?", rev.SupervisorID).Error; err == nil {
				name = sup.FullName()
			}
			supNames[rev.SupervisorID] = name
		}
		items = append(items, model.EmployeeReviewItem{
			ID:             rev.ID,
			Year:           rev.Year,
			Quarter:        rev.Quarter,
			ReviewDate:     rev.ReviewDate,
			Comment:        rev.Comment,
			Rating:         ratingName(rev.RatingID),
			SupervisorName: name,
			IsRead:         rev.IsRead,
		})
	}
	return items, nil
}

func (r *reviewRepo) MarkAsRead(id uint) error {
	res := r.db.Model(&model.Review{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func quarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// dueQuarters lists every (year, quarter) from the start year up to and
// including the quarter containing asOf.
func dueQuarters(asOf time.Time) [][2]int {
	var due [][2]int
	curYear, curQuarter := asOf.Year(), quarterOf(asOf)
	for y := reviewStartYear; y <= curYear; y++ {
		lastQ := 4
		if y == curYear {
			lastQ = curQuarter
		}
		for q := 1; q <= lastQ; q++ {
			due = append(due, [2]int{y, q})
		}
	}
	return due
}

// pendingRows derives missing reviews per employee. A review missing for the
// current quarter is pending; one missing for any earlier quarter is
// outstanding.
func (r *reviewRepo) pendingRows(supervisorID *uint, asOf time.Time) ([]model.PendingReviewRow, error) {
	query := r.db.Where("is_active = ? AND supervisor_id IS NOT NULL", true)
	if supervisorID != nil {
		query = query.Where("supervisor_id = ?", *supervisorID)
	}

	var employees []model.Employee
	if err := query.Find(&employees).Error; err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, nil
	}

	empIDs := make([]uint, len(employees))
	for i := range employees {
		empIDs[i] = employees[i].ID
	}

	var reviews []model.Review
	if err := r.db.Where("employee_id IN ?", empIDs).Find(&reviews).Error; err != nil {
		return nil, err
	}
	done := map[uint]map[[2]int]bool{}
	for i := range reviews {
		rev := &reviews[i]
		if done[rev.EmployeeID] == nil {
			done[rev.EmployeeID] = map[[2]int]bool{}
		}
		done[rev.EmployeeID][[2]int{rev.Year, rev.Quarter}] = true
	}

	supervisors := map[uint]*model.Employee{}
	for i := range employees {
		supID := *employees[i].SupervisorID
		if _, ok := supervisors[supID]; ok {
			continue
		}
		var sup model.Employee
		if err := r.db.First(&sup, "id = ?", supID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		supervisors[supID] = &sup
	}

	due := dueQuarters(asOf)
	curYear, curQuarter := asOf.Year(), quarterOf(asOf)

	var rows []model.PendingReviewRow
	for i := range employees {
		emp := &employees[i]
		sup, ok := supervisors[*emp.SupervisorID]
		if !ok {
			continue
		}
		for _, yq := range due {
			if done[emp.ID][yq] {
				continue
			}
			rows = append(rows, model.PendingReviewRow{
				Year:              yq[0],
				Quarter:           yq[1],
				SupervisorID:      sup.ID,
				SupervisorName:    sup.FullName(),
				SupervisorEmail:   sup.Email,
				EmployeeID:        emp.ID,
				EmployeeFirstName: emp.FirstName,
				EmployeeLastName:  emp.LastName,
				IsOutstanding:     yq[0] != curYear || yq[1] != curQuarter,
			})
		}
	}
	return rows, nil
}

func (r *reviewRepo) GetPendingEmployeesForReview(supervisorID *uint, asOf time.Time) ([]model.PendingReviewRow, error) {
	return r.pendingRows(supervisorID, asOf)
}

func (r *reviewRepo) GetPendingReviewsForReminder(asOf time.Time) ([]model.PendingReviewRow, error) {
	return r.pendingRows(nil, asOf)
}

func (r *reviewRepo) HasSentReminderOn(day time.Time) (bool, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	var count int64
	err := r.db.Model(&model.ReviewReminderLog{}).
		Where("sent_on >= ? AND sent_on < ?", start, start.AddDate(0, 0, 1)).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepo) LogReminder(day time.Time) error {
	entry := model.ReviewReminderLog{
		SentOn: time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()),
	}
	return r.db.Create(&entry).Error
}
