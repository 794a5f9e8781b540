package model

import "time"

// Review is a quarterly performance review written by a supervisor.
type Review struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID   uint      `gorm:"not null;index" json:"employee_id" validate:"required"`
	SupervisorID uint      `gorm:"not null;index" json:"supervisor_id" validate:"required"`
	Year         int       `gorm:"not null" json:"year" validate:"required"`
	Quarter      int       `gorm:"not null" json:"quarter" validate:"quarter"`
	RatingID     int       `gorm:"not null" json:"rating_id" validate:"required,gte=1,lte=5"`
	Comment      string    `gorm:"type:text;not null" json:"comment" validate:"required"`
	ReviewDate   time.Time `gorm:"type:date;not null" json:"review_date" validate:"required"`
	IsRead       bool      `gorm:"default:false" json:"is_read"`
	CreatedAt    time.Time `json:"created_at"`

	Errors []ValidationError `gorm:"-" json:"errors,omitempty" validate:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) AddError(err ValidationError) {
	r.Errors = append(r.Errors, err)
}

// ReviewReminderLog marks a calendar day on which the reminder batch went out.
// Its presence is the "already sent today" idempotence check.
type ReviewReminderLog struct {
	ID     uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SentOn time.Time `gorm:"type:date;uniqueIndex;not null" json:"sent_on"`
}

func (ReviewReminderLog) TableName() string {
	return "review_reminder_logs"
}

// PendingReviewRow is one pending review joined with supervisor and employee
// directory data, as consumed by the reminder scheduler.
type PendingReviewRow struct {
	Year              int    `json:"year"`
	Quarter           int    `json:"quarter"`
	SupervisorID      uint   `json:"supervisor_id"`
	SupervisorName    string `json:"supervisor_name"`
	SupervisorEmail   string `json:"supervisor_email"`
	EmployeeID        uint   `json:"employee_id"`
	EmployeeFirstName string `json:"employee_first_name"`
	EmployeeLastName  string `json:"employee_last_name"`
	IsOutstanding     bool   `json:"is_outstanding"`
}

// EmployeeBrief is a sortable employee reference in review listings.
type EmployeeBrief struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// PendingReviewGroup lists employees awaiting review for one year/quarter.
type PendingReviewGroup struct {
	Year      int             `json:"year"`
	Quarter   int             `json:"quarter"`
	Employees []EmployeeBrief `json:"employees"`
}

// EmployeeReviewItem is a received-review row shown to the employee.
type EmployeeReviewItem struct {
	ID             uint      `json:"id"`
	Year           int       `json:"year"`
	Quarter        int       `json:"quarter"`
	ReviewDate     time.Time `json:"review_date"`
	Comment        string    `json:"comment"`
	Rating         string    `json:"rating"`
	SupervisorName string    `json:"supervisor_name"`
	IsRead         bool      `json:"is_read"`
}
