package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role codes as stored on the employee record and carried in JWT claims.
const (
	RoleEmployee          = "Employee"
	RoleRegularSupervisor = "RegularSupervisor"
	RoleHRSupervisor      = "HRSupervisor"
	RoleCEO               = "CEO"
)

// Employee is a directory record. The core consumes it read-only except for
// the thin authentication plumbing.
type Employee struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName    string     `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName     string     `gorm:"type:varchar(50);not null" json:"last_name"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string     `gorm:"type:varchar(255);not null" json:"-"`
	Role         string     `gorm:"type:varchar(30);not null;default:'Employee'" json:"role"`
	DepartmentID *uint      `gorm:"index" json:"department_id,omitempty"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	SupervisorID *uint      `gorm:"index" json:"supervisor_id,omitempty"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// SetPassword hashes and sets the employee's password
func (e *Employee) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	e.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (e *Employee) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(e.Password), []byte(password))
	return err == nil
}

// IsSupervisor reports whether the employee may record item decisions.
func (e *Employee) IsSupervisor() bool {
	return e.Role == RoleRegularSupervisor || e.Role == RoleHRSupervisor || e.Role == RoleCEO
}

// EmployeeResponse is used for API responses (without credentials)
type EmployeeResponse struct {
	ID           uint        `json:"id"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Email        string      `json:"email"`
	Role         string      `json:"role"`
	DepartmentID *uint       `json:"department_id,omitempty"`
	Department   *Department `json:"department,omitempty"`
	IsActive     bool        `json:"is_active"`
}

func (e *Employee) ToResponse() EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Email:        e.Email,
		Role:         e.Role,
		DepartmentID: e.DepartmentID,
		Department:   e.Department,
		IsActive:     e.IsActive,
	}
}

type Department struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

func (Department) TableName() string {
	return "departments"
}
