package repository

import (
	"errors"

	"go-hradmin/internal/model"

	"gorm.io/gorm"
)

type EmployeeRepository interface {
	FindByID(id uint) (*model.Employee, error)
	FindByEmail(email string) (*model.Employee, error)
	FindByDepartment(departmentID uint) ([]model.Employee, error)
}

type employeeRepo struct {
	db *gorm.DB
}

func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db}
}

func (r *employeeRepo) FindByID(id uint) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.Preload("Department").First(&employee, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) FindByEmail(email string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.Preload("Department").First(&employee, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) FindByDepartment(departmentID uint) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.Where("department_id = ? AND is_active = ?", departmentID, true).
		Order("last_name ASC, first_name ASC").
		Find(&employees).Error
	return employees, err
}
