package repository

import (
	"go-hradmin/internal/model"

	"gorm.io/gorm"
)

type DepartmentRepository interface {
	FindAll() ([]model.Department, error)
	Exists(id uint) (bool, error)
}

type departmentRepo struct {
	db *gorm.DB
}

func NewDepartmentRepo(db *gorm.DB) DepartmentRepository {
	return &departmentRepo{db}
}

func (r *departmentRepo) FindAll() ([]model.Department, error) {
	var departments []model.Department
	err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&departments).Error
	return departments, err
}

func (r *departmentRepo) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Department{}).
		Where("id = ? AND is_active = ?", id, true).
		Count(&count).Error
	return count > 0, err
}
