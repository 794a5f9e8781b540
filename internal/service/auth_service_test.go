package service

import (
	"testing"

	"go-hradmin/internal/model"
	"go-hradmin/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthEmployeeRepo struct {
	employee *model.Employee
}

func (f *fakeAuthEmployeeRepo) FindByID(uint) (*model.Employee, error) { return f.employee, nil }

func (f *fakeAuthEmployeeRepo) FindByEmail(email string) (*model.Employee, error) {
	if f.employee == nil || f.employee.Email != email {
		return nil, repository.ErrNotFound
	}
	return f.employee, nil
}

func (f *fakeAuthEmployeeRepo) FindByDepartment(uint) ([]model.Employee, error) { return nil, nil }

func activeEmployee(t *testing.T) *model.Employee {
	t.Helper()
	emp := &model.Employee{
		ID:        7,
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "alee@example.com",
		Role:      model.RoleEmployee,
		IsActive:  true,
	}
	require.NoError(t, emp.SetPassword("correct-horse"))
	return emp
}

func TestLoginSuccessEnqueuesReminder(t *testing.T) {
	worker := NewReminderWorker(nil, quietLogger())
	svc := NewAuthService(&fakeAuthEmployeeRepo{employee: activeEmployee(t)}, worker)

	resp, err := svc.Login("alee@example.com", "correct-horse")

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, uint(7), resp.Employee.ID)

	select {
	case <-worker.trigger:
	default:
		t.Fatal("expected a reminder trigger after login")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(&fakeAuthEmployeeRepo{employee: activeEmployee(t)}, nil)

	_, err := svc.Login("alee@example.com", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(&fakeAuthEmployeeRepo{}, nil)

	_, err := svc.Login("nobody@example.com", "whatever")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveEmployee(t *testing.T) {
	emp := activeEmployee(t)
	emp.IsActive = false
	svc := NewAuthService(&fakeAuthEmployeeRepo{employee: emp}, nil)

	_, err := svc.Login("alee@example.com", "correct-horse")

	assert.ErrorIs(t, err, ErrEmployeeInactive)
}
