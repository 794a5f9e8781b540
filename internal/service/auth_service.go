package service

import (
	"errors"

	"go-hradmin/internal/model"
	"go-hradmin/internal/repository"
	"go-hradmin/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmployeeInactive   = errors.New("employee account is inactive")
)

type LoginResponse struct {
	Token    string                 `json:"token"`
	Employee model.EmployeeResponse `json:"employee"`
}

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
}

type authService struct {
	employeeRepo repository.EmployeeRepository
	worker       *ReminderWorker
}

func NewAuthService(employeeRepo repository.EmployeeRepository, worker *ReminderWorker) AuthService {
	return &authService{employeeRepo: employeeRepo, worker: worker}
}

// Login verifies the credentials and issues a token. A successful login also
// nudges the reminder worker; the login response never waits on it.
func (s *authService) Login(email, password string) (*LoginResponse, error) {
	employee, err := s.employeeRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !employee.IsActive {
		return nil, ErrEmployeeInactive
	}

	if !employee.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(employee.ID, employee.Email, employee.FullName(), employee.Role)
	if err != nil {
		return nil, err
	}

	if s.worker != nil {
		s.worker.Enqueue()
	}

	return &LoginResponse{
		Token:    token,
		Employee: employee.ToResponse(),
	}, nil
}
