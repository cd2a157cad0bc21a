package storage

import (
	"log"

	"campusdesk/backend/internal/models"
)

// SaveUser stores a user account in PostgreSQL.
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.DB.Order("created_at asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SaveDepartment creates or updates a department row.
func (s *Service) SaveDepartment(dept *models.Department) error {
	return s.DB.Save(dept).Error
}

func (s *Service) GetDepartmentByCode(code string) (*models.Department, error) {
	var dept models.Department
	if err := s.DB.Where("code = ?", code).First(&dept).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

func (s *Service) ListDepartments(includeInactive bool) ([]models.Department, error) {
	var depts []models.Department
	q := s.DB.Order("name asc")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&depts).Error; err != nil {
		log.Printf("ERROR: Failed to list departments: %v", err)
		return nil, err
	}
	return depts, nil
}

// DeactivateDepartment soft-deletes a department. Complaints already
// assigned to it keep the stale code; no cascading cleanup.
func (s *Service) DeactivateDepartment(code string) error {
	return s.DB.Model(&models.Department{}).
		Where("code = ?", code).
		Update("is_active", false).Error
}
