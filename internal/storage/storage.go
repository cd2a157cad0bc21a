package storage

import (
	"context"
	"errors"
	"log"
	"time"

	"campusdesk/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrStatusConflict is returned when a transition's from-state precondition
// no longer matches the stored row. The caller decides how to retry; the
// store never falls back to last-write-wins.
var ErrStatusConflict = errors.New("complaint status changed by another actor")

type Storage interface {
	CreateComplaint(complaint *models.Complaint, audit *models.AuditTrailEntry) error
	GetComplaintByID(id string) (*models.Complaint, error)
	GetComplaintByReference(reference string) (*models.Complaint, error)
	ListComplaints(filter ComplaintFilter) ([]models.Complaint, error)
	ApplyTransition(complaintID string, from models.Status, updates map[string]interface{}, audit *models.AuditTrailEntry) error

	GetAuditTrail(complaintID string) ([]models.AuditTrailEntry, error)

	CreateComment(comment *models.TicketComment) error
	GetComments(complaintID string, includeInternal bool) ([]models.TicketComment, error)

	SaveUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ListUsers() ([]models.User, error)

	SaveDepartment(dept *models.Department) error
	GetDepartmentByCode(code string) (*models.Department, error)
	ListDepartments(includeInactive bool) ([]models.Department, error)
	DeactivateDepartment(code string) error

	GetRateLimitConfig() (*models.RateLimitConfig, error)
	SaveRateLimitConfig(cfg *models.RateLimitConfig) error
	BlockIP(block *models.BlockedIP) error
	UnblockIP(ip string) error
	ListBlockedIPs() ([]models.BlockedIP, error)
	IsIPBlocked(ip string) (bool, error)

	IncrSubmitCount(ip string, window time.Duration) (int64, error)
	RevokeToken(tokenID string, ttl time.Duration) error
	IsTokenRevoked(tokenID string) (bool, error)

	PublishEvent(event models.LifecycleEvent) error
}

// ComplaintFilter narrows dashboard listings. Empty fields are ignored.
type ComplaintFilter struct {
	Department string
	Status     string
	Category   string
	Limit      int
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// CreateComplaint inserts the complaint together with its initial audit entry
// in one transaction. Either both rows land or neither does.
func (s *Service) CreateComplaint(complaint *models.Complaint, audit *models.AuditTrailEntry) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(complaint).Error; err != nil {
			log.Printf("ERROR: Failed to create complaint %s: %v", complaint.ReferenceNumber, err)
			return err
		}
		audit.ComplaintID = complaint.ID
		return tx.Create(audit).Error
	})
}

func (s *Service) GetComplaintByID(id string) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := s.DB.First(&complaint, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &complaint, nil
}

// GetComplaintByReference looks a complaint up by its public tracking code.
// Matching is case-insensitive.
func (s *Service) GetComplaintByReference(reference string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.DB.Where("LOWER(reference_number) = LOWER(?)", reference).First(&complaint).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (s *Service) ListComplaints(filter ComplaintFilter) ([]models.Complaint, error) {
	var complaints []models.Complaint
	q := s.DB.Order("created_at DESC")
	if filter.Department != "" {
		q = q.Where("assigned_department = ?", filter.Department)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Find(&complaints).Error; err != nil {
		log.Printf("ERROR: Failed to list complaints: %v", err)
		return nil, err
	}
	return complaints, nil
}

// ApplyTransition performs the status write and the audit insert atomically.
// The WHERE clause carries the expected from-state; zero affected rows means
// another actor moved the complaint first, and the whole transaction rolls
// back with ErrStatusConflict.
func (s *Service) ApplyTransition(complaintID string, from models.Status, updates map[string]interface{}, audit *models.AuditTrailEntry) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Complaint{}).
			Where("id = ? AND status = ?", complaintID, from).
			Updates(updates)
		if result.Error != nil {
			log.Printf("ERROR: Failed to update complaint %s: %v", complaintID, result.Error)
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStatusConflict
		}
		audit.ComplaintID = complaintID
		return tx.Create(audit).Error
	})
}

func (s *Service) GetAuditTrail(complaintID string) ([]models.AuditTrailEntry, error) {
	var entries []models.AuditTrailEntry
	err := s.DB.Where("complaint_id = ?", complaintID).
		Order("created_at asc").
		Find(&entries).Error
	if err != nil {
		log.Printf("ERROR: Failed to load audit trail for %s: %v", complaintID, err)
		return nil, err
	}
	return entries, nil
}

func (s *Service) CreateComment(comment *models.TicketComment) error {
	return s.DB.Create(comment).Error
}

// GetComments returns a complaint's discussion thread. Internal comments are
// filtered out unless the caller is a staff read path.
func (s *Service) GetComments(complaintID string, includeInternal bool) ([]models.TicketComment, error) {
	var comments []models.TicketComment
	q := s.DB.Where("complaint_id = ?", complaintID).Order("created_at asc")
	if !includeInternal {
		q = q.Where("is_internal = ?", false)
	}
	if err := q.Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
