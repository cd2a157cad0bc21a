package lifecycle_test

import (
	"time"

	"campusdesk/backend/internal/models"
	"campusdesk/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

var _ storage.Storage = (*MockStorage)(nil)

func (m *MockStorage) CreateComplaint(complaint *models.Complaint, audit *models.AuditTrailEntry) error {
	args := m.Called(complaint, audit)
	return args.Error(0)
}

func (m *MockStorage) GetComplaintByID(id string) (*models.Complaint, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) GetComplaintByReference(reference string) (*models.Complaint, error) {
	args := m.Called(reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) ListComplaints(filter storage.ComplaintFilter) ([]models.Complaint, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) ApplyTransition(complaintID string, from models.Status, updates map[string]interface{}, audit *models.AuditTrailEntry) error {
	args := m.Called(complaintID, from, updates, audit)
	return args.Error(0)
}

func (m *MockStorage) GetAuditTrail(complaintID string) ([]models.AuditTrailEntry, error) {
	args := m.Called(complaintID)
	return args.Get(0).([]models.AuditTrailEntry), args.Error(1)
}

func (m *MockStorage) CreateComment(comment *models.TicketComment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockStorage) GetComments(complaintID string, includeInternal bool) ([]models.TicketComment, error) {
	args := m.Called(complaintID, includeInternal)
	return args.Get(0).([]models.TicketComment), args.Error(1)
}

func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) ListUsers() ([]models.User, error) {
	args := m.Called()
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStorage) SaveDepartment(dept *models.Department) error {
	args := m.Called(dept)
	return args.Error(0)
}

func (m *MockStorage) GetDepartmentByCode(code string) (*models.Department, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Department), args.Error(1)
}

func (m *MockStorage) ListDepartments(includeInactive bool) ([]models.Department, error) {
	args := m.Called(includeInactive)
	return args.Get(0).([]models.Department), args.Error(1)
}

func (m *MockStorage) DeactivateDepartment(code string) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockStorage) GetRateLimitConfig() (*models.RateLimitConfig, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RateLimitConfig), args.Error(1)
}

func (m *MockStorage) SaveRateLimitConfig(cfg *models.RateLimitConfig) error {
	args := m.Called(cfg)
	return args.Error(0)
}

func (m *MockStorage) BlockIP(block *models.BlockedIP) error {
	args := m.Called(block)
	return args.Error(0)
}

func (m *MockStorage) UnblockIP(ip string) error {
	args := m.Called(ip)
	return args.Error(0)
}

func (m *MockStorage) ListBlockedIPs() ([]models.BlockedIP, error) {
	args := m.Called()
	return args.Get(0).([]models.BlockedIP), args.Error(1)
}

func (m *MockStorage) IsIPBlocked(ip string) (bool, error) {
	args := m.Called(ip)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) IncrSubmitCount(ip string, window time.Duration) (int64, error) {
	args := m.Called(ip, window)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) RevokeToken(tokenID string, ttl time.Duration) error {
	args := m.Called(tokenID, ttl)
	return args.Error(0)
}

func (m *MockStorage) IsTokenRevoked(tokenID string) (bool, error) {
	args := m.Called(tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) PublishEvent(event models.LifecycleEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockMailer records send attempts for the notification assertions.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to, subject, html string) error {
	args := m.Called(to, subject, html)
	return args.Error(0)
}
