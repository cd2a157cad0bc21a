package lifecycle

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"campusdesk/backend/internal/alerts"
	"campusdesk/backend/internal/config"
	"campusdesk/backend/internal/mailer"
	"campusdesk/backend/internal/models"
	"campusdesk/backend/internal/storage"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

var (
	ErrUnknownDepartment = fmt.Errorf("%w: department does not exist or is inactive", ErrValidation)
	ErrDisputeReason     = fmt.Errorf("%w: a dispute reason is required", ErrValidation)
)

// ErrNotYourDepartment is returned when department staff act on a complaint
// assigned elsewhere. Mapped to 403 by handlers.
var ErrNotYourDepartment = errors.New("complaint is assigned to another department")

// Actor is the resolved identity a lifecycle call runs as. Role and
// department come from the per-request user lookup, never from the token.
type Actor struct {
	ID         string
	Role       models.Role
	Department string
}

// Service handles the business logic for the complaint lifecycle. All status
// writes funnel through here; side effects (email, Telegram, live events)
// are dispatched only after the database transaction has committed.
type Service struct {
	Storage storage.Storage
	Mailer  mailer.Sender
	Alerts  *alerts.TelegramAlerter
	BaseURL string

	sanitize *bluemonday.Policy
}

// NewService creates a new lifecycle service.
func NewService(s storage.Storage, m mailer.Sender, a *alerts.TelegramAlerter, baseURL string) *Service {
	return &Service{
		Storage:  s,
		Mailer:   m,
		Alerts:   a,
		BaseURL:  strings.TrimRight(baseURL, "/"),
		sanitize: bluemonday.StrictPolicy(),
	}
}

// SubmitInput is the public intake payload. The attachment has already been
// stored by the uploads handler; only its URL arrives here.
type SubmitInput struct {
	Name          string
	Email         string
	StudentID     string
	Category      string
	Description   string
	IsAnonymous   bool
	AttachmentURL string
}

// Submit creates a complaint in the submitted state together with its
// "Complaint Submitted" audit entry, then sends the confirmation email.
func (s *Service) Submit(in SubmitInput) (*models.Complaint, error) {
	category := strings.ToLower(strings.TrimSpace(in.Category))
	if !config.Categories[category] {
		return nil, ErrInvalidCategory
	}
	description := s.clean(in.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}

	name := s.clean(in.Name)
	if in.IsAnonymous {
		// Display name only; email and student ID are kept as submitted.
		name = config.DisplayNameAnonymous
	}

	complaint := &models.Complaint{
		ReferenceNumber: NewReferenceNumber(time.Now()),
		Status:          models.StatusSubmitted,
		Category:        category,
		Name:            name,
		Email:           strings.TrimSpace(in.Email),
		StudentID:       s.clean(in.StudentID),
		Description:     description,
		IsAnonymous:     in.IsAnonymous,
		AttachmentURL:   in.AttachmentURL,
	}
	audit := &models.AuditTrailEntry{
		Action:  "Complaint Submitted",
		Details: fmt.Sprintf("Filed under category %q", category),
	}

	if err := s.Storage.CreateComplaint(complaint, audit); err != nil {
		return nil, err
	}

	if complaint.Email != "" {
		subject, html := mailer.SubmittedEmail(complaint)
		s.notify(complaint.Email, subject, html)
	}
	s.publishEvent(complaint, audit.Action, "", models.StatusSubmitted)
	s.Alerts.NewSubmission(complaint)

	return complaint, nil
}

// Verify moves submitted→verified and routes the complaint to a department.
// The department must arrive with the call or already sit on the record;
// otherwise the operation is rejected before any write.
func (s *Service) Verify(complaintID string, actor Actor, department, remarks string) error {
	complaint, err := s.Storage.GetComplaintByID(complaintID)
	if err != nil {
		return err
	}

	dept := strings.ToLower(strings.TrimSpace(department))
	if dept == "" {
		dept = complaint.AssignedDepartment
	}
	if dept == "" {
		return ErrDepartmentRequired
	}
	if err := s.checkDepartment(dept); err != nil {
		return err
	}

	now := time.Now()
	remarks = s.clean(remarks)
	updates := map[string]interface{}{
		"status":              models.StatusVerified,
		"assigned_department": dept,
		"admin_remarks":       remarks,
		"verified_by":         actor.ID,
		"verified_at":         now,
	}
	audit := &models.AuditTrailEntry{
		Action:      "Concern Verified",
		PerformedBy: &actor.ID,
		Details:     fmt.Sprintf("Assigned to department %q", dept),
	}

	if err := s.Storage.ApplyTransition(complaintID, models.StatusSubmitted, updates, audit); err != nil {
		return err
	}

	complaint.Status = models.StatusVerified
	complaint.AssignedDepartment = dept
	complaint.AdminRemarks = remarks
	if complaint.Email != "" {
		subject, html := mailer.VerifiedEmail(complaint)
		s.notify(complaint.Email, subject, html)
	}
	s.publishEvent(complaint, audit.Action, models.StatusSubmitted, models.StatusVerified)
	return nil
}

// Reject moves submitted→rejected. A reason is mandatory and is both stored
// in admin remarks and mailed back to the submitter.
func (s *Service) Reject(complaintID string, actor Actor, reason string) error {
	reason = s.clean(reason)
	if reason == "" {
		return ErrReasonRequired
	}

	complaint, err := s.Storage.GetComplaintByID(complaintID)
	if err != nil {
		return err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":        models.StatusRejected,
		"admin_remarks": reason,
		"verified_by":   actor.ID,
		"verified_at":   now,
	}
	audit := &models.AuditTrailEntry{
		Action:      "Concern Rejected",
		PerformedBy: &actor.ID,
		Details:     reason,
	}

	if err := s.Storage.ApplyTransition(complaintID, models.StatusSubmitted, updates, audit); err != nil {
		return err
	}

	if complaint.Email != "" {
		subject, html := mailer.RejectedEmail(complaint, reason)
		s.notify(complaint.Email, subject, html)
	}
	s.publishEvent(complaint, audit.Action, models.StatusSubmitted, models.StatusRejected)
	return nil
}

// StartProgress moves a verified, backlogged or disputed complaint into
// in_progress on behalf of department staff.
func (s *Service) StartProgress(complaintID string, actor Actor, remarks string) error {
	complaint, err := s.Storage.GetComplaintByID(complaintID)
	if err != nil {
		return err
	}
	if err := s.checkScope(actor, complaint); err != nil {
		return err
	}
	if !CanTransition(complaint.Status, models.StatusInProgress) {
		return ErrIllegalTransition
	}

	now := time.Now()
	remarks = s.clean(remarks)
	updates := map[string]interface{}{
		"status":     models.StatusInProgress,
		"started_by": actor.ID,
		"started_at": now,
	}
	if remarks != "" {
		updates["department_remarks"] = remarks
	}
	audit := &models.AuditTrailEntry{
		Action:      "Started Processing",
		PerformedBy: &actor.ID,
		Details:     remarks,
	}

	if err := s.Storage.ApplyTransition(complaintID, complaint.Status, updates, audit); err != nil {
		return err
	}

	from := complaint.Status
	complaint.Status = models.StatusInProgress
	complaint.DepartmentRemarks = remarks
	if complaint.Email != "" {
		subject, html := mailer.InProgressEmail(complaint)
		s.notify(complaint.Email, subject, html)
	}
	s.publishEvent(complaint, audit.Action, from, models.StatusInProgress)
	return nil
}

// Resolve moves in_progress→resolved. Resolution details are mandatory; the
// notification carries the 7-day action-required notice.
func (s *Service) Resolve(complaintID string, actor Actor, details, imageURL, remarks string) error {
	details = s.clean(details)
	if details == "" {
		return ErrResolutionRequired
	}

	complaint, err := s.Storage.GetComplaintByID(complaintID)
	if err != nil {
		return err
	}
	if err := s.checkScope(actor, complaint); err != nil {
		return err
	}

	now := time.Now()
	remarks = s.clean(remarks)
	updates := map[string]interface{}{
		"status":               models.StatusResolved,
		"resolution_details":   details,
		"resolution_image_url": imageURL,
		"resolved_by":          actor.ID,
		"resolved_at":          now,
	}
	if remarks != "" {
		updates["department_remarks"] = remarks
	}
	audit := &models.AuditTrailEntry{
		Action:      "Complaint Resolved",
		PerformedBy: &actor.ID,
		Details:     details,
	}

	if err := s.Storage.ApplyTransition(complaintID, models.StatusInProgress, updates, audit); err != nil {
		return err
	}

	complaint.Status = models.StatusResolved
	complaint.ResolutionDetails = details
	complaint.ResolutionImageURL = imageURL
	if complaint.Email != "" {
		subject, html := mailer.ResolvedEmail(complaint, s.BaseURL)
		s.notify(complaint.Email, subject, html)
	}
	s.publishEvent(complaint, audit.Action, models.StatusInProgress, models.StatusResolved)
	return nil
}

// MoveToBacklog parks a complaint. Audited as a generic status change, no
// notification email.
func (s *Service) MoveToBacklog(complaintID string, actor Actor) error {
	complaint, err := s.Storage.GetComplaintByID(complaintID)
	if err != nil {
		return err
	}
	if err := s.checkScope(actor, complaint); err != nil {
		return err
	}
	if !CanTransition(complaint.Status, models.StatusBacklog) {
		return ErrIllegalTransition
	}

	audit := &models.AuditTrailEntry{
		Action:      fmt.Sprintf("Status Changed to %s", models.StatusBacklog),
		PerformedBy: &actor.ID,
	}
	updates := map[string]interface{}{"status": models.StatusBacklog}

	if err := s.Storage.ApplyTransition(complaintID, complaint.Status, updates, audit); err != nil {
		return err
	}
	s.publishEvent(complaint, audit.Action, complaint.Status, models.StatusBacklog)
	return nil
}

// ChangeStatus is the office-admin override along any legal edge of the
// graph. Moving into verified still demands a department, incoming or
// already assigned. notifyEmail, when distinct from the record's address,
// receives the same old→new notification.
func (s *Service) ChangeStatus(complaintID string, actor Actor, newStatus models.Status, department, remarks, notifyEmail string) error {
	if !KnownStatus(newStatus) {
		return ErrUnknownStatus
	}

	complaint, err := s.Storage.GetComplaintByID(complaintID)
	if err != nil {
		return err
	}
	if !CanTransition(complaint.Status, newStatus) {
		return ErrIllegalTransition
	}

	remarks = s.clean(remarks)
	updates := map[string]interface{}{
		"status":        newStatus,
		"admin_remarks": remarks,
	}

	if newStatus == models.StatusVerified {
		dept := strings.ToLower(strings.TrimSpace(department))
		if dept == "" {
			dept = complaint.AssignedDepartment
		}
		if dept == "" {
			return ErrDepartmentRequired
		}
		if err := s.checkDepartment(dept); err != nil {
			return err
		}
		updates["assigned_department"] = dept
		complaint.AssignedDepartment = dept
	}

	audit := &models.AuditTrailEntry{
		Action:      fmt.Sprintf("Status Changed to %s", newStatus),
		PerformedBy: &actor.ID,
		Details:     remarks,
	}

	from := complaint.Status
	if err := s.Storage.ApplyTransition(complaintID, from, updates, audit); err != nil {
		return err
	}

	complaint.Status = newStatus
	complaint.AdminRemarks = remarks
	subject, html := mailer.StatusChangedEmail(complaint, from, newStatus)
	if complaint.Email != "" {
		s.notify(complaint.Email, subject, html)
	}
	if notifyEmail != "" && !strings.EqualFold(notifyEmail, complaint.Email) {
		s.notify(notifyEmail, subject, html)
	}
	s.publishEvent(complaint, audit.Action, from, newStatus)
	return nil
}

// Dispute is the complainant-facing rejection of a resolution, keyed by
// reference number. Moves resolved→disputed and alerts the ops channel.
func (s *Service) Dispute(reference, reason string) error {
	reason = s.clean(reason)
	if reason == "" {
		return ErrDisputeReason
	}

	complaint, err := s.Storage.GetComplaintByReference(reference)
	if err != nil {
		return err
	}
	if !CanTransition(complaint.Status, models.StatusDisputed) {
		return ErrIllegalTransition
	}

	updates := map[string]interface{}{
		"status":         models.StatusDisputed,
		"dispute_reason": reason,
	}
	audit := &models.AuditTrailEntry{
		Action:  "Resolution Disputed",
		Details: reason,
	}

	if err := s.Storage.ApplyTransition(complaint.ID, models.StatusResolved, updates, audit); err != nil {
		return err
	}

	complaint.Status = models.StatusDisputed
	s.publishEvent(complaint, audit.Action, models.StatusResolved, models.StatusDisputed)
	s.Alerts.Disputed(complaint)
	return nil
}

// TrackResult is the public view of a complaint: the record, its audit
// trail, and only the non-internal comments.
type TrackResult struct {
	Complaint  *models.Complaint        `json:"complaint"`
	AuditTrail []models.AuditTrailEntry `json:"audit_trail"`
	Comments   []models.TicketComment   `json:"comments"`
}

// Track looks a complaint up by reference number, case-insensitively.
// Internal comments never leave this path.
func (s *Service) Track(reference string) (*TrackResult, error) {
	complaint, err := s.Storage.GetComplaintByReference(reference)
	if err != nil {
		return nil, err
	}
	trail, err := s.Storage.GetAuditTrail(complaint.ID)
	if err != nil {
		return nil, err
	}
	comments, err := s.Storage.GetComments(complaint.ID, false)
	if err != nil {
		return nil, err
	}
	return &TrackResult{Complaint: complaint, AuditTrail: trail, Comments: comments}, nil
}

// PostComment attaches a discussion note to a complaint.
func (s *Service) PostComment(complaintID, authorID, content string, isInternal bool) (*models.TicketComment, error) {
	content = s.clean(content)
	if content == "" {
		return nil, ErrCommentRequired
	}
	if _, err := s.Storage.GetComplaintByID(complaintID); err != nil {
		return nil, err
	}

	comment := &models.TicketComment{
		ComplaintID: complaintID,
		AuthorID:    authorID,
		Content:     content,
		IsInternal:  isInternal,
	}
	if err := s.Storage.CreateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Service) clean(text string) string {
	return strings.TrimSpace(s.sanitize.Sanitize(text))
}

func (s *Service) checkDepartment(code string) error {
	dept, err := s.Storage.GetDepartmentByCode(code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUnknownDepartment
	}
	if err != nil {
		return err
	}
	if !dept.IsActive {
		return ErrUnknownDepartment
	}
	return nil
}

// checkScope rejects department staff acting outside their own department.
// Admins pass through; the role gate upstream has already excluded everyone
// else.
func (s *Service) checkScope(actor Actor, complaint *models.Complaint) error {
	if actor.Role == models.RoleAdmin || actor.Role == models.RoleSuperAdmin {
		return nil
	}
	if actor.Department == "" || actor.Department != complaint.AssignedDepartment {
		return ErrNotYourDepartment
	}
	return nil
}

// notify sends one email. The transition is already committed, so a failure
// here is logged and swallowed.
func (s *Service) notify(to, subject, html string) {
	if err := s.Mailer.Send(to, subject, html); err != nil {
		log.Printf("WARNING: Failed to send notification email to %s: %v", to, err)
	}
}

func (s *Service) publishEvent(c *models.Complaint, action string, from, to models.Status) {
	event := models.LifecycleEvent{
		ComplaintID:     c.ID,
		ReferenceNumber: c.ReferenceNumber,
		Action:          action,
		FromStatus:      from,
		ToStatus:        to,
		Department:      c.AssignedDepartment,
		Category:        c.Category,
		OccurredAt:      time.Now(),
	}
	if err := s.Storage.PublishEvent(event); err != nil {
		log.Printf("WARNING: Failed to publish lifecycle event for %s: %v", c.ReferenceNumber, err)
	}
}
