package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"log"

	"campusdesk/backend/internal/models"
)

// Notification templates are pure functions of complaint fields: they return
// a subject and an HTML body and touch nothing else. Every template routes
// through the same Send primitive.

var baseTmpl = template.Must(template.New("email").Parse(`
<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
  <h2 style="color:#7a0c0c">University Concern Desk</h2>
  <p>Hello {{.Name}},</p>
  {{.Body}}
  <p style="margin-top:16px">Reference number: <strong>{{.Reference}}</strong></p>
  <p style="color:#777;font-size:12px">This is an automated message. Please do not reply.</p>
</div>`))

type emailData struct {
	Name      string
	Reference string
	Body      template.HTML
}

func render(c *models.Complaint, body string) string {
	name := c.Name
	if name == "" {
		name = "Concerned Student"
	}
	var buf bytes.Buffer
	err := baseTmpl.Execute(&buf, emailData{
		Name:      name,
		Reference: c.ReferenceNumber,
		Body:      template.HTML(body),
	})
	if err != nil {
		log.Printf("ERROR: Failed to render email template: %v", err)
		return body
	}
	return buf.String()
}

func paragraph(format string, args ...interface{}) string {
	return "<p>" + fmt.Sprintf(format, args...) + "</p>"
}

// SubmittedEmail confirms intake and hands the submitter their tracking code.
func SubmittedEmail(c *models.Complaint) (subject, html string) {
	subject = fmt.Sprintf("Concern Received - %s", c.ReferenceNumber)
	body := paragraph("We received your %s concern and it is now awaiting review by the office administrator.", template.HTMLEscapeString(c.Category)) +
		paragraph("Keep your reference number to track progress at any time.")
	return subject, render(c, body)
}

// VerifiedEmail tells the submitter their concern was accepted and routed.
func VerifiedEmail(c *models.Complaint) (subject, html string) {
	subject = fmt.Sprintf("Concern Verified - %s", c.ReferenceNumber)
	body := paragraph("Your concern has been verified and forwarded to the <strong>%s</strong> department for action.", template.HTMLEscapeString(c.AssignedDepartment))
	if c.AdminRemarks != "" {
		body += paragraph("Remarks from the office: %s", template.HTMLEscapeString(c.AdminRemarks))
	}
	return subject, render(c, body)
}

// RejectedEmail carries the rejection reason.
func RejectedEmail(c *models.Complaint, reason string) (subject, html string) {
	subject = fmt.Sprintf("Concern Rejected - %s", c.ReferenceNumber)
	body := paragraph("After review, your concern was not accepted for processing.") +
		paragraph("Reason: %s", template.HTMLEscapeString(reason))
	return subject, render(c, body)
}

// InProgressEmail announces that department staff started working the case.
func InProgressEmail(c *models.Complaint) (subject, html string) {
	subject = fmt.Sprintf("Concern In Progress - %s", c.ReferenceNumber)
	body := paragraph("The %s department has started working on your concern.", template.HTMLEscapeString(c.AssignedDepartment))
	if c.DepartmentRemarks != "" {
		body += paragraph("Remarks: %s", template.HTMLEscapeString(c.DepartmentRemarks))
	}
	return subject, render(c, body)
}

// ResolvedEmail includes the 7-day action-required notice and the public
// verification link built from the app base URL.
func ResolvedEmail(c *models.Complaint, baseURL string) (subject, html string) {
	subject = fmt.Sprintf("Concern Resolved - %s", c.ReferenceNumber)
	body := paragraph("Your concern has been marked as resolved.") +
		paragraph("Resolution: %s", template.HTMLEscapeString(c.ResolutionDetails)) +
		paragraph("<strong>Action required:</strong> please review the resolution within 7 days. "+
			"If the issue persists you may dispute it from the tracking page; otherwise the concern will be closed.") +
		paragraph(`<a href="%s/track/%s">Review your resolution</a>`, baseURL, c.ReferenceNumber)
	return subject, render(c, body)
}

// StatusChangedEmail describes an administrative override, old state to new.
func StatusChangedEmail(c *models.Complaint, from, to models.Status) (subject, html string) {
	subject = fmt.Sprintf("Concern Status Updated - %s", c.ReferenceNumber)
	body := paragraph("The status of your concern was changed from <strong>%s</strong> to <strong>%s</strong> by the office administrator.", from, to)
	if c.AdminRemarks != "" {
		body += paragraph("Remarks: %s", template.HTMLEscapeString(c.AdminRemarks))
	}
	return subject, render(c, body)
}
