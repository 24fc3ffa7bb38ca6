package model

import "strings"

// ContactRecord is a typed view of one row in the contact table. Line is the
// 1-based line in the source file (the header occupies line 1).
type ContactRecord struct {
	Line      int    `json:"line"`
	Company   string `json:"company"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// FullName joins the first and last name fields with a single space.
func (c ContactRecord) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// MasterRecord is a row of the ranked outreach master table.
type MasterRecord struct {
	Rank         int    `json:"rank"`
	Company      string `json:"company"`
	ContactName  string `json:"contact_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Role         string `json:"role,omitempty"`
	Industry     string `json:"industry,omitempty"`
	Tier         string `json:"tier,omitempty"`
	LinkedIn     string `json:"linkedin,omitempty"`
	Website      string `json:"website,omitempty"`
	LeadScore    string `json:"lead_score,omitempty"`
	EmailSubject string `json:"email_subject,omitempty"`
	BestSendDay  string `json:"best_send_day,omitempty"`
	BestSendTime string `json:"best_send_time,omitempty"`
	Status       string `json:"status,omitempty"`
}

// ProfileDocument is a parsed per-contact profile file. Absent or placeholder
// values are stored as empty strings.
type ProfileDocument struct {
	Filename     string `json:"filename"`
	Rank         int    `json:"rank"`
	Company      string `json:"company"`
	ContactName  string `json:"contact_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Role         string `json:"role,omitempty"`
	LinkedIn     string `json:"linkedin,omitempty"`
	Website      string `json:"website,omitempty"`
	Industry     string `json:"industry,omitempty"`
	Tier         string `json:"tier,omitempty"`
	LeadScore    string `json:"lead_score,omitempty"`
	EmailSubject string `json:"email_subject,omitempty"`
	BestSendTime string `json:"best_send_time,omitempty"`
	Status       string `json:"status,omitempty"`
}
