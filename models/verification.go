package models

import "time"

var DocumentTypes = []string{"id_card", "business_license", "farm_certificate", "tax_document"}

const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

type Verification struct {
	VerificationID string     `json:"verificationid" bson:"verificationid"`
	Farmer         string     `json:"farmer" bson:"farmer"`
	DocumentType   string     `json:"documentType" bson:"documentType"`
	DocumentImages []string   `json:"documentImages" bson:"documentImages"`
	Status         string     `json:"status" bson:"status"`
	ReviewedBy     string     `json:"reviewedBy,omitempty" bson:"reviewedBy,omitempty"`
	ReviewNotes    string     `json:"reviewNotes,omitempty" bson:"reviewNotes,omitempty"`
	SubmittedAt    time.Time  `json:"submittedAt" bson:"submittedAt"`
	ReviewedAt     *time.Time `json:"reviewedAt,omitempty" bson:"reviewedAt,omitempty"`
}
