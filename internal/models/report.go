package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EvidenceFile is one attachment resolved at submission time.
type EvidenceFile struct {
	Filename string `json:"filename"`
	Base64   string `json:"base64"`
}

// ReportSubmission is the JSON body of POST /api/reports. The server does not
// validate it beyond JSON typing; the client form is the only gate.
type ReportSubmission struct {
	AbuserName          string         `json:"abuserName"`
	AbuserGender        string         `json:"abuserGender"`
	AbuserAge           string         `json:"abuserAge"`
	Relationship        string         `json:"relationship"`
	NatureOfAbuse       string         `json:"natureOfAbuse"`
	IncidentDescription string         `json:"incidentDescription"`
	Location            string         `json:"location"`
	VictimName          string         `json:"victimName"`
	VictimDescription   string         `json:"victimDescription"`
	VictimGender        string         `json:"victimGender"`
	VictimAge           string         `json:"victimAge"`
	ReporterName        string         `json:"reporterName"`
	ReporterPhone       string         `json:"reporterPhone"`
	Evidence            []EvidenceFile `json:"evidence"`
	Latitude            float64        `json:"latitude"`
	Longitude           float64        `json:"longitude"`
	AbuserAnonymous     bool           `json:"abuserAnonymous"`
	VictimAnonymous     bool           `json:"victimAnonymous"`
}

// Report is a persisted incident report. ID and CreatedAt are assigned by the
// server on insert.
type Report struct {
	ID                  string                            `gorm:"primaryKey" json:"id"`
	AbuserName          string                            `json:"abuserName"`
	AbuserGender        string                            `json:"abuserGender"`
	AbuserAge           string                            `json:"abuserAge"`
	Relationship        string                            `json:"relationship"`
	NatureOfAbuse       string                            `gorm:"index" json:"natureOfAbuse"`
	IncidentDescription string                            `gorm:"type:text" json:"incidentDescription"`
	Location            string                            `json:"location"`
	VictimName          string                            `json:"victimName"`
	VictimDescription   string                            `gorm:"type:text" json:"victimDescription"`
	VictimGender        string                            `json:"victimGender"`
	VictimAge           string                            `json:"victimAge"`
	ReporterName        string                            `json:"reporterName"`
	ReporterPhone       string                            `json:"reporterPhone"`
	Evidence            datatypes.JSONSlice[EvidenceFile] `json:"evidence"`
	Latitude            float64                           `json:"latitude"`
	Longitude           float64                           `json:"longitude"`
	AbuserAnonymous     bool                              `json:"abuserAnonymous"`
	VictimAnonymous     bool                              `json:"victimAnonymous"`
	CreatedAt           time.Time                         `gorm:"index" json:"date"`
}

// NewReport copies a submission into a storable report, preserving evidence order.
func NewReport(s ReportSubmission) *Report {
	evidence := make(datatypes.JSONSlice[EvidenceFile], len(s.Evidence))
	copy(evidence, s.Evidence)

	return &Report{
		AbuserName:          s.AbuserName,
		AbuserGender:        s.AbuserGender,
		AbuserAge:           s.AbuserAge,
		Relationship:        s.Relationship,
		NatureOfAbuse:       s.NatureOfAbuse,
		IncidentDescription: s.IncidentDescription,
		Location:            s.Location,
		VictimName:          s.VictimName,
		VictimDescription:   s.VictimDescription,
		VictimGender:        s.VictimGender,
		VictimAge:           s.VictimAge,
		ReporterName:        s.ReporterName,
		ReporterPhone:       s.ReporterPhone,
		Evidence:            evidence,
		Latitude:            s.Latitude,
		Longitude:           s.Longitude,
		AbuserAnonymous:     s.AbuserAnonymous,
		VictimAnonymous:     s.VictimAnonymous,
	}
}

// BeforeCreate assigns the report identifier.
func (r *Report) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

// Notice is the short form of a report pushed to moderators.
func (r *Report) Notice() ReportNotice {
	return ReportNotice{
		ID:            r.ID,
		NatureOfAbuse: r.NatureOfAbuse,
		Location:      r.Location,
		EvidenceCount: len(r.Evidence),
		CreatedAt:     r.CreatedAt,
	}
}

// ReportNotice announces a new report on the moderator feed. It carries no
// names or descriptions.
type ReportNotice struct {
	ID            string    `json:"id"`
	NatureOfAbuse string    `json:"natureOfAbuse"`
	Location      string    `json:"location"`
	EvidenceCount int       `json:"evidenceCount"`
	CreatedAt     time.Time `json:"createdAt"`
}
