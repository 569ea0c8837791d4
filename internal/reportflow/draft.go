// Package reportflow drives the three-step incident report form: it owns the
// draft, validates it before submission, asks for confirmation, and sends it
// to the backend.
package reportflow

import (
	"fmt"
	"strings"
)

// Step is the active page of the form.
type Step int

const (
	Step1 Step = iota + 1
	Step2
	Step3
)

func (s Step) String() string { return fmt.Sprintf("step %d", int(s)) }

// Role selects whose identity an anonymous flag hides.
type Role int

const (
	Perpetrator Role = iota
	Victim
)

// Field names a draft field. Values match the JSON wire names.
type Field string

const (
	FieldAbuserName          Field = "abuserName"
	FieldAbuserGender        Field = "abuserGender"
	FieldAbuserAge           Field = "abuserAge"
	FieldRelationship        Field = "relationship"
	FieldNatureOfAbuse       Field = "natureOfAbuse"
	FieldIncidentDescription Field = "incidentDescription"
	FieldLocation            Field = "location"
	FieldVictimName          Field = "victimName"
	FieldVictimDescription   Field = "victimDescription"
	FieldVictimGender        Field = "victimGender"
	FieldVictimAge           Field = "victimAge"
	FieldReporterPhone       Field = "reporterPhone"
)

// RequiredFields must all be non-empty, after anonymous substitution, before
// a draft may be confirmed.
var RequiredFields = []Field{
	FieldAbuserName,
	FieldAbuserGender,
	FieldAbuserAge,
	FieldRelationship,
	FieldNatureOfAbuse,
	FieldIncidentDescription,
	FieldLocation,
	FieldVictimName,
	FieldVictimGender,
	FieldVictimDescription,
	FieldVictimAge,
	FieldReporterPhone,
}

// Draft is one in-progress report. Evidence holds device-local file URIs in
// the order they were attached.
type Draft struct {
	AbuserName          string   `yaml:"abuserName"`
	AbuserGender        string   `yaml:"abuserGender"`
	AbuserAge           string   `yaml:"abuserAge"`
	Relationship        string   `yaml:"relationship"`
	NatureOfAbuse       string   `yaml:"natureOfAbuse"`
	IncidentDescription string   `yaml:"incidentDescription"`
	Location            string   `yaml:"location"`
	Evidence            []string `yaml:"evidence"`
	VictimName          string   `yaml:"victimName"`
	VictimDescription   string   `yaml:"victimDescription"`
	VictimGender        string   `yaml:"victimGender"`
	VictimAge           string   `yaml:"victimAge"`
	ReporterPhone       string   `yaml:"reporterPhone"`

	AbuserAnonymous bool `yaml:"abuserAnonymous"`
	VictimAnonymous bool `yaml:"victimAnonymous"`
}

// Clone returns a deep copy.
func (d Draft) Clone() Draft {
	if d.Evidence != nil {
		d.Evidence = append([]string(nil), d.Evidence...)
	}
	return d
}

func (d *Draft) field(f Field) (*string, bool) {
	switch f {
	case FieldAbuserName:
		return &d.AbuserName, true
	case FieldAbuserGender:
		return &d.AbuserGender, true
	case FieldAbuserAge:
		return &d.AbuserAge, true
	case FieldRelationship:
		return &d.Relationship, true
	case FieldNatureOfAbuse:
		return &d.NatureOfAbuse, true
	case FieldIncidentDescription:
		return &d.IncidentDescription, true
	case FieldLocation:
		return &d.Location, true
	case FieldVictimName:
		return &d.VictimName, true
	case FieldVictimDescription:
		return &d.VictimDescription, true
	case FieldVictimGender:
		return &d.VictimGender, true
	case FieldVictimAge:
		return &d.VictimAge, true
	case FieldReporterPhone:
		return &d.ReporterPhone, true
	}
	return nil, false
}

// Get returns the value of f, or "" for unknown fields.
func (d Draft) Get(f Field) string {
	if p, ok := d.field(f); ok {
		return *p
	}
	return ""
}

// Set writes one field without validating the value.
func (d *Draft) Set(f Field, value string) error {
	p, ok := d.field(f)
	if !ok {
		return fmt.Errorf("unknown field %q", f)
	}
	*p = value
	return nil
}

// Missing lists the required fields that are empty or blank.
func (d Draft) Missing() []Field {
	var missing []Field
	for _, f := range RequiredFields {
		if strings.TrimSpace(d.Get(f)) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}
