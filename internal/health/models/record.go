package models

import (
	"time"

	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
)

// RecordType names a vital-sign record type.
type RecordType string

const (
	TypeBloodPressure RecordType = "blood_pressure"
	TypeHeartRate     RecordType = "heart_rate"
	TypeBloodSugar    RecordType = "blood_sugar"
	TypeWeight        RecordType = "weight"
)

// Types lists all record types, in summary display order.
func Types() []RecordType {
	return []RecordType{TypeBloodPressure, TypeHeartRate, TypeBloodSugar, TypeWeight}
}

// ValidType reports whether t names a known record type.
func ValidType(t RecordType) bool {
	switch t {
	case TypeBloodPressure, TypeHeartRate, TypeBloodSugar, TypeWeight:
		return true
	}
	return false
}

// HealthRecord is a single vital-sign measurement. Only the fields relevant
// to Type carry values; the rest stay zero.
type HealthRecord struct {
	ID       id.RecordID `json:"id"`
	SeniorID id.SeniorID `json:"senior_id"`
	Type     RecordType  `json:"type"`
	// Blood pressure, mmHg. HeartRate may accompany a blood pressure
	// reading as the pulse measured by the same cuff.
	Systolic  int `json:"systolic,omitempty"`
	Diastolic int `json:"diastolic,omitempty"`
	HeartRate int `json:"heart_rate,omitempty"`
	// Blood sugar, mmol/L.
	BloodSugar float64 `json:"blood_sugar,omitempty"`
	// Weight, kg.
	Weight     float64        `json:"weight,omitempty"`
	Note       string         `json:"note,omitempty"`
	RecordedBy id.CaregiverID `json:"recorded_by"`
	RecordedAt time.Time      `json:"recorded_at"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Validate checks the measurement against its type's accepted ranges.
// Violations are rejected before any store write.
func (r *HealthRecord) Validate() error {
	if r.SeniorID.IsEmpty() {
		return dErrors.New(dErrors.CodeValidation, "senior id is required")
	}
	switch r.Type {
	case TypeBloodPressure:
		if r.Systolic < 1 || r.Systolic > 300 {
			return dErrors.New(dErrors.CodeValidation, "systolic must be between 1 and 300")
		}
		if r.Diastolic < 1 || r.Diastolic > 200 {
			return dErrors.New(dErrors.CodeValidation, "diastolic must be between 1 and 200")
		}
		if r.Systolic <= r.Diastolic {
			return dErrors.New(dErrors.CodeValidation, "systolic must exceed diastolic")
		}
		if r.HeartRate != 0 {
			return validateHeartRate(r.HeartRate)
		}
	case TypeHeartRate:
		return validateHeartRate(r.HeartRate)
	case TypeBloodSugar:
		if r.BloodSugar <= 0 || r.BloodSugar >= 50 {
			return dErrors.New(dErrors.CodeValidation, "blood sugar must be between 0 and 50 exclusive")
		}
	case TypeWeight:
		if r.Weight <= 0 || r.Weight >= 500 {
			return dErrors.New(dErrors.CodeValidation, "weight must be between 0 and 500 exclusive")
		}
	default:
		return dErrors.Newf(dErrors.CodeValidation, "unknown record type %q", r.Type)
	}
	return nil
}

func validateHeartRate(hr int) error {
	if hr < 1 || hr > 250 {
		return dErrors.New(dErrors.CodeValidation, "heart rate must be between 1 and 250")
	}
	return nil
}

// Summary aggregates the latest measurement of each type for one senior.
type Summary struct {
	SeniorID id.SeniorID                  `json:"senior_id"`
	Latest   map[RecordType]*HealthRecord `json:"latest"`
}
