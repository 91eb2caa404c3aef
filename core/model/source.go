package model

import "time"

// FitnessCertificate is one row of the fitness certificate table. ValidTo is nil
// when the value could not be parsed.
type FitnessCertificate struct {
	TrainID string
	ValidTo *time.Time
}

// WorkOrder is one maintenance order exported from the asset management system.
type WorkOrder struct {
	TrainID        string
	Status         string
	EstimatedHours float64
	Asset          string
}

// BrandingContract describes the advertising exposure a train owes per day
// between two dates.
type BrandingContract struct {
	TrainID                     string
	StartDate                   *time.Time
	EndDate                     *time.Time
	RequiredExposureHoursPerDay float64
}

// MileageLogEntry is one odometer reading.
type MileageLogEntry struct {
	TrainID    string
	RecordedAt *time.Time
	OdometerKm float64
	DeltaKm    float64
}

// CleaningType is the kind of cleaning performed on a train.
type CleaningType string

const (
	CleaningDaily   CleaningType = "daily"
	CleaningOutside CleaningType = "outside_cleaning"
	CleaningHeavy   CleaningType = "heavy"
)

// CleaningJob is a scheduled or completed cleaning slot. The same shape serves
// the history and the upcoming schedule.
type CleaningJob struct {
	TrainID          string
	ScheduledStart   *time.Time
	ScheduledEnd     *time.Time
	CleaningType     CleaningType
	ManpowerRequired float64
}

// StablingPosition is the raw yard position reported for a train.
type StablingPosition struct {
	TrainID  string
	Position string
}
