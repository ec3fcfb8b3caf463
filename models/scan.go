package models

import "time"

type ScanSource string

const (
	SourceUpload  ScanSource = "upload"
	SourceCamera  ScanSource = "camera"
	SourceBarcode ScanSource = "barcode"
)

type ScanStatus string

const (
	StatusScored      ScanStatus = "scored"
	StatusUnavailable ScanStatus = "unavailable"
)

// ScoredAlternative is an alternative product with its own health score.
type ScoredAlternative struct {
	Alternative
	Health HealthScoreResult `json:"health"`
}

// Scan is one completed product scan. Nested values are stored as JSON columns.
type Scan struct {
	ID           string              `gorm:"primaryKey;size:26" json:"id"`
	Source       ScanSource          `gorm:"size:16;not null" json:"source"`
	Status       ScanStatus          `gorm:"size:16;index;not null" json:"status"`
	Locale       string              `gorm:"size:8" json:"locale"`
	Nutrition    *NutritionFacts     `gorm:"serializer:json" json:"nutrition"`
	Health       *HealthScoreResult  `gorm:"serializer:json" json:"health"`
	Advisories   []Warning           `gorm:"serializer:json" json:"advisories"`
	Alternatives []ScoredAlternative `gorm:"serializer:json" json:"alternatives"`
	Summary      string              `gorm:"type:text" json:"summary"`
	Labels       []string            `gorm:"serializer:json" json:"labels"`
	ImageURL     string              `gorm:"size:512" json:"image_url,omitempty"`
	Reason       string              `gorm:"size:255" json:"reason,omitempty"` // why nutrition is unavailable
	CreatedAt    time.Time           `gorm:"index" json:"created_at"`
}
