package models

import "time"

// Run is the persisted summary of one pipeline execution.
type Run struct {
	ID              uint   `gorm:"primaryKey"`
	RunKey          string `gorm:"size:64;uniqueIndex"`
	Repository      string `gorm:"size:255;index"`
	Kind            string `gorm:"size:32"`
	UserMessage     string `gorm:"type:text"`
	DraftStatus     string `gorm:"size:32"`
	ValidationState string `gorm:"size:32"`
	ValidationScore float64
	BundleStatus    string `gorm:"size:32"`
	BundleDirectory string `gorm:"size:512"`
	ArchivePath     string `gorm:"size:512"`
	ErrorText       string `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
