package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckinType enumerates the punch-clock actions.
type CheckinType string

const (
	CheckinIn     CheckinType = "checkin"
	CheckinBreak  CheckinType = "break"
	CheckinReturn CheckinType = "return"
	CheckinOut    CheckinType = "checkout"
)

// ParseCheckinType maps an action digit to its checkin type.
func ParseCheckinType(digit string) (CheckinType, bool) {
	switch digit {
	case "1":
		return CheckinIn, true
	case "2":
		return CheckinBreak, true
	case "3":
		return CheckinReturn, true
	case "4":
		return CheckinOut, true
	}
	return "", false
}

// Label returns the action name shown to users.
func (t CheckinType) Label() string {
	switch t {
	case CheckinIn:
		return "Entrada"
	case CheckinBreak:
		return "Pausa"
	case CheckinReturn:
		return "Retorno"
	case CheckinOut:
		return "Saída"
	}
	return string(t)
}

// CheckinRecord is one punch. OriginalTimestamp is written exactly once, by
// the first edit that moves Timestamp; later edits must not overwrite it.
type CheckinRecord struct {
	ID                string      `gorm:"type:uuid;primaryKey"`
	UserID            string      `gorm:"type:uuid;index;not null"`
	User              *User       `gorm:"foreignKey:UserID"`
	Type              CheckinType `gorm:"type:varchar(16);not null"`
	Timestamp         time.Time   `gorm:"index;not null"`
	OriginalTimestamp *time.Time
	EditedBy          *string `gorm:"type:uuid"`
	EditedAt          *time.Time
	Location          *string
	Latitude          *float64
	Longitude         *float64
	LocationVerified  bool `gorm:"not null;default:false"`
	DistanceMeters    *int
	Manual            bool `gorm:"not null;default:false"`
	CreatedAt         time.Time
}

func (CheckinRecord) TableName() string { return "checkin_records" }

func (r *CheckinRecord) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Edited reports whether this record's timestamp has been adjusted.
func (r *CheckinRecord) Edited() bool {
	return r.OriginalTimestamp != nil
}
