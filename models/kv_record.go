package models

import "time"

// KVRecord stores one serialized JSON document per logical entity under a
// fixed string key (photo-streak record, unlocked-achievement allow-list).
type KVRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"type:varchar(128);uniqueIndex;not null"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
	CreatedAt time.Time
}
