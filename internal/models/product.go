package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringList is an ordered list of strings persisted as a JSON text column, so
// the same model works on Postgres and the sqlite driver used in tests.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported column type for StringList")
}

// Product images are base64 data URIs (or plain URLs) stored inline; deleting a
// product therefore removes its stored images with it.
type Product struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Name          string     `gorm:"not null" json:"name"`
	Description   string     `gorm:"not null" json:"description"`
	OriginalPrice float64    `gorm:"not null" json:"originalPrice"`
	SalePrice     float64    `gorm:"not null" json:"salePrice"`
	Category      string     `gorm:"index;not null" json:"category"`
	Sizes         StringList `gorm:"type:text" json:"sizes"`
	Colors        StringList `gorm:"type:text" json:"colors"`
	Images        StringList `gorm:"type:text" json:"images"`
	IsAvailable   bool       `gorm:"not null" json:"isAvailable"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
