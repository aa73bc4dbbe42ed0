package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Manufacturer is a car maker, e.g. "Toyota Japan".
type Manufacturer struct {
	gorm.Model
	Name    string `gorm:"not null"`
	Country string `gorm:"not null"`
	Cars    []Car  `gorm:"foreignKey:ManufacturerID"`
}

func (m Manufacturer) String() string {
	return fmt.Sprintf("%s %s", m.Name, m.Country)
}
