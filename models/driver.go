package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Driver extends the base user identity with a license number.
type Driver struct {
	gorm.Model
	Username      string `gorm:"unique;not null"`
	Password      string `gorm:"not null" json:"-"` // Don't expose password hash
	FirstName     string
	LastName      string
	LicenseNumber string `gorm:"not null"`
	Cars          []Car  `gorm:"many2many:car_drivers;"` // Many-to-Many relationship with Car
}

func (d Driver) String() string {
	return fmt.Sprintf("%s (%s %s)", d.Username, d.FirstName, d.LastName)
}
