package models

import "gorm.io/gorm"

// Car belongs to exactly one Manufacturer and carries zero or more
// assigned Drivers through the car_drivers join table.
type Car struct {
	gorm.Model
	CarModel       string       `gorm:"column:model;not null" json:"model"`
	ManufacturerID uint         `gorm:"not null"`
	Manufacturer   Manufacturer `gorm:"foreignKey:ManufacturerID"`
	Drivers        []Driver     `gorm:"many2many:car_drivers;"` // Many-to-Many relationship back to Driver
}

func (c Car) String() string {
	return c.CarModel
}
