package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Address struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"userId" gorm:"size:36;not null;index"`
	Label     string    `json:"label"`
	Street    string    `json:"street" gorm:"not null"`
	City      string    `json:"city" gorm:"not null"`
	Province  string    `json:"province" gorm:"not null"`
	ZipCode   string    `json:"zipCode"`
	Latitude  *float64  `json:"-"`
	Longitude *float64  `json:"-"`
	IsDefault bool      `json:"isDefault" gorm:"default:false"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// Orders and schedules keep pointing at a deleted address.
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Coordinates is the wire shape of an address location.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

func (a *Address) Coordinates() *Coordinates {
	if a.Latitude == nil || a.Longitude == nil {
		return nil
	}
	return &Coordinates{Lat: *a.Latitude, Lng: *a.Longitude}
}

func (a *Address) SetCoordinates(c *Coordinates) {
	if c == nil {
		a.Latitude, a.Longitude = nil, nil
		return
	}
	lat, lng := c.Lat, c.Lng
	a.Latitude, a.Longitude = &lat, &lng
}

func (a Address) MarshalJSON() ([]byte, error) {
	type alias Address
	return json.Marshal(struct {
		alias
		Coordinates *Coordinates `json:"coordinates"`
	}{alias(a), a.Coordinates()})
}
