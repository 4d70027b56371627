package model

import "time"

// User is the marketplace profile behind a Firebase uid. City and district are
// copied onto items at listing time and never rewritten afterwards.
type User struct {
	UID       string    `gorm:"column:uid;primaryKey;size:128"`
	FullName  string    `gorm:"column:full_name;size:100;not null"`
	Phone     string    `gorm:"column:phone;size:20;not null"`
	City      string    `gorm:"column:city;size:50;not null"`
	District  string    `gorm:"column:district;size:50;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
