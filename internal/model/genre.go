package model

// Genre groups games. IDs are supplied by the caller.
type Genre struct {
	ID   int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name string `json:"name" gorm:"uniqueIndex;size:100;not null"`
}
