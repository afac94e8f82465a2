package model

// Game is a catalog entry. GenreID refers to a Genre by id only; integrity is
// checked by the service layer.
type Game struct {
	ID          int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Title       string `json:"title" gorm:"size:255;not null"`
	Description string `json:"description" gorm:"type:text"`
	ImageURL    string `json:"imageUrl" gorm:"size:1024"`
	GenreID     int    `json:"genreId" gorm:"index;not null"`
}
