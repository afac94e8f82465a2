package model

// Review is a user's rating of a game. A user may hold at most one review per
// game, enforced by idx_reviews_user_game as well as by the service layer.
type Review struct {
	ID      int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Rating  int    `json:"rating" gorm:"not null"`
	Comment string `json:"comment" gorm:"type:text;not null"`
	GameID  int    `json:"gameId" gorm:"not null;index;uniqueIndex:idx_reviews_user_game,priority:2"`
	UserID  int    `json:"userId" gorm:"not null;uniqueIndex:idx_reviews_user_game,priority:1"`
}

// ReviewView is a Review as returned to a particular caller.
type ReviewView struct {
	Review
	IsOwner bool `json:"isOwner"`
}

// All returns every persisted model, in dependency order, for migrations.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Genre{},
		&Game{},
		&Review{},
	}
}
