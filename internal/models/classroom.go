package models

import "time"

// Classroom represents a bookable room.
type Classroom struct {
	ID         string    `db:"id" json:"id"`
	RoomNumber string    `db:"room_number" json:"room_number"`
	Capacity   int       `db:"capacity" json:"capacity"`
	Building   string    `db:"building" json:"building"`
	RoomType   string    `db:"room_type" json:"room_type"`
	Equipment  string    `db:"equipment" json:"equipment"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
