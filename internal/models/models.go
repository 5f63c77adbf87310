package models

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `json:"name"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Token        string `gorm:"index"                    json:"-"`
}

type Movie struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title  string `gorm:"not null"                 json:"title"`
	Year   int    `gorm:"not null"                 json:"year"`
	Poster string `gorm:"not null"                 json:"poster"`
}
