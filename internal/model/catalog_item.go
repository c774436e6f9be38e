package model

type Genre string

const (
	GenreFiction    Genre = "Fiction"
	GenreNonFiction Genre = "NonFiction"
	GenreSciFi      Genre = "SciFi"
	GenreFantasy    Genre = "Fantasy"
	GenreMystery    Genre = "Mystery"
	GenreThriller   Genre = "Thriller"
	GenreRomance    Genre = "Romance"
	GenreHorror     Genre = "Horror"
	GenreBiography  Genre = "Biography"
	GenreHistory    Genre = "History"
	GenreScience    Genre = "Science"
	GenreBusiness   Genre = "Business"
	GenreSelfHelp   Genre = "SelfHelp"
	GenreChildren   Genre = "Children"
	GenrePoetry     Genre = "Poetry"
	GenreComics     Genre = "Comics"
)

// Genres is the fixed category set a catalog item may belong to
var Genres = []Genre{
	GenreFiction, GenreNonFiction, GenreSciFi, GenreFantasy,
	GenreMystery, GenreThriller, GenreRomance, GenreHorror,
	GenreBiography, GenreHistory, GenreScience, GenreBusiness,
	GenreSelfHelp, GenreChildren, GenrePoetry, GenreComics,
}

func (g Genre) Valid() bool {
	for _, known := range Genres {
		if g == known {
			return true
		}
	}
	return false
}

type CatalogItem struct {
	BaseModel
	Title       string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"title" validate:"required"`
	Description string  `gorm:"type:text" json:"description" validate:"required"`
	Author      string  `gorm:"type:varchar(255);not null" json:"author" validate:"required"`
	Genre       Genre   `gorm:"type:varchar(32);index;not null" json:"genre" validate:"required,genre"`
	Publisher   string  `gorm:"type:varchar(255);not null" json:"publisher" validate:"required"`
	Price       float64 `gorm:"not null" json:"price" validate:"gte=0"`
	ImageURL    *string `gorm:"type:text" json:"imageUrl"`
	Status      string  `gorm:"type:varchar(20);not null" json:"status" validate:"omitempty,oneof=active inactive"`
}
