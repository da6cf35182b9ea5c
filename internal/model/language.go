package model

// swagger:model Language
type Language struct {
	BaseModel
	Name string `gorm:"size:50;not null" json:"name"`
	Slug string `gorm:"size:50;uniqueIndex;not null" json:"slug"`
}

func (Language) TableName() string {
	return "languages"
}
