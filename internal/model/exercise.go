package model

// swagger:model Exercise
type Exercise struct {
	BaseModel
	Title        string    `gorm:"size:200;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Difficulty   int       `gorm:"default:2" json:"difficulty"` // 1=easy .. 5=master
	BaseXP       int       `gorm:"default:100" json:"baseXp"`
	PublicCode   string    `gorm:"size:36;uniqueIndex" json:"publicCode"`
	CodeTemplate string    `gorm:"type:text" json:"codeTemplate"`
	LanguageID   *uint     `gorm:"index" json:"languageId"`
	Language     *Language `gorm:"foreignKey:LanguageID" json:"language,omitempty"`
	CreatorID    uint      `gorm:"index" json:"creatorId"`
	IsPublished  bool      `gorm:"default:true" json:"isPublished"`
}

func (Exercise) TableName() string {
	return "exercises"
}
