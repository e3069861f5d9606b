package models

type Category struct {
	BaseModel
	Name string `gorm:"not null"`
	Slug string `gorm:"uniqueIndex;not null"`
	Icon string
}

type FAQQuestion struct {
	BaseModel
	Question  string `gorm:"not null"`
	Answer    string `gorm:"not null"`
	Topic     string `gorm:"index"`
	SortOrder int    `gorm:"default:0"`
}

func (FAQQuestion) TableName() string {
	return "faq_questions"
}
