package model

// swagger:model Project
type Project struct {
	BaseModel
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	SubjectID   uint       `gorm:"index;not null" json:"subjectId"`
	Subject     Subject    `json:"subject"`
	Difficulty  Difficulty `gorm:"size:20;not null" json:"difficulty"`
	Resources   string     `gorm:"type:text" json:"resources"`
}

func (Project) TableName() string {
	return "projects"
}
