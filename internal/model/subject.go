package model

// swagger:model Subject
type Subject struct {
	BaseModel
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}

func (Subject) TableName() string {
	return "subjects"
}
