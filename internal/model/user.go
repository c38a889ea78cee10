package model

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Username       string    `gorm:"size:150;unique;not null" json:"username"`
	Email          string    `gorm:"size:100;unique;not null" json:"email"`
	Password       string    `gorm:"size:100;not null" json:"-"`
	Role           UserRole  `gorm:"size:20;default:'student'" json:"role"`
	Bio            string    `gorm:"type:text" json:"bio"`
	ProfilePicture string    `gorm:"size:255" json:"profilePicture"`
	LearningStyle  string    `gorm:"size:20" json:"learningStyle"` // Visual, Auditory, Kinesthetic...
	GradeLevel     string    `gorm:"size:50" json:"gradeLevel"`    // K, 1, 2 ... Undergraduate
	Interests      []Subject `gorm:"many2many:user_interests;" json:"interests"`
}

func (User) TableName() string {
	return "users"
}
