package model

const DefaultLearningLevel = "Beginner"

// swagger:model LearningPath
type LearningPath struct {
	BaseModel
	UserID       uint      `gorm:"uniqueIndex;not null" json:"userId"`
	Subjects     []Subject `gorm:"many2many:learning_path_subjects;" json:"subjects"`
	CurrentLevel string    `gorm:"size:50;default:'Beginner'" json:"currentLevel"`
}

func (LearningPath) TableName() string {
	return "learning_paths"
}

// SubjectIDs 返回学习路径所含科目的 ID
func (lp *LearningPath) SubjectIDs() []uint {
	ids := make([]uint, 0, len(lp.Subjects))
	for _, s := range lp.Subjects {
		ids = append(ids, s.ID)
	}
	return ids
}

// LevelRank 难度阶梯上的位置，阶梯外的等级为 -1
func LevelRank(level string) int {
	for i, d := range Difficulties {
		if string(d) == level {
			return i
		}
	}
	return -1
}

// NextLevel 返回难度阶梯上的下一级；阶梯外的等级（如 Beginner）升到 Easy，Hard 为顶级
func NextLevel(level string) string {
	for i, d := range Difficulties {
		if string(d) != level {
			continue
		}
		if i == len(Difficulties)-1 {
			return level
		}
		return string(Difficulties[i+1])
	}
	return string(Easy)
}
