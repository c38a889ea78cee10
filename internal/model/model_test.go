package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextLevel(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"Beginner", "Easy"},
		{"", "Easy"},
		{"Easy", "Medium"},
		{"Medium", "Hard"},
		{"Hard", "Hard"},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, NextLevel(tt.level))
		})
	}
}

func TestLevelRank(t *testing.T) {
	assert.Equal(t, -1, LevelRank("Beginner"))
	assert.Less(t, LevelRank("Beginner"), LevelRank("Easy"))
	assert.Less(t, LevelRank("Easy"), LevelRank("Medium"))
	assert.Less(t, LevelRank("Medium"), LevelRank("Hard"))
}

func TestDifficultyValid(t *testing.T) {
	assert.True(t, Medium.Valid())
	assert.False(t, Difficulty("Beginner").Valid())
}

func TestLearningPathSubjectIDs(t *testing.T) {
	lp := &LearningPath{Subjects: []Subject{{BaseModel: BaseModel{ID: 3}}, {BaseModel: BaseModel{ID: 1}}}}
	assert.Equal(t, []uint{3, 1}, lp.SubjectIDs())
	assert.Empty(t, (&LearningPath{}).SubjectIDs())
}
