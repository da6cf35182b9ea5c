package model

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "IN_PROGRESS"
	AttemptCompleted  AttemptStatus = "COMPLETED"
)

// ChallengeAttempt is the persisted draft of a user's in-progress work on
// one exercise. At most one record exists per (user, exercise) pair.
//
// swagger:model ChallengeAttempt
type ChallengeAttempt struct {
	BaseModel
	UserID      uint          `gorm:"uniqueIndex:idx_attempt_user_exercise;type:bigint unsigned" json:"userId"`
	ExerciseID  uint          `gorm:"uniqueIndex:idx_attempt_user_exercise;type:bigint unsigned" json:"exerciseId"`
	Code        string        `gorm:"type:text" json:"code"`
	TimeSpentMs int64         `gorm:"default:0" json:"timeSpentMs"`
	Status      AttemptStatus `gorm:"type:enum('IN_PROGRESS','COMPLETED');default:'IN_PROGRESS'" json:"status"`
}

func (ChallengeAttempt) TableName() string {
	return "challenge_attempts"
}
