package model

type SubmissionStatus string

const (
	SubmissionAccepted SubmissionStatus = "ACCEPTED"
	SubmissionRejected SubmissionStatus = "REJECTED"
	SubmissionPending  SubmissionStatus = "PENDING"
)

// swagger:model Submission
type Submission struct {
	BaseModel
	UserID      uint             `gorm:"index;type:bigint unsigned" json:"userId"`
	ExerciseID  uint             `gorm:"index;type:bigint unsigned" json:"exerciseId"`
	Code        string           `gorm:"type:text" json:"code"`
	Score       int              `gorm:"default:0" json:"score"`
	TimeSpentMs int64            `gorm:"default:0" json:"timeSpentMs"`
	Status      SubmissionStatus `gorm:"type:enum('ACCEPTED','REJECTED','PENDING');default:'PENDING'" json:"status"`
	Output      string           `gorm:"type:text" json:"output"`
}

func (Submission) TableName() string {
	return "submissions"
}
