package model

import (
	"encoding/json"
	"time"
)

// Result is the persisted analysis record for one job. There is exactly
// one row per job id; a re-run fully overwrites the prior record.
type Result struct {
	JobID          string `gorm:"primaryKey;column:job_id;type:VARCHAR;size:64"`
	VideoReference string `gorm:"column:video_reference;not null"`
	Status         string `gorm:"column:status;not null"`
	Activity       string `gorm:"column:activity"`
	IsCorrect      bool   `gorm:"column:is_correct"`
	Error          string `gorm:"column:error"`
	Report         []byte `gorm:"column:report;type:jsonb"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Result status constants.
const (
	ResultStatusCompleted = "completed"
	ResultStatusFailed    = "failed"
)

type ResultList []Result

func (r Result) String() string {
	val, _ := json.Marshal(r)
	return string(val)
}
