package study

import (
	"smartmethods/domain/standard"

	"github.com/fundwit/go-commons/types"
)

const (
	StatusDraft      = "draft"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"

	SourceType = "STUDY"

	MinProcessNameLength = 2
	MaxProcessNameLength = 255
	MaxPerformanceRating = 300
	MaxSupplement        = 100
)

type Study struct {
	ID     types.ID `json:"id"`
	UserID types.ID `json:"userId" gorm:"index"`

	ProcessName string `json:"processName" gorm:"size:255"`
	Description string `json:"description" sql:"type:TEXT"`
	Status      string `json:"status" gorm:"size:32"`

	PerformanceRating    float64       `json:"performanceRating"`
	SupplementPercentage float64       `json:"supplementPercentage"`
	ObservedTimes        ObservedTimes `json:"observedTimes" sql:"type:TEXT"`

	CyclesCount     int     `json:"cyclesCount"`
	AverageTime     float64 `json:"averageTime"`
	NormalTime      float64 `json:"normalTime"`
	StandardTime    float64 `json:"standardTime"`
	Conclusions     string  `json:"conclusions" sql:"type:TEXT"`
	Recommendations string  `json:"recommendations" sql:"type:TEXT"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6)"`
	UpdateTime types.Timestamp `json:"updateTime" sql:"type:DATETIME(6)"`
	DeleteTime types.Timestamp `json:"deleteTime" sql:"type:DATETIME(6)"`
}

func (s *Study) Params() standard.Params {
	return standard.Params{PerformanceRating: s.PerformanceRating, SupplementPercentage: s.SupplementPercentage}
}

type StudyCreation struct {
	ProcessName          string         `json:"processName" binding:"required,min=2,max=255"`
	Description          string         `json:"description"`
	Status               string         `json:"status" binding:"omitempty,oneof=draft in_progress completed"`
	PerformanceRating    *float64       `json:"performanceRating" binding:"omitempty,min=0,max=300"`
	SupplementPercentage *float64       `json:"supplementPercentage" binding:"omitempty,min=0,max=100"`
	ObservedTimes        *ObservedTimes `json:"observedTimes"`
	Conclusions          string         `json:"conclusions"`
	Recommendations      string         `json:"recommendations"`
}

// StudyUpdating carries only the fields to change.
type StudyUpdating struct {
	ProcessName          *string  `json:"processName" binding:"omitempty,min=2,max=255"`
	Description          *string  `json:"description"`
	Status               *string  `json:"status" binding:"omitempty,oneof=draft in_progress completed"`
	PerformanceRating    *float64 `json:"performanceRating" binding:"omitempty,min=0,max=300"`
	SupplementPercentage *float64 `json:"supplementPercentage" binding:"omitempty,min=0,max=100"`
	Conclusions          *string  `json:"conclusions"`
	Recommendations      *string  `json:"recommendations"`
}

type StudyQuery struct {
	Status string `json:"status" form:"status" binding:"omitempty,oneof=draft in_progress completed"`
	Name   string `json:"name" form:"name"`
}

type ObservationsSaving struct {
	ObservedTimes ObservedTimes `json:"observedTimes"`
}

type Stats struct {
	Total      int `json:"total"`
	Draft      int `json:"draft"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Trashed    int `json:"trashed"`
}
