package entity

// Timeline 时间线，不参与版本管理
type Timeline struct {
	ProjectBase
	Tagged
	TimelineType      string   `json:"timeline_type" gorm:"type:varchar(32)"`
	Scope             string   `json:"scope" gorm:"type:varchar(32)"`
	StartTime         string   `json:"start_time" gorm:"type:varchar(100)"`
	EndTime           string   `json:"end_time" gorm:"type:varchar(100)"`
	TimeUnit          string   `json:"time_unit" gorm:"type:varchar(50)"`
	Events            JSONList `json:"events" gorm:"type:json;serializer:json"`
	Milestones        JSONList `json:"milestones" gorm:"type:json;serializer:json"`
	RelatedCharacters JSONList `json:"related_characters" gorm:"type:json;serializer:json"`
	RelatedFactions   JSONList `json:"related_factions" gorm:"type:json;serializer:json"`
	RelatedPlots      JSONList `json:"related_plots" gorm:"type:json;serializer:json"`
}

func (Timeline) TableName() string { return "timelines" }
