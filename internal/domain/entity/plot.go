package entity

// Plot 剧情线
type Plot struct {
	ProjectBase
	Tagged
	Versioned
	PlotType     string   `json:"plot_type" gorm:"type:varchar(32)"`
	Status       string   `json:"status" gorm:"type:varchar(32);default:'planned'"`
	Priority     int      `json:"priority" gorm:"default:0"`
	Summary      string   `json:"summary" gorm:"type:text"`
	Outline      string   `json:"outline" gorm:"type:text"`
	Theme        string   `json:"theme" gorm:"type:varchar(255)"`
	Conflict     string   `json:"conflict" gorm:"type:text"`
	Resolution   string   `json:"resolution" gorm:"type:text"`
	Protagonists JSONList `json:"protagonists" gorm:"type:json;serializer:json"`
	Antagonists  JSONList `json:"antagonists" gorm:"type:json;serializer:json"`
	Locations    JSONList `json:"locations" gorm:"type:json;serializer:json"`
	StartTime    string   `json:"start_time" gorm:"type:varchar(100)"`
	EndTime      string   `json:"end_time" gorm:"type:varchar(100)"`
	Climax       string   `json:"climax" gorm:"type:text"`
	ParentPlotID *int64   `json:"parent_plot_id" gorm:"index"`
	RelatedPlots JSONList `json:"related_plots" gorm:"type:json;serializer:json"`
	ChapterCount int      `json:"chapter_count" gorm:"default:0"`
	WordCount    int      `json:"word_count" gorm:"default:0"`
}

func (Plot) TableName() string { return "plots" }
