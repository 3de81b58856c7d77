package entity

// ChapterStatus 章节状态
type ChapterStatus string

const (
	ChapterStatusDraft     ChapterStatus = "draft"
	ChapterStatusWriting   ChapterStatus = "writing"
	ChapterStatusCompleted ChapterStatus = "completed"
	ChapterStatusPublished ChapterStatus = "published"
)

// Chapter 章节
type Chapter struct {
	ProjectBase
	Tagged
	Versioned
	Title                string        `json:"title" gorm:"type:varchar(500)"`
	Subtitle             string        `json:"subtitle" gorm:"type:varchar(500)"`
	ChapterNumber        int           `json:"chapter_number" gorm:"index"`
	VolumeID             *int64        `json:"volume_id" gorm:"index"`
	Status               ChapterStatus `json:"status" gorm:"type:varchar(32);default:'draft'"`
	Content              string        `json:"content" gorm:"type:text"`
	Summary              string        `json:"summary" gorm:"type:text"`
	Outline              string        `json:"outline" gorm:"type:text"`
	Notes                string        `json:"notes" gorm:"type:text"`
	WordCount            int           `json:"word_count" gorm:"default:0"`
	PlotPoints           JSONList      `json:"plot_points" gorm:"type:json;serializer:json"`
	CharacterAppearances JSONList      `json:"character_appearances" gorm:"type:json;serializer:json"`
	PlotID               *int64        `json:"plot_id" gorm:"index"`
	PreviousChapterID    *int64        `json:"previous_chapter_id"`
	NextChapterID        *int64        `json:"next_chapter_id"`
}

func (Chapter) TableName() string { return "chapters" }

// Volume 分卷
type Volume struct {
	ProjectBase
	Tagged
	Versioned
	Title             string   `json:"title" gorm:"type:varchar(500)"`
	Subtitle          string   `json:"subtitle" gorm:"type:varchar(500)"`
	VolumeNumber      int      `json:"volume_number" gorm:"index"`
	Status            string   `json:"status" gorm:"type:varchar(32);default:'planning'"`
	Summary           string   `json:"summary" gorm:"type:text"`
	Outline           string   `json:"outline" gorm:"type:text"`
	Theme             string   `json:"theme" gorm:"type:varchar(255)"`
	Notes             string   `json:"notes" gorm:"type:text"`
	TotalChapters     int      `json:"total_chapters" gorm:"default:0"`
	CompletedChapters int      `json:"completed_chapters" gorm:"default:0"`
	TotalWords        int      `json:"total_words" gorm:"default:0"`
	TargetWords       int      `json:"target_words" gorm:"default:0"`
	MainCharacters    JSONList `json:"main_characters" gorm:"type:json;serializer:json"`
	KeyEvents         JSONList `json:"key_events" gorm:"type:json;serializer:json"`
	PlotThreads       JSONList `json:"plot_threads" gorm:"type:json;serializer:json"`
}

func (Volume) TableName() string { return "volumes" }
