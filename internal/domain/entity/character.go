package entity

// CharacterType 人物类型
type CharacterType string

const (
	CharacterTypeProtagonist CharacterType = "protagonist"
	CharacterTypeSupporting  CharacterType = "supporting"
	CharacterTypeAntagonist  CharacterType = "antagonist"
	CharacterTypeMinor       CharacterType = "minor"
	CharacterTypeCameo       CharacterType = "cameo"
)

// Character 人物
type Character struct {
	ProjectBase
	Tagged
	Versioned
	FullName         string        `json:"full_name" gorm:"type:varchar(255)"`
	Nickname         string        `json:"nickname" gorm:"type:varchar(255)"`
	Title            string        `json:"title" gorm:"type:varchar(255)"`
	CharacterType    CharacterType `json:"character_type" gorm:"type:varchar(32);default:'supporting'"`
	Gender           string        `json:"gender" gorm:"type:varchar(16)"`
	Age              *int          `json:"age"`
	Race             string        `json:"race" gorm:"type:varchar(100)"`
	Appearance       string        `json:"appearance" gorm:"type:text"`
	Personality      string        `json:"personality" gorm:"type:text"`
	Abilities        JSONList      `json:"abilities" gorm:"type:json;serializer:json"`
	Skills           JSONList      `json:"skills" gorm:"type:json;serializer:json"`
	CultivationLevel string        `json:"cultivation_level" gorm:"type:varchar(100)"`
	PowerLevel       int           `json:"power_level" gorm:"default:0"`
	Background       string        `json:"background" gorm:"type:text"`
	Family           JSONMap       `json:"family" gorm:"type:json;serializer:json"`
	Affiliations     JSONList      `json:"affiliations" gorm:"type:json;serializer:json"`
	Status           string        `json:"status" gorm:"type:varchar(32);default:'alive'"`
	CurrentLocation  string        `json:"current_location" gorm:"type:varchar(255)"`
	Goals            string        `json:"goals" gorm:"type:text"`
	Motivations      string        `json:"motivations" gorm:"type:text"`
}

func (Character) TableName() string { return "characters" }
