package entity

// Faction 势力
type Faction struct {
	ProjectBase
	Tagged
	Versioned
	FullName        string   `json:"full_name" gorm:"type:varchar(255)"`
	ShortName       string   `json:"short_name" gorm:"type:varchar(100)"`
	FactionType     string   `json:"faction_type" gorm:"type:varchar(50)"`
	Status          string   `json:"status" gorm:"type:varchar(32);default:'active'"`
	Founder         string   `json:"founder" gorm:"type:varchar(255)"`
	CurrentLeader   string   `json:"current_leader" gorm:"type:varchar(255)"`
	Headquarters    string   `json:"headquarters" gorm:"type:varchar(255)"`
	Hierarchy       JSONMap  `json:"hierarchy" gorm:"type:json;serializer:json"`
	Members         JSONList `json:"members" gorm:"type:json;serializer:json"`
	MemberCount     int      `json:"member_count" gorm:"default:0"`
	PowerLevel      int      `json:"power_level" gorm:"default:0"`
	InfluenceLevel  int      `json:"influence_level" gorm:"default:0"`
	Territory       JSONList `json:"territory" gorm:"type:json;serializer:json"`
	Ideology        string   `json:"ideology" gorm:"type:text"`
	History         string   `json:"history" gorm:"type:text"`
	Allies          JSONList `json:"allies" gorm:"type:json;serializer:json"`
	Enemies         JSONList `json:"enemies" gorm:"type:json;serializer:json"`
	ParentFactionID *int64   `json:"parent_faction_id" gorm:"index"`
}

func (Faction) TableName() string { return "factions" }
