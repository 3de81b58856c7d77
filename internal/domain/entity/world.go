package entity

// WorldSetting 世界观设定
type WorldSetting struct {
	ProjectBase
	Tagged
	Versioned
	SettingType  string   `json:"setting_type" gorm:"type:varchar(50)"`
	Category     string   `json:"category" gorm:"type:varchar(100)"`
	Geography    string   `json:"geography" gorm:"type:text"`
	Climate      string   `json:"climate" gorm:"type:text"`
	Resources    string   `json:"resources" gorm:"type:text"`
	History      string   `json:"history" gorm:"type:text"`
	Culture      string   `json:"culture" gorm:"type:text"`
	NaturalLaws  string   `json:"natural_laws" gorm:"type:text"`
	SpecialRules string   `json:"special_rules" gorm:"type:text"`
	MagicSystem  string   `json:"magic_system" gorm:"type:text"`
	ParentID     *int64   `json:"parent_id" gorm:"index"`
	Details      JSONMap  `json:"details" gorm:"type:json;serializer:json"`
	RelatedIDs   JSONList `json:"related_ids" gorm:"type:json;serializer:json"`
}

func (WorldSetting) TableName() string { return "world_settings" }

// CultivationSystem 修炼体系
type CultivationSystem struct {
	ProjectBase
	Tagged
	Versioned
	SystemType             string   `json:"system_type" gorm:"type:varchar(50)"`
	PowerSource            string   `json:"power_source" gorm:"type:varchar(200)"`
	Levels                 JSONList `json:"levels" gorm:"type:json;serializer:json"`
	LevelRequirements      JSONMap  `json:"level_requirements" gorm:"type:json;serializer:json"`
	BreakthroughConditions JSONMap  `json:"breakthrough_conditions" gorm:"type:json;serializer:json"`
	Abilities              JSONList `json:"abilities" gorm:"type:json;serializer:json"`
	Techniques             JSONList `json:"techniques" gorm:"type:json;serializer:json"`
	Resources              JSONList `json:"resources" gorm:"type:json;serializer:json"`
	Rules                  string   `json:"rules" gorm:"type:text"`
	Restrictions           string   `json:"restrictions" gorm:"type:text"`
	ParentID               *int64   `json:"parent_id" gorm:"index"`
}

func (CultivationSystem) TableName() string { return "cultivation_systems" }
