package entity

// DimensionScoped 挂在某个维度之下的社会体系
type DimensionScoped struct {
	DimensionID *int64 `json:"dimension_id" gorm:"index"`
}

// CivilianSystem 民生体系
type CivilianSystem struct {
	ProjectBase
	Tagged
	Versioned
	DimensionScoped
	RegionName       string   `json:"region_name" gorm:"type:varchar(255)"`
	TotalPopulation  int64    `json:"total_population" gorm:"default:0"`
	SocialClasses    JSONList `json:"social_classes" gorm:"type:json;serializer:json"`
	LifestyleTypes   JSONList `json:"lifestyle_types" gorm:"type:json;serializer:json"`
	EducationSystem  JSONMap  `json:"education_system" gorm:"type:json;serializer:json"`
	ReligiousBeliefs JSONList `json:"religious_beliefs" gorm:"type:json;serializer:json"`
}

func (CivilianSystem) TableName() string { return "civilian_systems" }

// JudicialSystem 司法体系
type JudicialSystem struct {
	ProjectBase
	Tagged
	Versioned
	DimensionScoped
	JurisdictionName string   `json:"jurisdiction_name" gorm:"type:varchar(255)"`
	LegalSystemType  string   `json:"legal_system_type" gorm:"type:varchar(50)"`
	CourtStructure   JSONMap  `json:"court_structure" gorm:"type:json;serializer:json"`
	TrialProcedures  JSONList `json:"trial_procedures" gorm:"type:json;serializer:json"`
	LegalCodes       JSONList `json:"legal_codes" gorm:"type:json;serializer:json"`
	PunishmentSystem JSONMap  `json:"punishment_system" gorm:"type:json;serializer:json"`
}

func (JudicialSystem) TableName() string { return "judicial_systems" }

// ProfessionSystem 职业体系
type ProfessionSystem struct {
	ProjectBase
	Tagged
	Versioned
	DimensionScoped
	EconomicContext      string   `json:"economic_context" gorm:"type:text"`
	ProfessionCategories JSONList `json:"profession_categories" gorm:"type:json;serializer:json"`
	CareerPaths          JSONList `json:"career_paths" gorm:"type:json;serializer:json"`
	Guilds               JSONList `json:"guilds" gorm:"type:json;serializer:json"`
	TrainingSystems      JSONList `json:"training_systems" gorm:"type:json;serializer:json"`
}

func (ProfessionSystem) TableName() string { return "profession_systems" }
