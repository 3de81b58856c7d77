package entity

// WorldScoped 挂在某个世界观设定之下的体系
type WorldScoped struct {
	WorldSettingID *int64 `json:"world_setting_id" gorm:"index"`
}

// PoliticalSystem 政治体系
type PoliticalSystem struct {
	ProjectBase
	Tagged
	Versioned
	WorldScoped
	GovernmentType      string   `json:"government_type" gorm:"type:varchar(50)"`
	PowerStructure      JSONMap  `json:"power_structure" gorm:"type:json;serializer:json"`
	GovernmentStructure JSONMap  `json:"government_structure" gorm:"type:json;serializer:json"`
	Leadership          JSONList `json:"leadership" gorm:"type:json;serializer:json"`
	Laws                JSONList `json:"laws" gorm:"type:json;serializer:json"`
	Ideology            string   `json:"ideology" gorm:"type:text"`
}

func (PoliticalSystem) TableName() string { return "political_systems" }

// CurrencySystem 货币体系
type CurrencySystem struct {
	ProjectBase
	Tagged
	Versioned
	WorldScoped
	MonetarySystem string   `json:"monetary_system" gorm:"type:varchar(50)"`
	BaseCurrency   string   `json:"base_currency" gorm:"type:varchar(100)"`
	Currencies     JSONList `json:"currencies" gorm:"type:json;serializer:json"`
	ExchangeRates  JSONMap  `json:"exchange_rates" gorm:"type:json;serializer:json"`
	InflationRate  float64  `json:"inflation_rate" gorm:"default:0"`
}

func (CurrencySystem) TableName() string { return "currency_systems" }

// CommerceSystem 商业体系
type CommerceSystem struct {
	ProjectBase
	Tagged
	Versioned
	WorldScoped
	EconomicSystem  string   `json:"economic_system" gorm:"type:varchar(50)"`
	MarketStructure JSONMap  `json:"market_structure" gorm:"type:json;serializer:json"`
	TradeRoutes     JSONList `json:"trade_routes" gorm:"type:json;serializer:json"`
	Commodities     JSONList `json:"commodities" gorm:"type:json;serializer:json"`
	Guilds          JSONList `json:"guilds" gorm:"type:json;serializer:json"`
}

func (CommerceSystem) TableName() string { return "commerce_systems" }

// RaceSystem 种族体系
type RaceSystem struct {
	ProjectBase
	Tagged
	Versioned
	WorldScoped
	RaceType         string   `json:"race_type" gorm:"type:varchar(50)"`
	LifespanCategory string   `json:"lifespan_category" gorm:"type:varchar(50)"`
	PhysicalTraits   JSONMap  `json:"physical_traits" gorm:"type:json;serializer:json"`
	RacialAbilities  JSONList `json:"racial_abilities" gorm:"type:json;serializer:json"`
	Culture          string   `json:"culture" gorm:"type:text"`
	Habitat          string   `json:"habitat" gorm:"type:text"`
	OriginStory      string   `json:"origin_story" gorm:"type:text"`
}

func (RaceSystem) TableName() string { return "race_systems" }

// MartialArtsSystem 功法武技
type MartialArtsSystem struct {
	ProjectBase
	Tagged
	Versioned
	WorldScoped
	TechniqueType     string   `json:"technique_type" gorm:"type:varchar(50)"`
	TechniqueGrade    string   `json:"technique_grade" gorm:"type:varchar(50)"`
	PowerSource       string   `json:"power_source" gorm:"type:varchar(200)"`
	Prerequisites     JSONList `json:"prerequisites" gorm:"type:json;serializer:json"`
	PrimaryEffects    JSONList `json:"primary_effects" gorm:"type:json;serializer:json"`
	OffensivePower    int      `json:"offensive_power" gorm:"default:0"`
	DefensivePower    int      `json:"defensive_power" gorm:"default:0"`
	ParentTechniqueID *int64   `json:"parent_technique_id" gorm:"index"`
}

func (MartialArtsSystem) TableName() string { return "martial_arts_systems" }

// EquipmentSystem 装备
type EquipmentSystem struct {
	ProjectBase
	Tagged
	Versioned
	WorldScoped
	EquipmentType    string   `json:"equipment_type" gorm:"type:varchar(50)"`
	EquipmentGrade   string   `json:"equipment_grade" gorm:"type:varchar(50)"`
	EquipmentSlot    string   `json:"equipment_slot" gorm:"type:varchar(50)"`
	BaseAttributes   JSONMap  `json:"base_attributes" gorm:"type:json;serializer:json"`
	SpecialEffects   JSONList `json:"special_effects" gorm:"type:json;serializer:json"`
	LevelRequirement int      `json:"level_requirement" gorm:"default:0"`
	Durability       int      `json:"durability" gorm:"default:100"`
	Value            int64    `json:"value" gorm:"default:0"`
}

func (EquipmentSystem) TableName() string { return "equipment_systems" }

// PetSystem 灵宠
type PetSystem struct {
	ProjectBase
	Tagged
	Versioned
	WorldScoped
	PetType        string   `json:"pet_type" gorm:"type:varchar(50)"`
	PetRarity      string   `json:"pet_rarity" gorm:"type:varchar(50)"`
	PetRole        string   `json:"pet_role" gorm:"type:varchar(50)"`
	Species        string   `json:"species" gorm:"type:varchar(100)"`
	BaseAttributes JSONMap  `json:"base_attributes" gorm:"type:json;serializer:json"`
	InnateSkills   JSONList `json:"innate_skills" gorm:"type:json;serializer:json"`
	EvolutionChain JSONList `json:"evolution_chain" gorm:"type:json;serializer:json"`
	MaxLevel       int      `json:"max_level" gorm:"default:100"`
}

func (PetSystem) TableName() string { return "pet_systems" }

// SpiritualTreasureSystem 灵宝法器
type SpiritualTreasureSystem struct {
	ProjectBase
	Tagged
	Versioned
	WorldScoped
	TreasureType      string   `json:"treasure_type" gorm:"type:varchar(50)"`
	TreasureGrade     string   `json:"treasure_grade" gorm:"type:varchar(50)"`
	SpiritualLevel    int      `json:"spiritual_level" gorm:"default:0"`
	SpiritualPower    int      `json:"spiritual_power" gorm:"default:0"`
	SpecialAbilities  JSONList `json:"special_abilities" gorm:"type:json;serializer:json"`
	RefiningMaterials JSONList `json:"refining_materials" gorm:"type:json;serializer:json"`
	MarketValue       int64    `json:"market_value" gorm:"default:0"`
	ParentTreasureID  *int64   `json:"parent_treasure_id" gorm:"index"`
}

func (SpiritualTreasureSystem) TableName() string { return "spiritual_treasure_systems" }
