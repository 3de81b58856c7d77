package entity

// MapStructure 地图结构
type MapStructure struct {
	ProjectBase
	Tagged
	Versioned
	WorldScoped
	MapType          string   `json:"map_type" gorm:"type:varchar(50)"`
	TerrainType      string   `json:"terrain_type" gorm:"type:varchar(50)"`
	ClimateType      string   `json:"climate_type" gorm:"type:varchar(50)"`
	Coordinates      JSONMap  `json:"coordinates" gorm:"type:json;serializer:json"`
	AreaSize         float64  `json:"area_size" gorm:"default:0"`
	ParentMapID      *int64   `json:"parent_map_id" gorm:"index"`
	Level            int      `json:"level" gorm:"default:0"`
	Settlements      JSONList `json:"settlements" gorm:"type:json;serializer:json"`
	NaturalResources JSONList `json:"natural_resources" gorm:"type:json;serializer:json"`
}

func (MapStructure) TableName() string { return "map_structures" }

// DimensionStructure 维度与位面
type DimensionStructure struct {
	ProjectBase
	Tagged
	Versioned
	WorldScoped
	DimensionType     string   `json:"dimension_type" gorm:"type:varchar(50)"`
	Stability         string   `json:"stability" gorm:"type:varchar(50)"`
	AccessLevel       string   `json:"access_level" gorm:"type:varchar(50)"`
	DimensionalLaws   JSONList `json:"dimensional_laws" gorm:"type:json;serializer:json"`
	TimeFlow          string   `json:"time_flow" gorm:"type:varchar(100)"`
	Portals           JSONList `json:"portals" gorm:"type:json;serializer:json"`
	ParentDimensionID *int64   `json:"parent_dimension_id" gorm:"index"`
}

func (DimensionStructure) TableName() string { return "dimension_structures" }

// ResourceDistribution 资源分布
type ResourceDistribution struct {
	ProjectBase
	Tagged
	Versioned
	WorldScoped
	ResourceType        string   `json:"resource_type" gorm:"type:varchar(50)"`
	ResourceRarity      string   `json:"resource_rarity" gorm:"type:varchar(50)"`
	ResourceName        string   `json:"resource_name" gorm:"type:varchar(255)"`
	DistributionPattern string   `json:"distribution_pattern" gorm:"type:varchar(50)"`
	ConcentrationAreas  JSONList `json:"concentration_areas" gorm:"type:json;serializer:json"`
	TotalReserves       float64  `json:"total_reserves" gorm:"default:0"`
	MarketValue         int64    `json:"market_value" gorm:"default:0"`
}

func (ResourceDistribution) TableName() string { return "resource_distributions" }

// RaceDistribution 种族分布
type RaceDistribution struct {
	ProjectBase
	Tagged
	Versioned
	WorldScoped
	RaceName           string   `json:"race_name" gorm:"type:varchar(255)"`
	PopulationDensity  string   `json:"population_density" gorm:"type:varchar(50)"`
	SettlementType     string   `json:"settlement_type" gorm:"type:varchar(50)"`
	DominanceLevel     string   `json:"dominance_level" gorm:"type:varchar(50)"`
	TotalPopulation    int64    `json:"total_population" gorm:"default:0"`
	PrimaryTerritories JSONList `json:"primary_territories" gorm:"type:json;serializer:json"`
	RaceSystemID       *int64   `json:"race_system_id" gorm:"index"`
}

func (RaceDistribution) TableName() string { return "race_distributions" }

// SecretRealmDistribution 秘境分布
type SecretRealmDistribution struct {
	ProjectBase
	Tagged
	Versioned
	WorldScoped
	RealmType         string   `json:"realm_type" gorm:"type:varchar(50)"`
	DangerLevel       string   `json:"danger_level" gorm:"type:varchar(50)"`
	AccessType        string   `json:"access_type" gorm:"type:varchar(50)"`
	GeographicRegion  string   `json:"geographic_region" gorm:"type:varchar(255)"`
	EntryRequirements JSONList `json:"entry_requirements" gorm:"type:json;serializer:json"`
	GuardianCreatures JSONList `json:"guardian_creatures" gorm:"type:json;serializer:json"`
	TreasureTypes     JSONList `json:"treasure_types" gorm:"type:json;serializer:json"`
	ExplorationStatus string   `json:"exploration_status" gorm:"type:varchar(50)"`
	MapStructureID    *int64   `json:"map_structure_id" gorm:"index"`
}

func (SecretRealmDistribution) TableName() string { return "secret_realm_distributions" }
