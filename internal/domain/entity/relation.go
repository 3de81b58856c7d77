package entity

import "fmt"

// RelationType 关系类型，前半为人物关系，后半为势力关系
type RelationType string

const (
	RelationTypeFamily      RelationType = "family"
	RelationTypeFriend      RelationType = "friend"
	RelationTypeEnemy       RelationType = "enemy"
	RelationTypeLover       RelationType = "lover"
	RelationTypeMentor      RelationType = "mentor"
	RelationTypeStudent     RelationType = "student"
	RelationTypeColleague   RelationType = "colleague"
	RelationTypeRival       RelationType = "rival"
	RelationTypeAlly        RelationType = "ally"
	RelationTypeSubordinate RelationType = "subordinate"
	RelationTypeSuperior    RelationType = "superior"

	RelationTypeAlliance    RelationType = "alliance"
	RelationTypeHostility   RelationType = "hostility"
	RelationTypeNeutral     RelationType = "neutral"
	RelationTypeVassal      RelationType = "vassal"
	RelationTypeOverlord    RelationType = "overlord"
	RelationTypeTrade       RelationType = "trade"
	RelationTypeCompetition RelationType = "competition"
)

// RelationStatus 关系状态
type RelationStatus string

const (
	RelationStatusActive        RelationStatus = "active"
	RelationStatusInactive      RelationStatus = "inactive"
	RelationStatusBroken        RelationStatus = "broken"
	RelationStatusDeveloping    RelationStatus = "developing"
	RelationStatusStable        RelationStatus = "stable"
	RelationStatusDeteriorating RelationStatus = "deteriorating"
)

// CharacterRelation 人物关系
type CharacterRelation struct {
	BaseModel
	ProjectScoped
	CharacterAID    int64          `json:"character_a_id" gorm:"column:character_a_id;not null;index"`
	CharacterBID    int64          `json:"character_b_id" gorm:"column:character_b_id;not null;index"`
	RelationType    RelationType   `json:"relation_type" gorm:"type:varchar(32);not null"`
	RelationSubtype string         `json:"relation_subtype" gorm:"type:varchar(100)"`
	Status          RelationStatus `json:"status" gorm:"type:varchar(32);default:'active'"`
	Strength        int            `json:"strength" gorm:"default:5"`
	IsMutual        bool           `json:"is_mutual" gorm:"default:true"`
	Direction       string         `json:"direction" gorm:"type:varchar(50)"`
	StartTime       string         `json:"start_time" gorm:"type:varchar(100)"`
	EndTime         string         `json:"end_time" gorm:"type:varchar(100)"`
	Description     string         `json:"description" gorm:"type:text"`
	OriginStory     string         `json:"origin_story" gorm:"type:text"`
	KeyEvents       JSONList       `json:"key_events" gorm:"type:json;serializer:json"`
	TrustLevel      int            `json:"trust_level" gorm:"default:5"`
	IntimacyLevel   int            `json:"intimacy_level" gorm:"default:5"`
	ConflictLevel   int            `json:"conflict_level" gorm:"default:0"`
	RelatedPlots    JSONList       `json:"related_plots" gorm:"type:json;serializer:json"`
	RelatedEvents   JSONList       `json:"related_events" gorm:"type:json;serializer:json"`
}

func (CharacterRelation) TableName() string { return "character_relations" }

// Validate 双方人物与关系类型必填
func (r *CharacterRelation) Validate() error {
	if r.CharacterAID <= 0 || r.CharacterBID <= 0 {
		return fmt.Errorf("character_a_id and character_b_id are required")
	}
	if r.RelationType == "" {
		return fmt.Errorf("relation_type is required")
	}
	return nil
}

// FactionRelation 势力关系
type FactionRelation struct {
	BaseModel
	ProjectScoped
	FactionAID          int64          `json:"faction_a_id" gorm:"column:faction_a_id;not null;index"`
	FactionBID          int64          `json:"faction_b_id" gorm:"column:faction_b_id;not null;index"`
	RelationType        RelationType   `json:"relation_type" gorm:"type:varchar(32);not null"`
	RelationSubtype     string         `json:"relation_subtype" gorm:"type:varchar(100)"`
	Status              RelationStatus `json:"status" gorm:"type:varchar(32);default:'active'"`
	Strength            int            `json:"strength" gorm:"default:5"`
	InfluenceLevel      int            `json:"influence_level" gorm:"default:5"`
	StartTime           string         `json:"start_time" gorm:"type:varchar(100)"`
	EndTime             string         `json:"end_time" gorm:"type:varchar(100)"`
	Description         string         `json:"description" gorm:"type:text"`
	FormalAgreement     string         `json:"formal_agreement" gorm:"type:text"`
	KeyEvents           JSONList       `json:"key_events" gorm:"type:json;serializer:json"`
	MilitaryCooperation bool           `json:"military_cooperation" gorm:"default:false"`
	EconomicCooperation bool           `json:"economic_cooperation" gorm:"default:false"`
	PoliticalAlignment  string         `json:"political_alignment" gorm:"type:varchar(100)"`
	CulturalExchange    bool           `json:"cultural_exchange" gorm:"default:false"`
	RelatedPlots        JSONList       `json:"related_plots" gorm:"type:json;serializer:json"`
	RelatedEvents       JSONList       `json:"related_events" gorm:"type:json;serializer:json"`
}

func (FactionRelation) TableName() string { return "faction_relations" }

// Validate 双方势力与关系类型必填
func (r *FactionRelation) Validate() error {
	if r.FactionAID <= 0 || r.FactionBID <= 0 {
		return fmt.Errorf("faction_a_id and faction_b_id are required")
	}
	if r.RelationType == "" {
		return fmt.Errorf("relation_type is required")
	}
	return nil
}

// EventAssociation 事件与人物、势力、剧情的关联
type EventAssociation struct {
	BaseModel
	ProjectScoped
	EventID      int64    `json:"event_id" gorm:"not null;index"`
	EventType    string   `json:"event_type" gorm:"type:varchar(50);not null"`
	CharacterID  *int64   `json:"character_id" gorm:"index"`
	FactionID    *int64   `json:"faction_id" gorm:"index"`
	PlotID       *int64   `json:"plot_id" gorm:"index"`
	LocationName string   `json:"location_name" gorm:"type:varchar(255)"`
	Role         string   `json:"role" gorm:"type:varchar(100)"`
	Importance   int      `json:"importance" gorm:"default:5"`
	ImpactLevel  int      `json:"impact_level" gorm:"default:5"`
	Description  string   `json:"description" gorm:"type:text"`
	Consequences JSONList `json:"consequences" gorm:"type:json;serializer:json"`
}

func (EventAssociation) TableName() string { return "event_associations" }

// Validate 事件与事件类型必填
func (a *EventAssociation) Validate() error {
	if a.EventID <= 0 || a.EventType == "" {
		return fmt.Errorf("event_id and event_type are required")
	}
	return nil
}
