package gorm

import "time"

// AirportCache is one permanently cached airport keyed by ICAO. The processed
// representation is stored as JSON sub-documents alongside a raw-payload
// snapshot and a completeness score; there is no time-based expiry.
type AirportCache struct {
	ICAO string `gorm:"column:icao;primaryKey;type:varchar(4)"`
	IATA string `gorm:"column:iata;type:varchar(3)"`
	Name string `gorm:"column:name;type:text;not null"`

	CoreData          string `gorm:"column:core_data;type:jsonb"`
	RunwayData        string `gorm:"column:runway_data;type:jsonb"`
	CommunicationData string `gorm:"column:communication_data;type:jsonb"`
	NavigationData    string `gorm:"column:navigation_data;type:jsonb"`
	CapabilityData    string `gorm:"column:capability_data;type:jsonb"`
	RawPayload        string `gorm:"column:raw_payload;type:jsonb"`

	// Timestamps are set explicitly on every write; sqlite cannot migrate a
	// now() column default, so the schema declares none.
	Completeness   int       `gorm:"column:completeness;type:integer;index"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
	LastVerifiedAt time.Time `gorm:"column:last_verified_at"`
}

// TableName specifies the table name for GORM
func (AirportCache) TableName() string {
	return "airport_cache"
}
