package dtos

// AirportRecord is the raw wire-format airport object returned by the upstream
// provider. Numeric fields are typed as any because the provider emits them
// inconsistently as strings or numbers; identifiers arrive in mixed casing.
// Everything here passes through the normalize package before use.
type AirportRecord struct {
	Ident            string `json:"ident"`
	ICAOCode         string `json:"icao_code"`
	IATACode         string `json:"iata_code"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	LatitudeDeg      any    `json:"latitude_deg"`
	LongitudeDeg     any    `json:"longitude_deg"`
	ElevationFt      any    `json:"elevation_ft"`
	Continent        string `json:"continent"`
	Country          string `json:"iso_country"`
	Region           string `json:"iso_region"`
	Municipality     string `json:"municipality"`
	ScheduledService any    `json:"scheduled_service"`
	Keywords         string `json:"keywords"`

	Runways     []RunwayRecord    `json:"runways,omitempty"`
	Frequencies []FrequencyRecord `json:"freqs,omitempty"`
	Navaids     []NavaidRecord    `json:"navaids,omitempty"`
}

// RunwayRecord is one raw runway row. LE/HE are the low-end/high-end runway
// ends as named by the provider.
type RunwayRecord struct {
	ID        any    `json:"id"`
	LengthFt  any    `json:"length_ft"`
	WidthFt   any    `json:"width_ft"`
	Surface   string `json:"surface"`
	Lighted   any    `json:"lighted"`
	Closed    any    `json:"closed"`

	LEIdent                string `json:"le_ident"`
	LEHeadingDegT          any    `json:"le_heading_degT"`
	LEDisplacedThresholdFt any    `json:"le_displaced_threshold_ft"`
	LEILS                  *ILSRecord `json:"le_ils,omitempty"`

	HEIdent                string `json:"he_ident"`
	HEHeadingDegT          any    `json:"he_heading_degT"`
	HEDisplacedThresholdFt any    `json:"he_displaced_threshold_ft"`
	HEILS                  *ILSRecord `json:"he_ils,omitempty"`
}

// ILSRecord is an instrument landing system association on one runway end.
type ILSRecord struct {
	FreqMhz any `json:"freq"`
	Course  any `json:"course"`
}

// FrequencyRecord is one raw radio frequency row.
type FrequencyRecord struct {
	ID           any    `json:"id"`
	Type         string `json:"type"`
	Description  string `json:"description"`
	FrequencyMhz any    `json:"frequency_mhz"`
}

// NavaidRecord is one raw navigation aid row.
type NavaidRecord struct {
	ID           any    `json:"id"`
	Ident        string `json:"ident"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	FrequencyKhz any    `json:"frequency_khz"`
	UsageType    string `json:"usageType"`
	Power        string `json:"power"`
}
