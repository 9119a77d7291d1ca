package models

// Property is the search-result shape of a listing.
type Property struct {
	PropertyID     string   `json:"property_id"`
	PropertyName   string   `json:"property_name"`
	Rent           int      `json:"rent"`
	NearestStation string   `json:"nearest_station"`
	WalkMinutes    int      `json:"walk_minutes"`
	RoomLayout     string   `json:"room_layout"`
	NuroAvailable  bool     `json:"nuro_available"`
	SonetAvailable bool     `json:"sonet_available"`
	ImageURLs      []string `json:"image_urls"`
	Tags           []string `json:"tags"`
}

type PropertyFacilities struct {
	AutoLock         bool `json:"auto_lock"`
	SeparateBathroom bool `json:"separate_bathroom"`
	Balcony          bool `json:"balcony"`
	Parking          bool `json:"parking"`
	PetAllowed       bool `json:"pet_allowed"`
	Furnished        bool `json:"furnished"`
	AirConditioning  bool `json:"air_conditioning"`
	WashingMachine   bool `json:"washing_machine"`
	SecurityCamera   bool `json:"security_camera"`
}

type PropertyDetails struct {
	Property
	Address     string             `json:"address"`
	FloorArea   float64            `json:"floor_area"`
	BuildYear   int                `json:"build_year"`
	Floor       string             `json:"floor"`
	Facilities  PropertyFacilities `json:"facilities"`
	Description *string            `json:"description,omitempty"`
}

// PropertySearch holds the optional filters of GET /properties. Nil fields
// are not sent.
type PropertySearch struct {
	MaxRent        *int     `form:"max_rent" json:"max_rent,omitempty" binding:"omitempty,min=0,max=1000000"`
	NearestStation *string  `form:"nearest_station" json:"nearest_station,omitempty" binding:"omitempty,max=50"`
	MinFloorArea   *float64 `form:"min_floor_area" json:"min_floor_area,omitempty" binding:"omitempty,min=0"`
	MaxFloorArea   *float64 `form:"max_floor_area" json:"max_floor_area,omitempty" binding:"omitempty,min=0"`
	MinBuildYear   *int     `form:"min_build_year" json:"min_build_year,omitempty" binding:"omitempty,min=1900,notfutureyear"`
	MaxBuildYear   *int     `form:"max_build_year" json:"max_build_year,omitempty" binding:"omitempty,min=1900,notfutureyear"`
	MaxWalkMinutes *int     `form:"max_walk_minutes" json:"max_walk_minutes,omitempty" binding:"omitempty,min=0,max=60"`
	NuroAvailable  *bool    `form:"nuro_available" json:"nuro_available,omitempty"`
	SonetAvailable *bool    `form:"sonet_available" json:"sonet_available,omitempty"`
	Tags           []string `form:"tags" json:"tags,omitempty"`
}
