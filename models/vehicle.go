package models

// VehicleStatus is a coarse availability hint; time conflicts are decided by reservations.
type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "available"
	VehicleMaintenance VehicleStatus = "maintenance"
	VehicleReserved    VehicleStatus = "reserved"
)

// Vehicle is a bookable car joined with its model details.
type Vehicle struct {
	ID             string        `bson:"id" json:"id" gorm:"primaryKey;size:128"`
	ModelID        string        `bson:"model_id" json:"model_id" gorm:"size:128"`
	ModelName      string        `bson:"model_name" json:"model_name" gorm:"size:255"`
	FuelType       string        `bson:"fuel_type,omitempty" json:"fuel_type,omitempty" gorm:"size:32"`             // e.g. "gasoline", "electric"
	FuelEfficiency string        `bson:"fuel_efficiency,omitempty" json:"fuel_efficiency,omitempty" gorm:"size:32"` // human readable, e.g. "14.2km/L"
	Type           string        `bson:"type,omitempty" json:"type,omitempty" gorm:"size:32"`                       // e.g. "sedan", "suv"
	Status         VehicleStatus `bson:"status" json:"status" gorm:"size:16;not null"`
}

// VehicleFilter narrows vehicle listings. Empty fields match everything.
type VehicleFilter struct {
	FuelType string
	Type     string
	Status   VehicleStatus
}
