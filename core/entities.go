package core

import "time"

// EngineType is the fuel type of an engine.
type EngineType string

const (
	EnginePetrol   EngineType = "PETROL"
	EngineDiesel   EngineType = "DIESEL"
	EngineElectric EngineType = "ELECTRIC"
)

// Valid reports whether t is one of the known engine types.
func (t EngineType) Valid() bool {
	switch t {
	case EnginePetrol, EngineDiesel, EngineElectric:
		return true
	}
	return false
}

// DriveType is the drivetrain layout of a car.
type DriveType string

const (
	DriveAll   DriveType = "ALL"
	DriveFront DriveType = "FRONT"
	DriveBack  DriveType = "BACK"
)

// Valid reports whether d is one of the known drive types.
func (d DriveType) Valid() bool {
	switch d {
	case DriveAll, DriveFront, DriveBack:
		return true
	}
	return false
}

// Brand is a car manufacturer. Name is globally unique.
type Brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Category is a body/usage class (SUV, Sedan, ...). Name is globally unique.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Engine describes an engine family. Name is globally unique and
// Capacity is a positive displacement in litres.
type Engine struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	Capacity float64    `json:"capacity"`
	Type     EngineType `json:"type"`
}

// Model is a car model generation produced by a single brand.
type Model struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Generation         string    `json:"generation"`
	StartManufacturing time.Time `json:"startManufacturing"`
	EndManufacturing   time.Time `json:"endManufacturing"`
	Brand              *Brand    `json:"brand"`
}

// Car is a concrete vehicle. SerialNumber is globally unique and
// Version is the optimistic-concurrency counter incremented by every
// successful update; writers carrying a stale version are rejected.
type Car struct {
	ID                int64     `json:"id"`
	Color             string    `json:"color"`
	SerialNumber      string    `json:"serialNumber"`
	ManufacturingDate time.Time `json:"manufacturingDate"`
	Drive             DriveType `json:"drive"`
	Model             *Model    `json:"model"`
	Engine            *Engine   `json:"engine"`
	Category          *Category `json:"category"`
	Version           int64     `json:"version"`
}
