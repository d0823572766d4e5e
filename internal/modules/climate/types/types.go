package types

// Measurement is one dated observation row. Queries fill only the columns
// they select; Prcp is nil where the store holds NULL.
type Measurement struct {
	ID      int64
	Station string
	Date    string
	Prcp    *float64
	Tobs    float64
}

// Precipitation maps an ISO date to the precipitation recorded for it.
type Precipitation map[string]*float64

type TemperatureObservation struct {
	Date        string  `json:"Date"`
	Temperature float64 `json:"Temperature"`
}

// TemperatureStats holds aggregates over a date range; all three are null
// when no row matched.
type TemperatureStats struct {
	TMIN *float64 `json:"TMIN"`
	TAVG *float64 `json:"TAVG"`
	TMAX *float64 `json:"TMAX"`
}
