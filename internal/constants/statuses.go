package constants

import "slices"

type (
	FlightStatus    string
	MissionStatus   string
	MissionPriority string
	SensorType      string
	Quality         string
	AlertType       string
	EventType       string
	EventSource     string
)

const (
	FlightPreFlight FlightStatus = "pre_flight"
	FlightActive    FlightStatus = "active"
	FlightLanded    FlightStatus = "landed"
	FlightEmergency FlightStatus = "emergency"
	FlightAborted   FlightStatus = "aborted"
)

// flightTransitions is the adjacency table of the flight lifecycle.
// landed and aborted are terminal.
var flightTransitions = map[FlightStatus][]FlightStatus{
	FlightPreFlight: {FlightActive, FlightAborted},
	FlightActive:    {FlightLanded, FlightEmergency, FlightAborted},
	FlightEmergency: {FlightLanded, FlightAborted},
	FlightLanded:    {},
	FlightAborted:   {},
}

func (s FlightStatus) Valid() bool {
	_, ok := flightTransitions[s]
	return ok
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s FlightStatus) CanTransitionTo(next FlightStatus) bool {
	return slices.Contains(flightTransitions[s], next)
}

// AllowedNext returns a copy of the states reachable from s.
func (s FlightStatus) AllowedNext() []FlightStatus {
	return slices.Clone(flightTransitions[s])
}

// IsTerminal reports whether no transition leaves s.
func (s FlightStatus) IsTerminal() bool {
	return s.Valid() && len(flightTransitions[s]) == 0
}

const (
	MissionPlanned   MissionStatus = "planned"
	MissionActive    MissionStatus = "active"
	MissionCompleted MissionStatus = "completed"
	MissionCancelled MissionStatus = "cancelled"
	MissionEmergency MissionStatus = "emergency"
)

func (s MissionStatus) Valid() bool {
	switch s {
	case MissionPlanned, MissionActive, MissionCompleted, MissionCancelled, MissionEmergency:
		return true
	}
	return false
}

const (
	PriorityLow      MissionPriority = "low"
	PriorityMedium   MissionPriority = "medium"
	PriorityHigh     MissionPriority = "high"
	PriorityCritical MissionPriority = "critical"
)

func (p MissionPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

const (
	SensorGyroscope     SensorType = "gyroscope"
	SensorAccelerometer SensorType = "accelerometer"
	SensorGPS           SensorType = "gps"
	SensorAltimeter     SensorType = "altimeter"
	SensorTemperature   SensorType = "temperature"
	SensorPressure      SensorType = "pressure"
	SensorHumidity      SensorType = "humidity"
	SensorCompass       SensorType = "compass"
	SensorBattery       SensorType = "battery"
	SensorOther         SensorType = "other"
)

var sensorTypes = []SensorType{
	SensorGyroscope, SensorAccelerometer, SensorGPS, SensorAltimeter, SensorTemperature,
	SensorPressure, SensorHumidity, SensorCompass, SensorBattery, SensorOther,
}

func (t SensorType) Valid() bool { return slices.Contains(sensorTypes, t) }

const (
	QualityGood     Quality = "good"
	QualityWarning  Quality = "warning"
	QualityCritical Quality = "critical"
)

func (q Quality) Valid() bool {
	return q == QualityGood || q == QualityWarning || q == QualityCritical
}

const (
	AlertInfo     AlertType = "info"
	AlertWarning  AlertType = "warning"
	AlertError    AlertType = "error"
	AlertCritical AlertType = "critical"
)

func (t AlertType) Valid() bool {
	switch t {
	case AlertInfo, AlertWarning, AlertError, AlertCritical:
		return true
	}
	return false
}

const (
	EventInfo    EventType = "info"
	EventWarning EventType = "warning"
	EventError   EventType = "error"
)

func (t EventType) Valid() bool {
	return t == EventInfo || t == EventWarning || t == EventError
}

// Origin of a flight event: the status machine, a sensor reading linked
// through a session, or an operator entry.
const (
	EventSourceSystem   EventSource = "system"
	EventSourceSensor   EventSource = "sensor"
	EventSourceOperator EventSource = "operator"
)

// Profile preferences
const (
	LanguageES = "es"
	LanguageEN = "en"

	ThemeLight = "light"
	ThemeDark  = "dark"

	DefaultTimezone = "America/Mexico_City"
)
