// Package sections holds the fixed catalog of PPL exam sections and the
// keyword classifier that assigns free text to one of them.
package sections

// Section identifiers. These are stored as keys in the question bank and must
// not change.
const (
	AirLaw                = "air_law"
	Meteorology           = "meteorology"
	PrinciplesOfFlight    = "principles_of_flight"
	AircraftGeneral       = "aircraft_general"
	HumanPerformance      = "human_performance"
	OperationalProcedures = "operational_procedures"
	Navigation            = "navigation"
	Communication         = "communication"

	// Fallback is returned by Classify when no keyword matches.
	Fallback = AirLaw
)

// Section describes one exam section.
type Section struct {
	ID          string `json:"sectionId" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
}

// catalog is in canonical order; classification ties resolve in this order.
var catalog = []Section{
	{AirLaw, "Air Law", "Regulations, rules, and legal aspects of aviation", "⚖️"},
	{Meteorology, "Meteorology", "Weather patterns, atmospheric conditions, and forecasting", "🌤️"},
	{PrinciplesOfFlight, "Principles of Flight", "Aerodynamics, flight mechanics, and aircraft performance", "✈️"},
	{AircraftGeneral, "Aircraft General", "Aircraft systems, structures, and general knowledge", "🔧"},
	{HumanPerformance, "Human Performance & Limitations", "Human factors, physiology, and psychological aspects", "🧠"},
	{OperationalProcedures, "Operational Procedures", "Standard operating procedures and best practices", "📋"},
	{Navigation, "Navigation", "Navigation systems, charts, and flight planning", "🧭"},
	{Communication, "Communication", "Radio procedures, phraseology, and communication protocols", "📻"},
}

var byID = func() map[string]Section {
	m := make(map[string]Section, len(catalog))
	for _, s := range catalog {
		m[s.ID] = s
	}
	return m
}()

// All returns the sections in canonical order.
func All() []Section {
	out := make([]Section, len(catalog))
	copy(out, catalog)
	return out
}

// IDs returns the section identifiers in canonical order.
func IDs() []string {
	out := make([]string, len(catalog))
	for i, s := range catalog {
		out[i] = s.ID
	}
	return out
}

func Valid(id string) bool {
	_, ok := byID[id]
	return ok
}

func Get(id string) (Section, bool) {
	s, ok := byID[id]
	return s, ok
}
