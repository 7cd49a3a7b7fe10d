package sections

import "strings"

// keywords per section, matched as lower-case substrings. Some terms appear
// in more than one vocabulary on purpose (icao, atc, clearance, compass).
var keywords = map[string][]string{
	AirLaw: {
		"icao", "easa", "regulation", "airspace", "atc", "clearance", "flight plan",
		"certificate", "license", "authority", "violation", "rule", "law", "legal",
		"annex", "faa", "caa", "authorization", "permit",
	},
	Meteorology: {
		"weather", "cloud", "wind", "temperature", "pressure", "front", "fog", "rain",
		"meteorology", "atmosphere", "humidity", "precipitation", "storm", "turbulence",
		"visibility", "ceiling", "isobar", "isotherm", "metar", "taf",
	},
	PrinciplesOfFlight: {
		"lift", "drag", "thrust", "weight", "aerodynamic", "angle of attack", "stall",
		"airspeed", "climb", "descent", "glide", "pitch", "roll", "yaw", "aileron",
		"elevator", "rudder", "flap", "spoiler", "bernoulli",
	},
	AircraftGeneral: {
		"engine", "propeller", "fuel", "oil", "electrical", "battery", "generator",
		"alternator", "hydraulic", "brake", "landing gear", "cockpit", "instrument",
		"gyro", "compass", "altimeter", "airspeed indicator", "system", "component",
	},
	HumanPerformance: {
		"human", "physiology", "hypoxia", "fatigue", "stress", "vision", "hearing",
		"decision", "judgment", "situational awareness", "workload", "crew resource",
		"medical", "health", "limitation", "performance", "cognitive",
	},
	OperationalProcedures: {
		"procedure", "checklist", "emergency", "normal", "abnormal", "sop", "standard",
		"operation", "preflight", "postflight", "inspection", "maintenance", "safety",
		"risk", "hazard", "incident", "accident", "report",
	},
	Navigation: {
		"navigation", "vor", "ndb", "gps", "chart", "waypoint", "heading", "bearing",
		"track", "course", "deviation", "variation", "magnetic", "true", "compass",
		"dead reckoning", "pilotage", "radio navigation", "ils", "approach",
	},
	Communication: {
		"communication", "radio", "frequency", "phraseology", "icao", "call sign",
		"transponder", "squawk", "mayday", "pan-pan", "clearance", "readback",
		"transmission", "reception", "atc", "unicom", "ctaf",
	},
}

// Score is the keyword hit count of one section.
type Score struct {
	Section string `json:"section"`
	Hits    int    `json:"hits"`
}

// Scores counts, per section in canonical order, how many distinct keywords
// of its vocabulary occur in text. text must already be lower-cased.
func Scores(text string) []Score {
	out := make([]Score, 0, len(catalog))
	for _, s := range catalog {
		hits := 0
		for _, kw := range keywords[s.ID] {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		out = append(out, Score{Section: s.ID, Hits: hits})
	}
	return out
}

// Classify picks the section whose vocabulary best matches the question and
// its options. Ties go to the section listed first in canonical order; text
// matching no keyword at all gets Fallback.
func Classify(questionText string, options []string) string {
	text := strings.ToLower(questionText + " " + strings.Join(options, " "))

	best := Score{Section: Fallback}
	for _, sc := range Scores(text) {
		if sc.Hits > best.Hits {
			best = sc
		}
	}
	return best.Section
}
