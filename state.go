package lawdoc

import (
	"sort"
	"strings"
)

// stateNames maps lower-case state names to their display form.
var stateNames = map[string]string{
	"alabama":        "Alabama",
	"alaska":         "Alaska",
	"arizona":        "Arizona",
	"arkansas":       "Arkansas",
	"california":     "California",
	"colorado":       "Colorado",
	"connecticut":    "Connecticut",
	"delaware":       "Delaware",
	"florida":        "Florida",
	"georgia":        "Georgia",
	"hawaii":         "Hawaii",
	"idaho":          "Idaho",
	"illinois":       "Illinois",
	"indiana":        "Indiana",
	"iowa":           "Iowa",
	"kansas":         "Kansas",
	"kentucky":       "Kentucky",
	"louisiana":      "Louisiana",
	"maine":          "Maine",
	"maryland":       "Maryland",
	"massachusetts":  "Massachusetts",
	"michigan":       "Michigan",
	"minnesota":      "Minnesota",
	"mississippi":    "Mississippi",
	"missouri":       "Missouri",
	"montana":        "Montana",
	"nebraska":       "Nebraska",
	"nevada":         "Nevada",
	"new hampshire":  "New Hampshire",
	"new jersey":     "New Jersey",
	"new mexico":     "New Mexico",
	"new york":       "New York",
	"north carolina": "North Carolina",
	"north dakota":   "North Dakota",
	"ohio":           "Ohio",
	"oklahoma":       "Oklahoma",
	"oregon":         "Oregon",
	"pennsylvania":   "Pennsylvania",
	"rhode island":   "Rhode Island",
	"south carolina": "South Carolina",
	"south dakota":   "South Dakota",
	"tennessee":      "Tennessee",
	"texas":          "Texas",
	"utah":           "Utah",
	"vermont":        "Vermont",
	"virginia":       "Virginia",
	"washington":     "Washington",
	"west virginia":  "West Virginia",
	"wisconsin":      "Wisconsin",
	"wyoming":        "Wyoming",
}

// NormalizeState validates a state name case-insensitively and returns its
// display form. Returns EINVALID for names that are not US states.
func NormalizeState(name string) (string, error) {
	key := strings.Join(strings.Fields(strings.ToLower(name)), " ")
	if key == "" {
		return "", Errorf(EINVALID, "state required")
	}
	display, ok := stateNames[key]
	if !ok {
		return "", Errorf(EINVALID, "unknown state %q", name)
	}
	return display, nil
}

// States returns the display names of all supported states, sorted.
func States() []string {
	names := make([]string, 0, len(stateNames))
	for _, display := range stateNames {
		names = append(names, display)
	}
	sort.Strings(names)
	return names
}
