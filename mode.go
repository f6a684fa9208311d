package catchment

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb/maptile"
)

// Mode represents transport mode of a catchment area request
type Mode uint8

const (
	MODE_PEDESTRIAN = Mode(iota + 1)
	MODE_BICYCLE
	MODE_PEDELEC
	MODE_CAR
)

func (iotaIdx Mode) String() string {
	return [...]string{"pedestrian", "bicycle", "pedelec", "car"}[iotaIdx-1]
}

// ParseMode returns mode matching given name
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "pedestrian", "walking":
		return MODE_PEDESTRIAN, nil
	case "bicycle":
		return MODE_BICYCLE, nil
	case "pedelec":
		return MODE_PEDELEC, nil
	case "car":
		return MODE_CAR, nil
	}
	return Mode(0), fmt.Errorf("unknown mode '%s'", name)
}

// ModeParams carries mode-specific routing parameters
type ModeParams struct {
	SpeedKmh         float64 // travel speed for active modes
	DismountSpeedKmh float64 // walking speed applied on dismount classes
	BufferSpeedKmh   float64 // assumed speed for buffer radius estimation
	GridZoom         maptile.Zoom
}

// Active returns true for human-powered modes (car catchments use a coarser
// grid and prune one-way reverse arcs before the search)
func (m Mode) Active() bool {
	return m != MODE_CAR
}

var classesPedestrian = map[EdgeClass]struct{}{
	CLASS_PRIMARY: {}, CLASS_SECONDARY: {}, CLASS_TERTIARY: {}, CLASS_RESIDENTIAL: {},
	CLASS_LIVING_STREET: {}, CLASS_UNCLASSIFIED: {}, CLASS_SERVICE: {}, CLASS_TRACK: {},
	CLASS_PATH: {}, CLASS_PEDESTRIAN: {}, CLASS_FOOTWAY: {}, CLASS_STEPS: {}, CLASS_CROSSWALK: {},
}

var classesBicycle = map[EdgeClass]struct{}{
	CLASS_PRIMARY: {}, CLASS_SECONDARY: {}, CLASS_TERTIARY: {}, CLASS_RESIDENTIAL: {},
	CLASS_LIVING_STREET: {}, CLASS_UNCLASSIFIED: {}, CLASS_SERVICE: {}, CLASS_TRACK: {},
	CLASS_CYCLEWAY: {}, CLASS_PATH: {}, CLASS_PEDESTRIAN: {}, CLASS_CROSSWALK: {},
}

var classesCar = map[EdgeClass]struct{}{
	CLASS_MOTORWAY: {}, CLASS_MOTORWAY_LINK: {}, CLASS_TRUNK: {}, CLASS_TRUNK_LINK: {},
	CLASS_PRIMARY: {}, CLASS_SECONDARY: {}, CLASS_TERTIARY: {}, CLASS_RESIDENTIAL: {},
	CLASS_LIVING_STREET: {}, CLASS_UNCLASSIFIED: {}, CLASS_SERVICE: {},
}

// ClassEligible checks if segments of given class are traversable by the mode
func (m Mode) ClassEligible(class EdgeClass) bool {
	var ok bool
	switch m {
	case MODE_PEDESTRIAN:
		_, ok = classesPedestrian[class]
	case MODE_BICYCLE, MODE_PEDELEC:
		_, ok = classesBicycle[class]
	case MODE_CAR:
		_, ok = classesCar[class]
	}
	return ok
}

// DismountRequired checks if cyclists have to walk their bicycle on segments of given class
func DismountRequired(class EdgeClass) bool {
	return class == CLASS_PEDESTRIAN || class == CLASS_CROSSWALK
}

// ConnectorClass returns segment class assigned to synthetic origin connectors of the mode
func (m Mode) ConnectorClass() EdgeClass {
	if m == MODE_CAR {
		return CLASS_SERVICE
	}
	return CLASS_PATH
}
