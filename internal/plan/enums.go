package plan

import (
	"fmt"
	"strings"
)

// DisplayType is what one wall screen shows during a section.
type DisplayType string

const (
	DisplayNone     DisplayType = ""
	DisplayVideo    DisplayType = "video"
	DisplayImage    DisplayType = "image"
	DisplayPadlet   DisplayType = "padlet"
	DisplayWebsite  DisplayType = "website"
	DisplayGenially DisplayType = "genially"
)

// DisplayTypes lists the selectable screen contents.
var DisplayTypes = []DisplayType{
	DisplayVideo,
	DisplayImage,
	DisplayPadlet,
	DisplayWebsite,
	DisplayGenially,
}

var displayLabels = map[DisplayType]string{
	DisplayVideo:    "סרטון",
	DisplayImage:    "תמונה",
	DisplayPadlet:   "פדלט",
	DisplayWebsite:  "אתר",
	DisplayGenially: "ג'ניאלי",
}

// Label returns the Hebrew label, or an empty string for DisplayNone.
func (d DisplayType) Label() string {
	return displayLabels[d]
}

// ParseDisplayType accepts a stored code or its Hebrew label. An empty
// string yields DisplayNone.
func ParseDisplayType(s string) (DisplayType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DisplayNone, nil
	}
	for d, label := range displayLabels {
		if strings.EqualFold(s, string(d)) || s == label {
			return d, nil
		}
	}
	return DisplayNone, fmt.Errorf("%w: screen type %q", ErrInvalidValue, s)
}

// SpaceUsage is how learners are organized in the room during a section.
type SpaceUsage string

const (
	SpaceNone       SpaceUsage = ""
	SpaceWhole      SpaceUsage = "whole"
	SpaceGroups     SpaceUsage = "groups"
	SpaceIndividual SpaceUsage = "individual"
	SpaceMixed      SpaceUsage = "mixed"
)

// SpaceUsages lists the selectable classroom configurations.
var SpaceUsages = []SpaceUsage{
	SpaceWhole,
	SpaceGroups,
	SpaceIndividual,
	SpaceMixed,
}

var spaceLabels = map[SpaceUsage]string{
	SpaceWhole:      "מליאה",
	SpaceGroups:     "עבודה בקבוצות",
	SpaceIndividual: "עבודה אישית",
	SpaceMixed:      "משולב",
}

// Label returns the Hebrew label, or an empty string for SpaceNone.
func (s SpaceUsage) Label() string {
	return spaceLabels[s]
}

// ParseSpaceUsage accepts a stored code or its Hebrew label. An empty
// string yields SpaceNone.
func ParseSpaceUsage(s string) (SpaceUsage, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SpaceNone, nil
	}
	for u, label := range spaceLabels {
		if strings.EqualFold(s, string(u)) || s == label {
			return u, nil
		}
	}
	return SpaceNone, fmt.Errorf("%w: space usage %q", ErrInvalidValue, s)
}
