package model

import (
	"encoding/json"
	"fmt"
)

// Route is the processing queue a claim is sent to.
// The zero value is not a valid route.
type Route int

const (
	RouteFastTrack Route = iota + 1
	RouteManualReview
	RouteInvestigation
	RouteSpecialistQueue
)

// Routes lists every valid route in priority-independent display order
var Routes = []Route{RouteFastTrack, RouteManualReview, RouteInvestigation, RouteSpecialistQueue}

// String returns the wire name. Downstream consumers match these verbatim.
func (r Route) String() string {
	switch r {
	case RouteFastTrack:
		return "Fast-track"
	case RouteManualReview:
		return "Manual review"
	case RouteInvestigation:
		return "Investigation Flag"
	case RouteSpecialistQueue:
		return "Specialist Queue"
	default:
		return fmt.Sprintf("Route(%d)", int(r))
	}
}

// Valid reports whether r is one of the four routes
func (r Route) Valid() bool {
	return r >= RouteFastTrack && r <= RouteSpecialistQueue
}

// ParseRoute parses a wire name back into a Route
func ParseRoute(s string) (Route, error) {
	for _, r := range Routes {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown route %q", s)
}

// MarshalJSON encodes the route as its wire name
func (r Route) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("marshal invalid route %d", int(r))
	}
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a wire name
func (r *Route) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRoute(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
