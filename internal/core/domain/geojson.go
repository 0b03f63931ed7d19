package domain

const (
	TypeFeature           = "Feature"
	TypeFeatureCollection = "FeatureCollection"
	GeometryPoint         = "Point"
	GeometryLineString    = "LineString"
)

// Event tags carried in properties.event.
const (
	EventAddress        = "address"
	EventDelivered      = "delivered"
	EventOpened         = "opened"
	EventRouteInTransit = "route_in_transit"
	EventRouteTampered  = "route_tampered"
	EventRouteStolen    = "route_stolen"
)

// Position is a GeoJSON position, [longitude, latitude].
type Position [2]float64

// Geometry holds either a Position (Point) or a []Position (LineString).
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// NewPoint builds a Point feature. Arguments are in map order (lat, lng); the
// stored position is GeoJSON order.
func NewPoint(lat, lng float64, props map[string]any) Feature {
	return Feature{
		Type:       TypeFeature,
		Geometry:   Geometry{Type: GeometryPoint, Coordinates: Position{lng, lat}},
		Properties: props,
	}
}

func NewLineString(path []Position, props map[string]any) Feature {
	return Feature{
		Type:       TypeFeature,
		Geometry:   Geometry{Type: GeometryLineString, Coordinates: path},
		Properties: props,
	}
}

// NewFeatureCollection returns an empty collection whose features encode as [].
func NewFeatureCollection() FeatureCollection {
	return FeatureCollection{Type: TypeFeatureCollection, Features: []Feature{}}
}

// Event returns properties.event, or "" when the feature carries none.
func (f Feature) Event() string {
	s, _ := f.Properties["event"].(string)
	return s
}
