package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type recordSummaryResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Documentation-only shapes of the GeoJSON payload.

type geometryDoc struct {
	Type        string    `json:"type" example:"Point"`
	Coordinates []float64 `json:"coordinates" example:"-0.1341,51.5075"`
}

type featureDoc struct {
	Type       string         `json:"type" example:"Feature"`
	Geometry   geometryDoc    `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type featureCollectionDoc struct {
	Type     string       `json:"type" example:"FeatureCollection"`
	Features []featureDoc `json:"features"`
}
