package render

import (
	"github.com/JonMunkholm/CollegeExplorer/internal/core"
)

// DeckSpec is a deck.gl JSON description of the map view, in the format
// read by deck.gl's JSONConverter ("@@type" classes, "@@=" accessors).
type DeckSpec struct {
	InitialViewState core.Viewport `json:"initialViewState"`
	MapStyle         string        `json:"mapStyle"`
	Layers           []DeckLayer   `json:"layers"`
	Tooltip          DeckTooltip   `json:"tooltip"`
}

// DeckLayer is one deck.gl layer.
type DeckLayer struct {
	Type         string     `json:"@@type"`
	ID           string     `json:"id"`
	Data         []MapPoint `json:"data"`
	GetPosition  string     `json:"getPosition"`
	GetRadius    string     `json:"getRadius"`
	GetFillColor [4]uint8   `json:"getFillColor"`
	Opacity      float64    `json:"opacity"`
	Pickable     bool       `json:"pickable"`
}

// DeckTooltip is the hover template; {field} refers to a MapPoint field.
type DeckTooltip struct {
	HTML string `json:"html"`
}

// MapPoint is one institution on the map.
type MapPoint struct {
	Name   string  `json:"name"`
	Lon    float64 `json:"lon"`
	Lat    float64 `json:"lat"`
	Bubble float64 `json:"bubble"`
	Radius float64 `json:"radius"`
}

// Deck converts a map plan into a deck.gl spec. The plan's rows are already
// free of missing coordinates and bubble values.
func Deck(mp *core.MapPlan) (*DeckSpec, error) {
	if mp == nil {
		return nil, ErrNoRows
	}
	names, err := text(mp.Data, core.ColName)
	if err != nil {
		return nil, err
	}
	lons, err := numeric(mp.Data, core.ColLon)
	if err != nil {
		return nil, err
	}
	lats, err := numeric(mp.Data, core.ColLat)
	if err != nil {
		return nil, err
	}
	bubbles, err := numeric(mp.Data, core.MapBubbleColumn)
	if err != nil {
		return nil, err
	}
	radii, err := numeric(mp.Data, core.MapRadiusColumn)
	if err != nil {
		return nil, err
	}

	points := make([]MapPoint, len(names))
	for i := range points {
		points[i] = MapPoint{
			Name:   names[i],
			Lon:    lons[i],
			Lat:    lats[i],
			Bubble: bubbles[i],
			Radius: radii[i],
		}
	}

	return &DeckSpec{
		InitialViewState: mp.View,
		MapStyle:         mp.Layer.MapStyle,
		Layers: []DeckLayer{{
			Type:         mp.Layer.Type,
			ID:           "institutions",
			Data:         points,
			GetPosition:  "@@=[lon, lat]",
			GetRadius:    "@@=radius",
			GetFillColor: mp.Layer.FillColor,
			Opacity:      mp.Layer.Opacity,
			Pickable:     mp.Layer.Pickable,
		}},
		Tooltip: DeckTooltip{HTML: mp.Tooltip},
	}, nil
}
