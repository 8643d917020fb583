package mapview

import "time"

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point is a pixel offset, x to the right and y downwards.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type TileLayer struct {
	URLTemplate string
	Attribution string
	Subdomains  string
	MaxZoom     int
}

type Icon struct {
	HTML        string
	ClassName   string
	Size        Point
	Anchor      Point
	PopupAnchor Point
}

type Options struct {
	Center      LatLng
	Zoom        int
	ZoomControl bool
	Tiles       TileLayer
	PinIcon     Icon
}

type ViewOptions struct {
	Animate  bool
	Duration time.Duration
}

const PinFill = "#D97742"

// PinSVG is the marker drawn for every zone.
const PinSVG = `<svg width="32" height="32" viewBox="0 0 24 24" fill="` + PinFill + `" stroke="#2C2C2C" stroke-width="2">` +
	`<path d="M21 10c0 7-9 13-9 13s-9-6-9-13a9 9 0 0 1 18 0z"></path>` +
	`<circle cx="12" cy="10" r="3"></circle>` +
	`</svg>`

var (
	// DefaultCenter is Seoul City Hall.
	DefaultCenter = LatLng{Lat: 37.5665, Lng: 126.978}

	DarkTiles = TileLayer{
		URLTemplate: "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png",
		Subdomains:  "abcd",
		MaxZoom:     20,
	}

	PinIcon = Icon{
		HTML:        `<div class="custom-marker">` + PinSVG + `</div>`,
		ClassName:   "custom-div-icon",
		Size:        Point{X: 32, Y: 32},
		Anchor:      Point{X: 16, Y: 32},
		PopupAnchor: Point{X: 0, Y: -32},
	}
)

func DefaultOptions() Options {
	return Options{
		Center:      DefaultCenter,
		Zoom:        13,
		ZoomControl: false,
		Tiles:       DarkTiles,
		PinIcon:     PinIcon,
	}
}
