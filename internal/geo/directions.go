package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/twpayne/go-polyline"
)

const (
	// RoutesEndpoint is Google's Routes API computeRoutes method.
	RoutesEndpoint  = "https://routes.googleapis.com/directions/v2:computeRoutes"
	routesFieldMask = "routes.duration,routes.distanceMeters,routes.polyline.encodedPolyline"
)

// Summary is what the map tabs show for a stop sequence.
type Summary struct {
	Path           orb.LineString
	DistanceMeters float64
	Duration       time.Duration
	// StraightLine is set when the path joins the stops directly instead of
	// following roads.
	StraightLine bool
}

// DistanceText formats the distance as kilometres with one decimal.
func (s Summary) DistanceText() string {
	return fmt.Sprintf("%.1f km", s.DistanceMeters/1000)
}

// DurationText formats the duration in whole minutes.
func (s Summary) DurationText() string {
	return fmt.Sprintf("%d mins", int(math.Round(s.Duration.Minutes())))
}

// Directions computes driving routes through a stop sequence.
type Directions struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	cache      *RouteCache
}

type DirectionsOption func(*Directions)

func WithEndpoint(url string) DirectionsOption {
	return func(d *Directions) { d.endpoint = url }
}

func WithDirectionsHTTPClient(hc *http.Client) DirectionsOption {
	return func(d *Directions) { d.httpClient = hc }
}

func WithCache(c *RouteCache) DirectionsOption {
	return func(d *Directions) { d.cache = c }
}

// NewDirections returns a directions client. With an empty apiKey every
// request is answered with the straight-line path.
func NewDirections(apiKey string, opts ...DirectionsOption) *Directions {
	if apiKey == "" {
		log.Printf("⚠️  [GEO] maps API key not set - route maps use straight lines")
	}
	d := &Directions{
		apiKey:   apiKey,
		endpoint: RoutesEndpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Route returns the summary for stops. Fewer than two stops give an empty
// summary. If the Routes API fails the straight-line summary is returned
// together with the error.
func (d *Directions) Route(ctx context.Context, stops []Stop) (Summary, error) {
	if len(stops) < 2 {
		return Summary{}, nil
	}
	if d.apiKey == "" {
		return StraightLine(stops), nil
	}

	sig := Signature(stops)
	if d.cache != nil {
		if cached, ok := d.cache.Get(sig); ok {
			log.Printf("📦 [GEO] cache hit for route %s", sig)
			return cached, nil
		}
	}

	summary, err := d.computeRoute(ctx, stops)
	if err != nil {
		log.Printf("⚠️  [GEO] computeRoutes failed: %v - using straight line", err)
		return StraightLine(stops), err
	}
	if d.cache != nil {
		d.cache.Set(sig, summary)
	}
	return summary, nil
}

// StraightLine joins the stops directly and measures the haversine length.
func StraightLine(stops []Stop) Summary {
	path := LineString(stops)
	return Summary{
		Path:           path,
		DistanceMeters: orbgeo.LengthHaversine(path),
		StraightLine:   true,
	}
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type waypoint struct {
	Location struct {
		LatLng latLng `json:"latLng"`
	} `json:"location"`
}

type computeRoutesRequest struct {
	Origin            waypoint   `json:"origin"`
	Destination       waypoint   `json:"destination"`
	Intermediates     []waypoint `json:"intermediates,omitempty"`
	TravelMode        string     `json:"travelMode"`
	RoutingPreference string     `json:"routingPreference"`
}

type computeRoutesResponse struct {
	Routes []struct {
		Duration       string  `json:"duration"`
		DistanceMeters float64 `json:"distanceMeters"`
		Polyline       struct {
			EncodedPolyline string `json:"encodedPolyline"`
		} `json:"polyline"`
	} `json:"routes"`
}

func toWaypoint(s Stop) waypoint {
	var w waypoint
	w.Location.LatLng = latLng{Latitude: s.Latitude, Longitude: s.Longitude}
	return w
}

func (d *Directions) computeRoute(ctx context.Context, stops []Stop) (Summary, error) {
	reqBody := computeRoutesRequest{
		Origin:            toWaypoint(stops[0]),
		Destination:       toWaypoint(stops[len(stops)-1]),
		TravelMode:        "DRIVE",
		RoutingPreference: "TRAFFIC_AWARE",
	}
	for _, s := range stops[1 : len(stops)-1] {
		reqBody.Intermediates = append(reqBody.Intermediates, toWaypoint(s))
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Summary{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", d.apiKey)
	req.Header.Set("X-Goog-FieldMask", routesFieldMask)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return Summary{}, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Summary{}, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed computeRoutesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Summary{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Routes) == 0 {
		return Summary{}, fmt.Errorf("no route between %d stops", len(stops))
	}
	route := parsed.Routes[0]

	coords, _, err := polyline.DecodeCoords([]byte(route.Polyline.EncodedPolyline))
	if err != nil {
		return Summary{}, fmt.Errorf("failed to decode polyline: %w", err)
	}
	path := make(orb.LineString, len(coords))
	for i, c := range coords {
		path[i] = orb.Point{c[1], c[0]}
	}

	var duration time.Duration
	if route.Duration != "" {
		duration, err = time.ParseDuration(route.Duration)
		if err != nil {
			return Summary{}, fmt.Errorf("bad duration %q: %w", route.Duration, err)
		}
	}

	log.Printf("🛣️  [GEO] routed %d stops: %.0fm, %s", len(stops), route.DistanceMeters, duration)
	return Summary{
		Path:           path,
		DistanceMeters: route.DistanceMeters,
		Duration:       duration,
	}, nil
}
