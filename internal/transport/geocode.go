package transport

import "context"

// ErrGeocodeFailed reports that a place name could not be resolved. Callers
// fall back to manual coordinates or configured fallback distances.
const ErrGeocodeFailed = constError("geocoding failed")

// Geocoder resolves a place name to coordinates. Implementations live
// outside the engine (the engine itself performs no network I/O); latency
// and retry policy belong to the implementation and its call site.
type Geocoder interface {
	Resolve(ctx context.Context, place string) (Coordinates, error)
}

// StaticGeocoder resolves from a fixed name→coordinates table. Used by
// tests and by manifests that carry their own coordinate list.
type StaticGeocoder map[string]Coordinates

// Resolve implements Geocoder.
func (s StaticGeocoder) Resolve(_ context.Context, place string) (Coordinates, error) {
	c, ok := s[place]
	if !ok {
		return Coordinates{}, ErrGeocodeFailed
	}
	return c, nil
}
