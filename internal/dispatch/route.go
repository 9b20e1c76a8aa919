package dispatch

import "github.com/nhdewitt/qr-from-tcp/internal/request"

// Route is the behavior selected for a request. It depends only on the
// method and path.
type Route int

const (
	RouteNotFound Route = iota
	RouteInstructions
	RouteBuildText
	RouteBuildVector
	RouteBuildRaster
)

var routeNames = [...]string{
	RouteNotFound:     "not-found",
	RouteInstructions: "instructions",
	RouteBuildText:    "build-text",
	RouteBuildVector:  "build-svg",
	RouteBuildRaster:  "build-png",
}

func (r Route) String() string {
	if r < RouteNotFound || r > RouteBuildRaster {
		return "unknown"
	}
	return routeNames[r]
}

// Builds reports whether r renders a QR code from the request body.
func (r Route) Builds() bool {
	return r == RouteBuildText || r == RouteBuildVector || r == RouteBuildRaster
}

// Classify matches method and path exactly; there is no prefix matching.
func Classify(method, path string) Route {
	switch method {
	case request.MethodGet:
		if path == "/" {
			return RouteInstructions
		}
	case request.MethodPost:
		switch path {
		case "/build":
			return RouteBuildText
		case "/build/svg":
			return RouteBuildVector
		case "/build/png":
			return RouteBuildRaster
		}
	}
	return RouteNotFound
}
