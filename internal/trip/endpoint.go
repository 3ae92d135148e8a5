package trip

// EndpointProfile captures how one trip type's search endpoint deviates from
// the others: parameter spelling, which filters it honors, and whether its
// pagination can be trusted. Filters the endpoint does not support are
// applied client-side by the refiner instead.
type EndpointProfile struct {
	Name                string
	Path                string
	DestinationParam    string
	ShipParam           string
	SendShipSize        bool
	SupportsDateFilter  bool
	SupportsPriceFilter bool
	ServerPaginates     bool
}

// ExpeditionProfile describes the expedition-trip search endpoint, which
// carries the full filter surface and paginates server-side.
func ExpeditionProfile() EndpointProfile {
	return EndpointProfile{
		Name:                "expedition",
		Path:                "/booking/v1/expeditions/search",
		DestinationParam:    "destinations",
		ShipParam:           "ship",
		SendShipSize:        false,
		SupportsDateFilter:  true,
		SupportsPriceFilter: true,
		ServerPaginates:     true,
	}
}

// CruiseProfile describes the cruise-trip search endpoint: different
// parameter spellings, no date or price filtering, and pagination that cannot
// be combined with those filters, so its pages are refined and repaginated
// locally.
func CruiseProfile() EndpointProfile {
	return EndpointProfile{
		Name:                "cruise",
		Path:                "/booking/v1/cruises/search",
		DestinationParam:    "destination",
		ShipParam:           "ship_name",
		SendShipSize:        false,
		SupportsDateFilter:  false,
		SupportsPriceFilter: false,
		ServerPaginates:     false,
	}
}
