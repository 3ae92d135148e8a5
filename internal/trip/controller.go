package trip

import (
	"context"
	"sync"

	"expedition/pkg/logger"
)

// Phase is the controller's lifecycle state for one listing.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFetching
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFetching:
		return "fetching"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Fetcher is the paginated trip source the controller pulls from, typically
// the cache-aside Service.
type Fetcher interface {
	SearchTrips(ctx context.Context, req PageRequest) (*PaginatedResult, error)
}

// URLSink receives the controller's address-bar pushes. Pushes that would
// reproduce the currently observed query are suppressed before the sink is
// called.
type URLSink interface {
	Push(query string)
}

// ControllerOptions fixes the per-listing parameters: which trip type, the
// page size, the URL codec, and which refinements must run client-side
// because the endpoint cannot do them.
type ControllerOptions struct {
	TripType        string
	PageSize        int
	Codec           Codec
	RefineLocally   bool // date + price filters applied after fetch
	ClientPaginates bool // repaginate the refined set locally
}

// Snapshot is the controller's externally visible state: events go in through
// the Set methods, an immutable snapshot comes out.
type Snapshot struct {
	Phase      Phase
	Trips      []Trip
	Page       int
	TotalPages int
	TotalItems int
	Filters    FilterState
	Sort       SortOption
	ErrMessage string
	NoResults  bool
}

// Controller reconciles the listing URL, the filter controls, and the remote
// paginated trip source. One instance owns one listing's state; all mutations
// are serialized behind its lock, and at most one fetch result is ever
// applied per generation, so a superseded request can never overwrite a newer
// one.
type Controller struct {
	fetcher Fetcher
	sink    URLSink
	logger  logger.Client
	opts    ControllerOptions

	mu           sync.Mutex
	ctx          context.Context
	phase        Phase
	filters      FilterState
	page         int
	sort         SortOption
	base         []Trip // last applied fetch, before refinement
	view         *PaginatedResult
	errMessage   string
	gen          uint64
	cancelFetch  context.CancelFunc
	lastPushed   string
	lastObserved string
}

func NewController(fetcher Fetcher, sink URLSink, log logger.Client, opts ControllerOptions) *Controller {
	if opts.PageSize < 1 {
		opts.PageSize = 9
	}
	return &Controller{
		fetcher: fetcher,
		sink:    sink,
		logger:  log,
		opts:    opts,
		ctx:     context.Background(),
		phase:   PhaseIdle,
		filters: DefaultFilterState(opts.Codec.Bounds),
		page:    1,
	}
}

// Start derives the initial state from the listing URL and runs the first
// fetch. ctx bounds the controller's lifetime: cancelling it tears down any
// in-flight request.
func (c *Controller) Start(ctx context.Context, rawQuery string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ctx = ctx
	c.filters, c.page = c.opts.Codec.DecodeQuery(rawQuery)
	c.lastObserved = c.opts.Codec.EncodeQuery(c.filters, c.page)
	c.startFetchLocked()
}

// SetFilters replaces the whole filter state. Anything but an exact repeat of
// the current state resets the page to 1, pushes the new URL, and supersedes
// any in-flight fetch.
func (c *Controller) SetFilters(f FilterState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f = f.ClampPrices(c.opts.Codec.Bounds)
	if f == c.filters {
		return
	}

	c.filters = f
	c.page = 1
	c.syncURLLocked()
	c.startFetchLocked()
}

// SetPage moves to another page. Out-of-range requests are clamped into
// [1, TotalPages]; a request for the current page is a no-op.
func (c *Controller) SetPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n < 1 {
		n = 1
	}
	if c.view != nil && n > c.view.TotalPages {
		n = c.view.TotalPages
	}
	if n == c.page {
		return
	}

	c.page = n
	c.syncURLLocked()
	c.startFetchLocked()
}

// SetSort reorders the current page without touching the network: the view is
// re-derived from the last fetched items and the controller goes straight
// back to Ready.
func (c *Controller) SetSort(opt SortOption) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if opt == c.sort {
		return
	}
	c.sort = opt

	if c.base != nil && c.phase != PhaseFetching {
		c.applyRefinementLocked()
		c.phase = PhaseReady
		c.errMessage = ""
	}
}

// HandleURLChange feeds an externally observed URL change (back/forward
// navigation) into the controller. A change that merely echoes the last
// self-initiated push is already applied and triggers nothing.
func (c *Controller) HandleURLChange(rawQuery string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	filters, page := c.opts.Codec.DecodeQuery(rawQuery)
	canonical := c.opts.Codec.EncodeQuery(filters, page)

	if canonical == c.lastPushed || canonical == c.lastObserved {
		c.lastObserved = canonical
		return
	}

	c.lastObserved = canonical
	c.filters = filters
	c.page = page
	c.startFetchLocked()
}

// Snapshot returns the current externally visible state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Phase:      c.phase,
		Page:       c.page,
		Filters:    c.filters,
		Sort:       c.sort,
		ErrMessage: c.errMessage,
	}
	if c.view != nil {
		snap.Trips = c.view.Items
		snap.Page = c.view.CurrentPage
		snap.TotalPages = c.view.TotalPages
		snap.TotalItems = c.view.TotalItems
		snap.NoResults = c.phase == PhaseReady && len(c.view.Items) == 0
	}
	return snap
}

// Close cancels any in-flight fetch.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
}

// syncURLLocked pushes the state-derived URL unless it matches what the
// address bar already shows, which would cause a feedback loop.
func (c *Controller) syncURLLocked() {
	query := c.opts.Codec.EncodeQuery(c.filters, c.page)
	if query == c.lastObserved {
		return
	}

	c.lastPushed = query
	c.lastObserved = query
	if c.sink != nil {
		c.sink.Push(query)
	}
}

// startFetchLocked supersedes any in-flight request and launches a new one.
// Results are tagged with a generation; only the newest generation may apply.
func (c *Controller) startFetchLocked() {
	if c.cancelFetch != nil {
		c.cancelFetch()
	}

	c.gen++
	gen := c.gen
	fetchCtx, cancel := context.WithCancel(c.ctx)
	c.cancelFetch = cancel
	c.phase = PhaseFetching
	c.errMessage = ""

	req := PageRequest{
		TripType: c.opts.TripType,
		Page:     c.page,
		Limit:    c.opts.PageSize,
		Filters:  c.filters,
	}

	go func() {
		result, err := c.fetcher.SearchTrips(fetchCtx, req)
		cancel()
		c.applyResult(gen, result, err)
	}()
}

// applyResult installs a fetch outcome, unless a newer request has superseded
// it in the meantime or it was cancelled outright.
func (c *Controller) applyResult(gen uint64, result *PaginatedResult, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return // superseded, drop silently
	}
	c.cancelFetch = nil

	if err != nil {
		if IsCancelled(err) {
			return
		}
		c.phase = PhaseError
		c.errMessage = UserMessage(err)
		if c.logger != nil {
			c.logger.Error("trip fetch failed",
				logger.Field{Key: "trip_type", Value: c.opts.TripType}, logger.Err(err))
		}
		return
	}

	result.Normalize()
	c.base = result.Items
	c.view = result
	c.applyRefinementLocked()
	c.phase = PhaseReady
	c.errMessage = ""
}

// applyRefinementLocked re-derives the visible page from the last fetched
// items: client-side filters for endpoints that lack them, the ephemeral
// sort, and local repagination when the server's pagination cannot be
// trusted.
func (c *Controller) applyRefinementLocked() {
	items := c.base

	if c.opts.RefineLocally {
		items = FilterByStartDate(items, c.filters.StartDate)
		items = FilterByPriceRange(items, c.filters.MinPrice, c.filters.MaxPrice, c.opts.Codec.Bounds)
	}
	items = SortTrips(items, c.sort)

	if c.opts.ClientPaginates {
		meta := Repaginate(items, c.page, c.opts.PageSize)
		meta.Metadata = c.view.Metadata
		c.view = &meta
		c.page = meta.CurrentPage
		return
	}

	refined := *c.view
	refined.Items = items
	c.view = &refined
	c.page = refined.CurrentPage
}
