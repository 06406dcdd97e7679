// Package analytics turns a transaction snapshot into financial aggregates: category
// breakdowns, income and spending totals, time-bucketed trends and period-over-period
// deltas. Every aggregation is memoized in a cache.Memo keyed on operation, range,
// account scope and the snapshot fingerprint.
//
// The engine is total: it never returns an error and never panics on malformed input.
// Empty or fully invalid input yields zero-valued results. Slices in returned records
// may be shared with the cache and must be treated as read-only.
package analytics

import (
	"time"

	"fjacquet/ledger-analytics/internal/cache"
	"fjacquet/ledger-analytics/internal/colors"
	"fjacquet/ledger-analytics/internal/dateutils"
	"fjacquet/ledger-analytics/internal/fingerprint"
	"fjacquet/ledger-analytics/internal/logging"
	"fjacquet/ledger-analytics/internal/models"
	"fjacquet/ledger-analytics/internal/timewindow"
)

// DefaultTopLimit is the number of categories returned by GetTopSpendingCategories
// when no positive limit is given.
const DefaultTopLimit = 5

// Operation names used in cache keys.
const (
	opSpendingByCategory       = "spending_by_category"
	opIncomeVsSpending         = "income_vs_spending"
	opMonthlySpending          = "monthly_spending"
	opSpendingTrends           = "spending_trends"
	opSpendingTrendsByCategory = "spending_trends_by_category"
	opQuickAnalytics           = "quick_analytics"
	opAverageDailySpending     = "average_daily_spending"
	opNetWorthTrend            = "net_worth_trend"
	opIncomeTrend              = "income_trend"
	opSpendingTrend            = "spending_trend"
	opSavingsTrend             = "savings_trend"
)

// Engine computes analytics. The cache and color assigner are owned by whoever
// constructs the engine; engines derived through Scope share them.
type Engine struct {
	cache    *cache.Memo
	colors   *colors.Assigner
	now      func() time.Time
	loc      *time.Location
	logger   logging.Logger
	topLimit int
	scope    string
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache sets the memoizing cache.
func WithCache(memo *cache.Memo) Option {
	return func(e *Engine) {
		if memo != nil {
			e.cache = memo
		}
	}
}

// WithColors sets the category color assigner.
func WithColors(assigner *colors.Assigner) Option {
	return func(e *Engine) {
		if assigner != nil {
			e.colors = assigner
		}
	}
}

// WithClock sets the source of "now".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the location used for calendar days and months.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTopLimit sets the default number of top categories.
func WithTopLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.topLimit = limit
		}
	}
}

// NewEngine creates an Engine. Without options it gets a private cache with the
// default TTL, a private default-palette color assigner, the wall clock and the local
// time zone.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:      time.Now,
		loc:      time.Local,
		logger:   logging.NewNopLogger(),
		topLimit: DefaultTopLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = cache.New(cache.DefaultTTL, 0)
	}
	if e.colors == nil {
		e.colors = colors.NewAssigner(nil)
	}
	e.logger = e.logger.WithField(logging.FieldComponent, "analytics")
	return e
}

// Scope returns an engine restricted to one account. Its inputs are filtered to
// transactions and accounts with that id, and its cache entries are keyed by it.
// An empty id returns an unscoped engine.
func (e *Engine) Scope(accountID string) *Engine {
	scoped := *e
	scoped.scope = accountID
	return &scoped
}

// ScopeID returns the account scope, or cache.ScopeAll.
func (e *Engine) ScopeID() string {
	if e.scope == "" {
		return cache.ScopeAll
	}
	return e.scope
}

// Cache returns the engine's cache.
func (e *Engine) Cache() *cache.Memo {
	return e.cache
}

// ClearCache drops every memoized result. Call it whenever the ledger changes
// structurally (import, edit, delete) before the next aggregation call.
func (e *Engine) ClearCache() {
	e.cache.Clear()
	e.logger.Info("Analytics cache cleared", logging.F(logging.FieldScope, e.ScopeID()))
}

// ForceRefresh is an alias for ClearCache.
func (e *Engine) ForceRefresh() {
	e.ClearCache()
}

// FilterByRange returns the transactions inside the rolling window of r.
func (e *Engine) FilterByRange(transactions []models.Transaction, r timewindow.Range) []models.Transaction {
	return e.filter(e.restrict(transactions), r, e.current())
}

func (e *Engine) filter(transactions []models.Transaction, r timewindow.Range, now time.Time) []models.Transaction {
	if !r.Valid() {
		e.logger.Warn("Invalid time range, returning unfiltered transactions",
			logging.F(logging.FieldRange, r.String()))
	}
	return timewindow.Filter(transactions, r, now)
}

// restrict applies the account scope. The input is never modified.
func (e *Engine) restrict(transactions []models.Transaction) []models.Transaction {
	if transactions == nil {
		return []models.Transaction{}
	}
	if e.scope == "" {
		return transactions
	}
	out := make([]models.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.AccountID == e.scope {
			out = append(out, tx)
		}
	}
	return out
}

// Accounts returns the accounts visible in the engine scope.
func (e *Engine) Accounts(accounts []models.Account) []models.Account {
	return e.restrictAccounts(accounts)
}

func (e *Engine) restrictAccounts(accounts []models.Account) []models.Account {
	if e.scope == "" {
		return accounts
	}
	var out []models.Account
	for _, a := range accounts {
		if a.ID == e.scope {
			out = append(out, a)
		}
	}
	return out
}

// current returns the clock reading in the engine location. Date strings without an
// offset are read in that location by the window filters.
func (e *Engine) current() time.Time {
	return e.now().In(e.loc)
}

// memoize wraps compute with the engine cache.
func memoize[T any](e *Engine, op string, r timewindow.Range, transactions []models.Transaction, compute func() T) T {
	key := cache.Key(op, r.String(), e.scope)
	return cache.Memoize(e.cache, key, fingerprint.Of(transactions), compute)
}

// memoizeAt is memoize for results that depend on the current day (period buckets,
// rolling windows). The day of now in the engine location is part of the key, so a
// date rollover never serves buckets anchored on the previous day.
func memoizeAt[T any](e *Engine, op string, now time.Time, r timewindow.Range, transactions []models.Transaction, compute func() T) T {
	anchored := op + "@" + now.In(e.loc).Format(dateutils.DateLayoutISO)
	return memoize(e, anchored, r, transactions, compute)
}
