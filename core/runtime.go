package core

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/holiman/uint256"

	"palletchain/core/events"
	"palletchain/core/types"
	"palletchain/native/balances"
	"palletchain/native/claims"
	"palletchain/native/system"
	"palletchain/observability"
	"palletchain/storage"
)

// Metrics receives block execution telemetry.
type Metrics interface {
	ObserveExtrinsic(pallet, call string, err error)
	ObserveBlock(number uint64, extrinsics int, duration time.Duration)
	RecordRejectedBlock()
	RecordEvent(eventType string)
}

type phase uint8

const (
	phaseIdle phase = iota
	phaseExecutingBlock
)

// Runtime aggregates the system module and every domain module into one
// state machine. It is the only entry point for dispatch; modules never call
// each other's mutating methods.
//
// Runtime is not safe for concurrent use. Independent runtimes share nothing
// and may run in parallel.
type Runtime struct {
	journal *storage.Journal
	pending *events.Buffer

	system   *system.Pallet
	balances *balances.Pallet
	claims   *claims.Pallet

	logger  *slog.Logger
	metrics Metrics
	phase   phase
}

type options struct {
	db             storage.Database
	logger         *slog.Logger
	metrics        Metrics
	maxClaimLength int
}

// Option customises a Runtime.
type Option func(*options)

// WithDatabase selects the backing key-value store. The runtime takes
// ownership and closes it in Close.
func WithDatabase(db storage.Database) Option {
	return func(o *options) { o.db = db }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics overrides the metrics sink.
func WithMetrics(metrics Metrics) Option {
	return func(o *options) { o.metrics = metrics }
}

// WithMaxClaimLength bounds the size of claimed content.
func WithMaxClaimLength(n int) Option {
	return func(o *options) { o.maxClaimLength = n }
}

// New constructs a runtime with every module in its empty state.
func New(opts ...Option) *Runtime {
	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.db == nil {
		cfg.db = storage.NewMemDB()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.metrics == nil {
		cfg.metrics = observability.RuntimeMetrics()
	}

	journal := storage.NewJournal(cfg.db)
	ns := storage.NewNamespace(journal)
	pending := &events.Buffer{}
	return &Runtime{
		journal:  journal,
		pending:  pending,
		system:   system.New(ns.Table(system.ModuleName)),
		balances: balances.New(ns.Table(balances.ModuleName), pending),
		claims:   claims.New(ns.Table(claims.ModuleName), cfg.maxClaimLength, pending),
		logger:   cfg.logger.With("component", "runtime"),
		metrics:  cfg.metrics,
	}
}

// Close releases the backing store.
func (r *Runtime) Close() {
	r.journal.Close()
}

// Genesis seeds state before the first block.
type Genesis struct {
	Balances map[types.AccountID]*uint256.Int
}

// InitGenesis applies g atomically. It fails once any block was executed.
func (r *Runtime) InitGenesis(g Genesis) error {
	number, err := r.system.BlockNumber()
	if err != nil {
		return err
	}
	if number != 0 {
		return ErrGenesisAfterBlocks
	}
	accounts := make([]types.AccountID, 0, len(g.Balances))
	for account := range g.Balances {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })

	if err := r.journal.Begin(); err != nil {
		return err
	}
	for _, account := range accounts {
		if err := r.balances.SetBalance(account, g.Balances[account]); err != nil {
			r.journal.Rollback()
			r.pending.Reset()
			return fmt.Errorf("core: genesis balance for %s: %w", account, err)
		}
	}
	r.pending.Reset()
	if err := r.journal.Commit(); err != nil {
		return fmt.Errorf("core: commit genesis: %w", err)
	}
	r.logger.Info("genesis applied", "accounts", len(accounts))
	return nil
}

// BlockNumber returns the number of the last executed block.
func (r *Runtime) BlockNumber() (uint64, error) { return r.system.BlockNumber() }

// Nonce returns how many dispatches account has attempted.
func (r *Runtime) Nonce(account types.AccountID) (uint64, error) { return r.system.Nonce(account) }

// Balance returns the balance of account.
func (r *Runtime) Balance(account types.AccountID) (*uint256.Int, error) {
	return r.balances.Balance(account)
}

// TotalIssuance returns the sum of all balances.
func (r *Runtime) TotalIssuance() (*uint256.Int, error) { return r.balances.TotalIssuance() }

// ClaimOwner returns the owner of content, if claimed.
func (r *Runtime) ClaimOwner(content []byte) (types.AccountID, bool, error) {
	return r.claims.Owner(content)
}
