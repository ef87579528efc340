package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/HiraG-62/maillet/internal/auth"
	"github.com/HiraG-62/maillet/internal/logging"
	"github.com/HiraG-62/maillet/internal/models"
	"github.com/HiraG-62/maillet/internal/parsererror"
	"github.com/HiraG-62/maillet/internal/store"
	"github.com/HiraG-62/maillet/internal/textutils"
)

const (
	// DefaultBatchSize is how many messages are processed concurrently
	// per batch.
	DefaultBatchSize = 25

	// DefaultBatchDelay is the pause between batches, the pipeline's only
	// throttle against the remote API's rate limit.
	DefaultBatchDelay = time.Second

	// DefaultMaxResults caps each search query.
	DefaultMaxResults = 100

	previewLength = 80
)

// Options configures a single run.
type Options struct {
	// After and Before bound the search. Zero values default to the
	// current calendar month.
	After  time.Time
	Before time.Time

	// Progress receives progress snapshots; nil disables reporting.
	Progress ProgressFunc
}

// Orchestrator coordinates one synchronization run at a time. Running
// two overlapping syncs is a caller mistake; the orchestrator does not
// guard against it.
type Orchestrator struct {
	mail       MailClient
	store      TransactionStore
	registry   Registry
	logger     logging.Logger
	loc        *time.Location
	batchSize  int
	maxResults int64
	limiter    *rate.Limiter
}

// New creates an orchestrator with the default batch size and throttle.
func New(mail MailClient, store TransactionStore, registry Registry, loc *time.Location, logger logging.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if loc == nil {
		loc = time.Local
	}
	return &Orchestrator{
		mail:       mail,
		store:      store,
		registry:   registry,
		logger:     logger,
		loc:        loc,
		batchSize:  DefaultBatchSize,
		maxResults: DefaultMaxResults,
		limiter:    newBatchLimiter(DefaultBatchDelay),
	}
}

// newBatchLimiter builds the inter-batch throttle with its initial token
// drained, so the very first wait already observes the full delay.
func newBatchLimiter(delay time.Duration) *rate.Limiter {
	limiter := rate.NewLimiter(rate.Every(delay), 1)
	limiter.Allow()
	return limiter
}

// SetBatching overrides the batch size and inter-batch delay. Used by
// tests to avoid real waits.
func (o *Orchestrator) SetBatching(size int, delay time.Duration) {
	if size > 0 {
		o.batchSize = size
	}
	o.limiter = newBatchLimiter(delay)
}

// SetMaxResults overrides the per-query search result cap.
func (o *Orchestrator) SetMaxResults(n int64) {
	if n > 0 {
		o.maxResults = n
	}
}

// runState accumulates results across the concurrent message handlers of
// a batch.
type runState struct {
	mu         sync.Mutex
	result     *models.SyncResult
	authFailed bool
}

func (s *runState) addError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result.Errors = append(s.result.Errors, msg)
}

func (s *runState) markAuthFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authFailed {
		s.authFailed = true
		s.result.Errors = append(s.result.Errors, "re-authentication required")
	}
}

func (s *runState) isAuthFailed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authFailed
}

// Run performs one synchronization. It always returns a SyncResult; only
// a total pipeline failure (the store cannot initialize, or terminal
// authentication loss) short-circuits the normal flow, and even then the
// result carries the diagnostic.
func (o *Orchestrator) Run(ctx context.Context, opts Options) *models.SyncResult {
	runID := uuid.NewString()
	log := o.logger.WithField(logging.FieldRunID, runID)
	state := &runState{result: &models.SyncResult{Errors: []string{}}}
	emit := opts.Progress
	if emit == nil {
		emit = func(models.SyncProgress) {}
	}

	if err := o.store.Init(ctx); err != nil {
		msg := fmt.Sprintf("store initialization failed: %v", err)
		state.addError(msg)
		log.WithError(err).Error("sync aborted")
		emit(models.SyncProgress{Status: models.SyncStatusError, Message: msg})
		return state.result
	}

	after, before := opts.After, opts.Before
	if after.IsZero() || before.IsZero() {
		after, before = defaultRange(time.Now(), o.loc)
	}

	candidates := o.searchCandidates(ctx, log, state, after, before)
	if state.isAuthFailed() {
		emit(models.SyncProgress{Status: models.SyncStatusError, Message: "re-authentication required"})
		return state.result
	}
	state.result.TotalFetched = len(candidates)

	existing, err := o.store.ExistingMessageIDs(ctx)
	if err != nil {
		msg := fmt.Sprintf("loading persisted message ids failed: %v", err)
		state.addError(msg)
		log.WithError(err).Error("sync aborted")
		emit(models.SyncProgress{Status: models.SyncStatusError, Message: msg})
		return state.result
	}

	// Diff sync: anything already persisted is skipped before any further
	// network cost.
	var pending []string
	for _, id := range candidates {
		if _, ok := existing[id]; ok {
			state.result.DuplicatesSkipped++
			continue
		}
		pending = append(pending, id)
	}
	log.Info("sync starting",
		logging.Field{Key: logging.FieldCount, Value: len(pending)},
		logging.Field{Key: "skipped", Value: state.result.DuplicatesSkipped})

	total := len(pending)
	processed := 0
	for batchStart := 0; batchStart < total; batchStart += o.batchSize {
		if batchStart > 0 {
			// The only throttle: a fixed pause between batches. Ctx is
			// checked here, between batches; an in-flight batch always
			// runs to completion.
			if err := o.limiter.Wait(ctx); err != nil {
				state.addError(fmt.Sprintf("sync interrupted: %v", err))
				break
			}
		}

		end := batchStart + o.batchSize
		if end > total {
			end = total
		}
		batch := pending[batchStart:end]

		var g errgroup.Group
		for _, id := range batch {
			id := id
			g.Go(func() error {
				o.processMessage(ctx, log, state, id)
				return nil
			})
		}
		// Handlers never return errors; failures are folded into state.
		_ = g.Wait()

		processed += len(batch)
		emit(models.SyncProgress{
			Current:    processed,
			Total:      total,
			Percentage: percentage(processed, total),
			Status:     models.SyncStatusSyncing,
			Message:    fmt.Sprintf("processed %d/%d messages", processed, total),
		})

		if state.isAuthFailed() {
			// Terminal: no further requests this run.
			break
		}
	}

	if state.isAuthFailed() {
		emit(models.SyncProgress{
			Current:    processed,
			Total:      total,
			Percentage: percentage(processed, total),
			Status:     models.SyncStatusError,
			Message:    "re-authentication required",
		})
		return state.result
	}

	log.Info("sync complete",
		logging.Field{Key: "new", Value: state.result.NewTransactions},
		logging.Field{Key: "skipped", Value: state.result.DuplicatesSkipped},
		logging.Field{Key: "parse_errors", Value: state.result.ParseErrors})
	emit(models.SyncProgress{
		Current:    processed,
		Total:      total,
		Percentage: 100,
		Status:     models.SyncStatusDone,
		Message:    "sync complete",
	})
	return state.result
}

// searchCandidates runs the three fixed subject queries and merges their
// results, deduplicating message IDs. A failing query is non-fatal; the
// remaining queries still execute.
func (o *Orchestrator) searchCandidates(ctx context.Context, log logging.Logger, state *runState, after, before time.Time) []string {
	seen := make(map[string]struct{})
	var merged []string
	for _, subject := range subjectQueries {
		if state.isAuthFailed() {
			break
		}
		query := buildQuery(subject, after, before)
		ids, err := o.mail.Search(ctx, query, o.maxResults)
		if err != nil {
			if errors.Is(err, auth.ErrReauthRequired) {
				state.markAuthFailed()
				break
			}
			state.addError(fmt.Sprintf("search %q failed: %v", query, err))
			log.WithError(err).Warn("search query failed",
				logging.Field{Key: logging.FieldQuery, Value: query})
			continue
		}
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	return merged
}

// processMessage handles one candidate end to end: metadata pre-filter,
// body fetch, parse, persist. Every failure is isolated into the shared
// state and never cancels sibling messages in the batch.
func (o *Orchestrator) processMessage(ctx context.Context, log logging.Logger, state *runState, id string) {
	subject, from, err := o.mail.Metadata(ctx, id)
	if err != nil {
		o.recordFetchError(state, id, "metadata", err)
		return
	}

	issuer := o.registry.DetectCardCompany(subject, from)
	if issuer == "" {
		// Not a recognized issuer: skip without paying for the body.
		log.Debug("skipping unrecognized sender",
			logging.Field{Key: logging.FieldMessageID, Value: id})
		return
	}

	body, err := o.mail.FullBody(ctx, id)
	if err != nil {
		o.recordFetchError(state, id, "body", err)
		return
	}

	parsed := o.registry.ParseEmail(from, subject, body)
	if parsed == nil {
		state.mu.Lock()
		state.result.ParseErrors++
		state.result.Errors = append(state.result.Errors, fmt.Sprintf(
			"parse failed for message %s (issuer=%s, subject=%q): %s; body=%q",
			id, issuer, subject, o.registry.ExplainFailure(from, subject, body),
			textutils.Preview(body, previewLength)))
		state.mu.Unlock()
		return
	}

	tx := &models.PersistedTransaction{
		CardCompany:     parsed.CardCompany,
		Amount:          parsed.Amount,
		Merchant:        parsed.Merchant,
		TransactionDate: parsed.TransactionDate,
		EmailSubject:    subject,
		EmailFrom:       from,
		GmailMessageID:  id,
		IsVerified:      true,
	}
	if err := o.store.InsertTransaction(ctx, tx); err != nil {
		if errors.Is(err, store.ErrDuplicateMessage) {
			// The unique constraint is the final dedup safety net.
			state.mu.Lock()
			state.result.DuplicatesSkipped++
			state.mu.Unlock()
			return
		}
		state.addError(fmt.Sprintf("persisting message %s failed: %v", id, err))
		return
	}
	state.mu.Lock()
	state.result.NewTransactions++
	state.mu.Unlock()
	log.Info("new transaction",
		logging.Field{Key: logging.FieldIssuer, Value: parsed.CardCompany},
		logging.Field{Key: logging.FieldAmount, Value: parsed.Amount},
		logging.Field{Key: logging.FieldMerchant, Value: parsed.Merchant},
		logging.Field{Key: logging.FieldMessageID, Value: id})
}

func (o *Orchestrator) recordFetchError(state *runState, id, phase string, err error) {
	if errors.Is(err, auth.ErrReauthRequired) {
		state.markAuthFailed()
		return
	}
	netErr := &parsererror.NetworkError{MessageID: id, Phase: phase, Err: err}
	state.addError(netErr.Error())
}

func percentage(current, total int) int {
	if total == 0 {
		return 100
	}
	return current * 100 / total
}
