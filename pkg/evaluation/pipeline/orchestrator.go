package pipeline

import (
	"context"
	"time"

	"clinical-eval-be/internal/pkg/logger"
	"clinical-eval-be/internal/repository/contract"
	"clinical-eval-be/pkg/evaluation"
	"clinical-eval-be/pkg/evaluation/aggregate"
	"clinical-eval-be/pkg/evaluation/item"
	"clinical-eval-be/pkg/evaluation/priority"
	"clinical-eval-be/pkg/evaluation/recommend"
	"clinical-eval-be/pkg/store"

	"golang.org/x/sync/semaphore"
)

// State tracks pipeline progress for logging. Item failures never skip a
// state; they degrade to conservative fallbacks and the run still completes.
type State string

const (
	StateCreated      State = "created"
	StateEvaluating   State = "evaluating"
	StateAggregating  State = "aggregating"
	StateRecommending State = "recommending"
	StateCompleted    State = "completed"
)

// Orchestrator sequences session lookup → item evaluation (×N) → aggregation
// → optional recommendation, then persists the result into the session.
// Terminal failure happens only when the session is missing/expired; every
// per-item failure is absorbed upstream.
type Orchestrator struct {
	sessions    contract.SessionStore
	evaluator   *item.Evaluator
	recommender *recommend.Generator
	policy      priority.Policy
	logger      logger.ILogger
	maxInFlight int64
}

func NewOrchestrator(
	sessions contract.SessionStore,
	evaluator *item.Evaluator,
	recommender *recommend.Generator,
	policy priority.Policy,
	log logger.ILogger,
	maxInFlight int,
) *Orchestrator {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &Orchestrator{
		sessions:    sessions,
		evaluator:   evaluator,
		recommender: recommender,
		policy:      policy,
		logger:      log,
		maxInFlight: int64(maxInFlight),
	}
}

// RunEligibility evaluates every criterion against the session's record and
// derives the overall verdict.
func (o *Orchestrator) RunEligibility(ctx context.Context, sessionID string, criteria []evaluation.Criterion) (*evaluation.Result, error) {
	session, err := o.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	o.transition(sessionID, StateCreated, StateEvaluating, len(criteria))

	results := make([]evaluation.CriterionResult, len(criteria))
	sem := semaphore.NewWeighted(o.maxInFlight)
	done := make(chan struct{})

	for i, criterion := range criteria {
		i, criterion := i, criterion
		if err := sem.Acquire(ctx, 1); err != nil {
			// Caller cancelled: unevaluated items get the conservative default
			// so the run still reaches Completed with a needs-review verdict.
			results[i] = cancelledCriterion(criterion)
			continue
		}
		go func() {
			defer sem.Release(1)
			results[i] = o.evaluator.EvaluateCriterion(ctx, session.Record, criterion)
		}()
	}
	go func() {
		// Wait for all in-flight workers
		_ = sem.Acquire(context.Background(), o.maxInFlight)
		close(done)
	}()
	<-done

	o.transition(sessionID, StateEvaluating, StateAggregating, len(criteria))
	eligibility := aggregate.BuildEligibilityResult(results)

	result := &evaluation.Result{
		Kind:        evaluation.KindEligibility,
		Eligibility: eligibility,
		CompletedAt: time.Now(),
	}

	o.transition(sessionID, StateAggregating, StateCompleted, len(criteria))
	if err := o.storeResult(ctx, sessionID, result); err != nil {
		return nil, err
	}
	return result, nil
}

// CategoryRequest names one checklist category and its items
type CategoryRequest struct {
	Category string
	Items    []evaluation.ChecklistItem
}

// RunChecklist evaluates each category (one evaluator call per category),
// aggregates counts, and generates recommendations from the aggregate.
func (o *Orchestrator) RunChecklist(ctx context.Context, sessionID string, categories []CategoryRequest) (*evaluation.Result, error) {
	session, err := o.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	o.transition(sessionID, StateCreated, StateEvaluating, len(categories))

	perCategory := make([][]evaluation.ChecklistItemResult, len(categories))
	sem := semaphore.NewWeighted(o.maxInFlight)
	done := make(chan struct{})

	for i, req := range categories {
		i, req := i, req
		if err := sem.Acquire(ctx, 1); err != nil {
			perCategory[i] = cancelledCategory(req)
			continue
		}
		go func() {
			defer sem.Release(1)
			perCategory[i] = o.evaluator.EvaluateCategory(ctx, session.Record, req.Category, req.Items)
		}()
	}
	go func() {
		_ = sem.Acquire(context.Background(), o.maxInFlight)
		close(done)
	}()
	<-done

	o.transition(sessionID, StateEvaluating, StateAggregating, len(categories))

	// Flatten preserving request order; aggregation itself is commutative
	items := make([]evaluation.ChecklistItemResult, 0)
	for _, results := range perCategory {
		items = append(items, results...)
	}
	checklist := aggregate.BuildChecklistResult(items, o.policy)

	o.transition(sessionID, StateAggregating, StateRecommending, len(categories))
	checklist.Recommendations = o.recommender.Generate(ctx, checklist)

	result := &evaluation.Result{
		Kind:        evaluation.KindChecklist,
		Checklist:   checklist,
		CompletedAt: time.Now(),
	}

	o.transition(sessionID, StateRecommending, StateCompleted, len(categories))
	if err := o.storeResult(ctx, sessionID, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (o *Orchestrator) storeResult(ctx context.Context, sessionID string, result *evaluation.Result) error {
	return o.sessions.Update(ctx, sessionID, func(s *store.Session) error {
		s.Result = result
		return nil
	})
}

func (o *Orchestrator) transition(sessionID string, from, to State, n int) {
	o.logger.Debug("pipeline", "State transition", map[string]interface{}{
		"session": sessionID,
		"from":    string(from),
		"to":      string(to),
		"items":   n,
	})
}

func cancelledCriterion(criterion evaluation.Criterion) evaluation.CriterionResult {
	return evaluation.CriterionResult{
		Criterion: criterion,
		Status:    evaluation.StatusNeedsMoreInfo,
		Reasoning: "Evaluation cancelled before this criterion was judged",
	}
}

func cancelledCategory(req CategoryRequest) []evaluation.ChecklistItemResult {
	results := make([]evaluation.ChecklistItemResult, 0, len(req.Items))
	for _, it := range req.Items {
		results = append(results, evaluation.ChecklistItemResult{
			Item:      it.Name,
			Category:  req.Category,
			Status:    evaluation.ChecklistMissing,
			Reasoning: "Evaluation cancelled before this category was judged",
		})
	}
	return results
}
