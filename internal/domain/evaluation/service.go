package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"portal/internal/domain/auth"
	"portal/internal/pkg/events"
)

const defaultType = "desempenho"

const EventConcluded = "evaluation.concluded"

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*auth.User, error)
}

type Service struct {
	repo      Repository
	users     UserReader
	publisher events.Publisher
}

func NewService(repo Repository, users UserReader, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{repo: repo, users: users, publisher: publisher}
}

// Create opens a pending evaluation of req.EvaluateeID by the actor.
func (s *Service) Create(ctx context.Context, actor auth.Actor, req CreateRequest) (*Evaluation, error) {
	period := strings.TrimSpace(req.Period)
	if period == "" {
		return nil, fmt.Errorf("%w: periodo is required", ErrValidation)
	}

	evaluator, err := s.lookupActor(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	evaluatee, err := s.users.GetByID(ctx, req.EvaluateeID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: avaliadoId does not exist", ErrValidation)
		}
		return nil, err
	}

	evalType := strings.TrimSpace(req.Type)
	if evalType == "" {
		evalType = defaultType
	}
	criteria := make([]Criterion, 0, len(req.Criteria))
	for _, name := range req.Criteria {
		criteria = append(criteria, Criterion{Name: strings.TrimSpace(name)})
	}

	e := &Evaluation{
		EvaluatorID:     evaluator.ID,
		EvaluatorName:   evaluator.Name,
		EvaluateeID:     evaluatee.ID,
		EvaluateeName:   evaluatee.Name,
		EvaluateeSector: evaluatee.Sector,
		Period:          period,
		Type:            evalType,
		Criteria:        criteria,
		Status:          StatusPending,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Create(ctx, e); err != nil {
			return err
		}
		return tx.AppendLog(ctx, &Log{
			EvaluationID:  e.ID,
			Action:        ActionCreated,
			ActorID:       evaluator.ID,
			ActorName:     evaluator.Name,
			EvaluateeID:   evaluatee.ID,
			EvaluateeName: evaluatee.Name,
			Description:   fmt.Sprintf("%s criou a avaliação %s de %s", evaluator.Name, period, evaluatee.Name),
		})
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Submit scores a pending evaluation, concludes it and appends the audit
// entry in one transaction. It can only happen once.
func (s *Service) Submit(ctx context.Context, actor auth.Actor, id int64, req SubmitRequest) (*Evaluation, error) {
	if len(req.Criteria) == 0 {
		return nil, fmt.Errorf("%w: at least one criterion is required", ErrValidation)
	}
	scores := make([]float64, 0, len(req.Criteria))
	for _, c := range req.Criteria {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("%w: criterion name is required", ErrValidation)
		}
		if c.Score < MinScore || c.Score > MaxScore {
			return nil, fmt.Errorf("%w: score of %q must be between %d and %d", ErrValidation, c.Name, MinScore, MaxScore)
		}
		scores = append(scores, c.Score)
	}
	final := MeanScore(scores)

	actorUser, err := s.lookupActor(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	var out *Evaluation
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		e, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if e.Status == StatusConcluded {
			return ErrAlreadyConcluded
		}
		if e.EvaluatorID != actor.UserID && !actor.IsAdmin() {
			return ErrForbidden
		}

		raw, err := json.Marshal(req.Criteria)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		fields := map[string]any{
			"criteria":     string(raw),
			"final_score":  final,
			"concluded_at": now,
			"updated_at":   now,
		}
		if req.Comments != nil {
			fields["comments"] = *req.Comments
		}
		if err := tx.Conclude(ctx, id, fields); err != nil {
			return err
		}

		if err := tx.AppendLog(ctx, &Log{
			EvaluationID:  e.ID,
			Action:        ActionConcluded,
			ActorID:       actorUser.ID,
			ActorName:     actorUser.Name,
			EvaluateeID:   e.EvaluateeID,
			EvaluateeName: e.EvaluateeName,
			FinalScore:    &final,
			Description: fmt.Sprintf("%s concluiu a avaliação %s de %s com nota final %.2f",
				actorUser.Name, e.Period, e.EvaluateeName, final),
		}); err != nil {
			return err
		}

		out, err = tx.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, out)
	return out, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, id int64) (*Evaluation, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, e) {
		return nil, ErrForbidden
	}
	return e, nil
}

// List returns evaluations newest first. Employees only see the ones they
// take part in.
func (s *Service) List(ctx context.Context, actor auth.Actor, f Filter) ([]Evaluation, error) {
	if !privileged(actor) {
		f.ParticipantID = actor.UserID
	}
	return s.repo.List(ctx, f)
}

// Delete removes a pending evaluation. Concluded ones are permanent.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e.EvaluatorID != actor.UserID && !actor.IsAdmin() {
		return ErrForbidden
	}
	if e.Status == StatusConcluded {
		return ErrAlreadyConcluded
	}
	return s.repo.DeletePending(ctx, id)
}

func (s *Service) Logs(ctx context.Context, actor auth.Actor, f LogFilter) ([]Log, error) {
	if !privileged(actor) {
		if f.EvaluationID > 0 {
			if _, err := s.Get(ctx, actor, f.EvaluationID); err != nil {
				return nil, err
			}
		} else {
			f.EvaluateeID = actor.UserID
		}
	}
	return s.repo.Logs(ctx, f)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	avg, err := s.repo.AverageScore(ctx)
	if err != nil {
		return nil, err
	}
	bySector, err := s.repo.AverageBySector(ctx)
	if err != nil {
		return nil, err
	}
	for i := range bySector {
		bySector[i].Average = round2(bySector[i].Average)
	}

	return &Stats{
		Total:     counts[StatusPending] + counts[StatusConcluded],
		Pending:   counts[StatusPending],
		Concluded: counts[StatusConcluded],
		Average:   round2(avg),
		BySector:  bySector,
	}, nil
}

// lookupActor loads the caller's profile. A token for a removed user is refused.
func (s *Service) lookupActor(ctx context.Context, id int64) (*auth.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, auth.ErrUserNotFound) {
		return nil, ErrForbidden
	}
	return u, err
}

func (s *Service) publish(ctx context.Context, e *Evaluation) {
	ev, err := events.New(EventConcluded, fmt.Sprintf("avaliacao:%d", e.EvaluateeID), e)
	if err == nil {
		err = s.publisher.Publish(ctx, ev)
	}
	if err != nil {
		log.Printf("evaluation_event_publish_failed id=%d err=%v", e.ID, err)
	}
}

func privileged(a auth.Actor) bool {
	return a.Role == auth.RoleAdmin || a.Role == auth.RoleManager
}

func canView(a auth.Actor, e *Evaluation) bool {
	return privileged(a) || e.EvaluatorID == a.UserID || e.EvaluateeID == a.UserID
}
