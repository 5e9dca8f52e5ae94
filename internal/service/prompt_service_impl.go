package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/alexanderramin/scopecurve/internal/historyprompt"
	"github.com/alexanderramin/scopecurve/internal/repository"
)

type promptService struct {
	kv        repository.KVRepo
	workspace WorkspaceService
	session   string
	options
}

func NewPromptService(kv repository.KVRepo, workspace WorkspaceService, session string, opts ...Option) PromptService {
	return &promptService{kv: kv, workspace: workspace, session: session, options: buildOptions(opts)}
}

// state reads the machine state. Missing or unreadable state starts idle.
func (s *promptService) state(ctx context.Context) historyprompt.State {
	entry, err := s.kv.Get(ctx, s.session, KeyPrompt)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.WarnContext(ctx, "reading prompt state failed", "session", s.session, "error", err.Error())
		}
		return historyprompt.State{Phase: historyprompt.Idle}
	}
	var st historyprompt.State
	if err := json.Unmarshal([]byte(entry.Value), &st); err != nil {
		s.logger.WarnContext(ctx, "prompt state unreadable, resetting", "session", s.session, "error", err.Error())
		return historyprompt.State{Phase: historyprompt.Idle}
	}
	return st
}

// save stores the machine state; failures are logged, never returned.
func (s *promptService) save(ctx context.Context, st historyprompt.State) {
	data, err := json.Marshal(st)
	if err == nil {
		err = s.kv.Put(ctx, &repository.Entry{
			Session: s.session, Key: KeyPrompt, Value: string(data), Format: "json", UpdatedAt: s.now(),
		})
	}
	if err != nil {
		s.logger.WarnContext(ctx, "persisting prompt state failed", "session", s.session, "error", err.Error())
	}
}

func (s *promptService) eventContext(ctx context.Context) (historyprompt.Context, error) {
	ws, err := s.workspace.Current(ctx)
	if err != nil {
		return historyprompt.Context{}, err
	}
	return historyprompt.Context{
		Now:      s.now(),
		Session:  s.session,
		Identity: historyprompt.ProjectIdentity(ws.Model.Project.Name),
	}, nil
}

func (s *promptService) Arm(ctx context.Context) error {
	st, _ := historyprompt.Transition(s.state(ctx), historyprompt.Arm{})
	s.save(ctx, st)
	return nil
}

func (s *promptService) Observe(ctx context.Context, total float64) (show bool, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "prompt-observe",
			Session:   s.session,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"total": total, "show": show},
		})
	}()

	c, err := s.eventContext(ctx)
	if err != nil {
		return false, err
	}
	st, eff := historyprompt.Transition(s.state(ctx), historyprompt.Observe{Context: c, Total: total})
	s.save(ctx, st)
	return eff == historyprompt.EffectShowPrompt, nil
}

func (s *promptService) Select(ctx context.Context, date time.Time) (float64, error) {
	c, err := s.eventContext(ctx)
	if err != nil {
		return 0, err
	}
	date = dates.Truncate(date)
	_, total, err := s.workspace.RecordHistory(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("recording history for %s: %w", dates.Format(date), err)
	}
	st, eff := historyprompt.Transition(s.state(ctx), historyprompt.Select{Context: c, Date: dates.Format(date)})
	if eff == historyprompt.EffectPersist {
		s.save(ctx, st)
	}
	return total, nil
}

func (s *promptService) Dismiss(ctx context.Context) error {
	c, err := s.eventContext(ctx)
	if err != nil {
		return err
	}
	st, eff := historyprompt.Transition(s.state(ctx), historyprompt.Dismiss{Context: c})
	if eff == historyprompt.EffectPersist {
		s.save(ctx, st)
	}
	return nil
}
