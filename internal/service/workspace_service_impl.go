package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/scopecurve/internal/codec"
	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/alexanderramin/scopecurve/internal/db"
	"github.com/alexanderramin/scopecurve/internal/domain"
	"github.com/alexanderramin/scopecurve/internal/progress"
	"github.com/alexanderramin/scopecurve/internal/repository"
	"github.com/alexanderramin/scopecurve/internal/section"
)

// Store keys within a session.
const (
	KeyModel      = "model"
	KeySectionIDs = "section_ids"
	KeyPrompt     = "prompt"
)

var errNegative = errors.New("must not be negative")

// Option configures a service.
type Option func(*options)

type options struct {
	now      func() time.Time
	logger   *slog.Logger
	observer UseCaseObserver
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets where best-effort failures are reported.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithObserver sets the use-case observer.
func WithObserver(obs UseCaseObserver) Option {
	return func(o *options) { o.observer = obs }
}

func buildOptions(opts []Option) options {
	o := options{
		now:      time.Now,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer: NoopUseCaseObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.observer == nil {
		o.observer = NoopUseCaseObserver{}
	}
	return o
}

type workspaceService struct {
	kv      repository.KVRepo
	uow     db.UnitOfWork
	session string
	options
}

func NewWorkspaceService(kv repository.KVRepo, uow db.UnitOfWork, session string, opts ...Option) WorkspaceService {
	return &workspaceService{kv: kv, uow: uow, session: session, options: buildOptions(opts)}
}

func (s *workspaceService) today() time.Time {
	return dates.Truncate(s.now())
}

func (s *workspaceService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Session:   s.session,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

// read loads the session's model. A missing or unreadable document yields
// a blank model; only storage errors are returned.
func (s *workspaceService) read(ctx context.Context) (*domain.Model, error) {
	entry, err := s.kv.Get(ctx, s.session, KeyModel)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NewModel(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading workspace: %w", err)
	}

	format, ferr := codec.ParseFormat(entry.Format)
	if ferr != nil {
		format = codec.Detect([]byte(entry.Value))
	}
	p, err := codec.Decode([]byte(entry.Value), format)
	if err != nil {
		s.logger.WarnContext(ctx, "stored workspace unreadable, starting blank",
			"session", s.session, "error", err.Error())
		return domain.NewModel(), nil
	}
	m := codec.Merge(nil, p, domain.LoadOverwrite)

	if ids, err := s.kv.Get(ctx, s.session, KeySectionIDs); err == nil {
		var reserved []string
		if err := json.Unmarshal([]byte(ids.Value), &reserved); err == nil {
			for _, id := range reserved {
				m.SectionIDs.Register(id)
			}
		}
	}
	return m, nil
}

// finalize runs after every change: rehydrate, recompute, then persist.
// Persisting is best-effort; a failure is logged and the in-memory result
// is still returned.
func (s *workspaceService) finalize(ctx context.Context, m *domain.Model) *Workspace {
	m.Rehydrate()
	d := progress.Recompute(m, s.today())
	m.DaysRelativeToPlan = d.DaysRelative
	if err := s.persist(ctx, m); err != nil {
		s.logger.WarnContext(ctx, "persisting workspace failed",
			"session", s.session, "error", err.Error())
	}
	return &Workspace{Model: m, Derived: d}
}

func (s *workspaceService) persist(ctx context.Context, m *domain.Model) error {
	doc, err := codec.EncodeCSV(m, s.today())
	if err != nil {
		return err
	}
	ids, err := json.Marshal(m.SectionIDs.IDs())
	if err != nil {
		return err
	}
	now := s.now()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteKVRepo(tx)
		if err := repo.Put(ctx, &repository.Entry{
			Session: s.session, Key: KeyModel, Value: string(doc), Format: string(codec.FormatCSV), UpdatedAt: now,
		}); err != nil {
			return err
		}
		return repo.Put(ctx, &repository.Entry{
			Session: s.session, Key: KeySectionIDs, Value: string(ids), Format: "json", UpdatedAt: now,
		})
	})
}

// mutate applies fn to a fresh copy of the stored model. When fn fails the
// stored model is untouched.
func (s *workspaceService) mutate(ctx context.Context, name string, fields map[string]any, fn func(m *domain.Model) error) (ws *Workspace, err error) {
	startedAt := time.Now().UTC()
	defer func() { s.observe(ctx, name, startedAt, fields, err) }()

	m, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	if err = fn(m); err != nil {
		return nil, err
	}
	return s.finalize(ctx, m), nil
}

func (s *workspaceService) Current(ctx context.Context) (*Workspace, error) {
	m, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	m.Rehydrate()
	d := progress.Recompute(m, s.today())
	m.DaysRelativeToPlan = d.DaysRelative
	return &Workspace{Model: m, Derived: d}, nil
}

func (s *workspaceService) Load(ctx context.Context, data []byte, format codec.Format, mode domain.LoadMode) (res *LoadResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"mode": string(mode), "bytes": len(data)}
	defer func() { s.observe(ctx, "load", startedAt, fields, err) }()

	if format == "" {
		format = codec.Detect(data)
	}
	fields["format"] = string(format)

	p, err := codec.Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", format, err)
	}
	current, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	ws := s.finalize(ctx, codec.Merge(current, p, mode))

	res = &LoadResult{Workspace: ws, Format: format, Mode: mode, Scopes: len(p.Scopes)}
	for _, sec := range codec.AllSections {
		if p.Present[sec] {
			res.Sections = append(res.Sections, sec)
		}
	}
	fields["scopes"] = res.Scopes
	return res, nil
}

func (s *workspaceService) Export(ctx context.Context, format codec.Format) (out []byte, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"format": string(format)}
	defer func() { s.observe(ctx, "export", startedAt, fields, err) }()

	m, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	switch format {
	case codec.FormatCSV:
		out, err = codec.EncodeCSV(m, s.today())
	case codec.FormatJSON:
		out, err = codec.EncodeJSON(m, s.today(), codec.DialectFull)
	case codec.FormatJSONAI:
		out, err = codec.EncodeJSON(m, s.today(), codec.DialectAI)
	case codec.FormatXML:
		out, err = codec.EncodeXML(m, s.today())
	default:
		err = fmt.Errorf("exporting: unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}
	fields["bytes"] = len(out)
	return out, nil
}

func (s *workspaceService) Reset(ctx context.Context) (*Workspace, error) {
	return s.mutate(ctx, "reset", nil, func(m *domain.Model) error {
		*m = *domain.NewModel()
		return nil
	})
}

func (s *workspaceService) SetProject(ctx context.Context, patch ProjectPatch) (*Workspace, error) {
	return s.mutate(ctx, "project-set", nil, func(m *domain.Model) error {
		p := &m.Project
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		patch.Startup.apply(&p.Startup)
		p.Startup = truncPtr(p.Startup)
		if patch.MarkerLabel != nil {
			p.MarkerLabel = *patch.MarkerLabel
		}
		for _, f := range []struct {
			src *bool
			dst *bool
		}{
			{patch.LegendBaseline, &p.Legend.Baseline},
			{patch.LegendPlanned, &p.Legend.Planned},
			{patch.LegendActual, &p.Legend.Actual},
			{patch.LegendVariance, &p.Legend.Variance},
		} {
			if f.src != nil {
				*f.dst = *f.src
			}
		}
		return nil
	})
}

func (s *workspaceService) UpsertScope(ctx context.Context, id string, patch ScopePatch) (*Workspace, string, error) {
	if id == "" {
		id = newScopeID()
	}
	ws, err := s.mutate(ctx, "scope-upsert", map[string]any{"scope_id": id}, func(m *domain.Model) error {
		i := m.ScopeIndex(id)
		if i < 0 {
			m.Scopes = append(m.Scopes, domain.Scope{
				ID:       id,
				Progress: domain.PercentProgress{},
			})
			i = len(m.Scopes) - 1
		}
		return applyScopePatch(&m.Scopes[i], patch)
	})
	if err != nil {
		return nil, "", err
	}
	return ws, id, nil
}

func (s *workspaceService) RemoveScope(ctx context.Context, id string) (*Workspace, error) {
	return s.mutate(ctx, "scope-remove", map[string]any{"scope_id": id}, func(m *domain.Model) error {
		i := m.ScopeIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrScopeNotFound, id)
		}
		m.Scopes = append(m.Scopes[:i], m.Scopes[i+1:]...)
		return nil
	})
}

func (s *workspaceService) SetProgress(ctx context.Context, id string, value *float64) (*Workspace, error) {
	return s.mutate(ctx, "progress-set", map[string]any{"scope_id": id}, func(m *domain.Model) error {
		i := m.ScopeIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrScopeNotFound, id)
		}
		return applyScopePatch(&m.Scopes[i], ScopePatch{Progress: Change[float64]{Set: true, Value: value}})
	})
}

// applyScopePatch edits sc in place. A mode switch without an explicit
// progress value carries the derived percentage across.
func applyScopePatch(sc *domain.Scope, p ScopePatch) error {
	next := sc.Clone()
	if p.Label != nil {
		next.Label = *p.Label
	}
	p.Start.apply(&next.Start)
	p.End.apply(&next.End)
	next.Start, next.End = truncPtr(next.Start), truncPtr(next.End)
	if next.Start != nil && next.End != nil && next.End.Before(*next.Start) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidWindow, dates.Format(*next.Start), dates.Format(*next.End))
	}
	p.Cost.apply(&next.Cost)

	label := domain.UnitsLabel(next.Progress)
	if p.UnitsLabel != nil {
		label = *p.UnitsLabel
	}
	total := domain.TotalUnits(next.Progress)
	value := domain.ProgressValue(next.Progress)
	if value != nil {
		v := *value
		value = &v
	}
	wasUnits := total != nil
	p.TotalUnits.apply(&total)
	p.Progress.apply(&value)

	for name, v := range map[string]*float64{"cost": next.Cost, "total units": total, "progress": value} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s %w", name, errNegative)
		}
	}

	isUnits := total != nil && *total > 0
	if wasUnits != isUnits && !p.Progress.Set {
		pct := domain.PercentOf(next.Progress)
		if isUnits {
			pct = pct * *total / 100
		}
		value = &pct
	}
	next.Progress = domain.NewProgress(label, total, value, value)
	*sc = next
	return nil
}

func (s *workspaceService) SetDailyActual(ctx context.Context, date time.Time, pct float64) (*Workspace, error) {
	key := dates.Format(dates.Truncate(date))
	return s.mutate(ctx, "daily-set", map[string]any{"date": key}, func(m *domain.Model) error {
		m.DailyActuals[key] = domain.ClampPct(pct)
		return nil
	})
}

func (s *workspaceService) ClearDailyActuals(ctx context.Context, date *time.Time) (*Workspace, error) {
	return s.mutate(ctx, "daily-clear", nil, func(m *domain.Model) error {
		if date == nil {
			m.DailyActuals = map[string]float64{}
			return nil
		}
		delete(m.DailyActuals, dates.Format(dates.Truncate(*date)))
		return nil
	})
}

func (s *workspaceService) RecordHistory(ctx context.Context, date time.Time) (*Workspace, float64, error) {
	var total float64
	ws, err := s.mutate(ctx, "history-record", map[string]any{"date": dates.Format(date)}, func(m *domain.Model) error {
		total = progress.RecordHistory(m, date)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return ws, total, nil
}

func (s *workspaceService) ClearHistory(ctx context.Context) (*Workspace, error) {
	return s.mutate(ctx, "history-clear", nil, func(m *domain.Model) error {
		m.History = nil
		return nil
	})
}

func (s *workspaceService) ClearTimeSeries(ctx context.Context) (*Workspace, error) {
	return s.mutate(ctx, "timeseries-clear", nil, func(m *domain.Model) error {
		m.ClearTimeSeries()
		return nil
	})
}

func (s *workspaceService) TakeBaseline(ctx context.Context) (*Workspace, error) {
	return s.mutate(ctx, "baseline-take", nil, func(m *domain.Model) error {
		d := progress.Recompute(m, s.today())
		m.Baseline = progress.TakeBaseline(d.Days, d.Planned, s.now().UTC())
		return nil
	})
}

func (s *workspaceService) ClearBaseline(ctx context.Context) (*Workspace, error) {
	return s.mutate(ctx, "baseline-clear", nil, func(m *domain.Model) error {
		m.Baseline = nil
		return nil
	})
}

func (s *workspaceService) AddSection(ctx context.Context, row int) (*Workspace, section.Section, bool, error) {
	var (
		sec     section.Section
		created bool
	)
	ws, err := s.mutate(ctx, "section-add", map[string]any{"row": row}, func(m *domain.Model) error {
		var err error
		sec, created, err = section.Add(m, row)
		return err
	})
	if err != nil {
		return nil, section.Section{}, false, err
	}
	return ws, sec, created, nil
}

func (s *workspaceService) RemoveSection(ctx context.Context, row int) (*Workspace, error) {
	return s.mutate(ctx, "section-remove", map[string]any{"row": row}, func(m *domain.Model) error {
		return section.Remove(m, row)
	})
}

func (s *workspaceService) RenameSection(ctx context.Context, row int, name string) (*Workspace, error) {
	return s.mutate(ctx, "section-rename", map[string]any{"row": row}, func(m *domain.Model) error {
		return section.Rename(m, row, name)
	})
}

func (s *workspaceService) MoveRow(ctx context.Context, from, to int) (*Workspace, error) {
	return s.mutate(ctx, "section-move-row", map[string]any{"from": from, "to": to}, func(m *domain.Model) error {
		return section.MoveRow(m, from, to)
	})
}

func (s *workspaceService) MoveHeader(ctx context.Context, row, to int) (*Workspace, error) {
	return s.mutate(ctx, "section-move-header", map[string]any{"row": row, "to": to}, func(m *domain.Model) error {
		return section.MoveHeader(m, row, to)
	})
}

// PruneIdle drops sessions of every terminal not touched within retention.
func PruneIdle(ctx context.Context, kv repository.KVRepo, retention time.Duration, now time.Time) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	return kv.PruneBefore(ctx, now.Add(-retention))
}
