package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/scopecurve/internal/domain"
	"github.com/alexanderramin/scopecurve/internal/preset"
)

type presetService struct {
	catalog   *preset.Catalog
	workspace WorkspaceService
	observer  UseCaseObserver
}

func NewPresetService(catalog *preset.Catalog, workspace WorkspaceService, observers ...UseCaseObserver) PresetService {
	return &presetService{
		catalog:   catalog,
		workspace: workspace,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *presetService) List(ctx context.Context) ([]preset.Preset, error) {
	presets, err := s.catalog.List()
	if err != nil {
		return nil, fmt.Errorf("listing presets: %w", err)
	}
	return presets, nil
}

// Load replaces the workspace with the selected preset.
func (s *presetService) Load(ctx context.Context, selector string) (res *LoadResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"preset": selector}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "preset-load",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	var p *preset.Preset
	p, err = s.catalog.Resolve(selector)
	if err != nil {
		return nil, err
	}
	fields["preset_id"] = p.ID

	var data []byte
	data, err = s.catalog.Read(p)
	if err != nil {
		return nil, err
	}
	res, err = s.workspace.Load(ctx, data, "", domain.LoadOverwrite)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", p.ID, err)
	}
	return res, nil
}
