package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"go.trai.ch/zerr"
)

// ElementInput describes an element to add.
type ElementInput struct {
	Layer         string
	Type          string
	Name          string
	Description   string
	Properties    map[string]any
	Relationships []domain.Relationship
}

// ElementPatch describes an update. Nil fields are left unchanged.
// A nil value in Properties removes the key.
type ElementPatch struct {
	Name          *string
	Description   *string
	Properties    map[string]any
	Relationships []domain.Relationship
}

func (p ElementPatch) state() *domain.ElementState {
	return &domain.ElementState{
		Name:          p.Name,
		Description:   p.Description,
		Properties:    p.Properties,
		Relationships: p.Relationships,
	}
}

// Empty reports whether the patch changes nothing.
func (p ElementPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && len(p.Properties) == 0 && p.Relationships == nil
}

// ElementResult reports where a mutation went.
type ElementResult struct {
	ElementID string
	// ChangesetID is the changeset the change was staged into, empty when applied directly.
	ChangesetID string
	Change      domain.Change
}

// Staged reports whether the mutation was staged rather than applied.
func (r *ElementResult) Staged() bool {
	return r.ChangesetID != ""
}

// AddElement stages the addition into the active changeset, or adds it to the model when none is active.
func (a *App) AddElement(ctx context.Context, in ElementInput) (*ElementResult, error) {
	if in.Layer == "" || in.Type == "" || in.Name == "" {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidElementID, "layer, type and name are required"), "name", in.Name)
	}

	base, err := a.loadBase()
	if err != nil {
		return nil, err
	}
	if !base.HasLayer(in.Layer) {
		return nil, zerr.With(zerr.Wrap(domain.ErrLayerNotFound, "cannot add element"), "layer", in.Layer)
	}

	element := &domain.Element{
		ID:            domain.ElementID(in.Layer, in.Type, in.Name),
		Type:          in.Type,
		Name:          in.Name,
		Description:   in.Description,
		Properties:    in.Properties,
		Relationships: in.Relationships,
	}

	active, err := a.staging.ActiveID(ctx)
	if err != nil {
		return nil, err
	}
	if active != "" {
		change, err := a.staging.StageAdd(ctx, base, active, element)
		if err != nil {
			return nil, err
		}
		a.logger.Info(fmt.Sprintf("staged add of %s in changeset %s", element.ID, active))
		return &ElementResult{ElementID: element.ID, ChangesetID: active, Change: change}, nil
	}

	change := domain.Change{
		Type:      domain.ChangeAdd,
		ElementID: element.ID,
		LayerName: in.Layer,
		After:     element.State(),
	}
	if err := a.applyDirect(base, &change); err != nil {
		return nil, err
	}
	return &ElementResult{ElementID: element.ID, Change: change}, nil
}

// UpdateElement stages the update into the active changeset, or updates the model when none is active.
func (a *App) UpdateElement(ctx context.Context, elementID string, patch ElementPatch) (*ElementResult, error) {
	layerName, err := domain.LayerOf(elementID)
	if err != nil {
		return nil, err
	}

	base, err := a.loadBase()
	if err != nil {
		return nil, err
	}

	active, err := a.staging.ActiveID(ctx)
	if err != nil {
		return nil, err
	}
	if active != "" {
		change, err := a.staging.StageUpdate(ctx, base, active, elementID, patch.state())
		if err != nil {
			return nil, err
		}
		a.logger.Info(fmt.Sprintf("staged update of %s in changeset %s", elementID, active))
		return &ElementResult{ElementID: elementID, ChangesetID: active, Change: change}, nil
	}

	current, _, ok := base.FindElement(elementID)
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrElementNotFound, "cannot update element"), "element_id", elementID)
	}
	change := domain.Change{
		Type:      domain.ChangeUpdate,
		ElementID: elementID,
		LayerName: layerName,
		Before:    current.State(),
		After:     patch.state(),
	}
	if err := a.applyDirect(base, &change); err != nil {
		return nil, err
	}
	return &ElementResult{ElementID: elementID, Change: change}, nil
}

// DeleteElement stages the deletion into the active changeset, or removes it from the model when none is active.
func (a *App) DeleteElement(ctx context.Context, elementID string) (*ElementResult, error) {
	layerName, err := domain.LayerOf(elementID)
	if err != nil {
		return nil, err
	}

	base, err := a.loadBase()
	if err != nil {
		return nil, err
	}

	active, err := a.staging.ActiveID(ctx)
	if err != nil {
		return nil, err
	}
	if active != "" {
		change, err := a.staging.StageDelete(ctx, base, active, elementID)
		if err != nil {
			return nil, err
		}
		a.logger.Info(fmt.Sprintf("staged delete of %s in changeset %s", elementID, active))
		return &ElementResult{ElementID: elementID, ChangesetID: active, Change: change}, nil
	}

	current, _, ok := base.FindElement(elementID)
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrElementNotFound, "cannot delete element"), "element_id", elementID)
	}
	change := domain.Change{
		Type:      domain.ChangeDelete,
		ElementID: elementID,
		LayerName: layerName,
		Before:    current.State(),
	}
	if err := a.applyDirect(base, &change); err != nil {
		return nil, err
	}
	return &ElementResult{ElementID: elementID, Change: change}, nil
}

// applyDirect applies a change to a copy of the base model, writes the touched layer
// and only then installs the copy as the base model.
func (a *App) applyDirect(base *domain.Model, change *domain.Change) error {
	working := base.Clone()
	layer, err := working.Layer(change.LayerName)
	if err != nil {
		return err
	}
	change.Timestamp = a.now().UTC()
	if err := change.ApplyTo(layer); err != nil {
		return err
	}
	if err := a.models.SaveDirtyLayers(working); err != nil {
		return err
	}

	base.ReplaceWith(working)
	a.staging.InvalidateBase()
	a.logger.Info(fmt.Sprintf("%s %s applied to the model", change.Type, change.ElementID))
	return nil
}

// ViewOptions selects which view of the model a read command uses.
type ViewOptions struct {
	// Base reads the base model even when a changeset is active.
	Base bool
	// Changeset overrides the active changeset.
	Changeset string
}

// ElementView is a set of elements read from the base model or a changeset projection.
type ElementView struct {
	// ChangesetID is the projected changeset, empty for the base model.
	ChangesetID string
	Elements    []*domain.Element
}

// ListOptions filters ListElements.
type ListOptions struct {
	ViewOptions
	Layer string
	Type  string
}

// ListElements returns the elements of the selected view, in layer order and sorted by id within a layer.
func (a *App) ListElements(ctx context.Context, opts ListOptions) (*ElementView, error) {
	return a.collect(ctx, opts.ViewOptions, opts.Layer, func(e *domain.Element) bool {
		return opts.Type == "" || e.Type == opts.Type
	})
}

// SearchElements returns the elements whose id, name or description contains query, ignoring case.
func (a *App) SearchElements(ctx context.Context, query string, opts ListOptions) (*ElementView, error) {
	needle := strings.ToLower(query)
	return a.collect(ctx, opts.ViewOptions, opts.Layer, func(e *domain.Element) bool {
		if opts.Type != "" && e.Type != opts.Type {
			return false
		}
		return strings.Contains(strings.ToLower(e.ID), needle) ||
			strings.Contains(strings.ToLower(e.Name), needle) ||
			strings.Contains(strings.ToLower(e.Description), needle)
	})
}

// ShowElement returns one element from the selected view.
func (a *App) ShowElement(ctx context.Context, elementID string, opts ViewOptions) (*ElementView, error) {
	layerName, err := domain.LayerOf(elementID)
	if err != nil {
		return nil, err
	}
	view, err := a.collect(ctx, opts, layerName, func(e *domain.Element) bool {
		return e.ID == elementID
	})
	if err != nil {
		return nil, err
	}
	if len(view.Elements) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrElementNotFound, "cannot show element"), "element_id", elementID)
	}
	return view, nil
}

func (a *App) collect(ctx context.Context, opts ViewOptions, layerFilter string, keep func(*domain.Element) bool) (*ElementView, error) {
	base, err := a.loadBase()
	if err != nil {
		return nil, err
	}

	layers := base.LayerNames()
	if layerFilter != "" {
		if !base.HasLayer(layerFilter) {
			return nil, zerr.With(zerr.Wrap(domain.ErrLayerNotFound, "cannot read layer"), "layer", layerFilter)
		}
		layers = []string{layerFilter}
	}

	view := &ElementView{}
	if !opts.Base {
		view.ChangesetID = opts.Changeset
		if view.ChangesetID == "" {
			if view.ChangesetID, err = a.staging.ActiveID(ctx); err != nil {
				return nil, err
			}
		}
	}

	for _, name := range layers {
		var layer *domain.Layer
		if view.ChangesetID != "" {
			layer, err = a.staging.PreviewLayer(ctx, base, view.ChangesetID, name)
		} else {
			layer, err = base.Layer(name)
		}
		if err != nil {
			return nil, err
		}
		for _, e := range layer.Elements() {
			if keep(e) {
				view.Elements = append(view.Elements, e)
			}
		}
	}
	return view, nil
}
