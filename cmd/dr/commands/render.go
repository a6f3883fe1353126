package commands

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/tinkermonkey/documentation-robotics-sub001/internal/app"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/engine/staging"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/ui/output"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/ui/style"
	"gopkg.in/yaml.v3"
)

const timeLayout = "2006-01-02 15:04"

// printer writes styled lines to a command's output.
type printer struct {
	w      io.Writer
	styles style.Styles
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w, styles: style.New(output.NewRenderer(w))}
}

func (p *printer) line(s string) {
	_, _ = fmt.Fprintln(p.w, s)
}

func (p *printer) linef(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) elementResult(verb string, r *app.ElementResult) {
	icon := p.styles.Change(string(r.Change.Type)).Render(style.ChangeIcon(string(r.Change.Type)))
	if r.Staged() {
		p.linef("%s staged %s of %s in %s (change #%d)", icon, verb, r.ElementID,
			p.styles.Accent.Render(r.ChangesetID), r.Change.SequenceNumber)
		return
	}
	p.linef("%s %s %s", icon, pastTense(verb), r.ElementID)
}

func pastTense(verb string) string {
	switch verb {
	case "add":
		return "added"
	case "update":
		return "updated"
	case "delete":
		return "deleted"
	default:
		return verb
	}
}

// elements renders a view grouped by layer, in the order the view lists them.
func (p *printer) elements(view *app.ElementView) {
	p.viewHeader(view)
	if len(view.Elements) == 0 {
		p.line(p.styles.Muted.Render("no elements"))
		return
	}

	width := 0
	for _, e := range view.Elements {
		width = max(width, len(e.ID))
	}

	current := ""
	for _, e := range view.Elements {
		layer, _ := domain.LayerOf(e.ID)
		if layer != current {
			current = layer
			p.line(p.styles.Heading.Render(layer))
		}
		p.linef("  %-*s  %s  %s", width, e.ID, p.styles.Muted.Render(e.Type), e.Name)
	}
}

func (p *printer) viewHeader(view *app.ElementView) {
	if view.ChangesetID != "" {
		p.line(p.styles.Muted.Render("view: changeset " + view.ChangesetID))
	}
}

// element renders one element in full.
func (p *printer) element(view *app.ElementView) {
	p.viewHeader(view)
	e := view.Elements[0]
	p.line(p.styles.Heading.Render(e.ID))
	p.linef("  type: %s", e.Type)
	p.linef("  name: %s", e.Name)
	if e.Description != "" {
		p.linef("  description: %s", e.Description)
	}
	if len(e.Properties) > 0 {
		p.line("  properties:")
		for _, k := range e.PropertyKeys() {
			p.linef("    %s: %s", k, scalar(e.Properties[k]))
		}
	}
	if len(e.Relationships) > 0 {
		p.line("  relationships:")
		for _, r := range e.Relationships {
			p.linef("    %s %s %s", r.Type, style.Arrow, r.Target)
		}
	}
}

// scalar renders a property value the way it would appear in a layer file.
func scalar(v any) string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSpace(string(out))
}

func (p *printer) changesets(entries []app.ChangesetEntry) {
	if len(entries) == 0 {
		p.line(p.styles.Muted.Render("no changesets"))
		return
	}
	for _, entry := range entries {
		cs := entry.Changeset
		marker := style.Circle
		if entry.Active {
			marker = p.styles.Accent.Render(style.Dot)
		}
		p.linef("%s %s  %s  %d changes  %s", marker, cs.ID,
			p.styles.Status(string(cs.Status)).Render(string(cs.Status)),
			cs.ChangeCount(), p.styles.Muted.Render(cs.Created.Local().Format(timeLayout)))
	}
}

func (p *printer) changesetDetail(cs *domain.Changeset) {
	p.line(p.styles.Heading.Render(cs.Name))
	p.linef("  id: %s", cs.ID)
	p.linef("  status: %s", p.styles.Status(string(cs.Status)).Render(string(cs.Status)))
	if cs.Description != "" {
		p.linef("  description: %s", cs.Description)
	}
	p.linef("  created: %s", cs.Created.Local().Format(timeLayout))
	p.linef("  base: %s", shortDigest(cs.BaseSnapshot.Digest))
	if cs.ChangeCount() == 0 {
		p.line(p.styles.Muted.Render("  no staged changes"))
		return
	}
	p.line("  changes:")
	for _, change := range cs.Ordered() {
		kind := string(change.Type)
		p.linef("    #%d %s %s %s", change.SequenceNumber,
			p.styles.Change(kind).Render(style.ChangeIcon(kind)), kind, change.ElementID)
	}
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}

func (p *printer) status(r *app.StatusReport) {
	cs := r.Changeset
	active := ""
	if r.Active {
		active = " " + p.styles.Accent.Render("(active)")
	}
	p.linef("%s%s  %s", p.styles.Heading.Render(cs.ID), active,
		p.styles.Status(string(cs.Status)).Render(string(cs.Status)))
	p.linef("  changes: %d", cs.ChangeCount())

	byType := cs.ChangesByType()
	for _, t := range []domain.ChangeType{domain.ChangeAdd, domain.ChangeUpdate, domain.ChangeDelete} {
		if n := byType[t]; n > 0 {
			p.linef("    %s %s: %d", p.styles.Change(string(t)).Render(style.ChangeIcon(string(t))), t, n)
		}
	}
	byLayer := cs.ChangesByLayer()
	for _, layer := range slices.Sorted(maps.Keys(byLayer)) {
		p.linef("    %s: %d", layer, byLayer[layer])
	}

	if cs.IsDraft() {
		p.linef("  elements: %d base, %d projected", r.BaseElements, r.ProjectedElements)
		if r.Drift.HasDrift {
			p.linef("  %s base drifted: %s", p.styles.Caution.Render(style.Warning), strings.Join(r.Drift.LayerNames(), ", "))
		} else {
			p.linef("  %s base unchanged", p.styles.Success.Render(style.Check))
		}
	}

	p.linef("  cache: %d hits, %d misses, %d invalidations (%.0f%% hit ratio)",
		r.Metrics.Hits, r.Metrics.Misses, r.Metrics.Invalidations, r.Metrics.HitRatio()*100)
	for _, layer := range slices.Sorted(maps.Keys(r.Cache.ByLayer)) {
		l := r.Cache.ByLayer[layer]
		p.line(p.styles.Muted.Render(fmt.Sprintf("    %s: %d hits, %d misses", layer, l.Hits, l.Misses)))
	}
}

func (p *printer) diff(id string, diffs []staging.ElementDiff) {
	p.line(p.styles.Muted.Render("diff: changeset " + id))
	if len(diffs) == 0 {
		p.line(p.styles.Muted.Render("no net changes"))
		return
	}
	for _, d := range diffs {
		kind := string(d.Kind)
		st := p.styles.Change(kind)
		p.line(st.Render(fmt.Sprintf("%s %s (%s)", style.ChangeIcon(kind), d.ElementID, kind)))
		for _, field := range diffFields(d.Before, d.After) {
			p.line("    " + field)
		}
	}
}

// diffFields lists the fields that differ between two versions of an element.
func diffFields(before, after *domain.Element) []string {
	var b, a domain.Element
	if before != nil {
		b = *before
	}
	if after != nil {
		a = *after
	}

	var out []string
	add := func(name, from, to string) {
		if from == to {
			return
		}
		switch {
		case from == "":
			out = append(out, fmt.Sprintf("%s: %s", name, to))
		case to == "":
			out = append(out, fmt.Sprintf("%s: %s (removed)", name, from))
		default:
			out = append(out, fmt.Sprintf("%s: %s %s %s", name, from, style.Arrow, to))
		}
	}

	add("type", b.Type, a.Type)
	add("name", b.Name, a.Name)
	add("description", b.Description, a.Description)

	keys := make(map[string]struct{})
	for k := range b.Properties {
		keys[k] = struct{}{}
	}
	for k := range a.Properties {
		keys[k] = struct{}{}
	}
	for _, k := range slices.Sorted(maps.Keys(keys)) {
		from, to := "", ""
		if v, ok := b.Properties[k]; ok {
			from = scalar(v)
		}
		if v, ok := a.Properties[k]; ok {
			to = scalar(v)
		}
		add("properties."+k, from, to)
	}

	add("relationships", relationships(b.Relationships), relationships(a.Relationships))
	return out
}

func relationships(rels []domain.Relationship) string {
	parts := make([]string, 0, len(rels))
	for _, r := range rels {
		parts = append(parts, r.Type+":"+r.Target)
	}
	return strings.Join(parts, ", ")
}

func (p *printer) commitResult(verb string, r *staging.CommitResult) {
	p.linef("%s %s %s: %d changes", p.styles.Success.Render(style.Check), verb, r.ChangesetID, r.Committed)
	if len(r.Layers) > 0 {
		p.line(p.styles.Muted.Render("  layers written: " + strings.Join(r.Layers, ", ")))
	}
	if r.DriftWarning {
		p.linef("  %s forced over drift in: %s", p.styles.Caution.Render(style.Warning), strings.Join(r.Drift.LayerNames(), ", "))
	}
}

func (p *printer) watchReport(r app.WatchReport) {
	p.linef("%s %d files changed, %d elements", p.styles.Muted.Render(style.Dot), len(r.Events), r.Elements)
	if r.ChangesetID == "" {
		return
	}
	if r.Drift.HasDrift {
		p.linef("  %s %s drifted: %s", p.styles.Caution.Render(style.Warning), r.ChangesetID, strings.Join(r.Drift.LayerNames(), ", "))
		return
	}
	p.linef("  %s %s in sync", p.styles.Success.Render(style.Check), r.ChangesetID)
}
