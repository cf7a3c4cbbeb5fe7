package internal

import (
	"context"
	"fmt"
)

// Section is one of the mutually exclusive top-level views.
type Section string

const (
	SectionWelcome   Section = "welcome"
	SectionDashboard Section = "dashboard"
	SectionStudy     Section = "study"
	SectionChat      Section = "chat"
	SectionProgress  Section = "progress"
)

// Sections returns the declared sections in navigation order.
func Sections() []Section {
	return []Section{
		SectionWelcome,
		SectionDashboard,
		SectionStudy,
		SectionChat,
		SectionProgress,
	}
}

// Valid reports whether s is a declared section.
func (s Section) Valid() bool {
	switch s {
	case SectionWelcome, SectionDashboard, SectionStudy, SectionChat, SectionProgress:
		return true
	}
	return false
}

// RequiresData reports whether activating s triggers a backend fetch.
func (s Section) RequiresData() bool {
	return s == SectionDashboard || s == SectionProgress
}

// Loader fetches and renders the data behind a section.
type Loader func(ctx context.Context) error

// Router tracks which section is visible. Holding the active section
// in a single field makes the exactly-one-active invariant structural:
// activating a section implicitly deactivates every other one.
//
// The router does not gate on authentication; protected sections are
// hidden from navigation when logged out, which is an affordance-level
// guard rather than an enforced one.
type Router struct {
	active  Section
	loaders map[Section]Loader
}

// NewRouter creates a router showing the welcome section.
func NewRouter() *Router {
	return &Router{
		active:  SectionWelcome,
		loaders: make(map[Section]Loader),
	}
}

// SetLoader registers the fetch-and-render step run when section is
// activated.
func (r *Router) SetLoader(section Section, loader Loader) {
	r.loaders[section] = loader
}

// Active returns the currently visible section.
func (r *Router) Active() Section {
	return r.active
}

// Activate makes section the visible one and runs its loader if it
// has one. A loader failure leaves the section active; the data area
// simply shows whatever the loader managed to produce.
func (r *Router) Activate(ctx context.Context, section Section) error {
	if !section.Valid() {
		return fmt.Errorf("unknown section: %s", section)
	}

	r.active = section

	if loader, ok := r.loaders[section]; ok {
		if err := loader(ctx); err != nil {
			return fmt.Errorf("failed to load %s data: %w", section, err)
		}
	}
	return nil
}

// Reload re-runs the loader of the active section, if any. Used after
// state changes that invalidate displayed data, such as ending a
// study session.
func (r *Router) Reload(ctx context.Context) error {
	if loader, ok := r.loaders[r.active]; ok {
		return loader(ctx)
	}
	return nil
}
