package handler

import (
	"sync"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/plugin"
)

// Pages collects the settings pages plugins add on admin_menu.
type Pages struct {
	mu     sync.RWMutex
	bySlug map[string]plugin.SettingsPage
	order  []string
}

var _ plugin.AdminPages = (*Pages)(nil)

// NewPages returns an empty page list.
func NewPages() *Pages {
	return &Pages{bySlug: map[string]plugin.SettingsPage{}}
}

// AddSettingsPage adds page. A page with the same slug is replaced.
func (p *Pages) AddSettingsPage(page plugin.SettingsPage) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.bySlug[page.Slug]; !ok {
		p.order = append(p.order, page.Slug)
	}

	p.bySlug[page.Slug] = page
}

// Get returns the page with slug.
func (p *Pages) Get(slug string) (plugin.SettingsPage, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	page, ok := p.bySlug[slug]

	return page, ok
}

// All returns the pages in the order they were added.
func (p *Pages) All() []plugin.SettingsPage {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]plugin.SettingsPage, 0, len(p.order))
	for _, slug := range p.order {
		out = append(out, p.bySlug[slug])
	}

	return out
}

// ForPostType returns the settings page nested under postType.
func (p *Pages) ForPostType(postType string) (plugin.SettingsPage, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, slug := range p.order {
		if page := p.bySlug[slug]; page.PostType == postType {
			return page, true
		}
	}

	return plugin.SettingsPage{}, false
}
