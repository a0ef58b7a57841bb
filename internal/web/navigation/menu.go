package navigation

import (
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/plugin"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/posttype"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler"
)

// LocalsAdminMenu is the fiber.Locals key holding the sidebar entries.
const LocalsAdminMenu = "AdminMenu"

// MenuEntry is one link of the admin sidebar.
type MenuEntry struct {
	Title    string
	URL      string
	Section  string
	Page     string
	Children []MenuEntry
}

// AdminMenu builds the sidebar for a user holding the capabilities can accepts.
// Every content type shown in the menu gets an entry with its item pages and the
// settings pages nested under it.
func AdminMenu(types []*posttype.ContentType, pages []plugin.SettingsPage, can func(capability string) bool) []MenuEntry {
	out := make([]MenuEntry, 0, len(types))

	for _, ct := range types {
		if !ct.ShowUI || !ct.ShowInMenu {
			continue
		}

		itemsURL := handler.ItemsPath + "/" + ct.Name
		entry := MenuEntry{
			Title:   ct.Labels.MenuName,
			URL:     itemsURL,
			Section: "items",
			Page:    ct.Name,
		}

		if can(ct.Capabilities.EditPosts) {
			entry.Children = append(entry.Children, MenuEntry{
				Title: ct.Labels.AllItems, URL: itemsURL, Section: "items", Page: ct.Name,
			})
		}

		if can(ct.Capabilities.CreatePosts) {
			entry.Children = append(entry.Children, MenuEntry{
				Title: ct.Labels.AddNew, URL: itemsURL + "/new", Section: "items", Page: ct.Name,
			})
		}

		for _, page := range pages {
			if page.PostType == ct.Name && can(page.Capability) {
				entry.Children = append(entry.Children, MenuEntry{
					Title:   page.MenuTitle,
					URL:     handler.SettingsPath + "/" + page.Slug,
					Section: "settings",
					Page:    page.Slug,
				})
			}
		}

		if len(entry.Children) == 0 {
			continue
		}

		out = append(out, entry)
	}

	return out
}
