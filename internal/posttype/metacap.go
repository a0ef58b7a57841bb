package posttype

import (
	"golang.org/x/text/message"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/db/models"
)

// MapMetaCap resolves a capability check on a single item into the primitive
// capabilities the user needs. Capabilities other than the item meta
// capabilities are returned as they are.
func MapMetaCap(ct *ContentType, capability string, userID uint64, item *models.MenuItem) []string {
	caps := ct.Capabilities

	if item == nil {
		return []string{capability}
	}

	own := item.AuthorID != 0 && item.AuthorID == userID

	switch capability {
	case caps.EditPost:
		return statusCaps(own, item.Status,
			caps.EditPosts, caps.EditOthersPosts, caps.EditPublishedPosts, caps.EditPrivatePosts)
	case caps.DeletePost:
		return statusCaps(own, item.Status,
			caps.DeletePosts, caps.DeleteOthersPosts, caps.DeletePublishedPosts, caps.DeletePrivatePosts)
	case caps.ReadPost:
		if item.Status != models.StatusPrivate || own {
			return []string{caps.Read}
		}

		return []string{caps.ReadPrivatePosts}
	}

	return []string{capability}
}

func statusCaps(own bool, status, base, others, published, private string) []string {
	if own {
		if status == models.StatusPublish {
			return []string{published}
		}

		return []string{base}
	}

	switch status {
	case models.StatusPublish:
		return []string{others, published}
	case models.StatusPrivate:
		return []string{others, private}
	}

	return []string{others}
}

// Update message indexes.
const (
	MessageUpdated      = 1
	MessageUpdatedPlain = 4
	MessagePublished    = 6
	MessageSaved        = 7
	MessageDraftUpdated = 10
)

// UpdatedMessages returns the translated notices shown after an item is saved.
// permalink is the public URL of the item.
func UpdatedMessages(p *message.Printer, permalink string) map[int]string {
	return map[int]string{
		MessageUpdated:      p.Sprintf("Menu item updated. <a href=\"%s\">View menu item</a>", permalink),
		MessageUpdatedPlain: p.Sprintf("Menu item updated."),
		MessagePublished:    p.Sprintf("Menu item published. <a href=\"%s\">View menu item</a>", permalink),
		MessageSaved:        p.Sprintf("Menu item saved."),
		MessageDraftUpdated: p.Sprintf("Menu item draft updated. <a target=\"_blank\" href=\"%s\">Preview menu item</a>", permalink+"?preview=true"),
	}
}
