// Package posttype declares the menu item content types and keeps the registry of declared types.
package posttype

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/message"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/menusettings"
)

// Supported features.
const (
	FeatureTitle     = "title"
	FeatureEditor    = "editor"
	FeatureExcerpt   = "excerpt"
	FeatureThumbnail = "thumbnail"
	FeatureComments  = "comments"
	FeatureRevisions = "revisions"
)

// ItemsSuffix is appended to the menu base to form the item URL prefix.
const ItemsSuffix = "/items"

// CapRead is the generic read capability every role holds.
const CapRead = "read"

// ErrInvalidDeclaration is returned when a declaration misses required values.
var ErrInvalidDeclaration = errors.New("invalid content type declaration")

var validate = validator.New() //nolint:gochecknoglobals

// Options are the per plugin inputs of a declaration.
type Options struct {
	// Name is the content type, e.g. "restaurant_item".
	Name string
	// CapabilityPrefix names the coarse capabilities, e.g. "restaurant".
	CapabilityPrefix string
	// MenuBase is the URL segment of the archive.
	MenuBase string
	// MenuName is the label of the admin menu entry.
	MenuName string
}

// Capabilities maps content type actions to capability names.
type Capabilities struct {
	// meta capabilities, never granted to roles
	EditPost   string `validate:"required"`
	ReadPost   string `validate:"required"`
	DeletePost string `validate:"required"`

	CreatePosts string `validate:"required"`

	EditPosts            string `validate:"required"`
	EditOthersPosts      string `validate:"required"`
	EditPrivatePosts     string `validate:"required"`
	EditPublishedPosts   string `validate:"required"`
	PublishPosts         string `validate:"required"`
	Read                 string `validate:"required"`
	ReadPrivatePosts     string `validate:"required"`
	DeletePosts          string `validate:"required"`
	DeletePrivatePosts   string `validate:"required"`
	DeletePublishedPosts string `validate:"required"`
	DeleteOthersPosts    string `validate:"required"`
}

// Primitive returns the distinct capabilities that may be granted to roles.
func (c Capabilities) Primitive() []string {
	all := []string{
		c.CreatePosts,
		c.EditPosts, c.EditOthersPosts, c.EditPrivatePosts, c.EditPublishedPosts,
		c.PublishPosts, c.Read, c.ReadPrivatePosts,
		c.DeletePosts, c.DeletePrivatePosts, c.DeletePublishedPosts, c.DeleteOthersPosts,
	}

	out := make([]string, 0, len(all))
	for _, name := range all {
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}

	return out
}

// Rewrite describes the URL layout of single items.
type Rewrite struct {
	Slug      string `validate:"required"`
	WithFront bool
	Pages     bool
	Feeds     bool
}

// Labels are the translated strings shown for the content type.
type Labels struct {
	Name            string
	SingularName    string
	MenuName        string
	NameAdminBar    string
	AllItems        string
	AddNew          string
	AddNewItem      string
	EditItem        string
	NewItem         string
	ViewItem        string
	SearchItems     string
	NotFound        string
	NotFoundInTrash string
	EnterTitleHere  string
	// ArchiveTitle comes from the plugin settings.
	ArchiveTitle string
}

// ContentType is a declared content type. It is rebuilt on every init cycle.
type ContentType struct {
	Name        string `validate:"required,max=20"`
	Description string

	Public            bool
	PubliclyQueryable bool
	ExcludeFromSearch bool
	ShowInNavMenus    bool
	ShowUI            bool
	ShowInMenu        bool
	ShowInAdminBar    bool
	CanExport         bool
	DeleteWithUser    bool
	Hierarchical      bool
	MapMetaCap        bool

	HasArchive     string `validate:"required"`
	QueryVar       string
	CapabilityType string

	Capabilities Capabilities
	Rewrite      Rewrite
	Features     []string
	Labels       Labels
}

// Supports reports whether the type has the feature.
func (ct *ContentType) Supports(feature string) bool {
	return slices.Contains(ct.Features, feature)
}

// ArchivePath returns the URL path of the archive page.
func (ct *ContentType) ArchivePath() string {
	return "/" + ct.HasArchive
}

// ItemPath returns the URL path of a single item.
func (ct *ContentType) ItemPath(slug string) string {
	return "/" + ct.Rewrite.Slug + "/" + slug
}

// CapabilitiesFor returns the capability map of a content type.
func CapabilitiesFor(name, prefix string) Capabilities {
	manage := "manage_" + prefix
	edit := "edit_" + prefix + "_items"

	return Capabilities{
		EditPost:   "edit_" + name,
		ReadPost:   "read_" + name,
		DeletePost: "delete_" + name,

		CreatePosts: "create_" + prefix + "_items",

		EditPosts:            edit,
		EditOthersPosts:      manage,
		EditPrivatePosts:     edit,
		EditPublishedPosts:   edit,
		PublishPosts:         manage,
		Read:                 CapRead,
		ReadPrivatePosts:     CapRead,
		DeletePosts:          manage,
		DeletePrivatePosts:   manage,
		DeletePublishedPosts: manage,
		DeleteOthersPosts:    manage,
	}
}

// Declare builds the content type from the plugin options and its current settings.
// Empty settings fields give empty labels, never an error.
func Declare(opts Options, settings menusettings.Record, p *message.Printer) (*ContentType, error) {
	ct := &ContentType{
		Name:        opts.Name,
		Description: settings.ArchiveDescription,

		Public:            true,
		PubliclyQueryable: true,
		ExcludeFromSearch: false,
		ShowInNavMenus:    false,
		ShowUI:            true,
		ShowInMenu:        true,
		ShowInAdminBar:    true,
		CanExport:         true,
		DeleteWithUser:    false,
		Hierarchical:      false,
		MapMetaCap:        true,

		HasArchive:     opts.MenuBase,
		QueryVar:       opts.Name,
		CapabilityType: opts.Name,

		Capabilities: CapabilitiesFor(opts.Name, opts.CapabilityPrefix),
		Rewrite: Rewrite{
			Slug:      opts.MenuBase + ItemsSuffix,
			WithFront: false,
			Pages:     true,
			Feeds:     true,
		},
		Features: []string{
			FeatureTitle,
			FeatureEditor,
			FeatureExcerpt,
			FeatureThumbnail,
			FeatureComments,
			FeatureRevisions,
		},
		Labels: Labels{
			Name:            p.Sprintf("Menu Items"),
			SingularName:    p.Sprintf("Menu Item"),
			MenuName:        p.Sprintf(opts.MenuName),
			NameAdminBar:    p.Sprintf("%s Menu Item", opts.MenuName),
			AllItems:        p.Sprintf("Menu Items"),
			AddNew:          p.Sprintf("Add Menu Item"),
			AddNewItem:      p.Sprintf("Add New Menu Item"),
			EditItem:        p.Sprintf("Edit Menu Item"),
			NewItem:         p.Sprintf("New Menu Item"),
			ViewItem:        p.Sprintf("View Menu Item"),
			SearchItems:     p.Sprintf("Search Menu Items"),
			NotFound:        p.Sprintf("No menu items found"),
			NotFoundInTrash: p.Sprintf("No menu items found in trash"),
			EnterTitleHere:  p.Sprintf("Enter name"),
			ArchiveTitle:    settings.ArchiveTitle,
		},
	}

	if err := validate.Struct(ct); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidDeclaration, opts.Name, err)
	}

	return ct, nil
}
