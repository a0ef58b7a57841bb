package menusettings

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/text/message"
)

const (
	fieldTitle       = "archive_title"
	fieldDescription = "archive_description"
)

var fieldsTemplate = template.Must(template.New("fields").Parse(`<table class="form-table" role="presentation">
<tr>
<th scope="row"><label for="{{.Option}}-{{.TitleKey}}">{{.TitleLabel}}</label></th>
<td><p><input type="text" class="regular-text" name="{{.Option}}[{{.TitleKey}}]" id="{{.Option}}-{{.TitleKey}}" value="{{.Record.ArchiveTitle}}" /></p></td>
</tr>
<tr>
<th scope="row"><label for="{{.Option}}-{{.DescriptionKey}}">{{.DescriptionLabel}}</label></th>
<td><p><textarea class="large-text" name="{{.Option}}[{{.DescriptionKey}}]" id="{{.Option}}-{{.DescriptionKey}}" rows="4">{{.Record.ArchiveDescription}}</textarea>
<span class="description">{{.Help}}</span></p></td>
</tr>
</table>`))

// FieldName returns the form field name of key inside option, e.g. "restaurant_settings[archive_title]".
func FieldName(option, key string) string {
	return option + "[" + key + "]"
}

// FromForm reads a submitted record using value to look up form fields.
func FromForm(option string, value func(key string) string) Record {
	return Record{
		ArchiveTitle:       value(FieldName(option, fieldTitle)),
		ArchiveDescription: value(FieldName(option, fieldDescription)),
	}
}

// RenderFields renders the title input and the description textarea pre-filled with rec.
// Values are HTML escaped.
func RenderFields(rec Record, option string, p *message.Printer) (template.HTML, error) {
	help := p.Sprintf(
		"Custom description for your %s's menu. You may use <abbr title='Hypertext Markup Language'>HTML</abbr>. Your theme may or may not display this description.",
		strings.TrimSuffix(option, OptionSuffix),
	)

	data := struct {
		Option           string
		TitleKey         string
		DescriptionKey   string
		TitleLabel       string
		DescriptionLabel string
		Help             template.HTML
		Record           Record
	}{
		Option:           option,
		TitleKey:         fieldTitle,
		DescriptionKey:   fieldDescription,
		TitleLabel:       p.Sprintf("Menu Archive Title"),
		DescriptionLabel: p.Sprintf("Menu Archive Description"),
		Help:             template.HTML(help), //nolint:gosec
		Record:           rec,
	}

	var buf bytes.Buffer
	if err := fieldsTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s fields: %w", option, err)
	}

	return template.HTML(buf.String()), nil //nolint:gosec
}
