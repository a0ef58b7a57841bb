package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLoadEmbeddedRestaurant(t *testing.T) {
	d, err := Load("restaurant")
	require.NoError(t, err)

	assert.Equal(t, "restaurant", d.Name())
	assert.Equal(t, []language.Tag{language.MustParse("en-US"), language.MustParse("fr-FR")}, d.Languages())

	fr := d.Printer(language.French)
	assert.Equal(t, "Articles du menu", fr.Sprintf("Menu Items"))
	assert.Equal(t, "Réglages Restaurant", fr.Sprintf("%s Settings", "Restaurant"))

	en := d.Printer(language.AmericanEnglish)
	assert.Equal(t, "Menu Items", en.Sprintf("Menu Items"))

	// untranslated keys print the source string
	assert.Equal(t, "Unknown string", fr.Sprintf("Unknown string"))
}

func TestLoadMissingDomain(t *testing.T) {
	_, err := Load("wpdentist")
	require.ErrorIs(t, err, ErrNoCatalog)
}

func TestFallbackPrintsSource(t *testing.T) {
	d := Fallback("wpdentist")

	p := d.Printer(language.French)
	assert.Equal(t, "Menu Items", p.Sprintf("Menu Items"))
	assert.Equal(t, "WPDentist Settings", p.Sprintf("%s Settings", "WPDentist"))
	assert.Equal(t, language.MustParse(SourceLocale), d.Match(language.German))
}

func TestPrinterFor(t *testing.T) {
	d, err := Load("restaurant")
	require.NoError(t, err)

	assert.Equal(t, "Réglages", d.PrinterFor("fr-CH, fr;q=0.9, en;q=0.8", language.AmericanEnglish).Sprintf("Settings"))
	assert.Equal(t, "Settings", d.PrinterFor("", language.AmericanEnglish).Sprintf("Settings"))
	assert.Equal(t, "Réglages", d.PrinterFor("!!!", language.French).Sprintf("Settings"))
}

func TestLoadFSValidation(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"locale mismatch", "demo/de-DE.yaml", "locale: fr-FR\nmessages:\n  \"a\": \"b\"\n"},
		{"bad yaml", "demo/fr-FR.yaml", "messages: [\n"},
		{"blank key", "demo/fr-FR.yaml", "messages:\n  \" \": \"b\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{tt.file: &fstest.MapFile{Data: []byte(tt.body)}}

			_, err := LoadFS(fsys, "demo")
			require.Error(t, err)
		})
	}
}

func TestLoadFSLocaleFromFileName(t *testing.T) {
	fsys := fstest.MapFS{
		"demo/de-DE.yaml": &fstest.MapFile{Data: []byte("messages:\n  \"Settings\": \"Einstellungen\"\n")},
	}

	d, err := LoadFS(fsys, "demo")
	require.NoError(t, err)
	assert.Equal(t, "Einstellungen", d.Printer(language.German).Sprintf("Settings"))
}
