package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestNewResolvesLocale(t *testing.T) {
	tests := []struct {
		locale string
		want   language.Tag
	}{
		{"", language.English},
		{"en", language.English},
		{"en-GB", language.English},
		{"de", language.German},
		{"de-AT", language.German},
		{"fr", language.English},
		{"not a locale!", language.English},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			if got := New(tt.locale).Tag(); got != tt.want {
				t.Errorf("New(%q).Tag() = %v, want %v", tt.locale, got, tt.want)
			}
		})
	}
}

func TestStaticMessages(t *testing.T) {
	en := New("en")
	if got := en.T(KeySubmit, nil); got != "Submit" {
		t.Errorf("submit = %q", got)
	}
	if got := en.T(KeyPasswordRequired, nil); got != "Password Required" {
		t.Errorf("passwordRequired = %q", got)
	}

	de := New("de")
	if got := de.T(KeyCancel, nil); got != "Abbrechen" {
		t.Errorf("cancel (de) = %q", got)
	}
}

func TestIncorrectPasswordPlurals(t *testing.T) {
	tests := []struct {
		locale    string
		remaining int
		want      string
	}{
		{"en", 2, "Incorrect password. 2 attempts remaining."},
		{"en", 1, "Incorrect password. 1 attempt remaining."},
		{"de", 2, "Falsches Passwort. Noch 2 Versuche."},
		{"de", 1, "Falsches Passwort. Noch 1 Versuch."},
	}
	for _, tt := range tests {
		tr := New(tt.locale)
		got := tr.T(KeyIncorrectPassword, map[string]any{ParamRemainingAttempts: tt.remaining})
		if got != tt.want {
			t.Errorf("%s/%d: got %q, want %q", tt.locale, tt.remaining, got, tt.want)
		}
	}
}

func TestNamedParams(t *testing.T) {
	tr := New("en")
	got := tr.T(KeyDocumentUnlocked, map[string]any{ParamTitle: "report.pdf"})
	if got != "report.pdf is unlocked." {
		t.Errorf("got %q", got)
	}
}

func TestUnknownKeyReturnsKey(t *testing.T) {
	tr := New("de")
	if got := tr.T("message.doesNotExist", map[string]any{"x": 1}); got != "message.doesNotExist" {
		t.Errorf("got %q", got)
	}
}

func TestCatalogsCoverSameKeys(t *testing.T) {
	for key := range english {
		if _, ok := german[key]; !ok {
			t.Errorf("german catalog missing %s", key)
		}
	}
	for key := range german {
		if _, ok := english[key]; !ok {
			t.Errorf("english catalog missing %s", key)
		}
	}
}
