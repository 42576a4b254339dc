// Package i18n resolves user-facing strings for the viewer.
//
// Messages are keyed by dotted identifiers ("message.enterPassword") and
// stored in an x/text catalog. Named parameters are mapped onto the
// positional arguments each message expects.
package i18n

import (
	"log/slog"

	"golang.org/x/text/message/catalog"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys.
const (
	KeyAttemptsExceeded  = "message.encryptedAttemptsExceeded"
	KeyUserCancelled     = "message.encryptedUserCancelled"
	KeyPasswordRequired  = "message.passwordRequired"
	KeyEnterPassword     = "message.enterPassword"
	KeyPasswordLabel     = "message.passwordLabel"
	KeyIncorrectPassword = "message.incorrectPassword"
	KeyLoadingDocument   = "message.loadingDocument"
	KeyNoDocument        = "message.noDocument"
	KeyDocumentUnlocked  = "message.documentUnlocked"
	KeyDocumentLocked    = "message.documentLocked"
	KeySelectDocument    = "message.selectDocument"
	KeyReopenHint        = "message.reopenHint"
	KeySubmit            = "action.submit"
	KeyCancel            = "action.cancel"
	KeyClose             = "action.close"
)

// ParamRemainingAttempts is the parameter consumed by KeyIncorrectPassword.
const ParamRemainingAttempts = "remainingAttempts"

// ParamTitle is the parameter consumed by the document status messages.
const ParamTitle = "title"

// params lists, per key, the named parameters in the order the catalog
// message consumes them.
var params = map[string][]string{
	KeyIncorrectPassword: {ParamRemainingAttempts},
	KeyLoadingDocument:   {ParamTitle},
	KeyDocumentUnlocked:  {ParamTitle},
	KeyDocumentLocked:    {ParamTitle},
}

var english = map[string]string{
	KeyAttemptsExceeded: "You have exceeded the maximum number of password attempts. The document cannot be opened.",
	KeyUserCancelled:    "Password entry was cancelled. The document cannot be displayed.",
	KeyPasswordRequired: "Password Required",
	KeyEnterPassword:    "This document is password protected. Enter the password to open it.",
	KeyPasswordLabel:    "Password",
	KeyLoadingDocument:  "Loading %s…",
	KeyNoDocument:       "No document open.",
	KeyDocumentUnlocked: "%s is unlocked.",
	KeyDocumentLocked:   "%s is locked.",
	KeySelectDocument:   "Open Document",
	KeyReopenHint:       "Press r to enter the password again.",
	KeySubmit:           "Submit",
	KeyCancel:           "Cancel",
	KeyClose:            "Close",
}

var german = map[string]string{
	KeyAttemptsExceeded: "Die maximale Anzahl an Passwortversuchen wurde überschritten. Das Dokument kann nicht geöffnet werden.",
	KeyUserCancelled:    "Die Passworteingabe wurde abgebrochen. Das Dokument kann nicht angezeigt werden.",
	KeyPasswordRequired: "Passwort erforderlich",
	KeyEnterPassword:    "Dieses Dokument ist passwortgeschützt. Geben Sie das Passwort ein, um es zu öffnen.",
	KeyPasswordLabel:    "Passwort",
	KeyLoadingDocument:  "%s wird geladen…",
	KeyNoDocument:       "Kein Dokument geöffnet.",
	KeyDocumentUnlocked: "%s ist entsperrt.",
	KeyDocumentLocked:   "%s ist gesperrt.",
	KeySelectDocument:   "Dokument öffnen",
	KeyReopenHint:       "Drücken Sie r, um das Passwort erneut einzugeben.",
	KeySubmit:           "Senden",
	KeyCancel:           "Abbrechen",
	KeyClose:            "Schließen",
}

var (
	cat       *catalog.Builder
	supported []language.Tag
	matcher   language.Matcher
)

func init() {
	cat = catalog.NewBuilder(catalog.Fallback(language.English))
	supported = []language.Tag{language.English, language.German}

	for tag, msgs := range map[language.Tag]map[string]string{
		language.English: english,
		language.German:  german,
	} {
		for key, msg := range msgs {
			if err := cat.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}

	mustSet(language.English, KeyIncorrectPassword, plural.Selectf(1, "%d",
		"one", "Incorrect password. %d attempt remaining.",
		"other", "Incorrect password. %d attempts remaining.",
	))
	mustSet(language.German, KeyIncorrectPassword, plural.Selectf(1, "%d",
		"one", "Falsches Passwort. Noch %d Versuch.",
		"other", "Falsches Passwort. Noch %d Versuche.",
	))

	matcher = language.NewMatcher(supported)
}

func mustSet(tag language.Tag, key string, msg catalog.Message) {
	if err := cat.Set(tag, key, msg); err != nil {
		panic(err)
	}
}

// Translator resolves message keys for one locale.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a translator for locale (a BCP 47 tag such as "de" or
// "en-US"). Unsupported or malformed locales fall back to English.
func New(locale string) *Translator {
	tag := language.English
	if locale != "" {
		requested, err := language.Parse(locale)
		if err != nil {
			slog.Debug("i18n: bad locale", "locale", locale, "err", err)
		} else {
			_, idx, conf := matcher.Match(requested)
			if conf != language.No {
				tag = supported[idx]
			}
		}
	}
	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(cat)),
	}
}

// Tag returns the resolved language.
func (t *Translator) Tag() language.Tag {
	return t.tag
}

// T renders the message for key. Unknown keys are returned verbatim so a
// missing translation is visible rather than blank.
func (t *Translator) T(key string, data map[string]any) string {
	if _, ok := english[key]; !ok && key != KeyIncorrectPassword {
		return key
	}
	names := params[key]
	args := make([]any, len(names))
	for i, name := range names {
		args[i] = data[name]
	}
	return t.printer.Sprintf(key, args...)
}

// Supported returns the languages with a catalog.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}
