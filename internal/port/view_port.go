package port

import (
	"html/template"

	"github.com/nikolayk812/storefront/internal/domain"
)

type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageInfo    MessageKind = "info"
	MessageWarning MessageKind = "warning"
)

// Surface is the rendering target of one session.
type Surface interface {
	ReplaceRoot(content template.HTML)
	ShowOverlay(content template.HTML)
	CloseOverlay()
	SetChromeVisible(visible bool)
	// HideBanner dismisses the promotion banner for the rest of the session.
	HideBanner()
	SetCartCount(n int)
	ShowMessage(text string, kind MessageKind)
	ScrollTop()
}

type History interface {
	PushState(page domain.Page, path string) error
	// SetFragment is the fallback when PushState is unsupported.
	SetFragment(fragment string)
}

type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}
