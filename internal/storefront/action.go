package storefront

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nikolayk812/storefront/internal/domain"
)

type ActionKind string

const (
	ActionView        ActionKind = "view"
	ActionAddToCart   ActionKind = "addcart"
	ActionAddFeatured ActionKind = "add-featured"
	ActionWishlist    ActionKind = "wishlist"
	ActionModalStep   ActionKind = "modal-step"
	ActionModalAdd    ActionKind = "modal-add"
	ActionClose       ActionKind = "close"
	ActionQuantity    ActionKind = "qty"
	ActionRemove      ActionKind = "remove"
	ActionUpdate      ActionKind = "update"
	ActionCheckout    ActionKind = "checkout"
	ActionNavigate    ActionKind = "navigate"
	ActionCloseBanner ActionKind = "close-banner"
)

var ErrUnknownAction = errors.New("unknown action")

// Action is one delegated interaction. ProductID is set for catalog
// actions, Index for cart line actions.
type Action struct {
	Kind      ActionKind
	ProductID int
	Index     int
	Delta     int
	Quantity  int
	Confirmed bool
	Page      domain.Page
}

// ParseTarget decodes the value carried by an action control, of the form
// kind[:key[:arg]]. The key is a product id, a line index or a page; the
// arg is a signed delta, or "yes" for a confirmed removal.
func ParseTarget(target string) (Action, error) {
	parts := strings.SplitN(strings.TrimSpace(target), ":", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	kind, key, arg := ActionKind(parts[0]), parts[1], parts[2]

	a := Action{Kind: kind, Quantity: 1}

	switch kind {
	case ActionClose, ActionCloseBanner, ActionUpdate, ActionCheckout:
		return a, nil

	case ActionNavigate:
		a.Page = domain.ParsePage(key)
		return a, nil

	case ActionView, ActionAddToCart, ActionAddFeatured, ActionWishlist, ActionModalAdd:
		id, err := parseInt("id", key)
		if err != nil {
			return Action{}, err
		}
		a.ProductID = id
		return a, nil

	case ActionModalStep:
		id, err := parseInt("id", key)
		if err != nil {
			return Action{}, err
		}
		delta, err := parseInt("delta", arg)
		if err != nil {
			return Action{}, err
		}
		a.ProductID, a.Delta = id, delta
		return a, nil

	case ActionQuantity:
		index, err := parseInt("index", key)
		if err != nil {
			return Action{}, err
		}
		delta, err := parseInt("delta", arg)
		if err != nil {
			return Action{}, err
		}
		a.Index, a.Delta = index, delta
		return a, nil

	case ActionRemove:
		index, err := parseInt("index", key)
		if err != nil {
			return Action{}, err
		}
		a.Index = index
		a.Confirmed = arg == "yes"
		return a, nil
	}

	return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, kind)
}

func parseInt(field, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("action %s %q: %w", field, s, err)
	}
	return n, nil
}
