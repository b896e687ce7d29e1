package tui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/pengelbrecht/twq/internal/item"
)

// resultItem implements list.Item for one routed item.
type resultItem struct {
	it item.Item
}

func (r resultItem) Title() string {
	return kindIcon(r.it.Kind) + " " + r.it.Label
}

func (r resultItem) Description() string {
	if r.it.Detail != "" {
		return r.it.Detail
	}
	switch r.it.Action.Type {
	case item.ActionExecute:
		return r.it.Action.Command.String()
	case item.ActionRequery:
		return "→ " + r.it.Action.Query.String()
	default:
		return ""
	}
}

func (r resultItem) FilterValue() string {
	return r.it.Label
}

// toListItems wraps items for the result list, keeping their order.
func toListItems(items []item.Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = resultItem{it: it}
	}
	return out
}

// newResultList creates the list that shows routed items.
func newResultList() list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(primaryColor).
		BorderForeground(primaryColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(mutedColor).
		BorderForeground(primaryColor)

	l := list.New(nil, delegate, 60, 20)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(true)
	l.DisableQuitKeybindings()
	return l
}
