package common

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines shared key bindings across all views.
type KeyMap struct {
	Quit         key.Binding
	ForceQuit    key.Binding
	Refresh      key.Binding
	New          key.Binding // n: new entry
	Up           key.Binding
	Down         key.Binding
	Delete       key.Binding // d: delete own post
	Confirm      key.Binding // y: confirm a pending delete
	CycleAuthor  key.Binding // a: all → Tai Rong → Maeko → all
	PrevDay      key.Binding // [: move the timeline cursor up
	NextDay      key.Binding // ]: move the timeline cursor down
	ToggleDay    key.Binding // enter: select/deselect the highlighted day
	ClearDay     key.Binding // esc: drop the day filter
	OpenImage    key.Binding // o: open the post image in a browser
	SignOut      key.Binding // L: sign out
	ToggleHints  key.Binding // ?: show every binding
	Submit       key.Binding // ctrl+s: publish or sign in
	OpenEditor   key.Binding // ctrl+e: write the body in $EDITOR
	NextField    key.Binding
	PrevField    key.Binding
	Back         key.Binding // esc: leave a form
	SwitchAuthor key.Binding // left/right: choose who you are on sign-up
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		New: key.NewBinding(
			key.WithKeys("n", "p"),
			key.WithHelp("n", "new entry"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		CycleAuthor: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "author"),
		),
		PrevDay: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next day"),
		),
		ToggleDay: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select day"),
		),
		ClearDay: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "all days"),
		),
		OpenImage: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open image"),
		),
		SignOut: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "sign out"),
		),
		ToggleHints: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "all keys"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
		OpenEditor: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "$EDITOR"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		SwitchAuthor: key.NewBinding(
			key.WithKeys("left", "right"),
			key.WithHelp("←/→", "who are you"),
		),
	}
}
