package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle   key.Binding
	Reset    key.Binding
	Pomodoro key.Binding
	Short    key.Binding
	Long     key.Binding
	NextView key.Binding
	Up       key.Binding
	Down     key.Binding
	Add      key.Binding
	Complete key.Binding
	Remove   key.Binding
	Find     key.Binding
	Quit     key.Binding
	view     view
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "start/pause")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Pomodoro: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "pomodoro")),
		Short:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "short break")),
		Long:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "long break")),
		NextView: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "timer/tasks/stats")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Complete: key.NewBinding(key.WithKeys("enter", "x"), key.WithHelp("enter", "done")),
		Remove:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
		Find:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap for the active view.
func (k keyMap) ShortHelp() []key.Binding {
	switch k.view {
	case viewTasks:
		return []key.Binding{k.Add, k.Complete, k.Remove, k.Find, k.Up, k.Down, k.NextView, k.Quit}
	case viewStats:
		return []key.Binding{k.NextView, k.Quit}
	default:
		return []key.Binding{k.Toggle, k.Reset, k.Pomodoro, k.Short, k.Long, k.NextView, k.Quit}
	}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
