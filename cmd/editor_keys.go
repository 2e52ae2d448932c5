package cmd

import "github.com/charmbracelet/bubbles/key"

// editorKeyMap düzenleyici ekranının kısayollarıdır.
type editorKeyMap struct {
	Play       key.Binding
	SeekBack   key.Binding
	SeekFwd    key.Binding
	StepBack   key.Binding
	StepFwd    key.Binding
	Home       key.Binding
	End        key.Binding
	Cut        key.Binding
	Select     key.Binding
	Delete     key.Binding
	Clear      key.Binding
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	ScrollBack key.Binding
	ScrollFwd  key.Binding
	Save       key.Binding
	Copy       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func newEditorKeyMap() editorKeyMap {
	return editorKeyMap{
		Play:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "oynat/duraklat")),
		SeekBack:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "5 sn geri")),
		SeekFwd:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "5 sn ileri")),
		StepBack:   key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("shift+←", "1 sn geri")),
		StepFwd:    key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("shift+→", "1 sn ileri")),
		Home:       key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home", "başa git")),
		End:        key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end", "sona git")),
		Cut:        key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "kesim ekle")),
		Select:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "segment seç")),
		Delete:     key.NewBinding(key.WithKeys("d", "delete", "backspace"), key.WithHelp("d", "seçimi sil")),
		Clear:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "seçimi kaldır")),
		ZoomIn:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "yakınlaş")),
		ZoomOut:    key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "uzaklaş")),
		ScrollBack: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "pencereyi geri kaydır")),
		ScrollFwd:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "pencereyi ileri kaydır")),
		Save:       key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "projeyi kaydet")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "segmentleri kopyala")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "yardım")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "çık")),
	}
}

func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.SeekBack, k.SeekFwd, k.Cut, k.Select, k.Delete, k.Save, k.Help, k.Quit}
}

func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.SeekBack, k.SeekFwd, k.StepBack, k.StepFwd, k.Home, k.End},
		{k.Cut, k.Select, k.Delete, k.Clear},
		{k.ZoomIn, k.ZoomOut, k.ScrollBack, k.ScrollFwd},
		{k.Save, k.Copy, k.Help, k.Quit},
	}
}
