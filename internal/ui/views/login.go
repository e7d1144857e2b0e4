package views

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskdash/internal/forms"
	"github.com/tgienger/taskdash/internal/ui/keys"
	"github.com/tgienger/taskdash/internal/ui/styles"
)

// LoginView asks for email and password
type LoginView struct {
	email    textinput.Model
	password textinput.Model
	focusIdx int // 0=email, 1=password, 2=submit
	loading  bool
	err      string
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
}

func NewLoginView(s *styles.Styles, k keys.KeyMap) *LoginView {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	return &LoginView{email: email, password: password, styles: s, keys: k}
}

// Reset clears the form, keeping the email when keepEmail is set
func (v *LoginView) Reset(keepEmail bool) {
	if !keepEmail {
		v.email.Reset()
	}
	v.password.Reset()
	v.loading = false
	v.focusIdx = 0
	v.updateFocus()
}

// Error returns the message shown under the form
func (v *LoginView) Error() string { return v.err }

// Loading reports whether a login is in flight
func (v *LoginView) Loading() bool { return v.loading }

func (v *LoginView) Init() tea.Cmd { return textinput.Blink }

func (v *LoginView) submit() tea.Cmd {
	if v.loading {
		return nil
	}
	creds := forms.Credentials{Email: v.email.Value(), Password: v.password.Value()}
	if err := creds.Validate(); err != nil {
		v.err = err.Error()
		return nil
	}
	v.loading = true
	v.err = ""
	return send(LoginRequest{Credentials: creds})
}

func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case LoginResult:
		v.loading = false
		if msg.Err != nil {
			// the cause is logged by the caller, never shown
			v.err = forms.ErrInvalidCredentials.Error()
			v.password.Reset()
			v.focusIdx = 1
			v.updateFocus()
			return v, nil
		}
		v.err = ""
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Tab), key.Matches(msg, v.keys.Down) && v.focusIdx == 2:
			v.focusIdx = (v.focusIdx + 1) % 3
			v.updateFocus()
			return v, nil
		case key.Matches(msg, v.keys.ShiftTab):
			v.focusIdx = (v.focusIdx + 2) % 3
			v.updateFocus()
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if v.focusIdx == 0 {
				v.focusIdx = 1
				v.updateFocus()
				return v, nil
			}
			return v, v.submit()
		}

		var cmd tea.Cmd
		switch v.focusIdx {
		case 0:
			v.email, cmd = v.email.Update(msg)
		case 1:
			v.password, cmd = v.password.Update(msg)
		}
		return v, cmd
	}
	return v, nil
}

func (v *LoginView) updateFocus() {
	v.email.Blur()
	v.password.Blur()
	switch v.focusIdx {
	case 0:
		v.email.Focus()
	case 1:
		v.password.Focus()
	}
}

func (v *LoginView) View() string {
	s := v.styles
	inputWidth := clamp(styles.ContentWidth(v.width)-10, 20, 40)

	emailStyle, passStyle, btnStyle := s.Input, s.Input, s.Button
	switch v.focusIdx {
	case 0:
		emailStyle = s.InputFocused
	case 1:
		passStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	button := " Log in "
	if v.loading {
		button = " Logging in... "
	}

	rows := []string{
		s.Title.Render("Log in"),
		"",
		"Email:",
		emailStyle.Width(inputWidth).Render(v.email.View()),
		"",
		"Password:",
		passStyle.Width(inputWidth).Render(v.password.View()),
		"",
		btnStyle.Render(button),
	}
	if v.err != "" {
		rows = append(rows, "", s.StatusError.Render(v.err))
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • Enter: log in • Ctrl+C: quit"))

	return s.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
