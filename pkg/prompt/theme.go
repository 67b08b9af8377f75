package prompt

import "github.com/muesli/termenv"

// Theme is a named prompt palette. Styling goes through termenv so colors
// degrade gracefully on dumb terminals.
type Theme struct {
	Name        string
	question    string
	answer      string
	pointer     string
	selected    string
	instruction string
	profile     termenv.Profile
}

// Built-in palettes, mirroring the designer's default/dark/minimal sets.
func themeByName(name string) Theme {
	switch name {
	case "dark":
		return Theme{
			Name:        "dark",
			question:    "#00ffff",
			answer:      "#00ff00",
			pointer:     "#ff00ff",
			selected:    "#ffff00",
			instruction: "#888888",
			profile:     termenv.ColorProfile(),
		}
	case "minimal":
		return Theme{
			Name:    "minimal",
			profile: termenv.ColorProfile(),
		}
	default:
		return Theme{
			Name:     "default",
			question: "#2196f3",
			answer:   "#ff9d00",
			pointer:  "#673ab7",
			selected: "#cc5454",
			profile:  termenv.ColorProfile(),
		}
	}
}

// NewTheme resolves a theme by name, falling back to the default palette.
func NewTheme(name string) Theme {
	return themeByName(name)
}

func (t Theme) colored(s, color string) string {
	styled := termenv.String(s)
	if color != "" {
		styled = styled.Foreground(t.profile.Color(color))
	}
	return styled.String()
}

// Question styles a prompt message.
func (t Theme) Question(s string) string {
	return termenv.String(t.colored(s, t.question)).Bold().String()
}

// Answer styles an echoed answer.
func (t Theme) Answer(s string) string {
	return termenv.String(t.colored(s, t.answer)).Bold().String()
}

// Pointer styles the selection marker of choice lists.
func (t Theme) Pointer(s string) string {
	return termenv.String(t.colored(s, t.pointer)).Bold().String()
}

// Selected styles the chosen entries of a multiselect.
func (t Theme) Selected(s string) string {
	return t.colored(s, t.selected)
}

// Instruction styles help text shown above a prompt.
func (t Theme) Instruction(s string) string {
	return termenv.String(t.colored(s, t.instruction)).Italic().String()
}

// Error styles a validation failure message.
func (t Theme) Error(s string) string {
	return termenv.String(s).Foreground(t.profile.Color("#ff5555")).Bold().String()
}
