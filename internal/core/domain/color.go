package domain

// DefaultColor is used for identities without an explicit entry.
const DefaultColor = "bg-pink-600"

// Palette maps an identity (display name or email) to a color token.
type Palette map[string]string

// DefaultPalette is the household palette shipped with the app.
func DefaultPalette() Palette {
	return Palette{
		"alice@example.com": "bg-blue-600",
		"bob@example.com":   "bg-green-600",
		"carol@example.com": "bg-purple-600",
	}
}

// ColorFor is total: unknown identities get DefaultColor.
func (p Palette) ColorFor(identity string) string {
	if c, ok := p[identity]; ok && c != "" {
		return c
	}
	return DefaultColor
}
