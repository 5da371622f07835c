package convert

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Mode selects the input container.
type Mode string

const (
	ModeCAFF Mode = "caff"
	ModeCIFF Mode = "ciff"
)

func (m Mode) Ext() string {
	return "." + string(m)
}

func (m Mode) Valid() bool {
	return m == ModeCAFF || m == ModeCIFF
}

// ParseMode accepts "caff", "ciff" and their legacy flag spellings "-caff"
// and "-ciff".
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimLeft(strings.TrimSpace(s), "-")))
	if !m.Valid() {
		return "", fmt.Errorf("unknown input type %q (want caff or ciff)", s)
	}
	return m, nil
}

// ModeFromPath infers the mode from the file extension.
func ModeFromPath(path string) (Mode, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ModeCAFF.Ext():
		return ModeCAFF, nil
	case ModeCIFF.Ext():
		return ModeCIFF, nil
	default:
		return "", fmt.Errorf("%s: unsupported extension %q (want .caff or .ciff)", path, ext)
	}
}

// CheckPath verifies that path carries the extension of mode.
func CheckPath(mode Mode, path string) error {
	got, err := ModeFromPath(path)
	if err != nil {
		return err
	}
	if got != mode {
		return fmt.Errorf("%s: extension does not match -%s", path, mode)
	}
	return nil
}

// OutputPath replaces the input extension with ".jpg".
func OutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".jpg"
}
