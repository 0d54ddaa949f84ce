package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps short paths and shortens long absolute ones to the basename.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode accepts "auto", "absolute", "relative" and "basename".
func ParsePathMode(s string) (PathMode, bool) {
	switch s {
	case "", "auto":
		return PathModeAuto, true
	case "absolute", "abs":
		return PathModeAbsolute, true
	case "relative", "rel":
		return PathModeRelative, true
	case "basename", "base":
		return PathModeBasename, true
	}
	return PathModeAuto, false
}

// ShortOpts configures the one-line form.
type ShortOpts struct {
	Max      int  // обрезка вывода, не Bag
	WithPath bool // префикс "path: " перед каждой строкой
	PathMode PathMode
	BaseDir  string
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int8 // строк контекста до и после
	PathMode  PathMode
	BaseDir   string // база для PathModeRelative
	Max       int
	ShowNotes bool
	TabWidth  int // 0 - 4
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	BaseDir          string
	Max              int
	IncludeNotes     bool
}
