package window

// WindowBuilderOption is a functional option for configuring a window.
type WindowBuilderOption func(w *editorWindow)

// WithTitle sets the title bar text.
//
// Parameters:
//   - title: the window title
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *editorWindow) {
		w.title = title
	}
}

// WithSize sets the initial client size.
//
// Parameters:
//   - width, height: the size in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *editorWindow) {
		w.width = width
		w.height = height
	}
}

// WithMinSize sets the smallest size the user can resize to.
//
// Parameters:
//   - width, height: the minimum size in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *editorWindow) {
		w.minWidth = width
		w.minHeight = height
	}
}

// WithMaxSize sets the largest size the user can resize to. Zero leaves that axis unbounded.
//
// Parameters:
//   - width, height: the maximum size in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxSize(width, height int) WindowBuilderOption {
	return func(w *editorWindow) {
		w.maxWidth = width
		w.maxHeight = height
	}
}

// WithCloseOnEscape makes Escape close the window instead of reaching the key callbacks.
//
// Parameters:
//   - enabled: true to close on Escape
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithCloseOnEscape(enabled bool) WindowBuilderOption {
	return func(w *editorWindow) {
		w.closeOnEscape = enabled
	}
}
