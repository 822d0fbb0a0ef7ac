package diag

// Shower wraps the Show function.
type Shower interface {
	// Show takes an indentation string and shows.
	Show(indent string) string
}

// Markers used when showing errors.
type style struct {
	messageStart, messageEnd string
	culpritStart, culpritEnd string
}

// Can be changed for testing.
var (
	ansiStyle  = style{"\033[31;1m", "\033[m", "\033[1;4m", "\033[m"}
	plainStyle = style{}
)
