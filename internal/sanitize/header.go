package sanitize

// Header is the presentational text printed above the board.
type Header struct {
	Title        string `json:"title" yaml:"title"`
	Instructions string `json:"instructions" yaml:"instructions"`
	Subtitle     string `json:"subtitle" yaml:"subtitle"`
}

// DefaultHeader is used until the user edits the header.
func DefaultHeader() Header {
	return Header{
		Title:        "BINGO",
		Instructions: "Find someone who matches a square and write their name in it.",
	}
}

var (
	titleOptions        = Options{MaxLength: MaxTitleLength, AllowEmojis: true, TrimWhitespace: true}
	subtitleOptions     = Options{MaxLength: MaxSubtitleLength, AllowEmojis: true, TrimWhitespace: true}
	instructionsOptions = Options{MaxLength: MaxInstructionsLength, AllowEmojis: true, TrimWhitespace: true}
)

// SanitizeHeader sanitizes and caps each field independently.
func SanitizeHeader(h Header) Header {
	return Header{
		Title:        Text(h.Title, titleOptions),
		Instructions: Text(h.Instructions, instructionsOptions),
		Subtitle:     Text(h.Subtitle, subtitleOptions),
	}
}
