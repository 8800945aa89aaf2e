package ffmpeg

import "regexp"

// Pre-compiled regexes for classifying engine stderr into operator hints.
// Checked in order by [Hint]; the first match wins. These never trigger a
// retry; they only make the failure detail actionable.
var (
	reFontIssue = regexp.MustCompile(
		`(?i)Could not load font|Cannot find a valid font|fontconfig|` +
			`error opening font file`)

	reFilterGraphIssue = regexp.MustCompile(
		`(?i)No such filter|Error initializing filter|Error reinitializing filters|` +
			`Invalid stream specifier|matches no streams|` +
			`Output with label .* does not exist|Invalid chain`)

	reInputIssue = regexp.MustCompile(
		`(?i)No such file or directory|Invalid data found when processing input|` +
			`moov atom not found|Could not open file`)

	reEncoderIssue = regexp.MustCompile(
		`(?i)Unknown encoder|Error while opening encoder|` +
			`incorrect parameters such as bit_rate, rate, width or height`)
)

// Hints attached to engine failures.
const (
	HintFont    = "caption font unavailable; check the profile's font_file"
	HintGraph   = "filter graph rejected by engine; likely a compiler defect"
	HintInput   = "an input file is missing or not decodable"
	HintEncoder = "encoder unavailable; check the profile's codec settings"
)

// Hint classifies engine stderr into a short operator hint, or "" when no
// known pattern matches. The raw stderr is always surfaced alongside it.
func Hint(stderr string) string {
	switch {
	case reFontIssue.MatchString(stderr):
		return HintFont
	case reFilterGraphIssue.MatchString(stderr):
		return HintGraph
	case reInputIssue.MatchString(stderr):
		return HintInput
	case reEncoderIssue.MatchString(stderr):
		return HintEncoder
	default:
		return ""
	}
}
