// @focus: #sys { io } #input { keys }
package terminal

// Logical key names produced by DecodeKey
const (
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyEnter      = "Enter"
	KeyEscape     = "Escape"
	KeySpace      = " "
	KeyBackspace  = "Backspace"
	KeyTab        = "Tab"
)

// Raw control bytes recognized on input
const (
	byteETX = 0x03 // Ctrl+C
	byteBS  = 0x08
	byteTab = 0x09
	byteLF  = 0x0a
	byteCR  = 0x0d
	byteESC = 0x1b
	byteDEL = 0x7f
)

// escapeSequence maps a complete escape sequence to a logical key
type escapeSequence struct {
	seq string
	key string
}

// Arrow keys in both cursor-key modes: normal (CSI) and application (SS3)
var arrowSequences = []escapeSequence{
	{"\x1b[A", KeyArrowUp},
	{"\x1bOA", KeyArrowUp},
	{"\x1b[B", KeyArrowDown},
	{"\x1bOB", KeyArrowDown},
	{"\x1b[C", KeyArrowRight},
	{"\x1bOC", KeyArrowRight},
	{"\x1b[D", KeyArrowLeft},
	{"\x1bOD", KeyArrowLeft},
}

var arrowMap = buildSequenceMap(arrowSequences)

func buildSequenceMap(seqs []escapeSequence) map[string]string {
	m := make(map[string]string, len(seqs))
	for _, s := range seqs {
		m[s.seq] = s.key
	}
	return m
}

// keyDescriptor is the DOM-style code/keyCode pair for a logical key
type keyDescriptor struct {
	code    string
	keyCode int
}

// namedDescriptors covers the non-character logical keys
var namedDescriptors = map[string]keyDescriptor{
	KeyArrowUp:    {"ArrowUp", 38},
	KeyArrowDown:  {"ArrowDown", 40},
	KeyArrowLeft:  {"ArrowLeft", 37},
	KeyArrowRight: {"ArrowRight", 39},
	KeyEnter:      {"Enter", 13},
	KeyEscape:     {"Escape", 27},
	KeySpace:      {"Space", 32},
	KeyBackspace:  {"Backspace", 8},
	KeyTab:        {"Tab", 9},
}

// punctDescriptors maps US-layout punctuation, shifted and unshifted, to its physical key
var punctDescriptors = map[rune]keyDescriptor{
	'-': {"Minus", 189}, '_': {"Minus", 189},
	'=': {"Equal", 187}, '+': {"Equal", 187},
	'[': {"BracketLeft", 219}, '{': {"BracketLeft", 219},
	']': {"BracketRight", 221}, '}': {"BracketRight", 221},
	'\\': {"Backslash", 220}, '|': {"Backslash", 220},
	';': {"Semicolon", 186}, ':': {"Semicolon", 186},
	'\'': {"Quote", 222}, '"': {"Quote", 222},
	',': {"Comma", 188}, '<': {"Comma", 188},
	'.': {"Period", 190}, '>': {"Period", 190},
	'/': {"Slash", 191}, '?': {"Slash", 191},
	'`': {"Backquote", 192}, '~': {"Backquote", 192},
}

// shiftedDigits maps US-layout shifted digit row symbols to their digit
var shiftedDigits = map[rune]rune{
	')': '0', '!': '1', '@': '2', '#': '3', '$': '4',
	'%': '5', '^': '6', '&': '7', '*': '8', '(': '9',
}

// describeKey resolves code and keyCode for a logical key
// Unknown keys get an empty code and keyCode 0
func describeKey(key string) keyDescriptor {
	if d, ok := namedDescriptors[key]; ok {
		return d
	}

	runes := []rune(key)
	if len(runes) != 1 {
		return keyDescriptor{}
	}
	r := runes[0]

	switch {
	case r >= 'a' && r <= 'z':
		upper := r - 'a' + 'A'
		return keyDescriptor{"Key" + string(upper), int(upper)}
	case r >= 'A' && r <= 'Z':
		return keyDescriptor{"Key" + string(r), int(r)}
	case r >= '0' && r <= '9':
		return keyDescriptor{"Digit" + string(r), int(r)}
	}

	if d, ok := shiftedDigits[r]; ok {
		return keyDescriptor{"Digit" + string(d), int(d)}
	}
	if d, ok := punctDescriptors[r]; ok {
		return d
	}
	return keyDescriptor{}
}
