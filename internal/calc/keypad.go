package calc

// ButtonTag says what a keypad button does.
type ButtonTag uint8

const (
	TagNumber ButtonTag = iota
	TagOperation
	TagConstant
	TagEquals
	TagDelete
	TagAllClear
	TagNegate
)

// Button is one keypad key.
type Button struct {
	Label string
	Tag   ButtonTag
}

const (
	KeypadRows = 6
	KeypadCols = 5
)

// Keypad is the button grid, top row first.
var Keypad = [KeypadRows][KeypadCols]Button{
	{{"sin", TagOperation}, {"cos", TagOperation}, {"tan", TagOperation}, {"log", TagOperation}, {"ln", TagOperation}},
	{{"√", TagOperation}, {"^", TagOperation}, {"(", TagOperation}, {")", TagOperation}, {"÷", TagOperation}},
	{{"7", TagNumber}, {"8", TagNumber}, {"9", TagNumber}, {"DEL", TagDelete}, {"AC", TagAllClear}},
	{{"4", TagNumber}, {"5", TagNumber}, {"6", TagNumber}, {"×", TagOperation}, {"-", TagOperation}},
	{{"1", TagNumber}, {"2", TagNumber}, {"3", TagNumber}, {"+", TagOperation}, {"=", TagEquals}},
	{{"0", TagNumber}, {".", TagNumber}, {"π", TagConstant}, {"e", TagConstant}, {"±", TagNegate}},
}

// FindButton returns the keypad position of label.
func FindButton(label string) (row, col int, ok bool) {
	for r := range Keypad {
		for c := range Keypad[r] {
			if Keypad[r][c].Label == label {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// KeyButton maps a typed character to the button it stands for. "/" types "÷"; "*" is kept
// as typed.
func KeyButton(r rune) (Button, bool) {
	switch {
	case r >= '0' && r <= '9', r == '.':
		return Button{Label: string(r), Tag: TagNumber}, true
	case r == '=':
		return Button{Label: "=", Tag: TagEquals}, true
	case r == '/':
		return Button{Label: "÷", Tag: TagOperation}, true
	case r == '+', r == '-', r == '*', r == '^', r == '(', r == ')':
		return Button{Label: string(r), Tag: TagOperation}, true
	}
	return Button{}, false
}

// Press runs the action of btn. The error is the one Compute reports for the equals key.
func (b *Builder) Press(btn Button) error {
	switch btn.Tag {
	case TagNumber, TagConstant:
		b.AppendNumber(btn.Label)
	case TagOperation:
		b.ChooseOperation(btn.Label)
	case TagEquals:
		return b.Compute()
	case TagDelete:
		b.Delete()
	case TagAllClear:
		b.Clear()
	case TagNegate:
		b.Negate()
	}
	return nil
}
