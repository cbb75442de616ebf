package conflict

import "fmt"

type ResolutionChoice int

const (
	ChooseOurs ResolutionChoice = iota
	ChooseTheirs
	ChooseBoth
	ManualEdit
)

func (c ResolutionChoice) String() string {
	switch c {
	case ChooseOurs:
		return "ours"
	case ChooseTheirs:
		return "theirs"
	case ChooseBoth:
		return "both"
	case ManualEdit:
		return "custom"
	default:
		return fmt.Sprintf("choice(%d)", int(c))
	}
}

// ParseChoice maps a policy name to a choice. Only the non-interactive
// policies are accepted; custom text cannot come from a name.
func ParseChoice(name string) (ResolutionChoice, error) {
	switch name {
	case "ours":
		return ChooseOurs, nil
	case "theirs":
		return ChooseTheirs, nil
	case "both":
		return ChooseBoth, nil
	default:
		return 0, fmt.Errorf("unknown resolution policy %q (want ours, theirs or both)", name)
	}
}

// Resolution is the decision for one block. Lines is only read for ManualEdit.
type Resolution struct {
	Choice ResolutionChoice
	Lines  []string
}

func Ours() Resolution   { return Resolution{Choice: ChooseOurs} }
func Theirs() Resolution { return Resolution{Choice: ChooseTheirs} }
func Both() Resolution   { return Resolution{Choice: ChooseBoth} }

func Custom(lines []string) Resolution {
	return Resolution{Choice: ManualEdit, Lines: lines}
}

func (r Resolution) Validate() error {
	switch r.Choice {
	case ChooseOurs, ChooseTheirs, ChooseBoth, ManualEdit:
		return nil
	default:
		return fmt.Errorf("invalid resolution: %s", r.Choice)
	}
}

// Render returns the replacement lines for block under r. The result never
// aliases the block's slices.
func Render(block Block, r Resolution) []string {
	var out []string
	switch r.Choice {
	case ChooseOurs:
		out = append(out, block.Ours...)
	case ChooseTheirs:
		out = append(out, block.Theirs...)
	case ChooseBoth:
		out = append(out, block.Ours...)
		out = append(out, block.Theirs...)
	case ManualEdit:
		out = append(out, r.Lines...)
	}
	return out
}
