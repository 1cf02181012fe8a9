package domain

import "fmt"

// SelectionState is the stage of the two-step chore picker.
type SelectionState string

const (
	SelectionIdle       SelectionState = "idle"
	SelectionMainChosen SelectionState = "main_chosen"
	SelectionSubChosen  SelectionState = "sub_chosen"
)

// Selection is the main category -> subcategory picker. Every method leaves
// the value unchanged when it returns an error.
type Selection struct {
	Main string `json:"main,omitempty"`
	Sub  string `json:"sub,omitempty"`
}

// State derives the picker stage from the chosen fields.
func (s Selection) State() SelectionState {
	switch {
	case s.Main == "":
		return SelectionIdle
	case s.Sub == "":
		return SelectionMainChosen
	default:
		return SelectionSubChosen
	}
}

// ChooseMain fixes the main category. Only valid from Idle.
func (s *Selection) ChooseMain(main string, choices Choices) error {
	if s.State() != SelectionIdle {
		return fmt.Errorf("%w: main category already chosen", ErrInvalidTransition)
	}
	if main == "" || !choices.Has(main, "") {
		return fmt.Errorf("%w: unknown main category %q", ErrValidation, main)
	}
	s.Main = main
	return nil
}

// ChooseSub fixes the subcategory. Only valid from MainChosen, and sub must
// belong to the chosen main category.
func (s *Selection) ChooseSub(sub string, choices Choices) error {
	if s.State() != SelectionMainChosen {
		return fmt.Errorf("%w: choose a main category first", ErrInvalidTransition)
	}
	if sub == "" || !choices.Has(s.Main, sub) {
		return fmt.Errorf("%w: unknown subcategory %q for %q", ErrValidation, sub, s.Main)
	}
	s.Sub = sub
	return nil
}

// Back returns from MainChosen to Idle, clearing the main choice.
func (s *Selection) Back() error {
	if s.State() != SelectionMainChosen {
		return fmt.Errorf("%w: back is only valid after choosing a main category", ErrInvalidTransition)
	}
	s.Main = ""
	return nil
}

// Reselect returns from SubChosen to MainChosen, clearing only the sub choice.
func (s *Selection) Reselect() error {
	if s.State() != SelectionSubChosen {
		return fmt.Errorf("%w: no subcategory to reselect", ErrInvalidTransition)
	}
	s.Sub = ""
	return nil
}

// Title is the record title for a complete selection.
func (s Selection) Title() (string, error) {
	if s.State() != SelectionSubChosen {
		return "", fmt.Errorf("%w: selection incomplete", ErrInvalidTransition)
	}
	return ChoreTitle(s.Main, s.Sub), nil
}

// Reset clears both choices.
func (s *Selection) Reset() { *s = Selection{} }
