package campus

const (
	StateBrowsing State = iota
	StateIncidentSelected
	StateExiting
)

// Selection holds the incident whose details modal is open.
type Selection struct {
	Current   *Incident
	ModalOpen bool

	pending *Incident
}

// Request selects inc. Selecting the incident that is already shown does
// nothing; selecting another one closes the current modal first.
func (s *Selection) Request(cmd *Commands, inc *Incident) {
	if inc == nil {
		return
	}
	if s.Current != nil && s.Current.ID == inc.ID && cmd.State() == StateIncidentSelected {
		return
	}
	s.pending = inc
	cmd.ChangeState(StateIncidentSelected)
}

// RequestClose dismisses the modal and drops the highlight.
func (s *Selection) RequestClose(cmd *Commands) {
	if cmd.State() != StateIncidentSelected {
		return
	}
	s.pending = nil
	cmd.ChangeState(StateBrowsing)
}

func enterSelectedSystem(cmd *Commands, sel *Selection, overlay *OverlayState, tooltip *Tooltip) {
	if sel.pending == nil {
		cmd.ChangeState(StateBrowsing)
		return
	}
	sel.Current = sel.pending
	sel.pending = nil
	sel.ModalOpen = true

	overlay.HighlightedID = sel.Current.ID
	overlay.HighlightedLocation = sel.Current.Location
	tooltip.Hide()

	cmd.Logger().Infof("incident %d selected at %s", sel.Current.ID, sel.Current.Location)
}

func exitSelectedSystem(cmd *Commands, sel *Selection, overlay *OverlayState, highlighter *Highlighter) {
	highlighter.Clear(cmd)
	sel.ModalOpen = false
	sel.Current = nil

	overlay.HighlightedID = 0
	overlay.HighlightedLocation = ""
}

// modalKeySystem closes the modal on Escape.
func modalKeySystem(cmd *Commands, sel *Selection, input *Input) {
	if input.JustPressed[KeyEscape] {
		sel.RequestClose(cmd)
	}
}
