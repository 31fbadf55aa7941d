package conrec

// StyleState is the terminal emulator's mutable cursor: position, active
// SGR attributes, and the fg/bg colors those attributes select. It lives
// for the duration of one emulation pass and is mutated only by the
// emulator's own parser methods.
type StyleState struct {
	Row, Col int
	Template StyledCell // current SGR state, used as the style for new glyphs
}

// newStyleState returns a cursor at the origin with default style.
func newStyleState() *StyleState {
	return &StyleState{Template: DefaultCell()}
}

// resetSGR drops all active attributes and colors, the effect of SGR 0.
func (s *StyleState) resetSGR() {
	s.Template = DefaultCell()
}
