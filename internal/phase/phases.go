package phase

// ModulePhase tracks how far an individual module has been compiled.
//
// Phases advance strictly in order: NotStarted -> Lexed -> Parsed ->
// Lowered. AdvanceModulePhase in context_v2 checks each transition against
// PhasePrerequisites. A module whose parse failed still advances to Parsed
// with a partial tree, so lowering can report what it finds in the rest.
type ModulePhase int

const (
	PhaseNotStarted ModulePhase = iota // Module registered but not processed
	PhaseLexed                         // Tokens generated
	PhaseParsed                        // AST built
	PhaseLowered                       // HIR built and names resolved
)

// PhasePrerequisites maps each phase to its required predecessor phase
var PhasePrerequisites = map[ModulePhase]ModulePhase{
	PhaseLexed:   PhaseNotStarted,
	PhaseParsed:  PhaseLexed,
	PhaseLowered: PhaseParsed,
}

func (p ModulePhase) String() string {
	switch p {
	case PhaseNotStarted:
		return "NotStarted"
	case PhaseLexed:
		return "Lexed"
	case PhaseParsed:
		return "Parsed"
	case PhaseLowered:
		return "Lowered"
	default:
		return "Unknown"
	}
}
