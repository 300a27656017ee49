package convo

// State is a session's position in the consent/role/interview protocol.
// Sessions advance strictly forward except for repeated prompts, which
// keep the current state.
type State int

const (
	StateInitial State = iota
	StateAwaitingConsent
	StateConsentGiven
	StateConsentDeclined
	StateRoleIdentification
	StateRoleReceptionist
	StateRoleSecretary
	StateRoleHealthcare
	StateInterview
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "Initial"
	case StateAwaitingConsent:
		return "AwaitingConsent"
	case StateConsentGiven:
		return "ConsentGiven"
	case StateConsentDeclined:
		return "ConsentDeclined"
	case StateRoleIdentification:
		return "RoleIdentification"
	case StateRoleReceptionist:
		return "RoleReceptionist"
	case StateRoleSecretary:
		return "RoleSecretary"
	case StateRoleHealthcare:
		return "RoleHealthcare"
	case StateInterview:
		return "Interview"
	case StateTerminal:
		return "Terminal"
	}
	return "Unknown"
}

// consented reports whether the state is past the consent gate, i.e.
// model calls are allowed.
func (s State) consented() bool {
	switch s {
	case StateConsentGiven, StateRoleIdentification, StateRoleReceptionist,
		StateRoleSecretary, StateRoleHealthcare, StateInterview:
		return true
	}
	return false
}

// awaitingRole reports whether the next utterance should be matched
// against the role keyword table.
func (s State) awaitingRole() bool {
	return s == StateConsentGiven || s == StateRoleIdentification
}
