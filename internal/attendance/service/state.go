package service

// State is everything the controller knows about one kiosk screen between
// events. It is a value; every event returns a new State.
type State struct {
	PendingInput string
	AdminMode    bool
}

// Edit replaces the pending input and recomputes admin mode, which holds
// exactly while the buffer equals the admin password.
func Edit(_ State, input, adminPass string) State {
	return State{
		PendingInput: input,
		AdminMode:    adminPass != "" && input == adminPass,
	}
}

// Clear empties the buffer after a submission, which also leaves admin mode.
func Clear(State) State {
	return State{}
}
