package ui

// Action names a user-triggered operation.
type Action string

const (
	ActionLogin    Action = "login"
	ActionRegister Action = "register"
	ActionLogout   Action = "logout"
	ActionLoad     Action = "load"
	ActionCreate   Action = "create"
	ActionToggle   Action = "toggle"
	ActionDelete   Action = "delete"
	ActionWhoami   Action = "whoami"
)

// Result is the outcome of an action as shown to the user. A failed
// action leaves the previous state untouched.
type Result struct {
	Action Action
	Err    error
}

// OK reports whether the action succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}
