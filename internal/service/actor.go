package service

// Actor identifies the authenticated account performing an operation. It is
// threaded explicitly into every call instead of being read from ambient
// session state.
type Actor struct {
	ID   uint
	Role string
}
