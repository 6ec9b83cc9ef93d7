package domain

// EnforceRequest asks whether a role may perform an action on a resource.
type EnforceRequest struct {
	Role     string
	Resource string
	Action   string
}
