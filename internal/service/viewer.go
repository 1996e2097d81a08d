package service

// Viewer is the actor performing a request. The identity provider supplies
// the stable Subject; anonymous viewers have Authenticated=false and an empty
// Subject.
type Viewer struct {
	Subject       string
	Username      string
	Authenticated bool
}

// Anonymous is the viewer used for requests without a session identity.
var Anonymous = Viewer{}
