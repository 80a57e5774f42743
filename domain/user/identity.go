package user

import "strings"

// AnonymousPrefix namespaces the "sub" claim of anonymous session tokens.
const AnonymousPrefix = "anonymous:"

// IdentityKind discriminates Identity.
type IdentityKind string

const (
	KindNamed     IdentityKind = "named"
	KindAnonymous IdentityKind = "anonymous"
)

// Identity is the verified holder of a bearer token: either a named account
// (Subject is a username or email) or an anonymous device session.
type Identity struct {
	Kind     IdentityKind `json:"kind"`
	Subject  string       `json:"subject"`
	DeviceID string       `json:"device_id,omitempty"`
}

// Named returns the identity of an account.
func Named(subject string) Identity {
	return Identity{Kind: KindNamed, Subject: subject}
}

// Anonymous returns the identity of a device session.
func Anonymous(deviceID string) Identity {
	return Identity{Kind: KindAnonymous, Subject: AnonymousSubject(deviceID), DeviceID: deviceID}
}

// IsAnonymous reports whether the identity is a device session.
func (i Identity) IsAnonymous() bool {
	return i.Kind == KindAnonymous
}

// AnonymousSubject builds the namespaced subject for a device.
func AnonymousSubject(deviceID string) string {
	return AnonymousPrefix + deviceID
}

// ParseSubject turns a "sub" claim into an Identity. Subjects of the form
// "anonymous:<device>" become anonymous identities; everything else is named.
func ParseSubject(subject string) Identity {
	if deviceID, ok := strings.CutPrefix(subject, AnonymousPrefix); ok {
		return Anonymous(deviceID)
	}
	return Named(subject)
}
