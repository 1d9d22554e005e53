package auth

// Subject is an opaque identifier the identity provider asserts for a
// verified credential. It contains a fact only, no decisions: resources
// store it as their owner and handlers compare it, nothing else.
// A Subject is produced only by token verification and is never accepted
// from client input.
type Subject = string
