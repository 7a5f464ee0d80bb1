// Package channels resolves a user identity to the set of named channels the
// user's streaming connection should listen on: the implicit per-user channel
// plus any group channels read from the membership source.
//
// Resolution happens once, when a streaming connection opens. A user who
// joins a new group mid-connection picks it up on the next reconnect.
package channels
