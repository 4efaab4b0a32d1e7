// Package trace contains all the types provided for tracing within the
// respcmd package. With tracing a user is able to pull out fine-grained events
// as messages are parsed, which is useful for gathering metrics, logging,
// debugging a misbehaving client, etc...
package trace
