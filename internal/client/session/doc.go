// Package session holds the client-side authentication session.
//
// A Store is created once per client instance, initialized from a Storage,
// mutated by Login and Logout, and closed on shutdown. Several instances that
// share one Storage (two CLI processes on the same token file, for example)
// follow each other's changes through Storage.Watch.
package session
