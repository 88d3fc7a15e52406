// Package models defines the entities shared by the artist pages client.
//
//   - [Identity] : the user record returned by the auth endpoints
//   - [Session] : identity plus credential, persisted client-side between runs
//   - [UserPage] : the public profile (biography, images, music links)
//
// [Session] implements [Model] so the session repositories can validate a record before writing it.
// A session missing either half is never written and never restored.
package models
