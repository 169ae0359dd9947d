// Package services holds the application logic shared by the terminal
// client and the HTTP API.
//
// # Overview
//
//   - HistoryService    : the capped, newest-first generation history. It
//     moves image bytes into the blob store, keeps only keys in the
//     metadata slot, evicts the oldest records past capacity and serves a
//     read-through cache of displayable data URLs.
//   - StudioService     : validates a generate/vary/edit request, calls the
//     image service, prices the result and commits it to the history.
//   - CredentialService : keeps the user's OpenAI key sealed under a
//     passphrase in the metadata store.
//
// Blob cleanup during eviction and deletion is best effort: failures are
// logged and never abort the metadata change, so an orphaned blob is the
// worst outcome.
package services
