// Package types defines the data model shared by the campaigner packages:
// chat messages, ad creatives and their media.
//
// Messages are values. Once appended to a transcript they are never
// mutated; ad payloads are cloned whenever they cross a package boundary so
// an editor's local buffer never aliases the message it was opened from.
package types
