// Package urlvault turns a web article into a structured note in a document
// vault. It fetches the page, extracts the readable content and metadata,
// asks a language model to format the note, enforces the front-matter
// contract on the result and hands the final text to a file sink.
//
// This package contains domain types, interfaces and pure functions following
// Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., readability/,
// gemini/, sqlite/).
package urlvault
