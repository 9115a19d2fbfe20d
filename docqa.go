// Package docqa answers natural language questions about a documentation
// site. Pages listed in the site's sitemap are extracted as plain text, split
// into overlapping token windows, embedded and stored in a vector index. A
// question is embedded the same way, matched against the index and answered
// by a generation model that sees only the retrieved passages.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, qdrant/, gemini/).
package docqa
