// Package doctrail turns a documentation website into a searchable knowledge
// base. It derives a document lineage tree from crawled URLs, persists it as
// a node/relationship graph, drives a scrape → parse → chunk → embed
// pipeline keyed off that graph, and answers questions by retrieving
// relevant chunks and streaming a completion.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, bleve/, ollama/).
package doctrail
