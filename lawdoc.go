// Package lawdoc ingests public legal documentation published by state
// governments and answers questions grounded in it. Pages, PDFs and
// calendar files are crawled, normalized to text, split into overlapping
// chunks, embedded and indexed in a vector store. Questions are answered by
// retrieving and re-ranking chunks for a state and asking an LLM to respond
// using only that context.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, openai/).
package lawdoc
