/*
Package domain contains the core domain models for the runfile engine.

It defines the entities of a literate build document, such as Documents,
Headers, Targets and CodeBlocks, together with the cache and result records
produced by a run. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - Document: one Runfile, possibly with nested included Documents.
  - Header: a document's title, description and include lineage.
  - Target: a named (or implicit unnamed) unit of executable code blocks.
  - CodeBlock: a fenced block carrying a language tag and a body.
  - CacheEntry: the persisted freshness record for one target.
  - TargetResult: the ephemeral outcome of one execution attempt.
*/
package domain
