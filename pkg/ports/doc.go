/*
Package ports defines the driven-side interfaces the runfile core depends
on: fetching document bytes, persisting cache entries, executing code
blocks and managing container lifecycles.

Keeping these as narrow interfaces decouples the document model and the
scheduler from filesystem, network, process and container mechanics, and
lets tests substitute in-memory fakes.
*/
package ports
