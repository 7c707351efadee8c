/*
Package runfile executes literate build documents: ordinary markdown files
whose second-level headers name targets and whose fenced code blocks are
the executable steps.

# Concept

A Runfile is documentation first and a build file second. The top-level
header introduces the document, each `## target` section describes one
task, and the code blocks under it are what running that task executes.
Yaml blocks configure a target (dependencies, cache expiry, invalidation)
or, at document level, pull in other Runfiles as includes. Dockerfile
blocks give a target or a whole document a container to run inside.

Included documents are inlined into the root file on save, marked with a
lineage blockquote, so a Runfile stays a single self-contained document
that renders well on any markdown host.

# Architecture

The engine follows Hexagonal Architecture. The document model and
scheduling logic live in pkg/domain and the internal packages; the ports
in pkg/ports abstract fetching, cache persistence, locking, step execution
and container lifecycles so adapters (filesystem, HTTP, Redis, Docker) can
be swapped or faked.

# Usage

The Runfile type wires the default adapters together:

	package main

	import (
		"context"
		"log"

		"github.com/awkspace/runfile"
	)

	func main() {
		rf, err := runfile.New("Runfile.md")
		if err != nil {
			log.Fatal(err)
		}
		if _, err := rf.Run(context.Background(), "build"); err != nil {
			log.Fatal(err)
		}
	}

Every dependency of the matched targets runs first, in topological order,
skipping targets whose cached results are still fresh.
*/
package runfile
