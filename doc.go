// Package vlist implements a virtual-scrolling windowing engine for
// arbitrarily large, server-paginated collections. A fixed pool of rows
// slides over an externally owned ordered dataset: scrolling reassigns rows
// across the buffer boundary in O(1), pages are fetched single-flight as the
// viewport nears the tail, and external create/update/delete notifications
// are reconciled into the window without re-rendering the collection.
//
// Rendering is delegated to an abstract per-row sink; package tui ships a
// terminal reference implementation.
package vlist
