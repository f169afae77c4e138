// Package clone provides the domain types for a single clone-and-checkout run.
package clone
