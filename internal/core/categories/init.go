// Package categories registers the built-in input categories with the core
// registry. Import this package for its side effects to make them available.
//
// Each file uses init() to register the categories of one source system.
package categories
