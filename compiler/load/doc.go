// Package load provides the class model consumed by categorization.
//
// Classes are described by ClassDetails values, either built in Go or
// decoded from YAML and JSON descriptor files. A descriptor file holds a
// list of classes and an optional mapping document with
// persistence-unit defaults and global registrations.
package load
