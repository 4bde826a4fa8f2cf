// Package export serializes a categorized domain model.
//
// A Snapshot flattens the hierarchies, embeddables and global
// registrations of a categorize.DomainModel into plain values that encode
// to JSON, YAML or MessagePack and decode back. The GraphQL format writes
// a schema document describing the managed types instead:
//
//	s, err := export.NewSnapshot(dm)
//	if err != nil {
//		return err
//	}
//	return export.Encode(os.Stdout, s, export.YAML)
package export
