package categorize

// KeyMappingKind enumerates the identifier shapes.
type KeyMappingKind uint8

// Key mapping kinds.
const (
	BasicKey KeyMappingKind = iota
	AggregatedKey
	NonAggregatedKey
)

// String returns the kind name.
func (k KeyMappingKind) String() string {
	switch k {
	case AggregatedKey:
		return "AGGREGATED"
	case NonAggregatedKey:
		return "NON_AGGREGATED"
	default:
		return "BASIC"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k KeyMappingKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// KeyMapping is the identifier (or natural identifier) shape of a
// hierarchy. It is one of *BasicKeyMapping, *AggregatedKeyMapping or
// *NonAggregatedKeyMapping.
type KeyMapping interface {
	Kind() KeyMappingKind
	// Attributes returns the attributes forming the key, in the order they
	// were found.
	Attributes() []*AttributeMetadata
	keyMapping()
}

// BasicKeyMapping is a key made of a single basic attribute.
type BasicKeyMapping struct {
	Attribute *AttributeMetadata
}

// Kind implements KeyMapping.
func (*BasicKeyMapping) Kind() KeyMappingKind { return BasicKey }

// Attributes implements KeyMapping.
func (k *BasicKeyMapping) Attributes() []*AttributeMetadata {
	return []*AttributeMetadata{k.Attribute}
}

func (*BasicKeyMapping) keyMapping() {}

// AggregatedKeyMapping is a key made of a single embedded attribute.
type AggregatedKeyMapping struct {
	Attribute *AttributeMetadata
}

// Kind implements KeyMapping.
func (*AggregatedKeyMapping) Kind() KeyMappingKind { return AggregatedKey }

// Attributes implements KeyMapping.
func (k *AggregatedKeyMapping) Attributes() []*AttributeMetadata {
	return []*AttributeMetadata{k.Attribute}
}

func (*AggregatedKeyMapping) keyMapping() {}

// NonAggregatedKeyMapping is a key made of several attributes, or of a
// single to-one attribute, optionally mirrored by an id class.
type NonAggregatedKeyMapping struct {
	IDAttributes []*AttributeMetadata
	IDClass      string
}

// Kind implements KeyMapping.
func (*NonAggregatedKeyMapping) Kind() KeyMappingKind { return NonAggregatedKey }

// Attributes implements KeyMapping.
func (k *NonAggregatedKeyMapping) Attributes() []*AttributeMetadata {
	return append([]*AttributeMetadata(nil), k.IDAttributes...)
}

func (*NonAggregatedKeyMapping) keyMapping() {}
