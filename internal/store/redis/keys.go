package redis

// Fixed keys for the durable cache tier. The full listing lives under one
// key with a writtenAt companion; per-record details live under
// detail:{id} / detail:{id}:writtenAt pairs.
const (
	// KeyListing holds the serialized full showcase listing.
	KeyListing = "vitrine:showcases:all"
	// KeyListingWrittenAt holds the listing's write timestamp.
	KeyListingWrittenAt = "vitrine:showcases:all:writtenAt"
	// KeyPrefixDetail is the prefix for per-record detail entries.
	KeyPrefixDetail = "vitrine:detail:"

	writtenAtSuffix = ":writtenAt"
)

// DetailKey returns the key for a record's cached detail.
func DetailKey(id string) string {
	return KeyPrefixDetail + id
}

// DetailWrittenAtKey returns the key for a detail entry's write timestamp.
func DetailWrittenAtKey(id string) string {
	return KeyPrefixDetail + id + writtenAtSuffix
}
