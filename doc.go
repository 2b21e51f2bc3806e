// Package bencode implements the Bencode encoding used by BitTorrent metainfo
// files and peer-protocol messages.
//
// A decoded value is one of four types: Integer, ByteString, List and
// Dictionary. Decoder parses one value at a time from any io.Reader without
// reading past its end; Encoder writes the canonical form, with dictionary keys
// in ascending byte order.
//
//	v, err := bencode.NewDecoder(r).Decode()
//	...
//	err = bencode.NewEncoder(w).Encode(v)
package bencode
