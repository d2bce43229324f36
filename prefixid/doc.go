// Package prefixid implements typed, prefix-tagged opaque identifiers.
//
// Every identifier kind is bound to a short prefix and a display name. Values
// look like "usr_V1StGXR8_Z5jdHi6B-myT": the prefix, a "_" separator and a
// random nanoid suffix. Kinds are declared with a zero-size marker type:
//
//	type userKind struct{}
//
//	func (userKind) Name() string      { return "UserID" }
//	func (userKind) Prefix() string    { return "usr" }
//	func (userKind) Aliases() []string { return []string{"user"} }
//
//	type UserID = prefixid.ID[userKind]
//
//	id := prefixid.New[userKind]()
//	same, err := prefixid.Parse[userKind](id.String())
//
// ID[userKind] and ID[orderKind] are different Go types, so an order id can
// never be compared with, assigned to or looked up in place of a user id.
//
// # Parsing
//
// Parse only checks the tag: a candidate is accepted when it starts with the
// primary prefix or one of the aliases, followed by "_". The suffix is not
// validated. Aliases are accepted as-is and never rewritten to the primary
// prefix. A failed parse returns a *ParseError and notifies the current
// Observer (see SetObserver).
//
// # Generation
//
// Suffixes come from crypto/rand through go-nanoid: 21 characters of the
// URL-safe alphabet by default, which is 126 bits of entropy. A prefix longer
// than MaxPrefixLen is a programming error and panics.
//
// # Bindings
//
// ID implements encoding.TextMarshaler, json.Marshaler, yaml.Marshaler,
// driver.Valuer, sql.Scanner and the gqlgen scalar methods (MarshalGQL /
// UnmarshalGQL), together with their decoding counterparts. A zero ID is an
// absence and never encodes; use NullID for nullable columns and fields.
package prefixid
