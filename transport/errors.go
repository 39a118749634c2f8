package transport

import "errors"

// errUnsupportedType marks a CTS variant that Transport itself does not
// know how to dispatch (distinct from a Producer/Consumer that understands
// the variant but can't serve it for one particular driver).
var errUnsupportedType = errors.New("transport: unrecognized canonical type")
