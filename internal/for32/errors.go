package for32

import "github.com/nnev/lexidex/internal/varint"

// errTruncated reports a FOR block stream that ends before its header
// promised (spec.md §7 InvalidEncoding: truncated FOR block).
var errTruncated = varint.ErrInvalidEncoding
