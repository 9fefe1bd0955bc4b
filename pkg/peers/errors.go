package peers

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported roster file format")
	ErrReadRoster        = errors.New("failed to read roster")
	ErrDecodeRoster      = errors.New("failed to decode roster")
	ErrDuplicateNode     = errors.New("duplicate node name in roster")
)
