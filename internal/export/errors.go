package export

import "errors"

var (
	// ErrEmptyPool is returned when Run is called without a pool name.
	ErrEmptyPool = errors.New("export: pool name is required")

	// ErrNilAdapter is returned when NewExporter gets no naming database.
	ErrNilAdapter = errors.New("export: naming database adapter is required")
)
