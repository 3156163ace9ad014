package record

import "github.com/cockroachdb/errors"

var (
	// ErrAlreadyLoaded is returned by Load on a record that was loaded before.
	ErrAlreadyLoaded = errors.New("bdat: record already loaded")

	// ErrFieldReassigned is returned when a load assigns the same field twice.
	ErrFieldReassigned = errors.New("bdat: field assigned twice")

	// ErrInvalidCount is returned for a record count the reader cannot honor.
	ErrInvalidCount = errors.New("bdat: invalid record count")

	// ErrTooDeep is returned when records nest past the provider's limit,
	// as happens when a pointer field leads back into its own record.
	ErrTooDeep = errors.New("bdat: records nested too deep")
)
