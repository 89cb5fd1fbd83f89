package appearance

import "errors"

// ErrSoftExtraction marks an index build that failed and fell back to an
// empty index. Conversion continues with default colours.
var ErrSoftExtraction = errors.New("appearance extraction failed")
