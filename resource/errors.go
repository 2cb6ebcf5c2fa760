package resource

import "errors"

// ErrImportConflict is returned at devirtualize time when an imported
// resource accumulates usage beyond what it was granted at import —
// the one case in this package's error taxonomy that is a returned
// error rather than a panic, since it depends on accumulated edge usage
// rather than a structural graph-building mistake.
var ErrImportConflict = errors.New("resource: accumulated usage exceeds the grant given at import")
