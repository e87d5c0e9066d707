package tbgllink

import "errors"

// ErrStructureNotFound is returned when no TB header row satisfying the
// detection conditions exists inside the scan window. It is the only fatal
// condition in the engine; every other irregularity degrades to a documented
// fallback.
var ErrStructureNotFound = errors.New("could not find header row in Trial Balance")
