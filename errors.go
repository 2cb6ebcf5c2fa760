package framegraph

import (
	"errors"
	"fmt"

	"github.com/gogpu/framegraph/depgraph"
	"github.com/gogpu/framegraph/resource"
)

// ContractError reports a violation of the frame graph's programmer
// contract: a stale handle passed to Read/Write/GetDescriptor, an
// out-of-range handle index, make_target on an already-referenced node,
// or a second writer on a ResourceNode. Per the error policy these are
// never returned as ordinary errors — they panic, mirroring the
// underlying depgraph.ContractError the core itself panics with for its
// own lower-level violations.
type ContractError = depgraph.ContractError

// ErrUnknownBackend reports a backend allocator name that is not
// recognized. Not a core type, and nothing in this module returns it:
// cmd/fgdemo always uses its own stand-in allocator and has no
// backend-selection flag.
var ErrUnknownBackend = errors.New("framegraph: unknown backend name")

// ErrImportConflict re-exports resource.ErrImportConflict so callers
// checking frame-graph-level errors with errors.Is don't need to import
// package resource just for this one sentinel.
var ErrImportConflict = resource.ErrImportConflict

func staleHandle(op string, index, want, got uint32) *ContractError {
	return &ContractError{
		Op:  op,
		Msg: fmt.Sprintf("stale handle at slot %d: want version %d, resource is at version %d", index, want, got),
	}
}
