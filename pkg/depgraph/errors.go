package depgraph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-combinedform/pkg/entity"
)

// CycleError reports that the reference graph contains at least one cycle.
// Types lists every entity type left unresolved once all acyclic portions of
// the graph were ordered, so it names the cycle members plus anything that
// depends on them.
type CycleError struct {
	Types []entity.Type
}

func (e *CycleError) Error() string {
	names := make([]string, 0, len(e.Types))
	for _, typ := range e.Types {
		names = append(names, string(typ))
	}
	return fmt.Sprintf("depgraph: cyclic dependency involving [%s]", strings.Join(names, ", "))
}

// AsCycleError returns the CycleError wrapped in err, or nil when err carries
// no cycle information.
func AsCycleError(err error) *CycleError {
	var cycleErr *CycleError
	if errors.As(err, &cycleErr) {
		return cycleErr
	}
	return nil
}
