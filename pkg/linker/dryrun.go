package linker

import (
	"fmt"

	"github.com/arthur-debert/pluglink/pkg/types"
)

// DryRun wraps an operator and records what it would do instead of doing it
type DryRun struct {
	inner   Operator
	Actions []string
}

// NewDryRun wraps inner; only its Strategy is ever consulted
func NewDryRun(inner Operator) *DryRun {
	return &DryRun{inner: inner}
}

func (d *DryRun) Strategy() types.LinkStrategy {
	return d.inner.Strategy()
}

func (d *DryRun) Create(dest, source string) error {
	d.Actions = append(d.Actions, fmt.Sprintf("%s %s -> %s", d.inner.Strategy(), dest, source))
	return nil
}

func (d *DryRun) Remove(dest string) error {
	d.Actions = append(d.Actions, fmt.Sprintf("remove %s", dest))
	return nil
}
