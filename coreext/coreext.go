// Package coreext imports every package of default extension methods, so that
// Runtimes have them declared.
package coreext

import (
	// importing for side effects
	_ "github.com/zephyrtronium/dyncall/coreext/collections"
	_ "github.com/zephyrtronium/dyncall/coreext/lang"
	_ "github.com/zephyrtronium/dyncall/coreext/numbers"
	_ "github.com/zephyrtronium/dyncall/coreext/text"
)
