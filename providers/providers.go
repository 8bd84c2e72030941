// Package providers registers both reasoning backends.
// Import it for side effects to make them available via provider.New():
//
//	import _ "github.com/JunsikChoi/second-brain-kit/providers"
package providers

import (
	_ "github.com/JunsikChoi/second-brain-kit/anthropic"
	_ "github.com/JunsikChoi/second-brain-kit/claudecli"
)
