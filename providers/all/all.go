// Package all registers every inference provider shipped with hfgo.
//
//	import _ "github.com/petal-labs/hfgo/providers/all"
package all

import (
	_ "github.com/petal-labs/hfgo/providers/cerebras"
	_ "github.com/petal-labs/hfgo/providers/featherlessai"
	_ "github.com/petal-labs/hfgo/providers/fireworksai"
	_ "github.com/petal-labs/hfgo/providers/gmicloud"
	_ "github.com/petal-labs/hfgo/providers/groq"
	_ "github.com/petal-labs/hfgo/providers/hfinference"
	_ "github.com/petal-labs/hfgo/providers/nebius"
	_ "github.com/petal-labs/hfgo/providers/novita"
	_ "github.com/petal-labs/hfgo/providers/openai"
	_ "github.com/petal-labs/hfgo/providers/publicai"
	_ "github.com/petal-labs/hfgo/providers/sambanova"
	_ "github.com/petal-labs/hfgo/providers/together"
)
