// SPDX-License-Identifier: MIT
package main

import "github.com/skaphos/tlbuild/cmd/tlbuild"

// execute is overridable in tests.
var execute = tlbuild.Execute

func main() {
	execute()
}
