package codegen

import (
	"fmt"
	"strings"

	"github.com/llir/llvm/ir"
)

// RenderAssembly produces the -f output: a flattened, label-and-mnemonic
// listing of mod's functions, one line per instruction. No target backend
// is linked in-process, so this is not real machine assembly — it exists
// to give the flag a distinct, inspectable rendering from the default
// textual IR.
func RenderAssembly(mod *ir.Module) string {
	var b strings.Builder
	for _, fn := range mod.Funcs {
		fmt.Fprintf(&b, "%s:\n", fn.Name())
		for _, block := range fn.Blocks {
			fmt.Fprintf(&b, ".%s:\n", block.Name())
			for _, inst := range block.Insts {
				fmt.Fprintf(&b, "\t%s\n", inst)
			}
			if block.Term != nil {
				fmt.Fprintf(&b, "\t%s\n", block.Term)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
