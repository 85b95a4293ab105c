// Package runtime declares the external runtime library every generated
// module links against: the I/O primitives, byte/int conversion helpers,
// and C string operations Alan programs call by name.
package runtime

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

// Library holds a handle to every external function declared for one
// module, so the code generator never has to re-look-up a runtime
// function by name.
type Library struct {
	WriteInteger *ir.Func
	WriteByte    *ir.Func
	WriteChar    *ir.Func
	WriteString  *ir.Func
	ReadInteger  *ir.Func
	ReadByte     *ir.Func
	ReadChar     *ir.Func
	ReadString   *ir.Func
	Extend       *ir.Func
	Shrink       *ir.Func
	Strlen       *ir.Func
	Strcmp       *ir.Func
	Strcpy       *ir.Func
	Strcat       *ir.Func
}

// Declare adds an external declaration for each runtime function to mod
// and returns handles to all of them.
func Declare(mod *ir.Module) *Library {
	i8ptr := types.NewPointer(types.I8)

	declare := func(name string, ret types.Type, params ...*ir.Param) *ir.Func {
		f := mod.NewFunc(name, ret, params...)
		f.Linkage = enum.LinkageExternal
		return f
	}

	return &Library{
		WriteInteger: declare("writeInteger", types.Void, ir.NewParam("n", types.I32)),
		WriteByte:    declare("writeByte", types.Void, ir.NewParam("b", types.I8)),
		WriteChar:    declare("writeChar", types.Void, ir.NewParam("c", types.I8)),
		WriteString:  declare("writeString", types.Void, ir.NewParam("s", i8ptr)),

		ReadInteger: declare("readInteger", types.I32),
		ReadByte:    declare("readByte", types.I8),
		ReadChar:    declare("readChar", types.I8),
		ReadString:  declare("readString", types.Void, ir.NewParam("size", types.I32), ir.NewParam("s", i8ptr)),

		Extend: declare("extend", types.I32, ir.NewParam("n", types.I8)),
		Shrink: declare("shrink", types.I8, ir.NewParam("n", types.I32)),

		Strlen: declare("strlen", types.I32, ir.NewParam("s", i8ptr)),
		Strcmp: declare("strcmp", types.I32, ir.NewParam("s1", i8ptr), ir.NewParam("s2", i8ptr)),
		Strcpy: declare("strcpy", types.Void, ir.NewParam("trg", i8ptr), ir.NewParam("src", i8ptr)),
		Strcat: declare("strcat", types.Void, ir.NewParam("trg", i8ptr), ir.NewParam("src", i8ptr)),
	}
}
