package language

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// contextFn is the global function a provider script must define.
const contextFn = "context"

// LuaProvider runs a user-supplied Lua script to contribute task variables.
//
// The script must define a global function:
//
//	function context(loc)
//	    return { SYMBOL = "main", MY_VAR = "value" }
//	end
//
// loc is a table with file, text, row, column, start_offset, and
// end_offset fields. The returned table is converted to string pairs;
// non-string values are formatted with their default representation.
type LuaProvider struct {
	// Script is the Lua source of the provider.
	Script string
}

// NewLuaProvider creates a provider from Lua source.
func NewLuaProvider(script string) *LuaProvider {
	return &LuaProvider{Script: script}
}

// BuildContext executes the script in a fresh Lua state and returns the
// variable pairs produced by its context function.
func (p *LuaProvider) BuildContext(loc Location) (map[string]string, error) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(p.Script); err != nil {
		return nil, fmt.Errorf("load provider script: %w", err)
	}

	fn := L.GetGlobal(contextFn)
	if fn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("provider script does not define %s()", contextFn)
	}

	arg := L.NewTable()
	L.SetField(arg, "file", lua.LString(loc.File))
	L.SetField(arg, "text", lua.LString(loc.Text))
	L.SetField(arg, "row", lua.LNumber(loc.Row))
	L.SetField(arg, "column", lua.LNumber(loc.Column))
	L.SetField(arg, "start_offset", lua.LNumber(loc.StartOffset))
	L.SetField(arg, "end_offset", lua.LNumber(loc.EndOffset))

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, arg); err != nil {
		return nil, fmt.Errorf("call %s: %w", contextFn, err)
	}

	ret := L.Get(-1)
	L.Pop(1)

	table, ok := ret.(*lua.LTable)
	if !ok {
		if ret == lua.LNil {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("%s returned %s, want table", contextFn, ret.Type())
	}

	vars := make(map[string]string)
	table.ForEach(func(key, value lua.LValue) {
		name, ok := key.(lua.LString)
		if !ok {
			return
		}
		switch v := value.(type) {
		case lua.LString:
			vars[string(name)] = string(v)
		case lua.LNumber, lua.LBool:
			vars[string(name)] = v.String()
		}
	})
	return vars, nil
}
