package compiler

import "testing"

func TestDefine(t *testing.T) {
	expected := map[string]Symbol{
		"a": {Name: "a", Scope: GlobalScope, Index: 0},
		"b": {Name: "b", Scope: GlobalScope, Index: 1},
		"c": {Name: "c", Scope: LocalScope, Index: 0},
		"d": {Name: "d", Scope: LocalScope, Index: 1},
		"e": {Name: "e", Scope: LocalScope, Index: 0},
		"f": {Name: "f", Scope: LocalScope, Index: 1},
	}

	global := NewSymbolTable()

	a := global.Define("a")
	if a != expected["a"] {
		t.Fatalf("expected a=%+v, got=%+v", expected["a"], a)
	}

	b := global.Define("b")
	if b != expected["b"] {
		t.Fatalf("expected b=%+v, got=%+v", expected["b"], b)
	}

	firstLocal := NewEnclosedSymbolTable(global)

	c := firstLocal.Define("c")
	if c != expected["c"] {
		t.Fatalf("expected c=%+v, got=%+v", expected["c"], c)
	}

	d := firstLocal.Define("d")
	if d != expected["d"] {
		t.Fatalf("expected d=%+v, got=%+v", expected["d"], d)
	}

	secondLocal := NewEnclosedSymbolTable(firstLocal)

	e := secondLocal.Define("e")
	if e != expected["e"] {
		t.Fatalf("expected e=%+v, got=%+v", expected["e"], e)
	}

	f := secondLocal.Define("f")
	if f != expected["f"] {
		t.Fatalf("expected f=%+v, got=%+v", expected["f"], f)
	}
}

func TestResolveGlobal(t *testing.T) {
	global := NewSymbolTable()
	global.Define("a")
	global.Define("b")

	expected := []Symbol{
		{Name: "a", Scope: GlobalScope, Index: 0},
		{Name: "b", Scope: GlobalScope, Index: 1},
	}

	for _, sym := range expected {
		result, ok := global.Resolve(sym.Name)
		if !ok {
			t.Fatalf("name %s not resolvable", sym.Name)
		}
		if result != sym {
			t.Fatalf("expected %s to resolve to %+v, got=%+v", sym.Name, sym, result)
		}
	}
}

func TestResolveLocal(t *testing.T) {
	global := NewSymbolTable()
	global.Define("a")
	global.Define("b")

	local := NewEnclosedSymbolTable(global)
	local.Define("c")
	local.Define("d")

	expected := []Symbol{
		{Name: "a", Scope: GlobalScope, Index: 0},
		{Name: "b", Scope: GlobalScope, Index: 1},
		{Name: "c", Scope: LocalScope, Index: 0},
		{Name: "d", Scope: LocalScope, Index: 1},
	}

	for _, sym := range expected {
		result, ok := local.Resolve(sym.Name)
		if !ok {
			t.Fatalf("name %s not resolvable", sym.Name)
		}
		if result != sym {
			t.Fatalf("expected %s to resolve to %+v, got=%+v", sym.Name, sym, result)
		}
	}
}

func TestResolveFree(t *testing.T) {
	global := NewSymbolTable()
	global.Define("a")

	firstLocal := NewEnclosedSymbolTable(global)
	firstLocal.Define("b")

	secondLocal := NewEnclosedSymbolTable(firstLocal)
	secondLocal.Define("c")

	c, ok := secondLocal.Resolve("b")
	if !ok {
		t.Fatalf("expected b to resolve from secondLocal")
	}
	if c.Scope != FreeScope || c.Index != 0 {
		t.Fatalf("expected b to resolve as free symbol 0, got=%+v", c)
	}

	if len(secondLocal.FreeSymbols) != 1 {
		t.Fatalf("expected 1 free symbol, got=%d", len(secondLocal.FreeSymbols))
	}
	if secondLocal.FreeSymbols[0].Name != "b" {
		t.Fatalf("expected free symbol b, got=%s", secondLocal.FreeSymbols[0].Name)
	}
}

func TestDefineBuiltin(t *testing.T) {
	global := NewSymbolTable()

	expected := []Symbol{
		{Name: "len", Scope: BuiltinScope, Index: 0},
		{Name: "print", Scope: BuiltinScope, Index: 1},
	}

	for i, sym := range expected {
		global.DefineBuiltin(i, sym.Name)
	}

	for _, sym := range expected {
		result, ok := global.Resolve(sym.Name)
		if !ok {
			t.Fatalf("name %s not resolvable", sym.Name)
		}
		if result != sym {
			t.Fatalf("expected %s to resolve to %+v, got=%+v", sym.Name, sym, result)
		}
	}
}

func TestDefineFunctionName(t *testing.T) {
	global := NewSymbolTable()
	global.DefineFunctionName("fib")

	expected := Symbol{Name: "fib", Scope: FunctionScope, Index: 0}
	result, ok := global.Resolve("fib")
	if !ok {
		t.Fatalf("function name not resolvable")
	}
	if result != expected {
		t.Fatalf("expected %+v, got=%+v", expected, result)
	}
}
