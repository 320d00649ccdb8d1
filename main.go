// koa compiles koa programming language source into bytecode and runs it in a virtual
// machine, or interprets it directly with a tree-walking evaluator.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/arjunsahay/koa/ast"
	"github.com/arjunsahay/koa/compiler"
	"github.com/arjunsahay/koa/evaluator"
	"github.com/arjunsahay/koa/lexer"
	"github.com/arjunsahay/koa/object"
	"github.com/arjunsahay/koa/parser"
	"github.com/arjunsahay/koa/repl"
	"github.com/arjunsahay/koa/vm"
)

const version = "0.1.0"

// printUsage displays custom usage information
func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, `koa Programming Language v%s

USAGE:
    %s [OPTIONS] [FILE.my]

DESCRIPTION:
    koa compiles koa source into bytecode and runs it in a virtual machine, or
    interprets it directly with a tree-walking evaluator. Without any flags or a
    positional file argument, it starts an interactive REPL.

OPTIONS:
    --benchmark              Run the fibonacci benchmark against both backends
    --eval                   Use the tree-walking evaluator instead of the VM
    -x, --expr <code>        Evaluate a koa expression and print the result
    -d, --debug              Enable debug mode with more verbose output
    -v, --version            Show version information
    -h, --help                Show this help message

EXAMPLES:
    # Start interactive REPL (VM backend)
    %s

    # Start interactive REPL using the tree-walking evaluator
    %s --eval

    # Execute a script file
    %s script.my

    # Evaluate an expression
    %s -x "let x = 5; x * 2"

    # Run the benchmark harness
    %s --benchmark

`, version, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}

func main() {
	flag.Usage = printUsage

	benchmarkFlag := flag.Bool("benchmark", false, "Run the fibonacci benchmark against both backends")
	evalFlag := flag.Bool("eval", false, "Use the tree-walking evaluator instead of the VM")
	exprFlag := flag.String("expr", "", "Evaluate a koa expression and print the result")
	debugFlag := flag.Bool("debug", false, "Enable debug mode with more verbose output")
	versionFlag := flag.Bool("version", false, "Show version information")

	flag.StringVar(exprFlag, "x", "", "Evaluate a koa expression and print the result")
	flag.BoolVar(debugFlag, "d", false, "Enable debug mode with more verbose output")
	flag.BoolVar(versionFlag, "v", false, "Show version information")

	flag.Parse()

	if *versionFlag {
		fmt.Printf("koa v%s\n", version)
		return
	}

	if *benchmarkFlag {
		runBenchmark()
		return
	}

	if *exprFlag != "" {
		evaluateExpression(*exprFlag, *evalFlag, *debugFlag)
		return
	}

	if arg := flag.Arg(0); arg != "" && strings.HasSuffix(arg, ".my") {
		executeFile(arg, *evalFlag, *debugFlag)
		return
	}

	username := "unknown"
	if usr, err := user.Current(); err == nil {
		username = usr.Username
	}

	fmt.Println("Hello", username+",", "welcome to the koa REPL!")
	fmt.Println("Feel free to type in koa code. (Ctrl+D or Ctrl+C to exit)")

	repl.Start(username, repl.Options{Debug: *debugFlag, UseEvaluator: *evalFlag})
}

// executeFile reads, parses, and runs a koa script file, then exits.
func executeFile(filename string, useEvaluator, debug bool) {
	cleaned := filepath.Clean(filename)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		fmt.Printf("Error getting absolute path: %s\n", err)
		os.Exit(1)
	}

	//nolint:gosec // We're not reading arbitrary user input here, just the named script.
	content, err := os.ReadFile(absolute)
	if err != nil {
		fmt.Printf("Error reading file: %s\n", err)
		os.Exit(1)
	}

	program, ok := parseProgram(string(content))
	if !ok {
		os.Exit(1)
	}

	result, err := runProgram(program, useEvaluator)
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}

	if debug && result != nil {
		fmt.Println(result.Inspect())
	}
}

// evaluateExpression evaluates a single koa expression and prints the result.
func evaluateExpression(expr string, useEvaluator, debug bool) {
	program, ok := parseProgram(expr)
	if !ok {
		os.Exit(1)
	}

	result, err := runProgram(program, useEvaluator)
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}

	if result != nil {
		fmt.Println(result.Inspect())
	}

	if debug {
		fmt.Printf("DEBUG: backend=%s\n", backendName(useEvaluator))
	}
}

// runBenchmark runs a fixed recursive-fibonacci workload through both the
// evaluator and the VM, printing the wall-clock time each backend took.
func runBenchmark() {
	const input = `
let fibonacci = fn(x) {
  if (x == 0) {
    0
  } else {
    if (x == 1) {
      1
    } else {
      fibonacci(x - 1) + fibonacci(x - 2)
    }
  }
};
fibonacci(30);
`

	program, ok := parseProgram(input)
	if !ok {
		os.Exit(1)
	}

	evalStart := time.Now()
	env := object.NewEnvironment()
	evaluator.Eval(program, env)
	evalDuration := time.Since(evalStart)

	comp := compiler.New()
	if err := comp.Compile(program); err != nil {
		fmt.Printf("Compilation error: %s\n", err)
		os.Exit(1)
	}

	vmStart := time.Now()
	machine := vm.New(comp.Bytecode())
	if err := machine.Run(); err != nil {
		fmt.Printf("VM error: %s\n", err)
		os.Exit(1)
	}
	vmDuration := time.Since(vmStart)

	fmt.Printf("evaluator: fibonacci(30) in %s\n", evalDuration)
	fmt.Printf("vm:        fibonacci(30) in %s\n", vmDuration)
}

// parseProgram lexes and parses input, printing and reporting any parser errors.
func parseProgram(input string) (*ast.Program, bool) {
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()

	if len(p.Errors()) != 0 {
		printParserErrors(p.Errors())
		return nil, false
	}
	return program, true
}

// runProgram executes program with the VM backend, or the tree-walking
// evaluator when useEvaluator is set.
func runProgram(program *ast.Program, useEvaluator bool) (object.Object, error) {
	if useEvaluator {
		env := object.NewEnvironment()
		result := evaluator.Eval(program, env)
		if result != nil && result.Type() == object.ERROR_OBJ {
			return nil, fmt.Errorf("%s", result.Inspect())
		}
		return result, nil
	}

	comp := compiler.New()
	if err := comp.Compile(program); err != nil {
		return nil, fmt.Errorf("compilation error: %w", err)
	}

	machine := vm.New(comp.Bytecode())
	if err := machine.Run(); err != nil {
		return nil, fmt.Errorf("vm error: %w", err)
	}

	return machine.LastPoppedStackItem(), nil
}

func backendName(useEvaluator bool) string {
	if useEvaluator {
		return "evaluator"
	}
	return "vm"
}

// printParserErrors prints parser errors to stderr
func printParserErrors(errors []string) {
	_, _ = fmt.Fprintln(os.Stderr, "Parser errors:")
	for _, msg := range errors {
		_, _ = fmt.Fprintln(os.Stderr, "\t"+msg)
	}
}
