package kaleido

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Compiler ties the front end together: it owns one module, reads one
// top-level construct at a time, lowers it, and prints the result. Parse
// and lowering failures are reported on the error writer and compilation
// continues; only a lexical error stops it.
type Compiler struct {
	builder Builder
	gen     *Codegen
	out     io.Writer
	errOut  io.Writer
	prompt  string
}

func NewCompiler() *Compiler {
	builder := NewLLVMBuilder()

	return &Compiler{
		builder: builder,
		gen:     NewCodegen(builder),
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
}

// SetOutput redirects construct renderings and the final module listing.
func (c *Compiler) SetOutput(w io.Writer) {
	c.out = w
}

// SetErrorOutput redirects the single-line error messages.
func (c *Compiler) SetErrorOutput(w io.Writer) {
	c.errOut = w
}

// SetPrompt makes the compiler print the given string before the first
// construct and after every bare ';', for interactive use.
func (c *Compiler) SetPrompt(prompt string) {
	c.prompt = prompt
}

func (c *Compiler) Compile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return c.CompileFromReader(f)
}

// CompileFromReader drives the top-level dispatch loop over one character
// stream. At end of input the accumulated module is rendered to the output
// writer and the returned error is nil.
func (c *Compiler) CompileFromReader(reader io.Reader) error {
	p := NewParser(NewLexer(reader))

	c.printPrompt()

	for {
		switch tok := p.peek(); {
		case tok.Typ == TokenEOF:
			fmt.Fprint(c.out, c.builder.Module().String())
			return nil
		case tok.Typ == TokenError:
			err := fmt.Errorf("%w: %s", ErrLexical, tok.Value)
			c.report(err)

			return err
		case tok.Typ == TokenDef:
			c.handleDefinition(p)
		case tok.Typ == TokenExtern:
			c.handleExtern(p)
		case tok.isChar(";"):
			// A bare semicolon does nothing except trigger a fresh prompt.
			p.next()
			c.printPrompt()
		default:
			c.handleTopLevelExpr(p)
		}
	}
}

func (c *Compiler) handleDefinition(p *Parser) {
	def, err := p.parseDefinition()
	if err != nil {
		c.recover(p, err)
		return
	}

	f, err := c.gen.Function(def)
	if err != nil {
		c.report(err)
		return
	}

	fmt.Fprintln(c.out, f.LLString())
}

func (c *Compiler) handleExtern(p *Parser) {
	proto, err := p.parseExtern()
	if err != nil {
		c.recover(p, err)
		return
	}

	fmt.Fprintln(c.out, c.gen.Prototype(proto).LLString())
}

// anonExprName is the reserved identity under which a bare top-level
// expression is lowered. It never survives in the module.
const anonExprName = "__anon_expr"

// handleTopLevelExpr lowers a bare expression as an anonymous nullary
// function, prints it, and erases it again so the module only accumulates
// named functions.
func (c *Compiler) handleTopLevelExpr(p *Parser) {
	def, err := p.parseTopLevelExpr()
	if err != nil {
		c.recover(p, err)
		return
	}

	def = &FuncDef{Proto: &Prototype{Name: anonExprName}, Body: def.Body}

	f, err := c.gen.Function(def)
	if err != nil {
		c.report(err)
		return
	}

	fmt.Fprintln(c.out, f.LLString())
	c.builder.Erase(f)
}

// recover reports a parse error and discards exactly one token before
// handing control back to the dispatch loop. One token is enough to
// guarantee progress, but a multi-token construct can leave the stream
// desynchronized: its remaining tokens are re-dispatched as if they started
// fresh constructs. That is accepted behavior, not a bug to fix here.
func (c *Compiler) recover(p *Parser, err error) {
	if errors.Is(err, ErrLexical) {
		// The dispatch loop sees the terminal token next and aborts with
		// this same error; reporting here would print it twice.
		return
	}

	c.report(err)
	p.next()
}

func (c *Compiler) report(err error) {
	fmt.Fprintf(c.errOut, "error: %v\n", err)
}

func (c *Compiler) printPrompt() {
	if c.prompt != "" {
		fmt.Fprint(c.out, c.prompt)
	}
}
