package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/pkg/profile"

	kaleido "go.kaleido.dev/pkg"
)

var cli struct {
	File       string `arg:"" optional:"" type:"existingfile" help:"Source file to compile. Reads stdin when omitted."`
	Prompt     string `default:"ready> " help:"Prompt printed in interactive mode."`
	CPUProfile bool   `help:"Write a CPU profile of the run to the working directory."`
}

func main() {
	ktx := kong.Parse(&cli,
		kong.Name("kaleido"),
		kong.Description("Compile kaleido source into LLVM IR."),
	)

	ktx.FatalIfErrorf(run())
}

func run() error {
	if cli.CPUProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	c := kaleido.NewCompiler()

	if cli.File != "" {
		return c.Compile(cli.File)
	}

	c.SetPrompt(cli.Prompt)

	return c.CompileFromReader(os.Stdin)
}
