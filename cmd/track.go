package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quietloop/asdep/internal/config"
	"github.com/quietloop/asdep/internal/elfnote"
	"github.com/quietloop/asdep/internal/tracker"
)

var (
	flagOutFile    string
	flagDepOutput  string
	flagResultRoot string
	flagConfigPath string
	flagSHA1       bool
	flagSHA256     bool
	flagElfNotes   bool
)

var trackCmd = &cobra.Command{
	Use:   "track <output> <dependency>...",
	Short: "Register dependencies and write a make rule and OmniBOR manifests",
	Long: `track registers every dependency file path given on the command line
against a single output artifact, the way an assembler registers each input
file as it opens it. It then, as configured, writes a make dependency rule
and one OmniBOR manifest per enabled hash algorithm, printing each
manifest's hex gitoid — the artifact identifier a real assembler would
embed in the object it produces.

Examples:
  asdep track out.o a.c b.h
  asdep track out.o a.c b.h --dep-output out.d --result-root .omnibor`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().StringVar(&flagDepOutput, "dep-output", "", "path to write the make dependency rule to")
	trackCmd.Flags().StringVar(&flagResultRoot, "result-root", "", "root of the OmniBOR content-addressed store (overrides config)")
	trackCmd.Flags().StringVar(&flagConfigPath, "config", "asdep.toml", "path to a TOML config file")
	trackCmd.Flags().BoolVar(&flagSHA1, "sha1", false, "force SHA-1 OmniBOR manifest on (overrides config)")
	trackCmd.Flags().BoolVar(&flagSHA256, "sha256", false, "force SHA-256 OmniBOR manifest on (overrides config)")
	trackCmd.Flags().BoolVar(&flagElfNotes, "elf-notes", true, "read .note.omnibor sections from dependencies that are ELF objects")
}

func runTrack(cmd *cobra.Command, args []string) error {
	outFileName := args[0]
	deps := args[1:]

	cfg, err := config.Load(flagConfigPath, config.Config{ResultRoot: flagResultRoot, DepOutputPath: flagDepOutput})
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("sha1") {
		cfg.SHA1Enabled = flagSHA1
	}
	if cmd.Flags().Changed("sha256") {
		cfg.SHA256Enabled = flagSHA256
	}

	tr := tracker.New(logger)
	if cfg.DepOutputPath != "" {
		tr.StartDependencies(cfg.DepOutputPath)
	}
	if cfg.SHA1Enabled || cfg.SHA256Enabled {
		tr.EnableOmnibor()
	}

	for _, dep := range deps {
		tr.RegisterDependency(dep)
		if flagElfNotes {
			sha1Hex, sha256Hex, err := elfnote.ReadNoteOmnibor(dep)
			if err != nil {
				logger.Warnf("reading ELF notes from %q: %v", dep, err)
				continue
			}
			if sha1Hex != "" || sha256Hex != "" {
				tr.AddNoteSection(dep, sha1Hex, sha256Hex)
			}
		}
	}

	if err := tr.PrintDependencies(outFileName); err != nil {
		return fmt.Errorf("printing dependencies: %w", err)
	}

	if cfg.SHA1Enabled {
		hexID, err := tr.WriteSHA1Omnibor(cfg.ResultRoot)
		if err != nil {
			return fmt.Errorf("writing sha1 omnibor manifest: %w", err)
		}
		fmt.Fprintf(os.Stdout, "sha1 %s\n", hexID)
	}
	if cfg.SHA256Enabled {
		hexID, err := tr.WriteSHA256Omnibor(cfg.ResultRoot)
		if err != nil {
			return fmt.Errorf("writing sha256 omnibor manifest: %w", err)
		}
		fmt.Fprintf(os.Stdout, "sha256 %s\n", hexID)
	}

	return nil
}
