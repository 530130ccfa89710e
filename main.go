package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/quickdoc/qbk/qbk"
)

// buildConfig assembles the compiler configuration from the command line
// and the optional qbk.yaml defaults file. Explicit flags always win.
func buildConfig(c *cli.Context) *qbk.Config {
	cfg := qbk.NewConfig()

	if c.Bool("html") {
		cfg.Encoding = qbk.EncodingHTML
	}
	if c.Bool("boostbook") {
		cfg.Encoding = qbk.EncodingBoostbook
	}
	cfg.PrettyPrint = !c.Bool("no-pretty-print")
	if c.IsSet("indent") {
		cfg.Indent = c.Int("indent")
	}
	if c.IsSet("linewidth") {
		cfg.LineWidth = c.Int("linewidth")
	}
	cfg.Defines = c.StringSlice("define")
	cfg.IncludePath = c.StringSlice("include-path")
	cfg.MSErrors = c.Bool("ms-errors")
	cfg.Debug = c.Bool("debug")
	if cfg.Debug {
		// Reproducible output for comparing runs
		cfg.Now = qbk.FixedTimestamp()
	}

	cfg.LoadDefaultsFile("qbk.yaml")
	return cfg
}

// compile processes one input file and writes the generated document.
func compile(inputFileName string, outputFileName string, cfg *qbk.Config, sugar *zap.SugaredLogger) error {
	out, status := qbk.Process(inputFileName, cfg, os.Stderr, sugar)
	if status != 0 {
		return cli.Exit("", status)
	}
	err := os.WriteFile(outputFileName, out, 0664)
	if err != nil {
		return err
	}
	fmt.Printf("generated %v\n", outputFileName)
	return nil
}

// processWatch checks periodically if the input file has been modified, and if so
// it processes the file and writes the result to the output file.
func processWatch(inputFileName string, outputFileName string, cfg *qbk.Config, sugar *zap.SugaredLogger) error {

	var old_timestamp time.Time
	var current_timestamp time.Time

	// Loop forever
	for {

		// Get the modified timestamp of the input file
		info, err := os.Stat(inputFileName)
		if err != nil {
			return err
		}
		current_timestamp = info.ModTime()

		// If current modified timestamp is newer than the previous timestamp, process the file
		if old_timestamp.Before(current_timestamp) {
			old_timestamp = current_timestamp
			fmt.Println("************Processing*************")
			out, status := qbk.Process(inputFileName, cfg, os.Stderr, sugar)
			if status == 0 {
				err = os.WriteFile(outputFileName, out, 0664)
				if err != nil {
					return err
				}
				fmt.Printf("generated %v\n", outputFileName)
			}
		}

		// Check again in one second
		time.Sleep(1 * time.Second)

	}
}

// process is the main entry point of the program
func process(c *cli.Context) error {

	if !c.Args().Present() {
		return cli.Exit("no input file provided", 1)
	}
	inputFileName := c.Args().First()

	var z *zap.Logger
	var err error

	// Setup the logging system
	if c.Bool("debug") {
		z, err = zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
	} else {
		z, err = zap.NewProduction()
		if err != nil {
			panic(err)
		}
	}

	sugar := z.Sugar()
	defer sugar.Sync()

	cfg := buildConfig(c)

	// Generate the output file name
	outputFileName := c.String("output")
	if len(outputFileName) == 0 {
		outputFileName = cfg.OutputName(inputFileName)
	}

	// This is useful for development.
	// If the user specified to watch, loop forever processing the input file when modified
	if c.Bool("watch") {
		return processWatch(inputFileName, outputFileName, cfg, sugar)
	}

	fmt.Printf("processing %v and generating %v\n", inputFileName, outputFileName)
	return compile(inputFileName, outputFileName, cfg, sugar)
}

func main() {

	app := &cli.App{
		Name:      "qbk",
		Version:   "v0.1",
		Compiled:  time.Now(),
		Usage:     "compile a quickbook document into BoostBook XML or HTML",
		UsageText: "qbk [options] INPUT_FILE",
		Action:    process,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the generated document to `FILE` (default is input file name with the encoding extension)",
			},
			&cli.BoolFlag{
				Name:  "html",
				Usage: "generate HTML output",
			},
			&cli.BoolFlag{
				Name:  "boostbook",
				Usage: "generate BoostBook XML output (the default)",
			},
			&cli.BoolFlag{
				Name:  "no-pretty-print",
				Usage: "disable the structural reformatting of the output",
			},
			&cli.IntFlag{
				Name:  "indent",
				Usage: "indentation `SPACES` used by the pretty printer",
			},
			&cli.IntFlag{
				Name:  "linewidth",
				Usage: "target line `WIDTH` used by the pretty printer",
			},
			&cli.StringSliceFlag{
				Name:    "include-path",
				Aliases: []string{"I"},
				Usage:   "add `DIR` to the search path of the include directive",
			},
			&cli.StringSliceFlag{
				Name:    "define",
				Aliases: []string{"D"},
				Usage:   "predefine the macro `NAME=VALUE` before the document is parsed",
			},
			&cli.BoolFlag{
				Name:  "ms-errors",
				Usage: "use Microsoft Visual Studio style error and warning messages",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "run in debug mode with a fixed timestamp and verbose logging",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "watch the input file for changes",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		panic(err)
	}

}
