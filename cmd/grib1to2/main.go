// Package main provides grib1to2, a command-line driver that reads a
// stream of GRIB1 messages and writes their GRIB2 translation.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"

	"github.com/nimbus-grib/gribconv"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <input.grib1> <output.grib2>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Translate a GRIB1 message stream to GRIB2.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s in.grib1 out.grib2          # Translate\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -logtostderr in.grib1 out.grib2\n", os.Args[0])
	}

	input, output := parseCommandLineArgs()

	in, err := os.Open(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening input: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := in.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close input: %v\n", err)
		}
	}()

	out, err := os.Create(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := out.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output: %v\n", err)
		}
	}()

	session := gribconv.NewSession()
	count, warnings, err := session.ConvertGRIB1ToGRIB2(in, out)
	for _, w := range warnings {
		glog.Warningf("%v", w)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Number of GRIB2 grids written to output: %d\n", count)
}

// parseCommandLineArgs allows flags anywhere on the command line, in the
// style of gribinfo, and returns the two required positional arguments.
func parseCommandLineArgs() (input, output string) {
	var positional []string
	var flagArgs []string

	for i := 1; i < len(os.Args); i++ {
		arg := os.Args[i]
		if strings.HasPrefix(arg, "-") {
			flagArgs = append(flagArgs, arg)
		} else {
			positional = append(positional, arg)
		}
	}

	if err := flag.CommandLine.Parse(flagArgs); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if len(positional) != 2 {
		flag.Usage()
		os.Exit(1)
	}

	return positional[0], positional[1]
}
