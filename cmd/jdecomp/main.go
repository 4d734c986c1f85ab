// jdecomp prints Java-like source for the straight-line methods of class
// files, jars, zips and gzipped tarballs.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/tebeka/atexit"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("jdecomp")

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil:
		atexit.Exit(0)
	case errors.Is(err, flag.ErrHelp):
		atexit.Exit(0)
	case errors.Is(err, errUsage):
		atexit.Exit(2)
	default:
		atexit.Fatalf("jdecomp: %v", err)
	}
}

// verbosity maps the -v flag onto commonlog verbosity levels.
func verbosity(verbose bool) int {
	if verbose {
		return 2
	}
	return -1
}

func configureLogging(verbose bool) {
	commonlog.Configure(verbosity(verbose), nil)
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		w := fs.Output()
		fmt.Fprintf(w, "Usage: jdecomp [options] <file.class|file.jar|file.zip|file.tgz>...\n\n")
		fmt.Fprintf(w, "Decompiles straight-line method bodies to Java-like source.\n\n")
		fmt.Fprintf(w, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(w, "\nExamples:\n")
		fmt.Fprintf(w, "  jdecomp Point.class                 # Print source\n")
		fmt.Fprintf(w, "  jdecomp -format json -disasm app.jar # JSON report with bytecode\n")
		fmt.Fprintf(w, "  jdecomp -summary -strict lib.tgz     # Fail on the first bad method\n")
	}
}
